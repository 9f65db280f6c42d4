package store

import (
	"context"
	"encoding/json"
	"fmt"

	"adscope/types"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the Supabase-hosted Postgres persistence layer.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects a pgx pool to connString (DATABASE_URL).
func NewStore(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// CategoryVocabulary returns the ordered category codes ads are matched
// against. An empty table is valid and yields zero matches everywhere.
func (s *Store) CategoryVocabulary(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT code
		FROM categories
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	vocabulary := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		vocabulary = append(vocabulary, code)
	}
	return vocabulary, rows.Err()
}

// TrackingRow is one persisted ad-tracking request.
type TrackingRow struct {
	PageID    string
	FolderID  string
	UserID    string
	Ads       []types.AdResult
	Uploads   []types.UploadResult
	BrandName *string
	BrandLogo *types.UploadResult
}

// InsertTrackingResult persists the whole request as a single row. The
// store's error surfaces to the caller verbatim; there is no partial retry.
func (s *Store) InsertTrackingResult(ctx context.Context, row TrackingRow) error {
	adsJSON, err := json.Marshal(row.Ads)
	if err != nil {
		return fmt.Errorf("marshal ads: %w", err)
	}
	uploadsJSON, err := json.Marshal(row.Uploads)
	if err != nil {
		return fmt.Errorf("marshal uploads: %w", err)
	}
	var logoJSON []byte
	if row.BrandLogo != nil {
		if logoJSON, err = json.Marshal(row.BrandLogo); err != nil {
			return fmt.Errorf("marshal brand logo: %w", err)
		}
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO ad_tracking (page_id, folder_id, user_id, ads, uploaded_assets, brand_name, brand_logo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	`, row.PageID, row.FolderID, row.UserID, adsJSON, uploadsJSON, row.BrandName, logoJSON)
	if err != nil {
		return fmt.Errorf("insert tracking result: %w", err)
	}
	return nil
}

// StoredAd is the slice of an ads row the status refresher needs.
type StoredAd struct {
	ID        int64
	ArchiveID string
}

// CountAds reports how many ads rows exist, so refresh jobs know when their
// paging window has run past the end.
func (s *Store) CountAds(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM ads`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count ads: %w", err)
	}
	return count, nil
}

// AdsPage returns a window of stored ads, newest first, with their archive
// ids pulled out of the raw record.
func (s *Store) AdsPage(ctx context.Context, offset, limit int) ([]StoredAd, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, raw_data->>'ad_archive_id'
		FROM ads
		WHERE raw_data ? 'ad_archive_id'
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("query ads page: %w", err)
	}
	defer rows.Close()

	var ads []StoredAd
	for rows.Next() {
		var ad StoredAd
		if err := rows.Scan(&ad.ID, &ad.ArchiveID); err != nil {
			return nil, err
		}
		ads = append(ads, ad)
	}
	return ads, rows.Err()
}

// UpdateLiveStatus flips one ad's live_status.
func (s *Store) UpdateLiveStatus(ctx context.Context, id int64, status string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE ads SET live_status = $2 WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("update live_status for ad %d: %w", id, err)
	}
	return nil
}
