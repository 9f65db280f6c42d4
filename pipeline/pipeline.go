package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"

	"adscope/assets"
	"adscope/normalize"
	"adscope/store"
	"adscope/types"
)

// AssetUploader fetches and stores one selected creative. Failures come back
// as data on the result, never as an error.
type AssetUploader interface {
	FetchAndStore(ctx context.Context, download assets.Download) types.UploadResult
}

// Enricher produces the AI layer for one video ad.
type Enricher interface {
	EnrichVideo(ctx context.Context, videoURL string, ad types.Ad) (*types.Enrichment, error)
}

// Persister writes the final batch row.
type Persister interface {
	InsertTrackingResult(ctx context.Context, row store.TrackingRow) error
}

// Pipeline turns a batch of raw scraped records into one persisted tracking
// result. Normalization and matching are pure; everything with a network
// surface sits behind the collaborator interfaces above.
type Pipeline struct {
	uploader      AssetUploader
	enricher      Enricher
	persister     Persister
	maxConcurrent int
}

// New builds a pipeline. uploader, enricher and persister may each be nil,
// in which case the corresponding stage is skipped.
func New(uploader AssetUploader, enricher Enricher, persister Persister, maxConcurrent int) *Pipeline {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Pipeline{
		uploader:      uploader,
		enricher:      enricher,
		persister:     persister,
		maxConcurrent: maxConcurrent,
	}
}

// Run processes every record independently and then persists a single batch
// row. A malformed record, failed upload or failed enrichment is confined to
// its own AdResult; only the final insert can fail the batch.
func (p *Pipeline) Run(ctx context.Context, req types.TrackRequest, records []types.RawAdRecord, vocabulary []string) (*types.TrackResult, error) {
	results := make([]types.AdResult, len(records))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, p.maxConcurrent)

	for i, record := range records {
		wg.Add(1)
		go func(idx int, record types.RawAdRecord) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[idx] = p.processRecord(ctx, record, vocabulary)
		}(i, record)
	}
	wg.Wait()

	result := aggregate(results)

	if p.persister != nil {
		row := store.TrackingRow{
			PageID:    result.PageID,
			FolderID:  req.FolderID,
			UserID:    req.UserID,
			Ads:       result.Ads,
			Uploads:   result.Uploads,
			BrandName: result.BrandName,
			BrandLogo: result.BrandLogo,
		}
		if err := p.persister.InsertTrackingResult(ctx, row); err != nil {
			return nil, fmt.Errorf("persist tracking result: %w", err)
		}
	}

	return result, nil
}

// processRecord runs one record end to end. Its outcome is independent of
// every other record in the batch.
func (p *Pipeline) processRecord(ctx context.Context, record types.RawAdRecord, vocabulary []string) types.AdResult {
	normalized, err := normalize.Normalize(record, vocabulary)
	if err != nil {
		return types.AdResult{Error: err.Error()}
	}

	result := types.AdResult{Normalized: normalized}

	if p.uploader != nil {
		downloads := assets.SelectDownloads(normalized.Brand, normalized.Assets)
		result.Uploads = make([]types.UploadResult, 0, len(downloads))
		for _, download := range downloads {
			result.Uploads = append(result.Uploads, p.uploader.FetchAndStore(ctx, download))
		}
	}

	result.Enrichment = p.enrich(ctx, normalized)
	return result
}

// enrich runs the AI layer over the ad's first downloadable video. Failures
// degrade to an empty enrichment; they never abort the record.
func (p *Pipeline) enrich(ctx context.Context, normalized *types.NormalizedAd) *types.Enrichment {
	if p.enricher == nil {
		return emptyEnrichment()
	}

	for _, asset := range normalized.Assets {
		if asset.MediaType != types.MediaTypeVideo || asset.MediaSDURL == nil {
			continue
		}

		enrichment, err := p.enricher.EnrichVideo(ctx, *asset.MediaSDURL, normalized.Ad)
		if err != nil {
			log.Printf("Enrichment failed for ad %s: %v", normalized.Ad.PlatformID, err)
			return emptyEnrichment()
		}
		return enrichment
	}

	return emptyEnrichment()
}

func emptyEnrichment() *types.Enrichment {
	return &types.Enrichment{Transcript: nil, Hooks: []string{}}
}

// aggregate flattens the per-record results into the request-level view. The
// CTA list is built here, scoped to this request alone.
func aggregate(results []types.AdResult) *types.TrackResult {
	result := &types.TrackResult{
		Ads:           results,
		Uploads:       []types.UploadResult{},
		CallToActions: []string{},
	}

	for _, r := range results {
		result.Uploads = append(result.Uploads, r.Uploads...)
		if r.Normalized == nil {
			continue
		}

		if r.Normalized.Ad.CTAText != nil {
			result.CallToActions = append(result.CallToActions, *r.Normalized.Ad.CTAText)
		}

		// The first successfully normalized record names the page and brand.
		if result.BrandName == nil && r.Normalized.Brand.Name != nil {
			result.BrandName = r.Normalized.Brand.Name
		}
		if result.PageID == "" && r.Normalized.Brand.PlatformID != nil {
			result.PageID = *r.Normalized.Brand.PlatformID
		}
		// The logo is always the first selected download when the brand has one.
		if result.BrandLogo == nil && r.Normalized.Brand.LogoURL != nil && len(r.Uploads) > 0 {
			if logo := r.Uploads[0]; logo.Error == "" {
				result.BrandLogo = &logo
			}
		}
	}

	return result
}
