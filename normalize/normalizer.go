package normalize

import (
	"fmt"
	"time"

	"adscope/types"
)

// isoMillis matches JavaScript's Date.toISOString, which is what downstream
// consumers of start_date/end_date were built against.
const isoMillis = "2006-01-02T15:04:05.000Z"

// MalformedRecordError reports a raw record missing a field the normalizer
// cannot proceed without. It is fatal to that record only, never to a batch.
type MalformedRecordError struct {
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed ad record: field %q %s", e.Field, e.Reason)
}

// Normalize converts one raw Ad Library record into a brand, an ad and its
// media assets, matching page categories against vocabulary. It is pure: the
// same record and vocabulary always produce identical output, and concurrent
// calls need no coordination.
func Normalize(record types.RawAdRecord, vocabulary []string) (*types.NormalizedAd, error) {
	raw := map[string]any(record)

	snapshot, ok := Dig(raw, "snapshot").(map[string]any)
	if !ok {
		return nil, &MalformedRecordError{Field: "snapshot", Reason: "is missing"}
	}

	archiveID := digStringish(raw, "ad_archive_id")
	if archiveID == nil {
		return nil, &MalformedRecordError{Field: "ad_archive_id", Reason: "is missing"}
	}

	startDate, err := epochToISO(raw, "start_date")
	if err != nil {
		return nil, err
	}
	endDate, err := epochToISO(raw, "end_date")
	if err != nil {
		return nil, err
	}

	// The pre-display payload sometimes carries a richer page descriptor than
	// the snapshot. Every link on the way down is optional.
	rich := Dig(raw, "page", "jsmods", "pre_display_requires", 0, 3, 1, "__bbox", "result", "data")

	liveStatus := "inactive"
	if active, _ := Dig(raw, "is_active").(bool); active {
		liveStatus = "active"
	}

	ad := types.Ad{
		PlatformID:         *archiveID,
		AdCopy:             digString(snapshot, "body", "text"),
		CountryCode:        countryCode(snapshot),
		Categories:         matchCategories(snapshot, vocabulary),
		LiveStatus:         liveStatus,
		CTAType:            digString(snapshot, "cta_type"),
		CTAText:            digString(snapshot, "cta_text"),
		CTALink:            digString(snapshot, "link_url"),
		Tags:               []string{},
		PublisherPlatforms: digStrings(raw, "publisher_platform"),
		StartDate:          startDate,
		EndDate:            endDate,
		RawData:            record,
	}

	return &types.NormalizedAd{
		Brand:  buildBrand(rich, snapshot),
		Ad:     ad,
		Assets: buildAssets(snapshot),
	}, nil
}

func buildBrand(rich any, snapshot map[string]any) types.Brand {
	return types.Brand{
		Name:    coalesce(digString(rich, "page", "name"), digString(snapshot, "page_name")),
		LogoURL: coalesce(digString(rich, "page", "profile_pic_uri"), digString(snapshot, "page_profile_picture_url")),
		Category: coalesce(
			digString(rich, "ad_library_page_info", "page_info", "page_category"),
			digString(snapshot, "page_categories", 0),
		),
		Platform:    types.PlatformFacebook,
		PlatformID:  coalesce(digStringish(rich, "page", "id"), digStringish(snapshot, "page_id")),
		PlatformURL: coalesce(digString(rich, "page", "url"), digString(snapshot, "page_profile_uri")),
	}
}

// matchCategories runs every page category label through the matcher. Hits
// are kept in label order and not deduplicated, so two labels matching the
// same vocabulary entry yield two entries.
func matchCategories(snapshot map[string]any, vocabulary []string) []string {
	matched := []string{}
	for _, label := range digStrings(snapshot, "page_categories") {
		if m, ok := FindBestMatch(vocabulary, label); ok {
			matched = append(matched, m)
		}
	}
	return matched
}

func countryCode(snapshot map[string]any) []string {
	if iso := digString(snapshot, "country_iso_code"); iso != nil {
		return []string{*iso}
	}
	return []string{}
}

// buildAssets uses exactly one source branch: cards when present, otherwise
// the union of snapshot images and videos. Never both.
func buildAssets(snapshot map[string]any) []types.MediaAsset {
	if cards := digSlice(snapshot, "cards"); len(cards) > 0 {
		return cardAssets(cards)
	}

	assets := []types.MediaAsset{}
	for _, img := range digSlice(snapshot, "images") {
		assets = append(assets, types.MediaAsset{
			ThumbnailURL: digString(img, "resized_image_url"),
			MediaHDURL:   digString(img, "original_image_url"),
			MediaType:    types.MediaTypeImage,
		})
	}
	for _, vid := range digSlice(snapshot, "videos") {
		assets = append(assets, types.MediaAsset{
			ThumbnailURL: digString(vid, "video_preview_image_url"),
			MediaSDURL:   digString(vid, "video_sd_url"),
			MediaHDURL:   digString(vid, "video_hd_url"),
			MediaType:    types.MediaTypeVideo,
		})
	}
	return assets
}

func cardAssets(cards []any) []types.MediaAsset {
	assets := []types.MediaAsset{}
	for _, card := range cards {
		if original := digString(card, "original_image_url"); original != nil {
			assets = append(assets, types.MediaAsset{
				ThumbnailURL: digString(card, "resized_image_url"),
				MediaHDURL:   original,
				MediaType:    types.MediaTypeImage,
			})
			continue
		}
		if hd := digString(card, "video_hd_url"); hd != nil {
			assets = append(assets, types.MediaAsset{
				ThumbnailURL: digString(card, "video_preview_image_url"),
				MediaSDURL:   digString(card, "video_sd_url"),
				MediaHDURL:   hd,
				MediaType:    types.MediaTypeVideo,
			})
		}
		// cards with neither field carry no creative and are skipped
	}
	return assets
}

// epochToISO converts an epoch-seconds field to an ISO-8601 UTC timestamp
// with millisecond precision. Non-numeric fields fail the record.
func epochToISO(raw map[string]any, field string) (string, error) {
	secs, ok := Dig(raw, field).(float64)
	if !ok {
		return "", &MalformedRecordError{Field: field, Reason: "is not a number"}
	}
	return time.UnixMilli(int64(secs * 1000)).UTC().Format(isoMillis), nil
}

func coalesce(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
