package normalize

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"adscope/types"
)

func recordFromJSON(t *testing.T, raw string) types.RawAdRecord {
	t.Helper()
	var rec types.RawAdRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return rec
}

const videoRecordJSON = `{
	"ad_archive_id": 920637682913838,
	"is_active": true,
	"publisher_platform": ["FACEBOOK", "INSTAGRAM"],
	"start_date": 1739174400,
	"end_date": 1739260800,
	"snapshot": {
		"body": {"text": "Run faster. Recover quicker."},
		"page_name": "Acme Athletics",
		"page_profile_picture_url": "https://cdn.example.com/logo.png",
		"page_categories": ["Clothing (Brand)", "Shoes"],
		"page_id": 555001,
		"page_profile_uri": "https://facebook.com/acme",
		"country_iso_code": "US",
		"cta_type": "SHOP_NOW",
		"cta_text": "Shop now",
		"link_url": "https://acme.example.com/sale",
		"videos": [{
			"video_preview_image_url": "https://cdn.example.com/thumb.jpg",
			"video_sd_url": "https://cdn.example.com/ad_sd.mp4",
			"video_hd_url": "https://cdn.example.com/ad_hd.mp4"
		}]
	}
}`

func TestNormalizeVideoRecord(t *testing.T) {
	rec := recordFromJSON(t, videoRecordJSON)
	vocab := []string{"apparel", "footwear", "shoes"}

	got, err := Normalize(rec, vocab)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if got.Ad.PlatformID != "920637682913838" {
		t.Errorf("platform_id = %q", got.Ad.PlatformID)
	}
	if got.Ad.LiveStatus != "active" {
		t.Errorf("live_status = %q", got.Ad.LiveStatus)
	}
	if got.Ad.StartDate != "2025-02-10T08:00:00.000Z" {
		t.Errorf("start_date = %q", got.Ad.StartDate)
	}
	if got.Ad.EndDate != "2025-02-11T08:00:00.000Z" {
		t.Errorf("end_date = %q", got.Ad.EndDate)
	}
	if got.Ad.AdCopy == nil || *got.Ad.AdCopy != "Run faster. Recover quicker." {
		t.Errorf("ad_copy = %v", got.Ad.AdCopy)
	}
	if !reflect.DeepEqual(got.Ad.CountryCode, []string{"US"}) {
		t.Errorf("country_code = %v", got.Ad.CountryCode)
	}
	if !reflect.DeepEqual(got.Ad.PublisherPlatforms, []string{"FACEBOOK", "INSTAGRAM"}) {
		t.Errorf("publisher_platforms = %v", got.Ad.PublisherPlatforms)
	}
	if len(got.Ad.Tags) != 0 {
		t.Errorf("tags should stay empty, got %v", got.Ad.Tags)
	}
	// "Clothing (Brand)" matches nothing in vocab, "Shoes" matches "shoes".
	if !reflect.DeepEqual(got.Ad.Categories, []string{"shoes"}) {
		t.Errorf("categories = %v", got.Ad.Categories)
	}

	if got.Brand.Platform != types.PlatformFacebook {
		t.Errorf("brand platform = %q", got.Brand.Platform)
	}
	if got.Brand.Name == nil || *got.Brand.Name != "Acme Athletics" {
		t.Errorf("brand name = %v", got.Brand.Name)
	}
	if got.Brand.PlatformID == nil || *got.Brand.PlatformID != "555001" {
		t.Errorf("brand platform_id = %v", got.Brand.PlatformID)
	}
	if got.Brand.Category == nil || *got.Brand.Category != "Clothing (Brand)" {
		t.Errorf("brand category = %v", got.Brand.Category)
	}

	if len(got.Assets) != 1 {
		t.Fatalf("assets = %v", got.Assets)
	}
	asset := got.Assets[0]
	if asset.MediaType != types.MediaTypeVideo {
		t.Errorf("media_type = %q", asset.MediaType)
	}
	if asset.MediaSDURL == nil || *asset.MediaSDURL != "https://cdn.example.com/ad_sd.mp4" {
		t.Errorf("media_sd_url = %v", asset.MediaSDURL)
	}
}

func TestNormalizeRichDescriptorWinsOverSnapshot(t *testing.T) {
	rec := recordFromJSON(t, `{
		"ad_archive_id": "42",
		"start_date": 0,
		"end_date": 0,
		"page": {"jsmods": {"pre_display_requires": [[0, 0, 0, [0, {"__bbox": {"result": {"data": {
			"page": {
				"name": "Acme Rich",
				"profile_pic_uri": "https://cdn.example.com/rich.png",
				"id": 999,
				"url": "https://facebook.com/acme-rich"
			},
			"ad_library_page_info": {"page_info": {"page_category": "Sportswear"}}
		}}}}]]]}},
		"snapshot": {
			"page_name": "Acme Snapshot",
			"page_categories": ["Clothing (Brand)"]
		}
	}`)

	got, err := Normalize(rec, nil)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Brand.Name == nil || *got.Brand.Name != "Acme Rich" {
		t.Errorf("brand name = %v, want rich descriptor value", got.Brand.Name)
	}
	if got.Brand.LogoURL == nil || *got.Brand.LogoURL != "https://cdn.example.com/rich.png" {
		t.Errorf("logo = %v", got.Brand.LogoURL)
	}
	if got.Brand.Category == nil || *got.Brand.Category != "Sportswear" {
		t.Errorf("category = %v", got.Brand.Category)
	}
	if got.Brand.PlatformID == nil || *got.Brand.PlatformID != "999" {
		t.Errorf("platform_id = %v", got.Brand.PlatformID)
	}
	if got.Brand.PlatformURL == nil || *got.Brand.PlatformURL != "https://facebook.com/acme-rich" {
		t.Errorf("platform_url = %v", got.Brand.PlatformURL)
	}
}

func TestNormalizeCardBranchIsExclusive(t *testing.T) {
	// Both cards and images/videos populated: only cards may contribute.
	rec := recordFromJSON(t, `{
		"ad_archive_id": "7",
		"start_date": 1700000000,
		"end_date": 1700000000,
		"snapshot": {
			"cards": [
				{"original_image_url": "X", "resized_image_url": "Y"},
				{"video_hd_url": "HD", "video_sd_url": "SD", "video_preview_image_url": "PREV"},
				{"title": "neither field, skipped"}
			],
			"images": [{"original_image_url": "IGNORED"}],
			"videos": [{"video_sd_url": "IGNORED"}]
		}
	}`)

	got, err := Normalize(rec, nil)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(got.Assets) != 2 {
		t.Fatalf("assets = %d, want 2 (cards only)", len(got.Assets))
	}

	img := got.Assets[0]
	if img.MediaType != types.MediaTypeImage {
		t.Errorf("first asset type = %q", img.MediaType)
	}
	if img.ThumbnailURL == nil || *img.ThumbnailURL != "Y" {
		t.Errorf("thumbnail = %v, want Y", img.ThumbnailURL)
	}
	if img.MediaSDURL != nil {
		t.Errorf("card image sd url should be nil, got %v", *img.MediaSDURL)
	}
	if img.MediaHDURL == nil || *img.MediaHDURL != "X" {
		t.Errorf("hd = %v, want X", img.MediaHDURL)
	}

	vid := got.Assets[1]
	if vid.MediaType != types.MediaTypeVideo {
		t.Errorf("second asset type = %q", vid.MediaType)
	}
	if vid.MediaSDURL == nil || *vid.MediaSDURL != "SD" {
		t.Errorf("sd = %v", vid.MediaSDURL)
	}
	if vid.ThumbnailURL == nil || *vid.ThumbnailURL != "PREV" {
		t.Errorf("thumbnail = %v", vid.ThumbnailURL)
	}
}

func TestNormalizeMissingArchiveIDFails(t *testing.T) {
	rec := recordFromJSON(t, `{"start_date": 0, "end_date": 0, "snapshot": {}}`)

	_, err := Normalize(rec, nil)
	var malformed *MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want MalformedRecordError", err)
	}
	if malformed.Field != "ad_archive_id" {
		t.Errorf("field = %q", malformed.Field)
	}
}

func TestNormalizeMissingSnapshotFails(t *testing.T) {
	rec := recordFromJSON(t, `{"ad_archive_id": "1", "start_date": 0, "end_date": 0}`)

	_, err := Normalize(rec, nil)
	var malformed *MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want MalformedRecordError", err)
	}
}

func TestNormalizeNonNumericDateFails(t *testing.T) {
	rec := recordFromJSON(t, `{"ad_archive_id": "1", "start_date": "soon", "end_date": 0, "snapshot": {}}`)

	_, err := Normalize(rec, nil)
	var malformed *MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want MalformedRecordError", err)
	}
	if malformed.Field != "start_date" {
		t.Errorf("field = %q", malformed.Field)
	}
}

func TestNormalizeEmptyVocabularyYieldsNoCategories(t *testing.T) {
	rec := recordFromJSON(t, videoRecordJSON)

	got, err := Normalize(rec, []string{})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(got.Ad.Categories) != 0 {
		t.Errorf("categories = %v, want empty", got.Ad.Categories)
	}
}

func TestNormalizeDuplicateCategoryMatchesAreKept(t *testing.T) {
	rec := recordFromJSON(t, `{
		"ad_archive_id": "1",
		"start_date": 0,
		"end_date": 0,
		"snapshot": {"page_categories": ["Shoe Store", "Running Shoes"]}
	}`)

	got, err := Normalize(rec, []string{"shoes"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !reflect.DeepEqual(got.Ad.Categories, []string{"shoes", "shoes"}) {
		t.Errorf("categories = %v, want duplicate entries kept", got.Ad.Categories)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	rec := recordFromJSON(t, videoRecordJSON)
	vocab := []string{"apparel", "shoes"}

	first, err := Normalize(rec, vocab)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	second, err := Normalize(rec, vocab)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over the same record diverged")
	}
}

func TestMapPlatform(t *testing.T) {
	cases := map[string]types.Platform{
		"facebook":         types.PlatformFacebook,
		"Instagram":        types.PlatformInstagram,
		"messenger":        types.PlatformMessenger,
		"audience_network": types.PlatformAudienceNetwork,
	}
	for name, want := range cases {
		got, ok := MapPlatform(name)
		if !ok || got != want {
			t.Errorf("MapPlatform(%q) = %q, %v", name, got, ok)
		}
	}
	if _, ok := MapPlatform("tiktok"); ok {
		t.Error("unknown platform should not map")
	}
}
