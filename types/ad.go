package types

// RawAdRecord is one scraped Ad Library record exactly as the scraping actor
// returned it. The vendor schema is deeply nested and almost entirely
// optional, so it stays as decoded JSON and is read through the safe
// navigation helpers in the normalize package.
type RawAdRecord map[string]any

// Platform is the canonical publisher platform enum persisted on brands.
type Platform string

const (
	PlatformFacebook        Platform = "facebook"
	PlatformInstagram       Platform = "instagram"
	PlatformMessenger       Platform = "messenger"
	PlatformAudienceNetwork Platform = "audience-network"
)

// MediaType distinguishes image and video creatives.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Brand is the advertiser as derived from a single record. Brands are not
// deduplicated here; callers that want one row per page do that themselves.
type Brand struct {
	Name        *string  `json:"name"`
	LogoURL     *string  `json:"logo_url"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Platform    Platform `json:"platform"`
	PlatformID  *string  `json:"platform_id"`
	PlatformURL *string  `json:"platform_url"`
}

// Ad is one normalized advertisement.
type Ad struct {
	PlatformID  string   `json:"platform_id"`
	AdCopy      *string  `json:"ad_copy"`
	CountryCode []string `json:"country_code"`
	Categories  []string `json:"categories"`
	LiveStatus  string   `json:"live_status"`
	CTAType     *string  `json:"cta_type"`
	CTAText     *string  `json:"cta_text"`
	CTALink     *string  `json:"cta_link"`
	// Tags is always empty; the column exists for schema compatibility.
	Tags               []string    `json:"tags"`
	PublisherPlatforms []string    `json:"publisher_platforms"`
	StartDate          string      `json:"start_date"`
	EndDate            string      `json:"end_date"`
	RawData            RawAdRecord `json:"raw_data"`
}

// MediaAsset describes one creative attached to an ad.
type MediaAsset struct {
	ThumbnailURL *string   `json:"thumbnail_url"`
	MediaSDURL   *string   `json:"media_sd_url"`
	MediaHDURL   *string   `json:"media_hd_url"`
	MediaType    MediaType `json:"media_type"`
}

// NormalizedAd bundles everything derived from one raw record.
type NormalizedAd struct {
	Brand  Brand        `json:"brand"`
	Ad     Ad           `json:"ad"`
	Assets []MediaAsset `json:"assets"`
}

// UploadResult is what the asset uploader hands back for one URL. Failures
// are carried as data so a single broken creative never aborts an ad.
type UploadResult struct {
	UploadedFile string    `json:"uploadedFile,omitempty"`
	MediaType    MediaType `json:"media_type,omitempty"`
	Error        string    `json:"error,omitempty"`
	AssetURL     string    `json:"assetUrl,omitempty"`
}

// TranscriptSegment is one timed slice of a video transcription.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Persona is the AI-derived buyer persona for an ad.
type Persona struct {
	Name           string `json:"name" jsonschema_description:"A short memorable name for the persona"`
	Description    string `json:"description" jsonschema_description:"Two or three sentences describing who this persona is and what they care about"`
	TargetAudience string `json:"target_audience" jsonschema_description:"The demographic and psychographic segment this ad targets"`
}

// ScriptScene is one scene of a generated marketing script.
type ScriptScene struct {
	SceneNumber       int    `json:"scene_number" jsonschema_description:"1-based position of the scene"`
	ScriptCopy        string `json:"script_copy" jsonschema_description:"The spoken or written copy for this scene"`
	ActionDescription string `json:"action_description" jsonschema_description:"What happens on screen during this scene"`
	TextOverlay       string `json:"text_overlay" jsonschema_description:"On-screen text overlay, empty if none"`
}

// Enrichment is the AI-derived layer for one ad. A failed enrichment degrades
// to a nil transcript and empty hooks rather than failing the record.
type Enrichment struct {
	Transcript []TranscriptSegment `json:"transcript"`
	Summary    string              `json:"summary,omitempty"`
	Persona    *Persona            `json:"persona,omitempty"`
	Hooks      []string            `json:"hooks"`
	Headlines  []string            `json:"headlines,omitempty"`
	Script     []ScriptScene       `json:"script,omitempty"`
}

// AdResult is the independent outcome of one record's pipeline run.
type AdResult struct {
	Normalized *NormalizedAd  `json:"normalized,omitempty"`
	Uploads    []UploadResult `json:"uploads,omitempty"`
	Enrichment *Enrichment    `json:"enrichment,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// TrackRequest is an ad-tracking job, whether it arrives over HTTP or Kafka.
type TrackRequest struct {
	AdURL    string `json:"adURL"`
	FolderID string `json:"folderId"`
	UserID   string `json:"user_id"`
	Count    int    `json:"count,omitempty"`
}

// TrackResult aggregates one tracking request. CallToActions is scoped to the
// request; nothing here survives across requests.
type TrackResult struct {
	PageID        string         `json:"page_id,omitempty"`
	BrandName     *string        `json:"brand_name"`
	BrandLogo     *UploadResult  `json:"brand_logo,omitempty"`
	Ads           []AdResult     `json:"ads"`
	Uploads       []UploadResult `json:"uploaded_assets"`
	CallToActions []string       `json:"call_to_actions"`
}

// StoryboardScene is the input to storyboard image generation.
type StoryboardScene struct {
	SceneNumber       int    `json:"scene_number"`
	ProductName       string `json:"product_name"`
	CompanyName       string `json:"company_name"`
	TargetAudience    string `json:"target_audience"`
	ScriptCopy        string `json:"script_copy"`
	ActionDescription string `json:"action_description"`
	TextOverlay       string `json:"text_overlay"`
}

// StoryboardFrame is the per-scene output of storyboard generation.
type StoryboardFrame struct {
	SceneNumber     int    `json:"scene_number"`
	GeneratedPrompt string `json:"generated_prompt,omitempty"`
	GeneratedImage  string `json:"generated_image,omitempty"`
	Error           string `json:"error,omitempty"`
}
