package config

import "time"

// Pipeline Constants
const (
	// MaxConcurrentRecords bounds how many ad records are processed at once
	MaxConcurrentRecords = 8

	// DefaultScrapeCount is how many ads one tracking request pulls from the
	// scraping actor when the request does not say otherwise
	DefaultScrapeCount = 200

	// UploadTimeout caps a single asset fetch-and-store round trip
	UploadTimeout = 30 * time.Second
)

// Object Store Constants
const (
	// AssetsBucket is the bucket creatives, logos and storyboards land in
	AssetsBucket = "assets"
)

// Inference Constants
const (
	// MaxInferenceRetries is how often a rate-limited inference call is retried
	MaxInferenceRetries = 5

	// InferenceRetryDelay is the base delay between retries; it doubles every attempt
	InferenceRetryDelay = 2 * time.Second

	// StoryboardSceneDelay spaces out sequential storyboard image generations
	StoryboardSceneDelay = 500 * time.Millisecond
)

// Status Refresh Constants
const (
	// StatusPageSize is how many stored ads one refresh job probes per run
	StatusPageSize = 100
)
