package normalize

import (
	"strings"

	"adscope/types"
)

// MapPlatform maps a vendor publisher platform name onto the canonical brand
// platform enum. The normalizer itself only ever emits facebook; the full
// mapping is here for callers that fan ads out per platform.
func MapPlatform(name string) (types.Platform, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "facebook":
		return types.PlatformFacebook, true
	case "instagram":
		return types.PlatformInstagram, true
	case "messenger":
		return types.PlatformMessenger, true
	case "audience_network", "audience-network":
		return types.PlatformAudienceNetwork, true
	}
	return "", false
}
