package assets

import "adscope/types"

// DownloadKind says what role a fetched file plays for an ad.
type DownloadKind string

const (
	DownloadLogo      DownloadKind = "logo"
	DownloadMedia     DownloadKind = "media"
	DownloadThumbnail DownloadKind = "thumbnail"
)

// Download is one URL worth fetching and storing.
type Download struct {
	URL       string
	Kind      DownloadKind
	MediaType types.MediaType
}

// SelectDownloads decides which URLs get fetched for one ad: the brand logo
// first, then for each asset its SD media followed by its thumbnail, in asset
// order. The order fixes upload order and nothing else.
//
// Only media_sd_url is ever selected as media. Card-derived image assets
// carry their creative in media_hd_url, so they are never downloaded here;
// that asymmetry is long-standing observed behaviour and should not be
// widened to HD URLs without a product decision.
func SelectDownloads(brand types.Brand, mediaAssets []types.MediaAsset) []Download {
	downloads := []Download{}

	if brand.LogoURL != nil {
		downloads = append(downloads, Download{
			URL:       *brand.LogoURL,
			Kind:      DownloadLogo,
			MediaType: types.MediaTypeImage,
		})
	}

	for _, asset := range mediaAssets {
		if asset.MediaSDURL != nil {
			downloads = append(downloads, Download{
				URL:       *asset.MediaSDURL,
				Kind:      DownloadMedia,
				MediaType: asset.MediaType,
			})
		}
		if asset.ThumbnailURL != nil {
			downloads = append(downloads, Download{
				URL:       *asset.ThumbnailURL,
				Kind:      DownloadThumbnail,
				MediaType: types.MediaTypeImage,
			})
		}
	}

	return downloads
}
