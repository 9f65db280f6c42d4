package assets

import (
	"testing"

	"adscope/types"
)

func strptr(s string) *string { return &s }

func TestSelectDownloadsOrderAndKinds(t *testing.T) {
	brand := types.Brand{LogoURL: strptr("https://cdn/logo.png")}
	mediaAssets := []types.MediaAsset{
		{
			ThumbnailURL: strptr("https://cdn/thumb1.jpg"),
			MediaSDURL:   strptr("https://cdn/vid1.mp4"),
			MediaType:    types.MediaTypeVideo,
		},
		{
			ThumbnailURL: strptr("https://cdn/thumb2.jpg"),
			MediaSDURL:   strptr("https://cdn/vid2.mp4"),
			MediaType:    types.MediaTypeVideo,
		},
	}

	got := SelectDownloads(brand, mediaAssets)

	want := []Download{
		{URL: "https://cdn/logo.png", Kind: DownloadLogo, MediaType: types.MediaTypeImage},
		{URL: "https://cdn/vid1.mp4", Kind: DownloadMedia, MediaType: types.MediaTypeVideo},
		{URL: "https://cdn/thumb1.jpg", Kind: DownloadThumbnail, MediaType: types.MediaTypeImage},
		{URL: "https://cdn/vid2.mp4", Kind: DownloadMedia, MediaType: types.MediaTypeVideo},
		{URL: "https://cdn/thumb2.jpg", Kind: DownloadThumbnail, MediaType: types.MediaTypeImage},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d downloads, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("download[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSelectDownloadsNoLogo(t *testing.T) {
	got := SelectDownloads(types.Brand{}, nil)
	if len(got) != 0 {
		t.Errorf("got %v, want none", got)
	}
}

func TestSelectDownloadsSkipsCardImageHDURL(t *testing.T) {
	// Card-derived image assets only populate media_hd_url, which this policy
	// never selects; only the thumbnail survives.
	mediaAssets := []types.MediaAsset{
		{
			ThumbnailURL: strptr("https://cdn/resized.jpg"),
			MediaHDURL:   strptr("https://cdn/original.jpg"),
			MediaType:    types.MediaTypeImage,
		},
	}

	got := SelectDownloads(types.Brand{}, mediaAssets)

	if len(got) != 1 {
		t.Fatalf("got %d downloads, want 1", len(got))
	}
	if got[0].Kind != DownloadThumbnail || got[0].URL != "https://cdn/resized.jpg" {
		t.Errorf("got %+v, want only the thumbnail", got[0])
	}
}
