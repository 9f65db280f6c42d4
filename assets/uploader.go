package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"adscope/common"
	"adscope/config"
	"adscope/types"

	"github.com/google/uuid"
)

// The Ad Library CDN rejects obviously non-browser clients, so fetches
// impersonate one and carry a Facebook referer.
const (
	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	facebookReferer  = "https://www.facebook.com/"
)

// Uploader fetches remote creative URLs and stores them in the assets bucket.
// Failures never escape as errors; they come back as data on the result so a
// broken creative cannot abort its ad.
type Uploader struct {
	store  *common.S3
	bucket string
	client *http.Client
}

// NewUploader returns an uploader writing to bucket via store.
func NewUploader(store *common.S3, bucket string) *Uploader {
	return &Uploader{
		store:  store,
		bucket: bucket,
		client: &http.Client{Timeout: config.UploadTimeout},
	}
}

// FetchAndStore downloads one creative through a scoped temp file and uploads
// it with overwrite-on-conflict semantics. The temp file is removed on
// success and failure alike.
func (u *Uploader) FetchAndStore(ctx context.Context, download Download) types.UploadResult {
	fail := func(err error) types.UploadResult {
		return types.UploadResult{Error: err.Error(), AssetURL: download.URL}
	}

	tmp, err := os.CreateTemp("", "adscope-asset-*")
	if err != nil {
		return fail(fmt.Errorf("create temp file: %w", err))
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := u.fetch(ctx, download.URL, tmp); err != nil {
		tmp.Close()
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		return fail(fmt.Errorf("flush temp file: %w", err))
	}

	key := objectKey(download)
	f, err := os.Open(tmpPath)
	if err != nil {
		return fail(fmt.Errorf("reopen temp file: %w", err))
	}
	defer f.Close()

	if err := u.store.Put(ctx, u.bucket, key, f, contentTypeFor(download)); err != nil {
		return fail(fmt.Errorf("upload %s: %w", key, err))
	}

	return types.UploadResult{UploadedFile: key, MediaType: download.MediaType}
}

// StoreBytes uploads an already-generated payload (storyboard frames) under
// the given key prefix and returns the object key.
func (u *Uploader) StoreBytes(ctx context.Context, prefix, ext, contentType string, data []byte) (string, error) {
	key := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), ext)
	if err := u.store.Put(ctx, u.bucket, key, bytes.NewReader(data), contentType); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

func (u *Uploader) fetch(ctx context.Context, url string, dst io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Referer", facebookReferer)

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	if _, err := io.Copy(dst, resp.Body); err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	return nil
}

// objectKey namespaces objects by role and keeps the source extension when
// the URL carries one.
func objectKey(download Download) string {
	ext := path.Ext(strings.SplitN(path.Base(download.URL), "?", 2)[0])
	if ext == "" || len(ext) > 5 {
		if download.MediaType == types.MediaTypeVideo {
			ext = ".mp4"
		} else {
			ext = ".jpg"
		}
	}
	return fmt.Sprintf("%s/%s%s", download.Kind, uuid.NewString(), ext)
}

func contentTypeFor(download Download) string {
	if download.MediaType == types.MediaTypeVideo {
		return "video/mp4"
	}
	return "image/jpeg"
}
