package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"adscope/types"
)

// Client calls the third-party scraping actor that crawls the Ad Library.
// The actor is a black box: one Ad Library URL in, zero or more raw records
// out. No schema is assumed beyond what the normalizer checks itself.
type Client struct {
	baseURL string
	token   string
	actorID string
	http    *http.Client
}

// NewClientFromEnv builds the actor client from SCRAPER_BASE_URL,
// SCRAPER_TOKEN and SCRAPER_ACTOR_ID. Returns nil when no token is set, so
// callers can degrade the way other optional collaborators do.
func NewClientFromEnv() *Client {
	token := os.Getenv("SCRAPER_TOKEN")
	if token == "" {
		return nil
	}

	baseURL := os.Getenv("SCRAPER_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.apify.com/v2"
	}
	actorID := os.Getenv("SCRAPER_ACTOR_ID")
	if actorID == "" {
		actorID = "XtaWFhbtfxyzqrFmd"
	}

	return &Client{
		baseURL: baseURL,
		token:   token,
		actorID: actorID,
		http:    &http.Client{Timeout: 5 * time.Minute},
	}
}

// runInput mirrors the actor's expected input document.
type runInput struct {
	URLs         []runURL `json:"urls"`
	Count        int      `json:"count"`
	ActiveStatus string   `json:"scrapePageAds.activeStatus"`
	Period       string   `json:"period"`
}

type runURL struct {
	URL string `json:"url"`
}

// FetchAds runs the actor synchronously for one Ad Library URL and returns
// the records from the run's default dataset.
func (c *Client) FetchAds(ctx context.Context, adURL string, count int) ([]types.RawAdRecord, error) {
	input := runInput{
		URLs:         []runURL{{URL: adURL}},
		Count:        count,
		ActiveStatus: "all",
	}
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal actor input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/acts/%s/run-sync-get-dataset-items?token=%s",
		c.baseURL, c.actorID, url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build actor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("run actor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("actor run failed with status %d", resp.StatusCode)
	}

	var records []types.RawAdRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode actor dataset: %w", err)
	}
	return records, nil
}
