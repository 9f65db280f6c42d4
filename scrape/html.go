package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractJSONScripts parses an Ad Library HTML page and decodes every
// <script type="application/json"> payload that parses cleanly. Broken
// payloads are skipped, matching how permissive the page format is.
func ExtractJSONScripts(html string) ([]map[string]any, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var payloads []map[string]any
	doc.Find(`script[type="application/json"]`).Each(func(_ int, sel *goquery.Selection) {
		var payload map[string]any
		if err := json.Unmarshal([]byte(sel.Text()), &payload); err == nil {
			payloads = append(payloads, payload)
		}
	})
	return payloads, nil
}

// FindSnapshots walks decoded page JSON for collated_results objects, the
// shape the Ad Library buries its ad snapshots in. A matched object is
// collected without descending into it.
func FindSnapshots(v any) []any {
	var snapshots []any
	switch val := v.(type) {
	case map[string]any:
		for key, child := range val {
			if key == "collated_results" {
				if _, ok := child.(map[string]any); ok {
					snapshots = append(snapshots, child)
					continue
				}
			}
			snapshots = append(snapshots, FindSnapshots(child)...)
		}
	case []any:
		for _, child := range val {
			snapshots = append(snapshots, FindSnapshots(child)...)
		}
	}
	return snapshots
}

var isActiveRe = regexp.MustCompile(`"isActive":\s*(true|false|null)`)

// ParseIsActive reads the embedded isActive flag out of raw page HTML. nil
// means the page does not expose one.
func ParseIsActive(html string) *bool {
	m := isActiveRe.FindStringSubmatch(html)
	if m == nil || m[1] == "null" {
		return nil
	}
	active := m[1] == "true"
	return &active
}

// StatusProbe checks whether an archived ad is still running by fetching its
// public Ad Library page.
type StatusProbe struct {
	baseURL string
	client  *http.Client
}

// NewStatusProbe points the probe at the Ad Library front end, e.g.
// https://www.facebook.com/ads/library.
func NewStatusProbe(baseURL string, client *http.Client) *StatusProbe {
	if client == nil {
		client = http.DefaultClient
	}
	return &StatusProbe{baseURL: baseURL, client: client}
}

// Probe fetches the ad's page and returns its isActive flag, or nil when the
// page does not expose one.
func (p *StatusProbe) Probe(ctx context.Context, archiveID string) (*bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/?id=%s", p.baseURL, archiveID), nil)
	if err != nil {
		return nil, fmt.Errorf("build probe request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("probe ad %s: %w", archiveID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("probe ad %s: status %d", archiveID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read probe body: %w", err)
	}
	return ParseIsActive(string(body)), nil
}
