package scrape

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const samplePage = `<html><head>
<script type="application/json">{"a": 1}</script>
<script type="text/javascript">var x = {"ignored": true};</script>
<script type="application/json">not json at all</script>
<script type="application/json">{"deep": {"collated_results": {"ad_archive_id": "9"}}}</script>
</head><body></body></html>`

func TestExtractJSONScripts(t *testing.T) {
	payloads, err := ExtractJSONScripts(samplePage)
	if err != nil {
		t.Fatalf("ExtractJSONScripts: %v", err)
	}
	// Two parseable application/json scripts; the broken one and the JS one
	// are skipped.
	if len(payloads) != 2 {
		t.Fatalf("got %d payloads, want 2", len(payloads))
	}
}

func TestFindSnapshots(t *testing.T) {
	var v any
	raw := `{
		"outer": [
			{"collated_results": {"ad_archive_id": "1"}},
			{"nested": {"deeper": {"collated_results": {"ad_archive_id": "2"}}}},
			{"collated_results": "not an object"}
		]
	}`
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatal(err)
	}

	snapshots := FindSnapshots(v)
	if len(snapshots) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snapshots))
	}
	for _, s := range snapshots {
		if _, ok := s.(map[string]any); !ok {
			t.Errorf("snapshot is %T, want object", s)
		}
	}
}

func TestParseIsActive(t *testing.T) {
	cases := []struct {
		html string
		want string // "true", "false", "nil"
	}{
		{`..."isActive": true...`, "true"},
		{`..."isActive":false...`, "false"},
		{`..."isActive": null...`, "nil"},
		{`no flag here`, "nil"},
	}
	for _, tc := range cases {
		got := ParseIsActive(tc.html)
		switch tc.want {
		case "nil":
			if got != nil {
				t.Errorf("ParseIsActive(%q) = %v, want nil", tc.html, *got)
			}
		case "true":
			if got == nil || !*got {
				t.Errorf("ParseIsActive(%q) = %v, want true", tc.html, got)
			}
		case "false":
			if got == nil || *got {
				t.Errorf("ParseIsActive(%q) = %v, want false", tc.html, got)
			}
		}
	}
}

func TestStatusProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") == "123" {
			w.Write([]byte(`<html>"isActive": true</html>`))
			return
		}
		w.Write([]byte(`<html>nothing</html>`))
	}))
	defer srv.Close()

	probe := NewStatusProbe(srv.URL, srv.Client())

	active, err := probe.Probe(context.Background(), "123")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if active == nil || !*active {
		t.Errorf("got %v, want true", active)
	}

	missing, err := probe.Probe(context.Background(), "999")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if missing != nil {
		t.Errorf("got %v, want nil", *missing)
	}
}
