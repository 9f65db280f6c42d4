package normalize

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return v
}

func TestDigMixedPath(t *testing.T) {
	v := decode(t, `{"page":{"jsmods":{"pre_display_requires":[[0,0,0,[0,{"__bbox":{"result":{"data":{"page":{"name":"Acme"}}}}}]]]}}}`)

	got := Dig(v, "page", "jsmods", "pre_display_requires", 0, 3, 1, "__bbox", "result", "data", "page", "name")
	if got != "Acme" {
		t.Errorf("got %v, want Acme", got)
	}
}

func TestDigMissingLinkReturnsNil(t *testing.T) {
	v := decode(t, `{"page":{"jsmods":{}}}`)

	cases := [][]any{
		{"page", "jsmods", "pre_display_requires", 0},
		{"page", "missing"},
		{"nope"},
		{"page", 0},
		{"page", "jsmods", "pre_display_requires", -1},
	}
	for _, path := range cases {
		if got := Dig(v, path...); got != nil {
			t.Errorf("Dig(%v) = %v, want nil", path, got)
		}
	}
}

func TestDigIndexOutOfRange(t *testing.T) {
	v := decode(t, `{"items":[1,2]}`)
	if got := Dig(v, "items", 5); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestDigStringishAcceptsNumbers(t *testing.T) {
	v := decode(t, `{"id": 123456789, "name": "acme"}`)

	if got := digStringish(v, "id"); got == nil || *got != "123456789" {
		t.Errorf("got %v, want 123456789", got)
	}
	if got := digStringish(v, "name"); got == nil || *got != "acme" {
		t.Errorf("got %v, want acme", got)
	}
	if got := digStringish(v, "missing"); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestDigStringsSkipsNonStrings(t *testing.T) {
	v := decode(t, `{"platforms":["facebook", 7, "instagram", null]}`)
	got := digStrings(v, "platforms")
	if len(got) != 2 || got[0] != "facebook" || got[1] != "instagram" {
		t.Errorf("got %v", got)
	}
}
