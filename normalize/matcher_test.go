package normalize

import "testing"

func TestFindBestMatchPicksHighestScore(t *testing.T) {
	candidates := []string{"Clothing (Brand)", "App page", "Shoes"}

	got, ok := FindBestMatch(candidates, "App page")
	if !ok {
		t.Fatal("expected a match")
	}
	if got != "App page" {
		t.Errorf("got %q, want %q", got, "App page")
	}
}

func TestFindBestMatchTieKeepsFirstCandidate(t *testing.T) {
	got, ok := FindBestMatch([]string{"Shop A", "Shop B"}, "shop")
	if !ok {
		t.Fatal("expected a match")
	}
	if got != "Shop A" {
		t.Errorf("got %q, want first candidate %q", got, "Shop A")
	}
}

func TestFindBestMatchCaseInsensitiveSubstring(t *testing.T) {
	got, ok := FindBestMatch([]string{"HEALTH & Beauty"}, "beauty products")
	if !ok {
		t.Fatal("expected a match")
	}
	if got != "HEALTH & Beauty" {
		t.Errorf("got %q", got)
	}
}

func TestFindBestMatchRepeatedTokensCountEachTime(t *testing.T) {
	// "shop shop" scores 2 against "Shop A" but "Online Store" still scores 0,
	// so repetition must not change the winner, only the magnitude.
	got, ok := FindBestMatch([]string{"Online Store", "Shop A"}, "shop shop")
	if !ok {
		t.Fatal("expected a match")
	}
	if got != "Shop A" {
		t.Errorf("got %q, want %q", got, "Shop A")
	}
}

func TestFindBestMatchNoMatch(t *testing.T) {
	if _, ok := FindBestMatch([]string{"Clothing", "Shoes"}, "software"); ok {
		t.Error("expected no match for zero scores")
	}
	if _, ok := FindBestMatch(nil, "anything"); ok {
		t.Error("expected no match for empty candidates")
	}
	if _, ok := FindBestMatch([]string{"Clothing"}, ""); ok {
		t.Error("expected no match for empty query")
	}
}

func TestFindBestMatchDeterministic(t *testing.T) {
	candidates := []string{"Apparel & Clothing", "Clothing (Brand)", "App page"}
	first, _ := FindBestMatch(candidates, "clothing brand")
	for i := 0; i < 10; i++ {
		again, _ := FindBestMatch(candidates, "clothing brand")
		if again != first {
			t.Fatalf("non-deterministic result: %q then %q", first, again)
		}
	}
}
