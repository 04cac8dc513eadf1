package testimonials

import (
	"fmt"
	"strings"
	"testing"
)

func TestSelectionIsDeterministic(t *testing.T) {
	s := NewSelector(nil)

	first := s.ForCity("Cedar Rapids, Iowa")
	for i := 0; i < 20; i++ {
		if got := s.ForCity("Cedar Rapids, Iowa"); got != first {
			t.Fatalf("Selection changed between calls: %+v then %+v", first, got)
		}
	}
}

func TestSelectionIsCaseInsensitive(t *testing.T) {
	s := NewSelector(nil)
	if s.ForCity("Cedar Rapids, Iowa") != s.ForCity("cedar rapids, iowa") {
		t.Error("Expected lowercased seed to select the same testimonial")
	}
}

func TestSelectionDistributesAcrossSeeds(t *testing.T) {
	s := NewSelector(nil)
	seeds := []string{
		"Cedar Rapids, Iowa", "Los Angeles, California", "Houston, Texas",
		"Fargo, North Dakota", "Portland, Oregon", "Miami, Florida",
		"Boston, Massachusetts", "Cheyenne, Wyoming", "Anchorage, Alaska",
	}
	picks := make(map[string]bool)
	for _, seed := range seeds {
		picks[s.ForCity(seed).Key] = true
	}
	// Distribution is expected, not guaranteed; nine seeds landing on one key
	// would mean the checksum is broken.
	if len(picks) < 2 {
		t.Errorf("Expected seeds to spread across the pool, got %d distinct picks", len(picks))
	}
}

func TestPoolsAreDistinct(t *testing.T) {
	stateSet := make(map[string]bool)
	for _, k := range statePool {
		stateSet[k] = true
	}
	for _, k := range cityPool {
		if stateSet[k] {
			t.Errorf("Key %q appears in both pools", k)
		}
	}
}

func TestRecordsCarryConfiguredBlockIDs(t *testing.T) {
	ids := make(map[string]int64, len(statePool)+len(cityPool))
	for i, k := range statePool {
		ids[k] = int64(200 + i)
	}
	for i, k := range cityPool {
		ids[k] = int64(300 + i)
	}
	s := NewSelector(ids)

	got := s.ForState("Iowa")
	if got.BlockRefID != ids[got.Key] {
		t.Errorf("State record %q carries id %d, want %d", got.Key, got.BlockRefID, ids[got.Key])
	}
	want := fmt.Sprintf(`"ref":%d`, got.BlockRefID)
	if !strings.Contains(got.BlockRef(), want) || !strings.HasPrefix(got.BlockRef(), "<!-- wp:block") {
		t.Errorf("Unexpected block ref for %q: %q", got.Key, got.BlockRef())
	}

	city := s.ForCity("Des Moines, Iowa")
	if city.BlockRefID != ids[city.Key] {
		t.Errorf("City record %q carries id %d, want %d", city.Key, city.BlockRefID, ids[city.Key])
	}
}

func TestUnconfiguredKeyRendersNoBlock(t *testing.T) {
	s := NewSelector(nil)
	if got := s.ForState("Iowa").BlockRef(); got != "" {
		t.Errorf("Expected empty block ref for unconfigured key, got %q", got)
	}
}
