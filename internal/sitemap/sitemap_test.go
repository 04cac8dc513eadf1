package sitemap

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
	"github.com/84emllc/84em-local-pages-sub000/internal/refdata"
)

func testPages() []core.Page {
	mod := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []core.Page{
		{Status: "publish", Meta: core.PageMeta{StateName: "Iowa"}, ModifiedAt: mod},
		{Status: "publish", Meta: core.PageMeta{StateName: "Iowa", CityName: "Des Moines"}, ModifiedAt: mod.Add(time.Hour)},
		{Status: "draft", Meta: core.PageMeta{StateName: "Texas"}, ModifiedAt: mod},
	}
}

func TestBuild(t *testing.T) {
	ref := refdata.New("https://example.com")
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	out, err := Build(ref, testPages(), now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var set struct {
		Xmlns string `xml:"xmlns,attr"`
		URLs  []struct {
			Loc        string `xml:"loc"`
			LastMod    string `xml:"lastmod"`
			ChangeFreq string `xml:"changefreq"`
			Priority   string `xml:"priority"`
		} `xml:"url"`
	}
	if err := xml.Unmarshal([]byte(out), &set); err != nil {
		t.Fatalf("Sitemap is not valid XML: %v", err)
	}
	if set.Xmlns != "http://www.sitemaps.org/schemas/sitemap/0.9" {
		t.Errorf("Unexpected namespace %q", set.Xmlns)
	}

	// Index entry plus the two published pages; the draft is excluded.
	if len(set.URLs) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(set.URLs))
	}
	if set.URLs[0].Loc != "https://example.com/wordpress-development-services-usa/" {
		t.Errorf("Expected the index entry first, got %q", set.URLs[0].Loc)
	}
	if set.URLs[0].Priority != "0.9" {
		t.Errorf("Unexpected index priority %q", set.URLs[0].Priority)
	}
	if strings.Contains(out, "wordpress-development-services-usa/texas/") {
		t.Error("Draft pages must not appear in the sitemap")
	}

	for _, u := range set.URLs {
		if _, err := time.Parse(time.RFC3339, u.LastMod); err != nil {
			t.Errorf("lastmod %q is not ISO 8601: %v", u.LastMod, err)
		}
		if u.ChangeFreq != "monthly" {
			t.Errorf("Unexpected changefreq %q", u.ChangeFreq)
		}
	}
}

func TestIndexLastModTracksNewestPage(t *testing.T) {
	ref := refdata.New("https://example.com")
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	out, err := Build(ref, testPages(), now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(out, "2025-06-01T13:00:00Z") {
		t.Errorf("Expected index lastmod to be the newest page time, got:\n%s", out)
	}
}
