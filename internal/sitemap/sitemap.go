// Package sitemap renders the sitemap XML covering the index page and every
// published location page.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"sort"
	"time"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
	"github.com/84emllc/84em-local-pages-sub000/internal/refdata"
)

const (
	changeFreq    = "monthly"
	indexPriority = "0.9"
	statePriority = "0.8"
	cityPriority  = "0.7"
)

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Build renders the urlset document for the given published pages. The index
// entry is always present; its lastmod is the newest page modification time.
func Build(ref *refdata.Data, pgs []core.Page, now time.Time) (string, error) {
	newest := now
	for _, p := range pgs {
		if p.ModifiedAt.After(newest) {
			newest = p.ModifiedAt
		}
	}

	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []urlEntry{{
			Loc:        ref.IndexURL(),
			LastMod:    isoDate(newest),
			ChangeFreq: changeFreq,
			Priority:   indexPriority,
		}},
	}

	entries := make([]urlEntry, 0, len(pgs))
	for _, p := range pgs {
		if p.Status != "" && p.Status != "publish" {
			continue
		}
		e := urlEntry{
			LastMod:    isoDate(p.ModifiedAt),
			ChangeFreq: changeFreq,
		}
		if p.IsStatePage() {
			e.Loc = ref.StateURL(p.Meta.StateName)
			e.Priority = statePriority
		} else {
			e.Loc = ref.CityURL(p.Meta.StateName, p.Meta.CityName)
			e.Priority = cityPriority
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Loc < entries[j].Loc })
	set.URLs = append(set.URLs, entries...)

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render sitemap: %w", err)
	}
	return xml.Header + string(out) + "\n", nil
}

func isoDate(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339)
}
