package generator

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/84emllc/84em-local-pages-sub000/internal/content"
	"github.com/84emllc/84em-local-pages-sub000/internal/core"
	"github.com/84emllc/84em-local-pages-sub000/internal/logger"
	"github.com/84emllc/84em-local-pages-sub000/internal/pages"
	"github.com/84emllc/84em-local-pages-sub000/internal/refdata"
	"github.com/84emllc/84em-local-pages-sub000/internal/schemagen"
	"github.com/84emllc/84em-local-pages-sub000/internal/testimonials"
)

func TestMain(m *testing.M) {
	logger.SetTestMode(true)
	os.Exit(m.Run())
}

const sampleContent = `# WordPress Development Services in Iowa

Our team has spent {years_experience} years building custom WordPress platforms for businesses across the state, from small firms to large organizations.

## What We Deliver

We build plugins, integrations, and complete sites with fixed timelines and direct communication from senior engineers on every engagement.

Companies in Des Moines and Cedar Rapids work with us on long-running maintenance retainers and one-off rescue projects alike.`

// fakeSender answers page prompts with sampleContent and metadata prompts
// according to its configuration.
type fakeSender struct {
	metadataJSON string // empty means the metadata round-trip fails
	calls        []string
}

func (f *fakeSender) Send(_ context.Context, p string) (string, error) {
	f.calls = append(f.calls, p)
	if strings.Contains(p, "Generate SEO metadata") {
		if f.metadataJSON == "" {
			return "", errors.New("metadata endpoint down")
		}
		return f.metadataJSON, nil
	}
	return sampleContent, nil
}

// testTestimonialBlocks assigns a distinct reusable block id to every
// testimonial key either page kind can select.
var testTestimonialBlocks = map[string]int64{
	"agency-partner-rebuild":  201,
	"plugin-rescue":           202,
	"longterm-maintenance":    203,
	"ecommerce-migration":     204,
	"security-cleanup":        205,
	"api-integration-project": 206,
	"local-firm-redesign":     301,
	"multisite-consolidation": 302,
	"performance-overhaul":    303,
	"membership-site-build":   304,
	"emergency-fix":           305,
	"white-label-partner":     306,
	"nonprofit-site":          307,
	"booking-integration":     308,
}

func newDeps(sender *fakeSender, store pages.Store) Deps {
	ref := refdata.New("https://example.com")
	return Deps{
		Client:          sender,
		Store:           store,
		Ref:             ref,
		Selector:        testimonials.NewSelector(testTestimonialBlocks),
		Schema:          schemagen.New(ref, "84EM", "https://example.com"),
		Processor:       content.NewProcessor(ref.KeywordLinks(), ref.InternalServicePaths(), ref.LocationURLPattern()),
		FoundedYear:     2012,
		IndexPageID:     42,
		ServicesBlockID: 101,
		CTABlockID:      102,
	}
}

func TestCreateStatePage(t *testing.T) {
	sender := &fakeSender{metadataJSON: `{"title":"WordPress Development in Iowa","seo_title":"Iowa WordPress Development | 84EM","meta_description":"Custom WordPress development for Iowa businesses from senior US-based engineers with fixed timelines, plugin builds, API integrations, and ongoing support."}`}
	store := pages.NewMemoryStore()
	g := NewState(newDeps(sender, store))

	id, err := g.CreatePage(context.Background(), core.Location{State: "Iowa"})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	p, err := store.FindStatePage(context.Background(), "Iowa")
	if err != nil {
		t.Fatalf("FindStatePage: %v", err)
	}
	if p.ID != id {
		t.Errorf("Expected created page id %d, found %d", id, p.ID)
	}
	if p.Slug != "iowa" {
		t.Errorf("Expected slug %q, got %q", "iowa", p.Slug)
	}
	if p.ParentID != 42 {
		t.Errorf("Expected parent to be the index page, got %d", p.ParentID)
	}
	if p.Meta.StateName != "Iowa" || p.Meta.CityName != "" {
		t.Errorf("Unexpected identity meta %+v", p.Meta)
	}
	if !strings.Contains(p.Meta.Schema, `"@type":"WebPage"`) {
		t.Errorf("Expected WebPage schema, got %q", p.Meta.Schema)
	}
	if !strings.Contains(p.Content, "<!-- wp:paragraph -->") {
		t.Error("Expected block-wrapped content")
	}
	if p.Meta.SEOTitle != "Iowa WordPress Development | 84EM" {
		t.Errorf("Expected SEO title from the metadata round-trip, got %q", p.Meta.SEOTitle)
	}
}

func TestExperiencePlaceholdersSubstituted(t *testing.T) {
	sender := &fakeSender{metadataJSON: `{"title":"t","seo_title":"s","meta_description":"m"}`}
	store := pages.NewMemoryStore()
	g := NewState(newDeps(sender, store))

	g.CreatePage(context.Background(), core.Location{State: "Iowa"})
	p, _ := store.FindStatePage(context.Background(), "Iowa")

	if strings.Contains(p.Content, "{years_experience}") || strings.Contains(p.Content, "{founding_year}") {
		t.Errorf("Placeholder tokens survived into the final content:\n%s", p.Content)
	}
	years := strconv.Itoa(time.Now().Year() - 2012)
	if !strings.Contains(p.Content, years+" years") {
		t.Errorf("Expected computed experience %q years in content", years)
	}
}

func TestCreatePageSucceedsOnMetadataFailure(t *testing.T) {
	sender := &fakeSender{} // metadata round-trip fails
	store := pages.NewMemoryStore()
	g := NewState(newDeps(sender, store))

	if _, err := g.CreatePage(context.Background(), core.Location{State: "Iowa"}); err != nil {
		t.Fatalf("CreatePage must survive metadata failure, got %v", err)
	}

	p, _ := store.FindStatePage(context.Background(), "Iowa")
	if !strings.Contains(p.Meta.SEOTitle, "Iowa") || !strings.HasSuffix(p.Meta.SEOTitle, " | 84EM") {
		t.Errorf("Expected fallback SEO title with location and suffix, got %q", p.Meta.SEOTitle)
	}
	if !strings.Contains(p.Meta.SEODescription, "Iowa") {
		t.Errorf("Expected fallback description naming the location, got %q", p.Meta.SEODescription)
	}
}

func TestMalformedMetadataFallsBack(t *testing.T) {
	sender := &fakeSender{metadataJSON: "this is not json at all"}
	store := pages.NewMemoryStore()
	g := NewState(newDeps(sender, store))

	if _, err := g.CreatePage(context.Background(), core.Location{State: "Iowa"}); err != nil {
		t.Fatalf("CreatePage must survive malformed metadata, got %v", err)
	}
	p, _ := store.FindStatePage(context.Background(), "Iowa")
	if p.Meta.SEOTitle == "" {
		t.Error("Expected fallback metadata, got empty SEO title")
	}
}

// pagePrompt returns the first non-metadata prompt the sender saw.
func pagePrompt(t *testing.T, sender *fakeSender) string {
	t.Helper()
	for _, p := range sender.calls {
		if !strings.Contains(p, "Generate SEO metadata") {
			return p
		}
	}
	t.Fatal("No page prompt was sent")
	return ""
}

func TestTestimonialFollowsLocationSelection(t *testing.T) {
	sel := testimonials.NewSelector(testTestimonialBlocks)
	ctx := context.Background()

	prompts := make(map[string]string)
	for _, state := range []string{"Iowa", "California"} {
		sender := &fakeSender{metadataJSON: `{"title":"t","seo_title":"s","meta_description":"m"}`}
		g := NewState(newDeps(sender, pages.NewMemoryStore()))
		if _, err := g.Generate(ctx, core.Location{State: state}); err != nil {
			t.Fatalf("Generate(%s): %v", state, err)
		}

		want := sel.ForState(state).BlockRef()
		got := pagePrompt(t, sender)
		if !strings.Contains(got, want) {
			t.Errorf("%s prompt is missing its selected testimonial ref %q", state, want)
		}
		prompts[state] = got
	}

	// Iowa and California select different pool records, so their prompts
	// must carry different block references.
	iowaRef := sel.ForState("Iowa").BlockRef()
	calRef := sel.ForState("California").BlockRef()
	if iowaRef == calRef {
		t.Fatalf("Expected distinct picks for Iowa and California, both got %q", iowaRef)
	}
	if strings.Contains(prompts["California"], iowaRef) {
		t.Error("California prompt carries Iowa's testimonial ref")
	}
}

func TestCityTestimonialSeededByFullLocation(t *testing.T) {
	sel := testimonials.NewSelector(testTestimonialBlocks)
	sender := &fakeSender{metadataJSON: `{"title":"t","seo_title":"s","meta_description":"m"}`}
	store := pages.NewMemoryStore()
	ctx := context.Background()

	store.Create(ctx, core.Page{Slug: "iowa", Meta: core.PageMeta{StateName: "Iowa"}})
	g := NewCity(newDeps(sender, store))
	if _, err := g.CreatePage(ctx, core.Location{State: "Iowa", City: "Des Moines"}); err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	want := sel.ForCity("Des Moines, Iowa").BlockRef()
	if want == "" {
		t.Fatal("Expected a configured block ref for the selected city testimonial")
	}
	if !strings.Contains(pagePrompt(t, sender), want) {
		t.Errorf("City prompt is missing its selected testimonial ref %q", want)
	}
}

func TestGenerateRejectsUnknownLocation(t *testing.T) {
	sender := &fakeSender{}
	g := NewState(newDeps(sender, pages.NewMemoryStore()))

	_, err := g.Generate(context.Background(), core.Location{State: "Atlantis"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if len(sender.calls) != 0 {
		t.Errorf("Expected no API call for an invalid location, got %d", len(sender.calls))
	}
}

func TestGeneratorKindMismatch(t *testing.T) {
	deps := newDeps(&fakeSender{}, pages.NewMemoryStore())
	ctx := context.Background()

	if _, err := NewState(deps).Generate(ctx, core.Location{State: "Iowa", City: "Ames"}); err == nil {
		t.Error("State generator must reject city locations")
	}
	if _, err := NewCity(deps).Generate(ctx, core.Location{State: "Iowa"}); err == nil {
		t.Error("City generator must reject state locations")
	}
}

func TestCityCreateParentsToStatePage(t *testing.T) {
	sender := &fakeSender{metadataJSON: `{"title":"t","seo_title":"s","meta_description":"m"}`}
	store := pages.NewMemoryStore()
	ctx := context.Background()

	stateID, _ := store.Create(ctx, core.Page{Slug: "iowa", Meta: core.PageMeta{StateName: "Iowa"}})

	g := NewCity(newDeps(sender, store))
	id, err := g.CreatePage(ctx, core.Location{State: "Iowa", City: "Des Moines"})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	p, _ := store.FindCityPage(ctx, "Iowa", "Des Moines")
	if p.ID != id || p.ParentID != stateID {
		t.Errorf("Expected city page parented to state page %d, got %+v", stateID, p)
	}
	if p.Slug != "des-moines" {
		t.Errorf("Expected slug %q, got %q", "des-moines", p.Slug)
	}
}

func TestCityCreateWithoutStatePageFails(t *testing.T) {
	g := NewCity(newDeps(&fakeSender{metadataJSON: `{"title":"t","seo_title":"s","meta_description":"m"}`}, pages.NewMemoryStore()))
	if _, err := g.CreatePage(context.Background(), core.Location{State: "Iowa", City: "Ames"}); err == nil {
		t.Error("Expected failure when the parent state page is missing")
	}
}

func TestUpdateCityPageKeepsIdentity(t *testing.T) {
	sender := &fakeSender{metadataJSON: `{"title":"t","seo_title":"s","meta_description":"m"}`}
	store := pages.NewMemoryStore()
	ctx := context.Background()

	stateID, _ := store.Create(ctx, core.Page{Slug: "california", Meta: core.PageMeta{StateName: "California"}})
	cityID, _ := store.Create(ctx, core.Page{
		Slug:     "los-angeles",
		ParentID: stateID,
		Meta:     core.PageMeta{StateName: "California", CityName: "Los Angeles"},
	})

	g := NewCity(newDeps(sender, store))
	existing, _ := store.FindCityPage(ctx, "California", "Los Angeles")
	if err := g.UpdatePage(ctx, existing, core.Location{State: "California", City: "Los Angeles"}); err != nil {
		t.Fatalf("UpdatePage: %v", err)
	}

	p, _ := store.FindCityPage(ctx, "California", "Los Angeles")
	if p.ID != cityID {
		t.Errorf("Expected update in place, got new id %d", p.ID)
	}
	if p.Meta.CityName != "Los Angeles" {
		t.Errorf("City meta changed on update: %+v", p.Meta)
	}
	if p.ParentID != stateID {
		t.Errorf("Parent linkage changed on update: %d", p.ParentID)
	}
	if !strings.Contains(p.Content, "<!-- wp:") {
		t.Error("Expected regenerated block content")
	}
}
