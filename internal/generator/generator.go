// Package generator drives the full pipeline for one location: prompt, API
// call, post-processing, metadata, schema, and persistence. Two concrete
// generators exist, one for state pages and one for city pages; they share the
// pipeline and differ only in prompt shape and identity rules.
package generator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/84emllc/84em-local-pages-sub000/internal/content"
	"github.com/84emllc/84em-local-pages-sub000/internal/core"
	"github.com/84emllc/84em-local-pages-sub000/internal/logger"
	"github.com/84emllc/84em-local-pages-sub000/internal/pages"
	"github.com/84emllc/84em-local-pages-sub000/internal/prompt"
	"github.com/84emllc/84em-local-pages-sub000/internal/refdata"
	"github.com/84emllc/84em-local-pages-sub000/internal/schemagen"
	"github.com/84emllc/84em-local-pages-sub000/internal/testimonials"
)

// Sender is the generative API surface the pipeline consumes.
type Sender interface {
	Send(ctx context.Context, prompt string) (string, error)
}

// ValidationError marks a local input problem: an unknown location or
// malformed metadata. It is never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// ContentGenerator is the create/update contract shared by the state and city
// generators.
type ContentGenerator interface {
	// Generate produces the complete document for a location without
	// persisting anything.
	Generate(ctx context.Context, loc core.Location) (*core.GeneratedDocument, error)

	// CreatePage generates and persists a new page, returning its id.
	CreatePage(ctx context.Context, loc core.Location) (int64, error)

	// UpdatePage regenerates an existing page in place, preserving its parent
	// linkage.
	UpdatePage(ctx context.Context, existing *core.Page, loc core.Location) error
}

// Deps wires the pipeline's collaborators and site settings.
type Deps struct {
	Client          Sender
	Store           pages.Store
	Ref             *refdata.Data
	Selector        *testimonials.Selector
	Schema          *schemagen.Generator
	Processor       *content.Processor
	FoundedYear     int
	IndexPageID     int64
	ServicesBlockID int64
	CTABlockID      int64
}

// pipeline is the machinery shared by both generators.
type pipeline struct {
	Deps
}

// generate runs validation, prompting, and post-processing for one location.
func (p *pipeline) generate(ctx context.Context, loc core.Location) (*core.GeneratedDocument, error) {
	if err := p.Ref.ValidateLocation(loc); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	params := prompt.Params{
		Location:         loc,
		IndustryContext:  p.Ref.ContextFor(loc),
		BannedPhrases:    p.Ref.BannedPhrases(),
		ServicesBlockRef: testimonials.BlockRef(p.ServicesBlockID),
		CTABlockRef:      testimonials.BlockRef(p.CTABlockID),
	}

	var promptText string
	var links content.LocationLinks
	if loc.IsCity() {
		params.TestimonialBlockRef = p.Selector.ForCity(loc.String()).BlockRef()
		promptText = prompt.ForCity(params)
		links = content.LocationLinks{
			IsCityPage: true,
			StateName:  loc.State,
			StateURL:   p.Ref.StateURL(loc.State),
		}
	} else {
		params.Cities = p.Ref.CitiesFor(loc.State)
		params.TestimonialBlockRef = p.Selector.ForState(loc.State).BlockRef()
		promptText = prompt.ForState(params)
		links = content.LocationLinks{
			StateName: loc.State,
			StateURL:  p.Ref.StateURL(loc.State),
			Cities:    params.Cities,
			CityURLs:  make(map[string]string, len(params.Cities)),
		}
		for _, city := range params.Cities {
			links.CityURLs[city] = p.Ref.CityURL(loc.State, city)
		}
	}

	raw, err := p.Client.Send(ctx, promptText)
	if err != nil {
		return nil, fmt.Errorf("content generation for %s failed: %w", loc, err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("content generation for %s returned an empty document", loc)
	}

	raw = p.substituteExperience(raw)
	blockContent := p.Processor.Process(raw, links)
	sections := content.ExtractSections(raw)

	for _, issue := range content.ValidateContent(blockContent) {
		logger.Warn("Content quality issue", "location", loc.String(), "issue", issue)
	}
	p.auditBannedPhrases(loc, blockContent)

	var schemaJSON string
	if loc.IsCity() {
		schemaJSON, err = p.Schema.ForCity(loc)
	} else {
		schemaJSON, err = p.Schema.ForState(loc.State)
	}
	if err != nil {
		return nil, fmt.Errorf("schema generation for %s failed: %w", loc, err)
	}

	return &core.GeneratedDocument{
		BlockContent: blockContent,
		Excerpt:      sections.Excerpt,
		Title:        sections.Title,
		SchemaJSON:   schemaJSON,
	}, nil
}

// substituteExperience replaces the experience placeholder tokens with values
// computed from the founding year.
func (p *pipeline) substituteExperience(text string) string {
	years := time.Now().Year() - p.FoundedYear
	text = strings.ReplaceAll(text, prompt.YearsToken, strconv.Itoa(years))
	return strings.ReplaceAll(text, prompt.FoundingToken, strconv.Itoa(p.FoundedYear))
}

// auditBannedPhrases logs any banned phrase found in the final document.
// Matches are warnings only and never block publication.
func (p *pipeline) auditBannedPhrases(loc core.Location, text string) {
	lower := strings.ToLower(text)
	for _, phrase := range p.Ref.BannedPhrases() {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			logger.Warn("Banned phrase in generated content", "location", loc.String(), "phrase", phrase)
		}
	}
}

// persistNew creates the page with all fields and meta populated.
func (p *pipeline) persistNew(ctx context.Context, loc core.Location, doc *core.GeneratedDocument, slug string, parentID int64) (int64, error) {
	meta := p.metadata(ctx, loc, doc)
	page := core.Page{
		Slug:     slug,
		ParentID: parentID,
		Title:    meta.title,
		Content:  doc.BlockContent,
		Excerpt:  doc.Excerpt,
		Status:   "publish",
		Meta: core.PageMeta{
			StateName:      loc.State,
			CityName:       loc.City,
			Schema:         doc.SchemaJSON,
			SEOTitle:       meta.seoTitle,
			SEODescription: meta.metaDescription,
		},
	}

	id, err := p.Store.Create(ctx, page)
	if err != nil {
		return 0, fmt.Errorf("failed to persist page for %s: %w", loc, err)
	}
	logger.Info("Created page", "location", loc.String(), "id", id, "slug", slug)
	return id, nil
}

// persistUpdate rewrites an existing page in place, keeping its slug, parent,
// and identity meta.
func (p *pipeline) persistUpdate(ctx context.Context, existing *core.Page, loc core.Location, doc *core.GeneratedDocument) error {
	meta := p.metadata(ctx, loc, doc)
	page := *existing
	page.Title = meta.title
	page.Content = doc.BlockContent
	page.Excerpt = doc.Excerpt
	page.Meta.StateName = loc.State
	page.Meta.CityName = loc.City
	page.Meta.Schema = doc.SchemaJSON
	page.Meta.SEOTitle = meta.seoTitle
	page.Meta.SEODescription = meta.metaDescription

	if err := p.Store.Update(ctx, page); err != nil {
		return fmt.Errorf("failed to update page %d for %s: %w", existing.ID, loc, err)
	}
	logger.Info("Updated page", "location", loc.String(), "id", existing.ID)
	return nil
}
