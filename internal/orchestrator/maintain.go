package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/84emllc/84em-local-pages-sub000/internal/content"
	"github.com/84emllc/84em-local-pages-sub000/internal/core"
	"github.com/84emllc/84em-local-pages-sub000/internal/logger"
	"github.com/84emllc/84em-local-pages-sub000/internal/pages"
	"github.com/84emllc/84em-local-pages-sub000/internal/refdata"
	"github.com/84emllc/84em-local-pages-sub000/internal/sitemap"
)

// RebuildSitemap renders the sitemap XML for every published location page.
func (o *Orchestrator) RebuildSitemap(ctx context.Context) (string, error) {
	existing, err := o.Store.FindAll(ctx, pages.Filter{})
	if err != nil {
		return "", fmt.Errorf("failed to list pages for sitemap: %w", err)
	}
	return sitemap.Build(o.Ref, existing, time.Now())
}

// RebuildIndex regenerates the index page: a block-wrapped list of links to
// every state page plus the CollectionPage schema. The page is created when it
// does not exist yet.
func (o *Orchestrator) RebuildIndex(ctx context.Context) error {
	schemaJSON, err := o.Schema.ForIndex()
	if err != nil {
		return err
	}
	body := o.indexContent()

	existing, err := o.Store.FindBySlug(ctx, refdata.IndexSlug)
	switch {
	case errors.Is(err, pages.ErrNotFound):
		_, err := o.Store.Create(ctx, core.Page{
			Slug:    refdata.IndexSlug,
			Title:   "WordPress Development Services USA",
			Content: body,
			Status:  "publish",
			Meta:    core.PageMeta{Schema: schemaJSON},
		})
		if err != nil {
			return fmt.Errorf("failed to create index page: %w", err)
		}
		logger.Info("Created index page", "slug", refdata.IndexSlug)
		return nil
	case err != nil:
		return fmt.Errorf("failed to load index page: %w", err)
	}

	existing.Content = body
	existing.Meta.Schema = schemaJSON
	if err := o.Store.Update(ctx, *existing); err != nil {
		return fmt.Errorf("failed to update index page: %w", err)
	}
	logger.Info("Rebuilt index page", "id", existing.ID)
	return nil
}

func (o *Orchestrator) indexContent() string {
	var b strings.Builder
	b.WriteString("<!-- wp:heading -->\n<h2>WordPress Development Services by State</h2>\n<!-- /wp:heading -->\n\n")
	b.WriteString("<!-- wp:list -->\n<ul>\n")
	for _, state := range o.Ref.States() {
		fmt.Fprintf(&b, "<li><a href=\"%s\">%s</a></li>\n", o.Ref.StateURL(state), state)
	}
	b.WriteString("</ul>\n<!-- /wp:list -->")
	return b.String()
}

// RegenerateSchemas recomputes the schema meta for every location page, or
// only those of one state. Content is left untouched.
func (o *Orchestrator) RegenerateSchemas(ctx context.Context, state string) (core.RunReport, error) {
	existing, err := o.Store.FindAll(ctx, pages.Filter{State: state})
	if err != nil {
		return core.RunReport{Operation: "schema"}, fmt.Errorf("failed to list pages: %w", err)
	}

	report := o.newReport("schema", len(existing))
	start := time.Now()
	for _, p := range existing {
		loc := core.Location{State: p.Meta.StateName, City: p.Meta.CityName}

		var schemaJSON string
		if loc.IsCity() {
			schemaJSON, err = o.Schema.ForCity(loc)
		} else {
			schemaJSON, err = o.Schema.ForState(loc.State)
		}
		if err != nil {
			o.recordFailure(&report, loc, err)
			continue
		}

		p.Meta.Schema = schemaJSON
		if err := o.Store.Update(ctx, p); err != nil {
			o.recordFailure(&report, loc, err)
			continue
		}
		report.Updated++
	}
	report.Duration = time.Since(start)
	return report, nil
}

// RelinkAll strips the known keyword and location anchors from every page (or
// one state's pages) and reruns the linking passes from a clean slate. No API
// calls are made; the existing content is reprocessed in place.
func (o *Orchestrator) RelinkAll(ctx context.Context, state string) (core.RunReport, error) {
	existing, err := o.Store.FindAll(ctx, pages.Filter{State: state})
	if err != nil {
		return core.RunReport{Operation: "relink"}, fmt.Errorf("failed to list pages: %w", err)
	}

	report := o.newReport("relink", len(existing))
	start := time.Now()
	for _, p := range existing {
		loc := core.Location{State: p.Meta.StateName, City: p.Meta.CityName}

		stripped := o.Processor.StripExistingKeywordLinks(p.Content)
		p.Content = o.Processor.Process(stripped, o.locationLinks(loc))
		if err := o.Store.Update(ctx, p); err != nil {
			o.recordFailure(&report, loc, err)
			continue
		}
		report.Updated++
	}
	report.Duration = time.Since(start)
	return report, nil
}

// MigrateURLs renames legacy-slugged state pages to the hierarchical slug
// form. Parents are untouched; city children resolve their new URLs through
// the parent-slug change alone.
func (o *Orchestrator) MigrateURLs(ctx context.Context) (core.RunReport, error) {
	statePages, err := o.Store.FindAll(ctx, pages.Filter{StatesOnly: true})
	if err != nil {
		return core.RunReport{Operation: "migrate"}, fmt.Errorf("failed to list state pages: %w", err)
	}

	report := o.newReport("migrate", len(statePages))
	start := time.Now()
	for _, p := range statePages {
		loc := core.Location{State: p.Meta.StateName}
		if p.Slug != refdata.LegacySlug(p.Meta.StateName) {
			report.Skipped++
			continue
		}

		p.Slug = refdata.Slugify(p.Meta.StateName)
		if err := o.Store.Update(ctx, p); err != nil {
			o.recordFailure(&report, loc, err)
			continue
		}
		logger.Info("Migrated state page slug", "state", p.Meta.StateName, "slug", p.Slug)
		report.Updated++
	}
	report.Duration = time.Since(start)
	return report, nil
}

// locationLinks builds the linking context for reprocessing a page's content.
func (o *Orchestrator) locationLinks(loc core.Location) content.LocationLinks {
	if loc.IsCity() {
		return content.LocationLinks{
			IsCityPage: true,
			StateName:  loc.State,
			StateURL:   o.Ref.StateURL(loc.State),
		}
	}
	cities := o.Ref.CitiesFor(loc.State)
	links := content.LocationLinks{
		StateName: loc.State,
		StateURL:  o.Ref.StateURL(loc.State),
		Cities:    cities,
		CityURLs:  make(map[string]string, len(cities)),
	}
	for _, city := range cities {
		links.CityURLs[city] = o.Ref.CityURL(loc.State, city)
	}
	return links
}
