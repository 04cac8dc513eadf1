package generator

import (
	"context"
	"fmt"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
	"github.com/84emllc/84em-local-pages-sub000/internal/refdata"
)

// CityGenerator produces city pages. City pages parent to their state's page
// and carry both the state and city meta keys.
type CityGenerator struct {
	pipeline
}

// NewCity returns the city-page generator.
func NewCity(d Deps) *CityGenerator {
	return &CityGenerator{pipeline{d}}
}

func (g *CityGenerator) Generate(ctx context.Context, loc core.Location) (*core.GeneratedDocument, error) {
	if !loc.IsCity() {
		return nil, &ValidationError{Reason: "city generator received a state location"}
	}
	return g.generate(ctx, loc)
}

func (g *CityGenerator) CreatePage(ctx context.Context, loc core.Location) (int64, error) {
	doc, err := g.Generate(ctx, loc)
	if err != nil {
		return 0, err
	}

	parent, err := g.Store.FindStatePage(ctx, loc.State)
	if err != nil {
		return 0, fmt.Errorf("cannot create city page for %s without its state page: %w", loc, err)
	}
	return g.persistNew(ctx, loc, doc, refdata.Slugify(loc.City), parent.ID)
}

func (g *CityGenerator) UpdatePage(ctx context.Context, existing *core.Page, loc core.Location) error {
	doc, err := g.Generate(ctx, loc)
	if err != nil {
		return err
	}
	return g.persistUpdate(ctx, existing, loc, doc)
}
