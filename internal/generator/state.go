package generator

import (
	"context"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
	"github.com/84emllc/84em-local-pages-sub000/internal/refdata"
)

// StateGenerator produces state pages. State pages parent to the fixed index
// page and carry only the state meta key.
type StateGenerator struct {
	pipeline
}

// NewState returns the state-page generator.
func NewState(d Deps) *StateGenerator {
	return &StateGenerator{pipeline{d}}
}

func (g *StateGenerator) Generate(ctx context.Context, loc core.Location) (*core.GeneratedDocument, error) {
	if loc.IsCity() {
		return nil, &ValidationError{Reason: "state generator received a city location"}
	}
	return g.generate(ctx, loc)
}

func (g *StateGenerator) CreatePage(ctx context.Context, loc core.Location) (int64, error) {
	doc, err := g.Generate(ctx, loc)
	if err != nil {
		return 0, err
	}
	return g.persistNew(ctx, loc, doc, refdata.Slugify(loc.State), g.IndexPageID)
}

func (g *StateGenerator) UpdatePage(ctx context.Context, existing *core.Page, loc core.Location) error {
	doc, err := g.Generate(ctx, loc)
	if err != nil {
		return err
	}
	return g.persistUpdate(ctx, existing, loc, doc)
}
