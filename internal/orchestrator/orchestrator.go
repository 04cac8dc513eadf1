// Package orchestrator sequences bulk and single-location operations against
// the page store: create-vs-update reconciliation, checkpointed resume,
// courtesy pacing between API-bound calls, and per-location failure isolation.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/84emllc/84em-local-pages-sub000/internal/content"
	"github.com/84emllc/84em-local-pages-sub000/internal/core"
	"github.com/84emllc/84em-local-pages-sub000/internal/generator"
	"github.com/84emllc/84em-local-pages-sub000/internal/logger"
	"github.com/84emllc/84em-local-pages-sub000/internal/notify"
	"github.com/84emllc/84em-local-pages-sub000/internal/pages"
	"github.com/84emllc/84em-local-pages-sub000/internal/refdata"
	"github.com/84emllc/84em-local-pages-sub000/internal/schemagen"
)

// CheckpointStore is the progress-persistence surface bulk runs consume. The
// SQLite store implements it; tests use an in-memory fake.
type CheckpointStore interface {
	Save(cp core.Checkpoint) error
	Load(operationType string) (*core.Checkpoint, error)
	Delete(operationType string) error
	Acquire(operationType string) (string, error)
	Release(operationType, runID string) error
}

// Deps wires the orchestrator's collaborators.
type Deps struct {
	Store       pages.Store
	Ref         *refdata.Data
	StateGen    generator.ContentGenerator
	CityGen     generator.ContentGenerator
	Checkpoints CheckpointStore
	Notifier    notify.Notifier
	Schema      *schemagen.Generator
	Processor   *content.Processor
	Delay       time.Duration // Courtesy pacing between API-bound locations
	IndexPageID int64
}

// Orchestrator runs the top-level operations. It processes locations strictly
// sequentially; the checkpoint record has a single writer.
type Orchestrator struct {
	Deps
	sleep func(time.Duration)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSleep overrides the pacing sleep function, used by tests.
func WithSleep(f func(time.Duration)) Option {
	return func(o *Orchestrator) { o.sleep = f }
}

// New returns an orchestrator over the given collaborators.
func New(d Deps, opts ...Option) *Orchestrator {
	o := &Orchestrator{Deps: d, sleep: time.Sleep}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// GenerateAll creates or updates every state page and, unless statesOnly is
// set, every city page. Progress is checkpointed so an interrupted run resumes
// without redoing completed locations.
func (o *Orchestrator) GenerateAll(ctx context.Context, statesOnly bool) (core.RunReport, error) {
	targets := o.allLocations(statesOnly)
	return o.runBulk(ctx, "generate-all", targets)
}

// UpdateAll regenerates every existing location page. Locations without an
// existing page are skipped rather than created.
func (o *Orchestrator) UpdateAll(ctx context.Context) (core.RunReport, error) {
	existing, err := o.Store.FindAll(ctx, pages.Filter{})
	if err != nil {
		return core.RunReport{Operation: "update-all"}, fmt.Errorf("failed to list existing pages: %w", err)
	}

	targets := make([]core.Location, 0, len(existing))
	for _, p := range existing {
		targets = append(targets, core.Location{State: p.Meta.StateName, City: p.Meta.CityName})
	}
	return o.runBulk(ctx, "update-all", targets)
}

// State creates or updates a single state page.
func (o *Orchestrator) State(ctx context.Context, state string) (core.RunReport, error) {
	report := o.newReport("state", 1)
	start := time.Now()
	o.processLocation(ctx, core.Location{State: state}, &report)
	report.Duration = time.Since(start)
	return report, nil
}

// City creates or updates one city page, or all ten when city is "all". With
// refreshState the state page itself is regenerated first.
func (o *Orchestrator) City(ctx context.Context, state, city string, refreshState bool) (core.RunReport, error) {
	var targets []core.Location
	if refreshState {
		targets = append(targets, core.Location{State: state})
	}
	if city == "all" {
		for _, c := range o.Ref.CitiesFor(state) {
			targets = append(targets, core.Location{State: state, City: c})
		}
	} else {
		targets = append(targets, core.Location{State: state, City: city})
	}

	report := o.newReport("city", len(targets))
	start := time.Now()
	for i, loc := range targets {
		if i > 0 {
			o.sleep(o.Delay)
		}
		o.processLocation(ctx, loc, &report)
	}
	report.Duration = time.Since(start)
	return report, nil
}

// Delete removes a state page together with its city children, or a single
// city page.
func (o *Orchestrator) Delete(ctx context.Context, state, city string) error {
	if city != "" {
		p, err := o.Store.FindCityPage(ctx, state, city)
		if err != nil {
			return fmt.Errorf("no city page for %s, %s: %w", city, state, err)
		}
		return o.Store.Delete(ctx, p.ID, false)
	}

	p, err := o.Store.FindStatePage(ctx, state)
	if err != nil {
		return fmt.Errorf("no state page for %s: %w", state, err)
	}
	return o.Store.Delete(ctx, p.ID, true)
}

// allLocations lists every target in processing order: each state directly
// followed by its cities, so city pages always find their parent.
func (o *Orchestrator) allLocations(statesOnly bool) []core.Location {
	var out []core.Location
	for _, state := range o.Ref.States() {
		out = append(out, core.Location{State: state})
		if statesOnly {
			continue
		}
		for _, city := range o.Ref.CitiesFor(state) {
			out = append(out, core.Location{State: state, City: city})
		}
	}
	return out
}

// runBulk drives a checkpointed sequential run over targets.
func (o *Orchestrator) runBulk(ctx context.Context, operation string, targets []core.Location) (core.RunReport, error) {
	report := o.newReport(operation, len(targets))

	runID, err := o.Checkpoints.Acquire(operation)
	if err != nil {
		return report, err
	}
	defer func() {
		if err := o.Checkpoints.Release(operation, runID); err != nil {
			logger.Warn("Failed to release run lock", "operation", operation, "error", err.Error())
		}
	}()

	cp, err := o.Checkpoints.Load(operation)
	if err != nil {
		return report, err
	}
	if cp == nil {
		cp = &core.Checkpoint{OperationType: operation, LastIndex: -1}
	} else {
		logger.Info("Resuming from checkpoint", "operation", operation, "completed", len(cp.Completed))
	}
	done := make(map[string]bool, len(cp.Completed))
	for _, key := range cp.Completed {
		done[key] = true
	}

	start := time.Now()
	for i, loc := range targets {
		if done[loc.String()] {
			report.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
		if report.Created+report.Updated+report.Failed > 0 {
			o.sleep(o.Delay)
		}

		o.processLocation(ctx, loc, &report)

		cp.LastIndex = i
		cp.Completed = append(cp.Completed, loc.String())
		cp.UpdatedAt = time.Now()
		if err := o.Checkpoints.Save(*cp); err != nil {
			logger.Warn("Failed to save checkpoint", "operation", operation, "error", err.Error())
		}
	}
	report.Duration = time.Since(start)

	if err := o.Checkpoints.Delete(operation); err != nil {
		logger.Warn("Failed to clear checkpoint", "operation", operation, "error", err.Error())
	}
	o.notifyRun(ctx, report)
	return report, nil
}

// processLocation reconciles one location: update when a page with the same
// identity exists, create otherwise. Failures are counted, never propagated.
func (o *Orchestrator) processLocation(ctx context.Context, loc core.Location, report *core.RunReport) {
	gen := o.StateGen
	find := func() (*core.Page, error) { return o.Store.FindStatePage(ctx, loc.State) }
	if loc.IsCity() {
		gen = o.CityGen
		find = func() (*core.Page, error) { return o.Store.FindCityPage(ctx, loc.State, loc.City) }
	}

	existing, err := find()
	switch {
	case errors.Is(err, pages.ErrNotFound):
		if _, err := gen.CreatePage(ctx, loc); err != nil {
			o.recordFailure(report, loc, err)
			return
		}
		report.Created++
	case err != nil:
		o.recordFailure(report, loc, fmt.Errorf("failed to query existing page: %w", err))
	default:
		if err := gen.UpdatePage(ctx, existing, loc); err != nil {
			o.recordFailure(report, loc, err)
			return
		}
		report.Updated++
	}
}

func (o *Orchestrator) recordFailure(report *core.RunReport, loc core.Location, err error) {
	logger.Error("Location failed", err, "location", loc.String(), "operation", report.Operation)
	report.Failed++
	report.Failures = append(report.Failures, fmt.Sprintf("%s: %v", loc, err))
}

func (o *Orchestrator) newReport(operation string, total int) core.RunReport {
	return core.RunReport{Operation: operation, Total: total}
}

func (o *Orchestrator) notifyRun(ctx context.Context, report core.RunReport) {
	if o.Notifier == nil {
		return
	}
	if err := o.Notifier.RunCompleted(ctx, report); err != nil {
		logger.Warn("Run notification failed", "operation", report.Operation, "error", err.Error())
	}
}
