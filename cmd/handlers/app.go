package handlers

import (
	"fmt"
	"net/http"

	"github.com/84emllc/84em-local-pages-sub000/internal/checkpoint"
	"github.com/84emllc/84em-local-pages-sub000/internal/config"
	"github.com/84emllc/84em-local-pages-sub000/internal/content"
	"github.com/84emllc/84em-local-pages-sub000/internal/generator"
	"github.com/84emllc/84em-local-pages-sub000/internal/llm"
	"github.com/84emllc/84em-local-pages-sub000/internal/notify"
	"github.com/84emllc/84em-local-pages-sub000/internal/orchestrator"
	"github.com/84emllc/84em-local-pages-sub000/internal/refdata"
	"github.com/84emllc/84em-local-pages-sub000/internal/schemagen"
	"github.com/84emllc/84em-local-pages-sub000/internal/testimonials"
	"github.com/84emllc/84em-local-pages-sub000/internal/wordpress"
)

// app is the composed application: every component built once, dependencies
// injected explicitly, no lookups at runtime.
type app struct {
	cfg         *config.Config
	secrets     config.SecretStore
	client      *llm.Client
	orch        *orchestrator.Orchestrator
	checkpoints *checkpoint.Store
}

// buildApp wires the full component graph for API-bound commands.
func buildApp() (*app, error) {
	secrets := config.NewViperSecretStore(cfg.App.TestMode)

	apiKey := cfg.API.Key
	if apiKey == "" {
		apiKey, _ = secrets.Get(config.SecretAPIKey)
	}
	model := cfg.API.Model
	if model == "" {
		if stored, err := secrets.Get(config.SecretModel); err == nil {
			model = stored
		} else {
			model = llm.DefaultModel
		}
	}
	webhookURL := cfg.Notify.WebhookURL
	if webhookURL == "" {
		webhookURL, _ = secrets.Get(config.SecretWebhookURL)
	}

	client := llm.NewClient(apiKey, model,
		llm.WithBaseURL(cfg.API.BaseURL),
		llm.WithMaxTokens(cfg.API.MaxTokens),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
	)

	if cfg.WordPress.BaseURL == "" {
		return nil, fmt.Errorf("wordpress.base_url is not configured")
	}
	store := wordpress.New(cfg.WordPress.BaseURL, cfg.WordPress.User, cfg.WordPress.AppPassword)

	checkpoints, err := checkpoint.NewStore(cfg.App.DataDir)
	if err != nil {
		return nil, err
	}

	ref := refdata.New(cfg.Site.BaseURL)
	schema := schemagen.New(ref, "84EM", cfg.Site.BaseURL)
	processor := content.NewProcessor(ref.KeywordLinks(), ref.InternalServicePaths(), ref.LocationURLPattern())
	selector := testimonials.NewSelector(cfg.Site.TestimonialBlocks)

	genDeps := generator.Deps{
		Client:          client,
		Store:           store,
		Ref:             ref,
		Selector:        selector,
		Schema:          schema,
		Processor:       processor,
		FoundedYear:     cfg.Site.FoundedYear,
		IndexPageID:     cfg.WordPress.IndexPageID,
		ServicesBlockID: cfg.Site.ServicesBlockID,
		CTABlockID:      cfg.Site.CTABlockID,
	}

	orch := orchestrator.New(orchestrator.Deps{
		Store:       store,
		Ref:         ref,
		StateGen:    generator.NewState(genDeps),
		CityGen:     generator.NewCity(genDeps),
		Checkpoints: checkpoints,
		Notifier:    notify.NewWebhook(webhookURL),
		Schema:      schema,
		Processor:   processor,
		Delay:       cfg.API.RequestDelay,
		IndexPageID: cfg.WordPress.IndexPageID,
	})

	return &app{
		cfg:         cfg,
		secrets:     secrets,
		client:      client,
		orch:        orch,
		checkpoints: checkpoints,
	}, nil
}

// Close releases the app's persistent resources.
func (a *app) Close() {
	if a.checkpoints != nil {
		a.checkpoints.Close()
	}
}
