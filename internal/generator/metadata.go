package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
	"github.com/84emllc/84em-local-pages-sub000/internal/llm"
	"github.com/84emllc/84em-local-pages-sub000/internal/logger"
	"github.com/84emllc/84em-local-pages-sub000/internal/prompt"
)

// pageMetadata is the SEO field set attached to every page.
type pageMetadata struct {
	title           string
	seoTitle        string
	metaDescription string
}

type metadataResponse struct {
	Title           string `json:"title"`
	SEOTitle        string `json:"seo_title"`
	MetaDescription string `json:"meta_description"`
}

// metadata runs the metadata round-trip against the generative API. Any
// failure, including malformed JSON or missing fields, falls back to the
// deterministic templates so page creation never fails on metadata alone.
func (p *pipeline) metadata(ctx context.Context, loc core.Location, doc *core.GeneratedDocument) pageMetadata {
	meta, err := p.requestMetadata(ctx, loc)
	if err != nil {
		logger.Warn("Metadata generation failed, using fallback templates",
			"location", loc.String(), "error", err.Error())
		return fallbackMetadata(loc)
	}
	return meta
}

func (p *pipeline) requestMetadata(ctx context.Context, loc core.Location) (pageMetadata, error) {
	raw, err := p.Client.Send(ctx, prompt.ForMetadata(loc))
	if err != nil {
		return pageMetadata{}, err
	}

	var parsed metadataResponse
	if err := json.Unmarshal([]byte(llm.CleanJSONResponse(raw)), &parsed); err != nil {
		return pageMetadata{}, &ValidationError{Reason: "metadata response is not valid JSON: " + err.Error()}
	}
	if parsed.Title == "" || parsed.SEOTitle == "" || parsed.MetaDescription == "" {
		return pageMetadata{}, &ValidationError{Reason: "metadata response is missing required fields"}
	}
	return pageMetadata{
		title:           parsed.Title,
		seoTitle:        parsed.SEOTitle,
		metaDescription: parsed.MetaDescription,
	}, nil
}

// fallbackMetadata builds deterministic metadata from the location name alone.
func fallbackMetadata(loc core.Location) pageMetadata {
	name := loc.String()
	return pageMetadata{
		title:    fmt.Sprintf("WordPress Development Services in %s", name),
		seoTitle: fmt.Sprintf("WordPress Development in %s%s", name, prompt.SEOTitleSuffix),
		metaDescription: fmt.Sprintf(
			"Expert WordPress development for businesses in %s. Custom plugins, API integrations, security audits, and ongoing support from senior US-based developers.", name),
	}
}
