// Package prompt assembles the natural-language instructions sent to the
// generative API. Builders are pure: same inputs, same prompt, no I/O.
package prompt

import (
	"fmt"
	"strings"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
)

// Placeholder tokens the model must emit instead of literal dates. They are
// substituted with computed values before processing, which keeps the model
// from inventing absolute years.
const (
	YearsToken    = "{years_experience}"
	FoundingToken = "{founding_year}"
)

// SEOTitleSuffix is the fixed suffix every SEO title ends with.
const SEOTitleSuffix = " | 84EM"

// Params carries everything a page prompt interpolates.
type Params struct {
	Location            core.Location
	IndustryContext     string   // Framing from refdata.ContextFor
	Cities              []string // State prompts only: the ten cities to weave in
	BannedPhrases       []string
	ServicesBlockRef    string // Embedded verbatim; empty when unconfigured
	CTABlockRef         string // Embedded verbatim; empty when unconfigured
	TestimonialBlockRef string // Embedded verbatim; empty when unconfigured
}

// sharedDirectives are the structural rules common to state and city prompts.
// The block references and placeholder rules are relied on downstream, so
// they are interpolated verbatim.
func sharedDirectives(p Params) string {
	var b strings.Builder

	b.WriteString("STRUCTURE REQUIREMENTS:\n")
	b.WriteString("- Open with a single # heading naming the location and the service.\n")
	b.WriteString("- First paragraph: a direct hook about WordPress development for businesses there. No greetings, no filler.\n")
	b.WriteString("- Follow with a value proposition paragraph: senior developers, direct communication, fixed timelines.\n")
	b.WriteString("- Use ## subheadings for each major section and markdown lists for service breakdowns.\n\n")

	if p.ServicesBlockRef != "" {
		b.WriteString("Include this exact line on its own line where the services section belongs:\n")
		b.WriteString(p.ServicesBlockRef + "\n\n")
	}
	if p.TestimonialBlockRef != "" {
		b.WriteString("Include this exact line on its own line after the main service content:\n")
		b.WriteString(p.TestimonialBlockRef + "\n\n")
	}
	if p.CTABlockRef != "" {
		b.WriteString("Include this exact line on its own line as the final element:\n")
		b.WriteString(p.CTABlockRef + "\n\n")
	}

	fmt.Fprintf(&b, "EXPERIENCE RULE: when referencing experience, write %s years (founded %s). Never write \"since %s\" or any literal calendar year.\n\n",
		YearsToken, FoundingToken, FoundingToken)

	if len(p.BannedPhrases) > 0 {
		b.WriteString("Do not use any of these phrases:\n")
		for _, phrase := range p.BannedPhrases {
			b.WriteString("- " + phrase + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Write 600-900 words of plain, factual marketing copy. No code fences, no markdown links, no em-dashes.\n")
	return b.String()
}

// ForState builds the generation prompt for a state page.
func ForState(p Params) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a WordPress development services page for businesses in %s.\n\n", p.Location.State)
	fmt.Fprintf(&b, "AUDIENCE: %s across %s.\n\n", p.IndustryContext, p.Location.State)
	if len(p.Cities) > 0 {
		fmt.Fprintf(&b, "Mention each of these cities naturally in the body text, each exactly once: %s.\n\n",
			strings.Join(p.Cities, ", "))
	}
	b.WriteString(sharedDirectives(p))
	return b.String()
}

// ForCity builds the generation prompt for a city page.
func ForCity(p Params) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a WordPress development services page for businesses in %s, %s.\n\n",
		p.Location.City, p.Location.State)
	fmt.Fprintf(&b, "AUDIENCE: %s in the %s area.\n\n", p.IndustryContext, p.Location.City)
	fmt.Fprintf(&b, "Mention the state name %s naturally in the body text at least once.\n\n", p.Location.State)
	b.WriteString(sharedDirectives(p))
	return b.String()
}

// ForMetadata builds the metadata-extraction prompt. The response must be a
// strict JSON object with exactly three string fields.
func ForMetadata(loc core.Location) string {
	return fmt.Sprintf(`Generate SEO metadata for a WordPress development services page targeting %s.

Respond with a JSON object containing exactly these three string fields:
- "title": the page title, 40-70 characters
- "seo_title": must end with "%s", 50-60 characters total
- "meta_description": 150-160 characters, include the location name

Respond with JSON only. No markdown fencing, no commentary.`, loc.String(), SEOTitleSuffix)
}
