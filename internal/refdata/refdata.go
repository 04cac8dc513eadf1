// Package refdata holds the immutable reference tables the pipeline consumes:
// the canonical state->cities map, the ordered keyword link table, per-state
// industry context, and the banned phrase list. A single Data value is built
// at startup and injected into the components that need it.
package refdata

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
)

// Data is the read-only provider for all reference tables.
type Data struct {
	siteBaseURL string
}

// New returns a provider whose generated URLs are rooted at siteBaseURL.
func New(siteBaseURL string) *Data {
	return &Data{siteBaseURL: strings.TrimSuffix(siteBaseURL, "/")}
}

// States returns the 50 canonical state names in alphabetical order.
func (d *Data) States() []string {
	out := make([]string, len(stateOrder))
	copy(out, stateOrder)
	return out
}

// CitiesFor returns the fixed 10-city list for a state, or nil when the state
// is unknown.
func (d *Data) CitiesFor(state string) []string {
	cities, ok := stateCities[state]
	if !ok {
		return nil
	}
	out := make([]string, len(cities))
	copy(out, cities)
	return out
}

// IsValidState reports whether the name is one of the 50 canonical states.
func (d *Data) IsValidState(state string) bool {
	_, ok := stateCities[state]
	return ok
}

// IsValidCity reports whether the city belongs to the state's canonical list.
func (d *Data) IsValidCity(state, city string) bool {
	for _, c := range stateCities[state] {
		if c == city {
			return true
		}
	}
	return false
}

// ValidateLocation checks a location against the canonical tables.
func (d *Data) ValidateLocation(loc core.Location) error {
	if !d.IsValidState(loc.State) {
		return fmt.Errorf("unknown state %q", loc.State)
	}
	if loc.IsCity() && !d.IsValidCity(loc.State, loc.City) {
		return fmt.Errorf("city %q is not in the %s city list", loc.City, loc.State)
	}
	return nil
}

// KeywordLinks returns the ordered keyword->URL table. Order is the tie-break
// for equal-length matches.
func (d *Data) KeywordLinks() []core.KeywordLink {
	out := make([]core.KeywordLink, len(keywordLinks))
	for i, k := range keywordLinks {
		out[i] = core.KeywordLink{Phrase: k.Phrase, URL: d.siteBaseURL + k.URL}
	}
	return out
}

// BannedPhrases returns the phrases that must not appear in generated copy.
// Matching is case-insensitive substring containment.
func (d *Data) BannedPhrases() []string {
	out := make([]string, len(bannedPhrases))
	copy(out, bannedPhrases)
	return out
}

// ContextFor returns the industry/business framing for a location. City
// locations inherit their state's framing.
func (d *Data) ContextFor(loc core.Location) string {
	if ctx, ok := stateContext[loc.State]; ok {
		return ctx
	}
	return defaultContext
}

// InternalServicePaths are site paths whose anchors the relink pass removes
// while preserving the anchor text.
func (d *Data) InternalServicePaths() []string {
	out := make([]string, len(internalServicePaths))
	for i, p := range internalServicePaths {
		out[i] = d.siteBaseURL + p
	}
	return out
}

// IndexSlug is the slug of the index page that parents every state page.
const IndexSlug = "wordpress-development-services-usa"

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a name and collapses non-alphanumeric runs to hyphens.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// LegacySlug is the pre-migration slug form for a state page.
func LegacySlug(state string) string {
	return "wordpress-development-services-" + Slugify(state)
}

// StateURL returns the public URL of a state page under the current
// hierarchical structure.
func (d *Data) StateURL(state string) string {
	return fmt.Sprintf("%s/%s/%s/", d.siteBaseURL, IndexSlug, Slugify(state))
}

// CityURL returns the public URL of a city page under the current structure.
func (d *Data) CityURL(state, city string) string {
	return fmt.Sprintf("%s/%s/%s/%s/", d.siteBaseURL, IndexSlug, Slugify(state), Slugify(city))
}

// IndexURL returns the public URL of the index page.
func (d *Data) IndexURL() string {
	return fmt.Sprintf("%s/%s/", d.siteBaseURL, IndexSlug)
}

// LocationURLPattern matches hrefs of both the legacy flat structure and the
// current hierarchical one, so the relink pass can strip either.
func (d *Data) LocationURLPattern() *regexp.Regexp {
	base := regexp.QuoteMeta(d.siteBaseURL)
	return regexp.MustCompile(base +
		`/(?:wordpress-development-services-[a-z0-9-]+|` + IndexSlug + `(?:/[a-z0-9-]+){1,2})/?`)
}
