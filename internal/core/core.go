package core

import "time"

// Location identifies the unit of page generation: a state, or a
// (state, city) pair. City must belong to the state's canonical city list.
type Location struct {
	State string `json:"state"` // Canonical US state name, e.g. "Iowa"
	City  string `json:"city"`  // Optional city name; empty for state locations
}

// IsCity reports whether the location targets a city page.
func (l Location) IsCity() bool {
	return l.City != ""
}

// String returns the human-readable "City, State" or "State" form used in
// prompts, log lines, and testimonial seeds.
func (l Location) String() string {
	if l.IsCity() {
		return l.City + ", " + l.State
	}
	return l.State
}

// GeneratedDocument is the complete output of the pipeline for one Location.
type GeneratedDocument struct {
	BlockContent    string `json:"block_content"`    // WordPress block markup
	Excerpt         string `json:"excerpt"`          // Short excerpt (<=30 words)
	Title           string `json:"title"`            // Page title
	SEOTitle        string `json:"seo_title"`        // SEO title (~50-60 chars, fixed suffix)
	MetaDescription string `json:"meta_description"` // SEO meta description (150-160 chars)
	SchemaJSON      string `json:"schema_json"`      // JSON-LD structured data
}

// PageMeta carries the SEO and identity meta fields persisted alongside a page.
type PageMeta struct {
	StateName      string `json:"state_name"`      // _local_page_state
	CityName       string `json:"city_name"`       // _local_page_city, empty on state pages
	Schema         string `json:"schema"`          // _local_page_schema JSON-LD
	SEOTitle       string `json:"seo_title"`       // _local_page_seo_title
	SEODescription string `json:"seo_description"` // _local_page_seo_description
}

// Page mirrors the persisted CMS page attributes the pipeline reads and writes.
// Identity is the (StateName, CityName) meta pair, not the slug; slugs can be
// migrated while identity stays fixed.
type Page struct {
	ID         int64     `json:"id"`
	Slug       string    `json:"slug"`
	ParentID   int64     `json:"parent_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Excerpt    string    `json:"excerpt"`
	Status     string    `json:"status"`
	Meta       PageMeta  `json:"meta"`
	ModifiedAt time.Time `json:"modified_at"`
}

// IsStatePage reports whether the page is a state page (no city meta).
func (p Page) IsStatePage() bool {
	return p.Meta.StateName != "" && p.Meta.CityName == ""
}

// Checkpoint records the progress of a resumable bulk operation. One
// checkpoint exists per operation type; completed units are skipped on resume.
type Checkpoint struct {
	ID            string    `json:"id"`             // Unique identifier for the checkpoint
	OperationType string    `json:"operation_type"` // e.g. "generate-all", "update-all"
	LastIndex     int       `json:"last_index"`     // Index of the last completed unit, -1 before any
	Completed     []string  `json:"completed"`      // Location keys already processed
	UpdatedAt     time.Time `json:"updated_at"`     // Staleness timestamp; stale after 24h
}

// CheckpointStaleAfter is the window after which an abandoned checkpoint is
// ignored and discarded.
const CheckpointStaleAfter = 24 * time.Hour

// IsStale reports whether the checkpoint is older than the staleness window.
func (c Checkpoint) IsStale() bool {
	return time.Since(c.UpdatedAt) > CheckpointStaleAfter
}

// ModelInfo describes one model available from the generative API.
type ModelInfo struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	Type        string    `json:"type"`
}

// RunReport aggregates the outcome of a bulk operation. A run with zero
// failures is a full success; any failure makes it a partial success, never a
// hard error.
type RunReport struct {
	Operation string        `json:"operation"`
	Total     int           `json:"total"`
	Created   int           `json:"created"`
	Updated   int           `json:"updated"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"` // Units skipped via checkpoint resume
	Failures  []string      `json:"failures"`
	Duration  time.Duration `json:"duration"`
}

// FullSuccess reports whether every processed unit succeeded.
func (r RunReport) FullSuccess() bool {
	return r.Failed == 0
}

// KeywordLink is one entry of the ordered keyword->URL table. Order matters:
// it is the tie-break when several phrases of equal length match a span.
type KeywordLink struct {
	Phrase string `json:"phrase"`
	URL    string `json:"url"`
}
