// Package content is the text-transformation engine: it cleans raw model
// output, inserts location and keyword links without ever double-linking or
// nesting anchors, normalizes headings, and wraps everything in WordPress
// block markup.
package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
)

// Processor holds the immutable link tables. One instance serves all pages.
type Processor struct {
	keywords        []core.KeywordLink
	internalPaths   []string
	locationPattern *regexp.Regexp
}

// NewProcessor builds a processor over the ordered keyword table, the known
// internal service paths, and the location-URL pattern (legacy + current).
func NewProcessor(keywords []core.KeywordLink, internalPaths []string, locationPattern *regexp.Regexp) *Processor {
	return &Processor{
		keywords:        keywords,
		internalPaths:   internalPaths,
		locationPattern: locationPattern,
	}
}

// LocationLinks parameterizes the location-linking pass for one document.
type LocationLinks struct {
	StateName  string
	StateURL   string            // Target for the state-name link on city pages
	Cities     []string          // City names to link on state pages, in order
	CityURLs   map[string]string // City name -> city page URL
	IsCityPage bool
}

// Process runs the full pipeline: clean, location links, keyword links,
// heading normalization, block wrapping. Reprocessing already-blocked content
// returns it unchanged past the idempotence guard in wrapBlocks.
func (p *Processor) Process(raw string, links LocationLinks) string {
	text := Clean(raw)
	text = p.linkLocations(text, links)
	text = p.linkKeywords(text)
	text = convertHeadings(text)
	text = wrapBlocks(text)
	return text
}

var (
	crlfRe        = regexp.MustCompile(`\r\n?`)
	intraSpaceRe  = regexp.MustCompile(`[ \t]{2,}`)
	excessBlankRe = regexp.MustCompile(`\n{4,}`)
	fenceLineRe   = regexp.MustCompile("^```[a-zA-Z]*$")
	mdListItemRe  = regexp.MustCompile(`^[-*] +(.*)$`)
)

// Clean normalizes raw model output: line endings, code fences, whitespace,
// blank-line runs. Markdown bullet lists are converted to <ul>/<li> here so
// the list-item keyword pass has elements to work on.
func Clean(raw string) string {
	text := crlfRe.ReplaceAllString(raw, "\n")

	lines := strings.Split(text, "\n")
	// Strip leading/trailing fence markers only; fences mid-document are content.
	for len(lines) > 0 && (fenceLineRe.MatchString(strings.TrimSpace(lines[0])) || strings.TrimSpace(lines[0]) == "") {
		lines = lines[1:]
	}
	for len(lines) > 0 && (fenceLineRe.MatchString(strings.TrimSpace(lines[len(lines)-1])) || strings.TrimSpace(lines[len(lines)-1]) == "") {
		lines = lines[:len(lines)-1]
	}

	for i, line := range lines {
		line = strings.TrimSpace(line)
		lines[i] = intraSpaceRe.ReplaceAllString(line, " ")
	}

	lines = convertMarkdownLists(lines)
	text = strings.Join(lines, "\n")
	text = excessBlankRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// convertMarkdownLists groups consecutive bullet lines into a <ul> element.
func convertMarkdownLists(lines []string) []string {
	var out []string
	var items []string
	flush := func() {
		if len(items) == 0 {
			return
		}
		out = append(out, "<ul>")
		for _, item := range items {
			out = append(out, "<li>"+item+"</li>")
		}
		out = append(out, "</ul>")
		items = nil
	}
	for _, line := range lines {
		if m := mdListItemRe.FindStringSubmatch(line); m != nil {
			items = append(items, m[1])
			continue
		}
		flush()
		out = append(out, line)
	}
	flush()
	return out
}

// segment is one run of either tag or text in an HTML-ish document.
type segment struct {
	text  string
	isTag bool
}

var tagRe = regexp.MustCompile(`<[^>]+>|<!--.*?-->`)

// splitSegments tokenizes content into alternating tag/text runs. All link
// insertion operates on text runs only, so tags and attributes are never
// rewritten.
func splitSegments(content string) []segment {
	var segs []segment
	last := 0
	for _, loc := range tagRe.FindAllStringIndex(content, -1) {
		if loc[0] > last {
			segs = append(segs, segment{text: content[last:loc[0]]})
		}
		segs = append(segs, segment{text: content[loc[0]:loc[1]], isTag: true})
		last = loc[1]
	}
	if last < len(content) {
		segs = append(segs, segment{text: content[last:]})
	}
	return segs
}

func wordRegexp(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
}

// linkFirst wraps the first whole-word occurrence of phrase found in a text
// segment outside any anchor. Original casing of the match is preserved.
func linkFirst(content, phrase, url string) (string, bool) {
	re := wordRegexp(phrase)
	segs := splitSegments(content)
	depth := 0
	linked := false
	var b strings.Builder
	for _, s := range segs {
		if s.isTag {
			lower := strings.ToLower(s.text)
			switch {
			case strings.HasPrefix(lower, "<a ") || lower == "<a>":
				depth++
			case lower == "</a>":
				if depth > 0 {
					depth--
				}
			}
			b.WriteString(s.text)
			continue
		}
		if !linked && depth == 0 {
			if loc := re.FindStringIndex(s.text); loc != nil {
				b.WriteString(s.text[:loc[0]])
				b.WriteString(`<a href="` + url + `">` + s.text[loc[0]:loc[1]] + `</a>`)
				b.WriteString(s.text[loc[1]:])
				linked = true
				continue
			}
		}
		b.WriteString(s.text)
	}
	return b.String(), linked
}

// anchorTextContains reports whether the phrase already appears inside any
// anchor's visible text.
func anchorTextContains(content, phrase string) bool {
	re := wordRegexp(phrase)
	segs := splitSegments(content)
	depth := 0
	for _, s := range segs {
		if s.isTag {
			lower := strings.ToLower(s.text)
			switch {
			case strings.HasPrefix(lower, "<a ") || lower == "<a>":
				depth++
			case lower == "</a>":
				if depth > 0 {
					depth--
				}
			}
			continue
		}
		if depth > 0 && re.MatchString(s.text) {
			return true
		}
	}
	return false
}

// linkLocations runs before keyword linking so longer keyword phrases cannot
// swallow city names. State documents link each city once; city documents
// link the state name once.
func (p *Processor) linkLocations(content string, links LocationLinks) string {
	if links.IsCityPage {
		if links.StateName == "" || links.StateURL == "" {
			return content
		}
		if strings.Contains(content, `href="`+links.StateURL+`"`) {
			return content
		}
		if anchorTextContains(content, links.StateName) {
			return content
		}
		content, _ = linkFirst(content, links.StateName, links.StateURL)
		return content
	}

	for _, city := range links.Cities {
		url := links.CityURLs[city]
		if url == "" {
			continue
		}
		if strings.Contains(content, `href="`+url+`"`) {
			continue
		}
		if anchorTextContains(content, city) {
			continue
		}
		content, _ = linkFirst(content, city, url)
	}
	return content
}

var (
	liRe            = regexp.MustCompile(`(?is)<li>(.*?)</li>`)
	emphasizedLiRe  = regexp.MustCompile(`(?is)<li>\s*<(strong|b|em)\b.*?</li>`)
	anchorOpenLower = "<a "
)

// linkKeywords inserts at most one anchor per keyword per document. List items
// get the longest matching keyword; the remaining text gets first-occurrence
// links in table order.
func (p *Processor) linkKeywords(content string) string {
	content = p.linkListItems(content)

	// Emphasized-label list items are swapped out so the generic pass cannot
	// touch them, then restored.
	var protected []string
	content = emphasizedLiRe.ReplaceAllStringFunc(content, func(m string) string {
		protected = append(protected, m)
		return fmt.Sprintf("\x00PROTECTED_LI_%d\x00", len(protected)-1)
	})

	for _, k := range p.keywords {
		if anchoredToURL(content, k.Phrase, k.URL) {
			continue
		}
		content, _ = linkFirst(content, k.Phrase, k.URL)
	}

	for i, original := range protected {
		content = strings.Replace(content, fmt.Sprintf("\x00PROTECTED_LI_%d\x00", i), original, 1)
	}
	return content
}

// linkListItems anchors the longest matching keyword inside plain list items.
// Items that already contain an anchor or start with an emphasized label are
// left alone.
func (p *Processor) linkListItems(content string) string {
	return liRe.ReplaceAllStringFunc(content, func(item string) string {
		inner := item[len("<li>") : len(item)-len("</li>")]
		lowerInner := strings.ToLower(inner)
		if strings.Contains(lowerInner, anchorOpenLower) {
			return item
		}
		if emphasizedLiRe.MatchString(item) {
			return item
		}

		best := -1
		for i, k := range p.keywords {
			if !strings.Contains(lowerInner, strings.ToLower(k.Phrase)) {
				continue
			}
			// Longest phrase wins; table order breaks length ties.
			if best == -1 || len(k.Phrase) > len(p.keywords[best].Phrase) {
				best = i
			}
		}
		if best == -1 {
			return item
		}

		k := p.keywords[best]
		idx := strings.Index(lowerInner, strings.ToLower(k.Phrase))
		linked := inner[:idx] +
			`<a href="` + k.URL + `">` + inner[idx:idx+len(k.Phrase)] + `</a>` +
			inner[idx+len(k.Phrase):]
		return "<li>" + linked + "</li>"
	})
}

// anchoredToURL reports whether the exact keyword is already the visible text
// of an anchor pointing at its target URL.
func anchoredToURL(content, phrase, url string) bool {
	re := regexp.MustCompile(`(?is)<a[^>]*href="` + regexp.QuoteMeta(url) + `"[^>]*>\s*` +
		regexp.QuoteMeta(phrase) + `\s*</a>`)
	return re.MatchString(content)
}

var (
	headingLineRe   = regexp.MustCompile(`^<h[1-3]>.*</h[1-3]>$`)
	tripleNewlineRe = regexp.MustCompile(`\n{3,}`)
)

// convertHeadings turns leading #/##/### markdown lines into h1-h3 elements
// and guarantees a blank line around every heading. Headings already sitting
// inside heading-block comments keep their tight spacing, so reprocessing
// wrapped content is a no-op.
func convertHeadings(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "### "):
			lines[i] = "<h3>" + strings.TrimPrefix(line, "### ") + "</h3>"
		case strings.HasPrefix(line, "## "):
			lines[i] = "<h2>" + strings.TrimPrefix(line, "## ") + "</h2>"
		case strings.HasPrefix(line, "# "):
			lines[i] = "<h1>" + strings.TrimPrefix(line, "# ") + "</h1>"
		}
	}

	var out []string
	for i, line := range lines {
		if !headingLineRe.MatchString(line) {
			out = append(out, line)
			continue
		}
		if n := len(out); n > 0 && out[n-1] != "" && !strings.HasPrefix(out[n-1], "<!-- wp:") {
			out = append(out, "")
		}
		out = append(out, line)
		if i+1 < len(lines) && lines[i+1] != "" && !strings.HasPrefix(lines[i+1], "<!-- /wp:") {
			out = append(out, "")
		}
	}
	return tripleNewlineRe.ReplaceAllString(strings.Join(out, "\n"), "\n\n")
}

var (
	headingElemRe = regexp.MustCompile(`(?s)^<h([1-6])>(.*)</h[1-6]>$`)
	blankSplitRe  = regexp.MustCompile(`\n\n+`)
)

// wrapBlocks converts paragraphs and headings into WordPress block comment
// pairs. Content that already carries paragraph or heading blocks is returned
// untouched: update operations reprocess persisted content, and wrapping
// twice would corrupt it. A bare wp:block reference does not trip the guard;
// fresh prompts embed those before any wrapping has happened.
func wrapBlocks(content string) string {
	if strings.Contains(content, "<!-- wp:paragraph") || strings.Contains(content, "<!-- wp:heading") {
		return content
	}

	paras := blankSplitRe.Split(content, -1)
	var blocks []string
	for _, para := range paras {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		switch {
		case headingElemRe.MatchString(para):
			m := headingElemRe.FindStringSubmatch(para)
			attr := ""
			if m[1] != "2" {
				attr = fmt.Sprintf(` {"level":%s}`, m[1])
			}
			blocks = append(blocks, fmt.Sprintf("<!-- wp:heading%s -->\n%s\n<!-- /wp:heading -->", attr, para))
		case strings.HasPrefix(para, "<ul>"):
			blocks = append(blocks, "<!-- wp:list -->\n"+para+"\n<!-- /wp:list -->")
		case strings.HasPrefix(para, "<!--"):
			// Reusable block references embedded by the prompt.
			blocks = append(blocks, para)
		case strings.HasPrefix(para, "<p>"):
			blocks = append(blocks, "<!-- wp:paragraph -->\n"+para+"\n<!-- /wp:paragraph -->")
		default:
			blocks = append(blocks, "<!-- wp:paragraph -->\n<p>"+para+"</p>\n<!-- /wp:paragraph -->")
		}
	}
	return strings.Join(blocks, "\n\n")
}
