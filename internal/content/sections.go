package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Sections holds the title, meta description, and excerpt pulled from a
// generated document.
type Sections struct {
	Title           string
	MetaDescription string
	Excerpt         string
}

const (
	maxMetaDescription = 155
	maxExcerptWords    = 30
	minBodyLineLength  = 50
)

var (
	mdHeadingRe   = regexp.MustCompile(`(?m)^#{1,3}\s+(.+)$`)
	h1Re          = regexp.MustCompile(`(?is)<h1>(.*?)</h1>`)
	anyHeadingRe  = regexp.MustCompile(`(?im)^(#{1,3}\s|<h[1-3]>)`)
	wpHeadingRe   = regexp.MustCompile(`<!-- wp:heading`)
	wpParagraphRe = regexp.MustCompile(`<!-- wp:paragraph`)
)

// ExtractSections pulls the title from the first heading and derives the meta
// description and excerpt from the first substantial body line.
func ExtractSections(raw string) Sections {
	text := Clean(raw)
	var s Sections

	if m := mdHeadingRe.FindStringSubmatch(text); m != nil {
		s.Title = strings.TrimSpace(m[1])
	} else if m := h1Re.FindStringSubmatch(text); m != nil {
		s.Title = strings.TrimSpace(stripTags(m[1]))
	}

	basis := firstBodyLine(text)
	if basis != "" {
		s.MetaDescription = trimToLength(basis, maxMetaDescription)
		s.Excerpt = trimToWords(basis, maxExcerptWords)
	}
	return s
}

// firstBodyLine returns the first line longer than 50 characters that is not
// a heading or blank.
func firstBodyLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || anyHeadingRe.MatchString(line) {
			continue
		}
		plain := strings.TrimSpace(stripTags(line))
		if len(plain) > minBodyLineLength {
			return plain
		}
	}
	return ""
}

// trimToLength word-trims to at most n characters, appending an ellipsis when
// truncated.
func trimToLength(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n-3]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

// trimToWords keeps at most n words.
func trimToWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ")
}

func stripTags(s string) string {
	return tagRe.ReplaceAllString(s, " ")
}

// ValidateContent checks word count, heading presence, and paragraph count.
// The returned issues are advisory: they are logged as warnings upstream and
// never block publication.
func ValidateContent(text string) []string {
	var issues []string

	plain := strings.TrimSpace(stripTags(text))
	wordCount := len(strings.Fields(plain))
	if wordCount < 300 {
		issues = append(issues, fmt.Sprintf("content is too short: %d words (minimum 300)", wordCount))
	}

	if !hasHeading(text) {
		issues = append(issues, "content has no heading")
	}

	if countParagraphs(text) < 3 {
		issues = append(issues, "content has fewer than 3 paragraphs")
	}
	return issues
}

func hasHeading(text string) bool {
	if anyHeadingRe.MatchString(text) || wpHeadingRe.MatchString(text) {
		return true
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return false
	}
	return doc.Find("h1, h2, h3").Length() > 0
}

func countParagraphs(text string) int {
	if n := len(wpParagraphRe.FindAllString(text, -1)); n > 0 {
		return n
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err == nil {
		if n := doc.Find("p").Length(); n > 0 {
			return n
		}
	}
	return len(blankSplitRe.Split(strings.TrimSpace(text), -1))
}
