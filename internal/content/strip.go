package content

import (
	"regexp"
	"strings"
)

var anchorRe = regexp.MustCompile(`(?is)<a\s[^>]*href="([^"]*)"[^>]*>(.*?)</a>`)

// StripExistingKeywordLinks removes the anchors the linking passes may have
// inserted on earlier runs, preserving their visible text, so relinking can
// start from a clean slate. Anchors are stripped when the visible text exactly
// equals a known keyword (any href), when the href targets a known internal
// service path, or when the href matches the legacy or current location-URL
// pattern. All other anchors are left alone.
func (p *Processor) StripExistingKeywordLinks(text string) string {
	return anchorRe.ReplaceAllStringFunc(text, func(anchor string) string {
		m := anchorRe.FindStringSubmatch(anchor)
		href, inner := m[1], m[2]

		if p.isKeywordText(inner) {
			return inner
		}
		for _, path := range p.internalPaths {
			if href == path {
				return inner
			}
		}
		if p.locationPattern != nil && p.locationPattern.MatchString(href) {
			return inner
		}
		return anchor
	})
}

func (p *Processor) isKeywordText(inner string) bool {
	visible := strings.ToLower(strings.Join(strings.Fields(stripTags(inner)), " "))
	for _, k := range p.keywords {
		if visible == strings.ToLower(k.Phrase) {
			return true
		}
	}
	return false
}
