package prompt

import (
	"strings"
	"testing"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
)

func stateParams() Params {
	return Params{
		Location:            core.Location{State: "Iowa"},
		IndustryContext:     "insurance carriers and agricultural technology firms",
		Cities:              []string{"Des Moines", "Cedar Rapids", "Davenport"},
		BannedPhrases:       []string{"look no further", "cutting-edge"},
		ServicesBlockRef:    `<!-- wp:block {"ref":101} /-->`,
		CTABlockRef:         `<!-- wp:block {"ref":102} /-->`,
		TestimonialBlockRef: `<!-- wp:block {"ref":103} /-->`,
	}
}

func TestForState(t *testing.T) {
	p := ForState(stateParams())

	for _, want := range []string{
		"Iowa",
		"Des Moines, Cedar Rapids, Davenport",
		"insurance carriers",
		`<!-- wp:block {"ref":101} /-->`,
		`<!-- wp:block {"ref":102} /-->`,
		`<!-- wp:block {"ref":103} /-->`,
		"look no further",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("State prompt missing %q", want)
		}
	}
}

func TestForState_Deterministic(t *testing.T) {
	if ForState(stateParams()) != ForState(stateParams()) {
		t.Error("Expected identical prompts for identical params")
	}
}

func TestForCity(t *testing.T) {
	p := ForCity(Params{
		Location:        core.Location{State: "California", City: "Los Angeles"},
		IndustryContext: "entertainment studios",
	})
	if !strings.Contains(p, "Los Angeles, California") {
		t.Errorf("City prompt missing location, got:\n%s", p)
	}
	if !strings.Contains(p, "Mention the state name California") {
		t.Error("City prompt missing state-mention directive")
	}
}

func TestExperiencePlaceholderRule(t *testing.T) {
	p := ForState(stateParams())
	if !strings.Contains(p, YearsToken) || !strings.Contains(p, FoundingToken) {
		t.Error("Prompt must instruct the model to use the experience placeholder tokens")
	}
	if !strings.Contains(p, `"since `+FoundingToken+`"`) {
		t.Error("Prompt must explicitly forbid the literal since-year pattern")
	}
}

func TestOmittedBlockRefsLeaveNoDirective(t *testing.T) {
	p := ForState(Params{Location: core.Location{State: "Iowa"}})
	if strings.Contains(p, "wp:block") {
		t.Error("No block directives expected when refs are unconfigured")
	}
}

func TestForMetadata(t *testing.T) {
	p := ForMetadata(core.Location{State: "Iowa", City: "Ames"})

	for _, want := range []string{
		"Ames, Iowa",
		`"title"`,
		`"seo_title"`,
		`"meta_description"`,
		SEOTitleSuffix,
		"150-160",
		"No markdown fencing",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("Metadata prompt missing %q", want)
		}
	}
}
