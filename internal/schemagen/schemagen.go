// Package schemagen builds the JSON-LD structured data embedded in every
// generated page. The generators are pure: given the same location and
// reference data they always emit the same document.
package schemagen

import (
	"encoding/json"
	"fmt"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
	"github.com/84emllc/84em-local-pages-sub000/internal/refdata"
)

const schemaContext = "https://schema.org"

// serviceTypes enumerates the offerings listed on every service schema.
var serviceTypes = []string{
	"Custom WordPress Development",
	"WordPress Plugin Development",
	"API Integrations",
	"WordPress Security Audits",
	"White Label Development",
	"WordPress Maintenance and Support",
}

// Generator produces JSON-LD documents for state, city, and index pages.
type Generator struct {
	ref     *refdata.Data
	orgName string
	orgURL  string
}

// New returns a generator describing orgName as the service provider.
func New(ref *refdata.Data, orgName, orgURL string) *Generator {
	return &Generator{ref: ref, orgName: orgName, orgURL: orgURL}
}

type organization struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type place struct {
	Type             string `json:"@type"`
	Name             string `json:"name"`
	ContainedInPlace *place `json:"containedInPlace,omitempty"`
}

type offer struct {
	Type        string `json:"@type"`
	ItemOffered struct {
		Type string `json:"@type"`
		Name string `json:"name"`
	} `json:"itemOffered"`
}

type offerCatalog struct {
	Type            string  `json:"@type"`
	Name            string  `json:"name"`
	ItemListElement []offer `json:"itemListElement"`
}

type service struct {
	Type            string        `json:"@type"`
	Name            string        `json:"name"`
	Provider        organization  `json:"provider"`
	AreaServed      []place       `json:"areaServed"`
	HasOfferCatalog *offerCatalog `json:"hasOfferCatalog,omitempty"`
}

type breadcrumbItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

type breadcrumbList struct {
	Type            string           `json:"@type"`
	ItemListElement []breadcrumbItem `json:"itemListElement"`
}

type webPage struct {
	Context    string          `json:"@context"`
	Type       string          `json:"@type"`
	Name       string          `json:"name"`
	URL        string          `json:"url"`
	MainEntity service         `json:"mainEntity"`
	Breadcrumb *breadcrumbList `json:"breadcrumb,omitempty"`
}

type listItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	URL      string `json:"url"`
}

type collectionPage struct {
	Context    string `json:"@context"`
	Type       string `json:"@type"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	MainEntity struct {
		Type            string     `json:"@type"`
		ItemListElement []listItem `json:"itemListElement"`
	} `json:"mainEntity"`
}

// ForState builds the schema for a state page: a WebPage whose main entity is
// the service offering with the state and its ten cities as the served area.
func (g *Generator) ForState(state string) (string, error) {
	cities := g.ref.CitiesFor(state)
	area := make([]place, 0, len(cities)+1)
	area = append(area, place{Type: "State", Name: state})
	for _, c := range cities {
		area = append(area, place{
			Type:             "City",
			Name:             c,
			ContainedInPlace: &place{Type: "State", Name: state},
		})
	}

	doc := webPage{
		Context: schemaContext,
		Type:    "WebPage",
		Name:    fmt.Sprintf("WordPress Development Services in %s", state),
		URL:     g.ref.StateURL(state),
		MainEntity: service{
			Type:            "Service",
			Name:            "WordPress Development",
			Provider:        organization{Type: "Organization", Name: g.orgName, URL: g.orgURL},
			AreaServed:      area,
			HasOfferCatalog: g.catalog(),
		},
	}
	return marshal(doc)
}

// ForCity builds the schema for a city page, including the Home -> State ->
// City breadcrumb trail.
func (g *Generator) ForCity(loc core.Location) (string, error) {
	doc := webPage{
		Context: schemaContext,
		Type:    "WebPage",
		Name:    fmt.Sprintf("WordPress Development Services in %s", loc.String()),
		URL:     g.ref.CityURL(loc.State, loc.City),
		MainEntity: service{
			Type:     "Service",
			Name:     "WordPress Development",
			Provider: organization{Type: "Organization", Name: g.orgName, URL: g.orgURL},
			AreaServed: []place{{
				Type:             "City",
				Name:             loc.City,
				ContainedInPlace: &place{Type: "State", Name: loc.State},
			}},
			HasOfferCatalog: g.catalog(),
		},
		Breadcrumb: &breadcrumbList{
			Type: "BreadcrumbList",
			ItemListElement: []breadcrumbItem{
				{Type: "ListItem", Position: 1, Name: "Home", Item: g.orgURL},
				{Type: "ListItem", Position: 2, Name: loc.State, Item: g.ref.StateURL(loc.State)},
				{Type: "ListItem", Position: 3, Name: loc.City, Item: g.ref.CityURL(loc.State, loc.City)},
			},
		},
	}
	return marshal(doc)
}

// ForIndex builds the schema for the index page: a CollectionPage whose main
// entity lists every state page.
func (g *Generator) ForIndex() (string, error) {
	states := g.ref.States()
	doc := collectionPage{
		Context: schemaContext,
		Type:    "CollectionPage",
		Name:    "WordPress Development Services Across the USA",
		URL:     g.ref.IndexURL(),
	}
	doc.MainEntity.Type = "ItemList"
	doc.MainEntity.ItemListElement = make([]listItem, len(states))
	for i, s := range states {
		doc.MainEntity.ItemListElement[i] = listItem{
			Type:     "ListItem",
			Position: i + 1,
			Name:     s,
			URL:      g.ref.StateURL(s),
		}
	}
	return marshal(doc)
}

func (g *Generator) catalog() *offerCatalog {
	cat := &offerCatalog{Type: "OfferCatalog", Name: "WordPress Development Services"}
	for _, t := range serviceTypes {
		var o offer
		o.Type = "Offer"
		o.ItemOffered.Type = "Service"
		o.ItemOffered.Name = t
		cat.ItemListElement = append(cat.ItemListElement, o)
	}
	return cat
}

func marshal(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema: %w", err)
	}
	return string(b), nil
}
