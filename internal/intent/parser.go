// Package intent turns a free-text vibe into a structured domain.Intent.
package intent

import (
	"strings"

	"github.com/cesargomez89/vibefinder/internal/domain"
)

// Parser holds one set of keyword tables. It is safe for concurrent use.
type Parser struct {
	tables Tables
}

func NewParser(tables Tables) *Parser {
	if tables.DefaultVibe == "" {
		tables.DefaultVibe = DefaultTables().DefaultVibe
	}
	return &Parser{tables: tables}
}

var defaultParser = NewParser(DefaultTables())

// Parse reads raw with the default tables.
func Parse(raw string) domain.Intent {
	return defaultParser.Parse(raw)
}

// Parse never fails; every field falls back to a default.
func (p *Parser) Parse(raw string) domain.Intent {
	text := strings.ToLower(raw)

	environment := p.tables.Environment.Match(text)
	genre := p.tables.Genre.Match(text)

	speed := domain.Speed(p.tables.Speed.Match(text))
	if speed == "" {
		speed = domain.SpeedMedium
	}

	vibe := p.tables.Vibe.Match(text)
	if vibe == "" {
		vibe = firstToken(text)
	}
	if vibe == "" {
		vibe = p.tables.DefaultVibe
	}

	return domain.Intent{
		Vibe:        vibe,
		Environment: environment,
		Speed:       speed,
		Energy:      EnergyFor(speed),
		Valence:     p.valenceFor(vibe),
		Genre:       genre,
	}
}

// Match returns the first category with a keyword contained in text.
func (t Table) Match(text string) string {
	for _, c := range t {
		for _, kw := range c.Keywords {
			if strings.Contains(text, kw) {
				return c.Name
			}
		}
	}
	return ""
}

// Keywords returns every trigger of the named category.
func (t Table) Keywords(name string) []string {
	for _, c := range t {
		if c.Name == name {
			return c.Keywords
		}
	}
	return nil
}

func EnergyFor(speed domain.Speed) domain.Energy {
	switch speed {
	case domain.SpeedFast:
		return domain.EnergyHigh
	case domain.SpeedSlow:
		return domain.EnergyLow
	default:
		return domain.EnergyMedium
	}
}

func (p *Parser) valenceFor(vibe string) domain.Valence {
	for _, v := range p.tables.Negative {
		if v == vibe {
			return domain.ValenceNegative
		}
	}
	for _, v := range p.tables.Positive {
		if v == vibe {
			return domain.ValencePositive
		}
	}
	return domain.ValenceNeutral
}

func firstToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Terms returns the lower-cased intent words worth matching in titles.
func Terms(in domain.Intent) []string {
	var terms []string
	for _, s := range []string{in.Vibe, in.Environment, in.Genre} {
		if s != "" {
			terms = append(terms, s)
		}
	}
	return terms
}
