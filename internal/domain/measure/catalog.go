package measure

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Sentinel errors for catalog construction.
var (
	ErrDuplicateMeasure = errors.New("duplicate measure id")
	ErrInvalidMeasure   = errors.New("invalid measure")
)

// CatalogOption applies a configuration option to a Catalog.
type CatalogOption func(*Catalog)

// WithDefaultPolarity sets the polarity used for ids missing from the catalog.
func WithDefaultPolarity(p Polarity) CatalogOption {
	return func(c *Catalog) {
		c.defaultPolarity = p
	}
}

// Catalog is the single per-measure configuration table. Every classifier
// call resolves polarity through it so that no call site carries its own rule.
type Catalog struct {
	order           []string
	byID            map[string]Measure
	defaultPolarity Polarity
}

// NewCatalog validates the measures and indexes them by id.
func NewCatalog(measures []Measure, opts ...CatalogOption) (*Catalog, error) {
	c := &Catalog{
		order:           make([]string, 0, len(measures)),
		byID:            make(map[string]Measure, len(measures)),
		defaultPolarity: HigherIsBetter,
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, m := range measures {
		if strings.TrimSpace(m.ID) == "" {
			return nil, fmt.Errorf("%w: empty id", ErrInvalidMeasure)
		}
		if math.IsNaN(m.Weight) || math.IsInf(m.Weight, 0) {
			return nil, fmt.Errorf("%w: %s has non-finite weight %v", ErrInvalidMeasure, m.ID, m.Weight)
		}
		if m.Weight < 0 {
			return nil, fmt.Errorf("%w: %s has negative weight %v", ErrInvalidMeasure, m.ID, m.Weight)
		}
		if _, ok := c.byID[m.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMeasure, m.ID)
		}
		c.byID[m.ID] = m
		c.order = append(c.order, m.ID)
	}
	return c, nil
}

// Lookup returns the measure with the given id.
func (c *Catalog) Lookup(id string) (Measure, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// Polarity returns the polarity for id. The second result is false when the
// id is unknown and the default polarity was used instead.
func (c *Catalog) Polarity(id string) (Polarity, bool) {
	if m, ok := c.byID[id]; ok {
		return m.Polarity, true
	}
	return c.defaultPolarity, false
}

// DefaultPolarity returns the fallback polarity.
func (c *Catalog) DefaultPolarity() Polarity {
	return c.defaultPolarity
}

// All returns the measures in declaration order.
func (c *Catalog) All() []Measure {
	out := make([]Measure, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// ByDomain returns the measures of one domain in declaration order.
func (c *Catalog) ByDomain(d Domain) []Measure {
	var out []Measure
	for _, id := range c.order {
		if m := c.byID[id]; m.Domain == d {
			out = append(out, m)
		}
	}
	return out
}

// Domains returns the domains that have at least one measure, in display order.
func (c *Catalog) Domains() []Domain {
	present := make(map[Domain]bool)
	for _, m := range c.byID {
		present[m.Domain] = true
	}
	var out []Domain
	for _, d := range knownDomains {
		if present[d] {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of measures.
func (c *Catalog) Len() int {
	return len(c.order)
}
