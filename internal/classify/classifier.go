// Package classify assigns families to products by keyword scoring and validates
// existing tag sets against the taxonomy.
//
// Rule tables are ordered lists. Classification is first-match-wins in declaration
// order, so reordering a table can change results; tests pin the order-dependent
// outcomes.
package classify

import (
	"fmt"
	"math"
	"strings"

	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/taxonomy"
)

// Source tells which stage produced a classification
type Source string

const (
	SourceVendor   Source = "vendor"
	SourceOverride Source = "override"
	SourceKeywords Source = "keywords"
)

// Result is the outcome of Classify
type Result struct {
	Rule       string   `json:"rule"`
	Family     string   `json:"family"`
	Pillar     string   `json:"pillar,omitempty"`
	Use        string   `json:"use,omitempty"`
	Score      int      `json:"score"`
	Confidence float64  `json:"confidence"`
	Matches    []string `json:"matches,omitempty"`
	Source     Source   `json:"source"`
}

// Config holds the tables a Classifier evaluates. Nil fields fall back to the
// package defaults; an empty non-nil slice disables that stage.
type Config struct {
	Rules           []FamilyRule
	Overrides       []Override
	VendorShortcuts []VendorShortcut
	FamilyHints     []Hint
	MaterialHints   []Hint
	Patterns        []KnownPattern
}

// Classifier is immutable after construction and safe for concurrent use
type Classifier struct {
	tax       *taxonomy.Taxonomy
	rules     []FamilyRule
	byName    map[string]int
	overrides []Override
	vendors   []VendorShortcut
	hints     []Hint
	materials []Hint
	patterns  []KnownPattern
}

// New builds a classifier. Every rule must name a family the taxonomy defines and
// every override or vendor shortcut must name an existing rule.
func New(tax *taxonomy.Taxonomy, cfg Config) (*Classifier, error) {
	if tax == nil {
		return nil, fmt.Errorf("classifier requires a taxonomy")
	}
	c := &Classifier{
		tax:       tax,
		rules:     orDefault(cfg.Rules, DefaultRules),
		overrides: orDefault(cfg.Overrides, DefaultOverrides),
		vendors:   orDefault(cfg.VendorShortcuts, DefaultVendorShortcuts),
		hints:     orDefault(cfg.FamilyHints, DefaultFamilyHints),
		materials: orDefault(cfg.MaterialHints, DefaultMaterialHints),
		patterns:  orDefault(cfg.Patterns, DefaultPatterns),
	}

	c.byName = make(map[string]int, len(c.rules))
	for i, r := range c.rules {
		if _, dup := c.byName[r.Name]; dup {
			return nil, fmt.Errorf("rule %q defined twice", r.Name)
		}
		if _, ok := tax.FamilyDefinition(r.Family); !ok {
			return nil, fmt.Errorf("rule %q assigns unknown family %q", r.Name, r.Family)
		}
		c.byName[r.Name] = i
	}
	for _, o := range c.overrides {
		if _, ok := c.byName[o.Rule]; !ok {
			return nil, fmt.Errorf("override references unknown rule %q", o.Rule)
		}
	}
	for _, v := range c.vendors {
		if _, ok := c.byName[v.Rule]; !ok {
			return nil, fmt.Errorf("vendor shortcut %q references unknown rule %q", v.Vendor, v.Rule)
		}
	}
	return c, nil
}

// MustNew panics on an invalid table
func MustNew(tax *taxonomy.Taxonomy, cfg Config) *Classifier {
	c, err := New(tax, cfg)
	if err != nil {
		panic(err)
	}
	return c
}

// Taxonomy returns the taxonomy the classifier validates against
func (c *Classifier) Taxonomy() *taxonomy.Taxonomy {
	return c.tax
}

// Classify returns the family for a product, or false when nothing reaches the
// threshold. Vendor shortcuts run first, then title overrides, then the scored
// rules in declaration order.
func (c *Classifier) Classify(p domain.Product) (Result, bool) {
	vendor := strings.ToLower(strings.TrimSpace(p.Vendor))
	if vendor != "" {
		for _, v := range c.vendors {
			if vendor == v.Vendor {
				return c.fixed(v.Rule, SourceVendor, []string{v.Vendor}), true
			}
		}
	}

	title := strings.ToLower(p.Title)
	for _, o := range c.overrides {
		if hits := matchAny(title, o.Keywords); len(hits) > 0 {
			return c.fixed(o.Rule, SourceOverride, hits), true
		}
	}

	text := combinedText(p)
	for _, r := range c.rules {
		score, hits := scoreRule(r, text)
		if score >= minScore && len(hits) > 0 {
			res := c.result(r, SourceKeywords)
			res.Score = score
			res.Confidence = confidence(score)
			res.Matches = hits
			return res, true
		}
	}
	return Result{}, false
}

// Score returns the raw score and keyword matches of one rule for a product
func (c *Classifier) Score(ruleName string, p domain.Product) (int, []string, bool) {
	i, ok := c.byName[ruleName]
	if !ok {
		return 0, nil, false
	}
	score, hits := scoreRule(c.rules[i], combinedText(p))
	return score, hits, true
}

func (c *Classifier) fixed(ruleName string, src Source, hits []string) Result {
	res := c.result(c.rules[c.byName[ruleName]], src)
	res.Confidence = 1
	res.Matches = hits
	return res
}

func (c *Classifier) result(r FamilyRule, src Source) Result {
	res := Result{Rule: r.Name, Family: r.Family, Source: src}
	if def, ok := c.tax.FamilyDefinition(r.Family); ok {
		res.Pillar = def.Pillar
		res.Use = def.Use
	}
	return res
}

func scoreRule(r FamilyRule, text string) (int, []string) {
	hits := matchAny(text, r.Keywords)
	score := keywordScore*len(hits) + excludeScore*len(matchAny(text, r.Exclude))
	for _, n := range r.Numeric {
		if v, ok := extract(text, n.Signal); ok && n.applies(v) {
			score += n.Delta
		}
	}
	return score, hits
}

func combinedText(p domain.Product) string {
	return strings.ToLower(p.Title + " " + p.ProductType + " " + strings.Join(p.Tags, " "))
}

func confidence(score int) float64 {
	return math.Min(float64(score)/fullScore, 1)
}

func orDefault[T any](v, def []T) []T {
	if v == nil {
		return def
	}
	return v
}
