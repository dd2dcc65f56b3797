package tags

// Analysis is the structured view of a product's tag set
type Analysis struct {
	Raw         []string            `json:"raw"`
	ByNamespace map[string][]string `json:"byNamespace"`
	Families    []string            `json:"families"`
	Pillars     []string            `json:"pillars"`
	Uses        []string            `json:"uses"`
	Materials   []string            `json:"materials"`
	Brands      []string            `json:"brands"`
	Styles      []string            `json:"styles"`
}

// Parse parses a comma-joined tag string. It never fails; empty input yields an
// empty, fully initialized Analysis.
func Parse(tagString string) Analysis {
	return Analyze(SplitList(tagString))
}

// Analyze builds the structured view from a list of raw tags, preserving input order
// within each namespace and dropping exact duplicates.
func Analyze(raw []string) Analysis {
	a := Analysis{
		Raw:         []string{},
		ByNamespace: map[string][]string{},
		Families:    []string{},
		Pillars:     []string{},
		Uses:        []string{},
		Materials:   []string{},
		Brands:      []string{},
		Styles:      []string{},
	}

	seen := make(map[Tag]bool, len(raw))
	for _, r := range raw {
		t := ParseTag(r)
		if t.Namespace == "" && t.Value == "" {
			continue
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		a.Raw = append(a.Raw, t.String())

		bucket := string(t.Namespace)
		if !t.IsNamespaced() {
			bucket = string(Unnamespaced)
		}
		a.ByNamespace[bucket] = append(a.ByNamespace[bucket], t.Value)

		switch t.Namespace {
		case NamespaceFamily:
			a.Families = append(a.Families, t.Value)
		case NamespacePillar:
			a.Pillars = append(a.Pillars, t.Value)
		case NamespaceUse:
			a.Uses = append(a.Uses, t.Value)
		case NamespaceMaterial:
			a.Materials = append(a.Materials, t.Value)
		case NamespaceBrand:
			a.Brands = append(a.Brands, t.Value)
		case NamespaceStyle:
			a.Styles = append(a.Styles, t.Value)
		}
	}
	return a
}

// IsEmpty reports whether the product has no tags at all
func (a Analysis) IsEmpty() bool {
	return len(a.Raw) == 0
}

// Unnamespaced returns the legacy tags without a namespace
func (a Analysis) Unnamespaced() []string {
	return a.ByNamespace[string(Unnamespaced)]
}
