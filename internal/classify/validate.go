package classify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/tags"
)

// Validate checks a tagged product against the taxonomy. Generic checks run first,
// then the known patterns in order. Issues are never errors.
func (c *Classifier) Validate(p domain.Product) []domain.Issue {
	subject := strconv.FormatInt(p.ID, 10)
	a := tags.Analyze(p.Tags)
	if a.IsEmpty() {
		return []domain.Issue{{
			Severity: domain.SeverityCritical,
			Code:     "NO_TAGS",
			Message:  "product has no tags and needs full classification",
			Subject:  subject,
		}}
	}

	var issues []domain.Issue
	add := func(i domain.Issue) {
		i.Subject = subject
		issues = append(issues, i)
	}

	title := strings.ToLower(p.Title)

	switch len(a.Families) {
	case 0:
		add(c.missingFamily(title, a))
	case 1:
	default:
		add(c.multipleFamilies(a))
	}

	for _, ns := range c.tax.KnownNamespaces() {
		for _, v := range a.ByNamespace[string(ns)] {
			if c.tax.IsValidValue(ns, v) {
				continue
			}
			add(c.invalidValue(ns, v))
		}
	}

	if len(a.Families) == 1 {
		if def, ok := c.tax.FamilyDefinition(a.Families[0]); ok {
			if i, ok := impliedCheck(tags.NamespacePillar, def.Name, def.Pillar, a.Pillars, true); ok {
				add(i)
			}
			if def.Use != "" {
				if i, ok := impliedCheck(tags.NamespaceUse, def.Name, def.Use, a.Uses, false); ok {
					add(i)
				}
			}
		}
	}

	for _, m := range c.impliedMaterials(title) {
		if contains(a.Materials, m) || !c.tax.IsValidValue(tags.NamespaceMaterial, m) {
			continue
		}
		tag := tags.New(tags.NamespaceMaterial, m).String()
		add(domain.Issue{
			Severity: domain.SeverityMedium,
			Code:     "MISSING_MATERIAL",
			Message:  fmt.Sprintf("title mentions %s but %s is missing", m, tag),
			Details:  map[string]interface{}{"material": m},
			Fix:      &domain.TagFix{Add: []string{tag}},
		})
	}

	in := PatternInput{Title: title, Analysis: a, Suggest: c.SuggestFamily}
	for _, kp := range c.patterns {
		if !kp.Match(in) {
			continue
		}
		i := domain.Issue{Severity: kp.Severity, Code: kp.Code, Message: kp.Message(in)}
		if kp.Fix != nil {
			i.Fix = kp.Fix(in)
		}
		add(i)
	}
	return issues
}

func (c *Classifier) missingFamily(title string, a tags.Analysis) domain.Issue {
	i := domain.Issue{
		Severity: domain.SeverityHigh,
		Code:     "MISSING_FAMILY",
		Message:  "no family tag",
	}
	fam, ok := c.SuggestFamily(title)
	if !ok {
		return i
	}
	def, _ := c.tax.FamilyDefinition(fam)
	i.Message = fmt.Sprintf("no family tag, title suggests %s", fam)
	i.Details = map[string]interface{}{"suggested": fam}

	fix := &domain.TagFix{Add: []string{tags.New(tags.NamespaceFamily, fam).String()}}
	if len(a.Pillars) == 0 {
		fix.Add = append(fix.Add, tags.New(tags.NamespacePillar, def.Pillar).String())
	}
	if def.Use != "" && !contains(a.Uses, def.Use) {
		fix.Add = append(fix.Add, tags.New(tags.NamespaceUse, def.Use).String())
	}
	i.Fix = fix
	return i
}

func (c *Classifier) multipleFamilies(a tags.Analysis) domain.Issue {
	uses := map[string]bool{}
	for _, f := range a.Families {
		if def, ok := c.tax.FamilyDefinition(f); ok {
			uses[def.Use] = true
		}
	}
	details := map[string]interface{}{"families": a.Families}
	if len(uses) > 1 {
		return domain.Issue{
			Severity: domain.SeverityHigh,
			Code:     "CONFLICTING_FAMILIES",
			Message:  fmt.Sprintf("families %s imply different uses", strings.Join(a.Families, ", ")),
			Details:  details,
		}
	}
	return domain.Issue{
		Severity: domain.SeverityLow,
		Code:     "REDUNDANT_FAMILIES",
		Message:  fmt.Sprintf("families %s share one use", strings.Join(a.Families, ", ")),
		Details:  details,
	}
}

func (c *Classifier) invalidValue(ns tags.Namespace, v string) domain.Issue {
	sev := domain.SeverityLow
	switch ns {
	case tags.NamespaceFamily, tags.NamespacePillar, tags.NamespaceUse:
		sev = domain.SeverityMedium
	}
	i := domain.Issue{
		Severity: sev,
		Code:     "INVALID_" + strings.ToUpper(string(ns)),
		Message:  fmt.Sprintf("unknown %s value %q", ns, v),
		Details:  map[string]interface{}{"value": v},
	}
	if s, ok := Closest(v, c.tax.Values(ns)); ok {
		i.Message += fmt.Sprintf(", did you mean %q", s)
		i.Details["suggestion"] = s
		i.Fix = &domain.TagFix{
			Remove: []string{tags.New(ns, v).String()},
			Add:    []string{tags.New(ns, s).String()},
		}
	}
	return i
}

// impliedCheck compares the values present in ns with the one the family implies.
// When exclusive, any other value present is wrong; otherwise extra values are
// tolerated as long as the implied one is there.
func impliedCheck(ns tags.Namespace, family, want string, have []string, exclusive bool) (domain.Issue, bool) {
	upper := strings.ToUpper(string(ns))
	wantTag := tags.New(ns, want).String()
	if len(have) == 0 {
		return domain.Issue{
			Severity: domain.SeverityMedium,
			Code:     "MISSING_" + upper,
			Message:  fmt.Sprintf("family %s implies %s", family, wantTag),
			Details:  map[string]interface{}{"expected": want},
			Fix:      &domain.TagFix{Add: []string{wantTag}},
		}, true
	}

	present := contains(have, want)
	if present && !exclusive {
		return domain.Issue{}, false
	}
	var wrong []string
	for _, h := range have {
		if !strings.EqualFold(h, want) {
			wrong = append(wrong, tags.New(ns, h).String())
		}
	}
	if len(wrong) == 0 {
		return domain.Issue{}, false
	}
	fix := &domain.TagFix{Remove: wrong}
	if !present {
		fix.Add = []string{wantTag}
	}
	return domain.Issue{
		Severity: domain.SeverityHigh,
		Code:     upper + "_MISMATCH",
		Message:  fmt.Sprintf("family %s implies %s, found %s", family, wantTag, strings.Join(wrong, ", ")),
		Details:  map[string]interface{}{"expected": want, "found": have},
		Fix:      fix,
	}, true
}
