package reconcile

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/oilslickpad/storeops/internal/domain"
)

// NormalizeRule renders a rule as JSON with sorted keys. Column and relation are
// vocabulary and compare case-insensitively; the condition is kept verbatim.
func NormalizeRule(r domain.Rule) string {
	m := map[string]string{
		"column":    strings.ToLower(strings.TrimSpace(r.Column)),
		"relation":  strings.ToLower(strings.TrimSpace(r.Relation)),
		"condition": strings.TrimSpace(r.Condition),
	}
	// encoding/json writes map keys in sorted order
	b, _ := json.Marshal(m)
	return string(b)
}

// RulesEqual reports whether both lists have the same length and, once normalized,
// form the same set. Duplicates collapse, so [a, a] vs [a, b] with b == a is not
// distinguished beyond the length check.
func RulesEqual(expected, actual []domain.Rule) bool {
	if len(expected) != len(actual) {
		return false
	}
	want := ruleSet(expected)
	got := ruleSet(actual)
	if len(want) != len(got) {
		return false
	}
	for k := range want {
		if !got[k] {
			return false
		}
	}
	return true
}

// RuleDelta lists the normalized rules present only on one side
func RuleDelta(expected, actual []domain.Rule) (missing, unexpected []string) {
	want := ruleSet(expected)
	got := ruleSet(actual)
	for k := range want {
		if !got[k] {
			missing = append(missing, k)
		}
	}
	for k := range got {
		if !want[k] {
			unexpected = append(unexpected, k)
		}
	}
	sort.Strings(missing)
	sort.Strings(unexpected)
	return missing, unexpected
}

func ruleSet(rules []domain.Rule) map[string]bool {
	out := make(map[string]bool, len(rules))
	for _, r := range rules {
		out[NormalizeRule(r)] = true
	}
	return out
}
