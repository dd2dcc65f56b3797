package classify

import (
	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/tags"
)

const maxConvergePasses = 3

// ApplyFix returns a copy of the set with fix applied: removals first, then additions
func ApplyFix(set tags.Set, fix domain.TagFix) tags.Set {
	out := set.Clone()
	out.Remove(fix.Remove...)
	out.Add(fix.Add...)
	return out
}

// Convergence is the outcome of Converge
type Convergence struct {
	Before  []string
	After   []string
	Applied []domain.Issue
	Passes  int
}

// Changed reports whether the tag set differs from the starting one
func (c Convergence) Changed() bool {
	return !tags.NewSet(c.Before...).Equal(tags.NewSet(c.After...))
}

// Converge applies auto-fixable fixes and re-validates until no auto-fixable issue
// remains or the pass limit is hit. Each pass only applies fixes of the most severe
// level present, so known-pattern corrections settle the family before pillar and
// use checks run against it.
func (c *Classifier) Converge(p domain.Product) Convergence {
	start := tags.NewSet(p.Tags...)
	res := Convergence{Before: start.Strings()}
	cur := start

	for res.Passes < maxConvergePasses {
		candidate := p
		candidate.Tags = cur.Strings()
		fixes := autoFixes(c.Validate(candidate))
		if len(fixes) == 0 {
			break
		}
		res.Passes++

		next := cur
		for _, i := range fixes {
			next = ApplyFix(next, *i.Fix)
		}
		res.Applied = append(res.Applied, fixes...)
		if next.Equal(cur) {
			break
		}
		cur = next
	}
	res.After = cur.Strings()
	return res
}

func autoFixes(issues []domain.Issue) []domain.Issue {
	top := len(domain.Severities)
	for _, i := range issues {
		if i.Fix != nil && i.Severity.AutoFixable() && i.Severity.Rank() < top {
			top = i.Severity.Rank()
		}
	}
	var out []domain.Issue
	for _, i := range issues {
		if i.Fix != nil && i.Severity.AutoFixable() && i.Severity.Rank() == top {
			out = append(out, i)
		}
	}
	return out
}
