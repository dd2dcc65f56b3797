package reconcile

import (
	"github.com/oilslickpad/storeops/internal/catalog"
	"github.com/oilslickpad/storeops/internal/domain"
)

// Input is everything one reconciliation pass looks at
type Input struct {
	Definitions   []catalog.Definition
	Live          []domain.Collection
	Menus         []domain.Menu
	TotalProducts int
	Thresholds    Thresholds
	OrphanIgnore  []string
	// Only restricts the pass to one handle and skips the catalog-wide checks
	Only string
}

// Evaluate runs every check and returns the issues sorted most severe first
func Evaluate(in Input) []domain.Issue {
	byHandle := IndexByHandle(in.Live)

	var issues []domain.Issue
	for _, def := range in.Definitions {
		if in.Only != "" && def.Handle != in.Only {
			continue
		}
		live, ok := byHandle[def.Handle]
		if !ok {
			issues = append(issues, Diff(def, nil)...)
			continue
		}
		issues = append(issues, Diff(def, &live)...)
		issues = append(issues, CheckCounts(def, live, in.TotalProducts, in.Thresholds)...)
	}

	if in.Only == "" {
		issues = append(issues, FindOrphans(in.Definitions, in.Live, in.OrphanIgnore)...)
		issues = append(issues, CheckMenuPositions(in.Definitions)...)
		issues = append(issues, CheckMenuLinks(in.Menus, in.Live)...)
	}
	SortIssues(issues)
	return issues
}

// IndexByHandle maps live collections by handle
func IndexByHandle(live []domain.Collection) map[string]domain.Collection {
	out := make(map[string]domain.Collection, len(live))
	for _, c := range live {
		out[c.Handle] = c
	}
	return out
}

// MergePatches folds the patches of all issues for one subject into a single patch
func MergePatches(issues []domain.Issue) domain.CollectionPatch {
	var merged domain.CollectionPatch
	for _, i := range issues {
		if i.Patch == nil {
			continue
		}
		if i.Patch.Disjunctive != nil {
			merged.Disjunctive = i.Patch.Disjunctive
		}
		if i.Patch.SortOrder != nil {
			merged.SortOrder = i.Patch.SortOrder
		}
		if i.Patch.Rules != nil {
			merged.Rules = i.Patch.Rules
		}
	}
	return merged
}

// Operation is one update call against a live collection
type Operation struct {
	Handle       string
	CollectionID int64
	GID          string
	Patch        domain.CollectionPatch
	Issues       []domain.Issue
}

// Plan groups patch-carrying issues by collection, in first-seen order. Issues for
// handles absent from live are skipped since there is nothing to update.
func Plan(issues []domain.Issue, live []domain.Collection) []Operation {
	byHandle := IndexByHandle(live)
	grouped := map[string][]domain.Issue{}
	var order []string
	for _, i := range issues {
		if i.Patch == nil || i.Patch.IsEmpty() {
			continue
		}
		if _, ok := byHandle[i.Subject]; !ok {
			continue
		}
		if _, seen := grouped[i.Subject]; !seen {
			order = append(order, i.Subject)
		}
		grouped[i.Subject] = append(grouped[i.Subject], i)
	}

	ops := make([]Operation, 0, len(order))
	for _, h := range order {
		c := byHandle[h]
		ops = append(ops, Operation{
			Handle:       h,
			CollectionID: c.ID,
			GID:          c.GID,
			Patch:        MergePatches(grouped[h]),
			Issues:       grouped[h],
		})
	}
	return ops
}
