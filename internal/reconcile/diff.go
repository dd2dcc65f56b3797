// Package reconcile compares expected collection definitions with live store state
// and plans the minimal patches that remove the drift.
package reconcile

import (
	"fmt"

	"github.com/oilslickpad/storeops/internal/catalog"
	"github.com/oilslickpad/storeops/internal/domain"
)

const (
	CodeMissingCollection   = "MISSING_COLLECTION"
	CodeNotSmart            = "NOT_SMART"
	CodeDisjunctive         = "DISJUNCTIVE_MISMATCH"
	CodeSortOrder           = "SORT_ORDER_MISMATCH"
	CodeRulesDrift          = "RULES_DRIFT"
	CodeOrphan              = "ORPHAN_COLLECTION"
	CodeEmpty               = "EMPTY_COLLECTION"
	CodeLowInventory        = "LOW_INVENTORY"
	CodeTooBroad            = "TOO_BROAD"
	CodeMenuPositionMissing = "MENU_POSITION_MISSING"
	CodeMenuPositionDup     = "MENU_POSITION_DUPLICATE"
	CodeBrokenMenuLink      = "BROKEN_MENU_LINK"
)

// Diff compares one definition with its live collection. live is nil when the
// handle does not exist in the store. Each mismatched field yields its own issue,
// and each patch carries only that field.
func Diff(def catalog.Definition, live *domain.Collection) []domain.Issue {
	if live == nil {
		return []domain.Issue{{
			Severity: domain.SeverityCritical,
			Code:     CodeMissingCollection,
			Message:  fmt.Sprintf("collection %s does not exist", def.Handle),
			Subject:  def.Handle,
		}}
	}
	if live.Type == domain.CollectionTypeCustom {
		return []domain.Issue{{
			Severity: domain.SeverityHigh,
			Code:     CodeNotSmart,
			Message:  fmt.Sprintf("collection %s is a custom collection, expected smart rules", def.Handle),
			Subject:  def.Handle,
		}}
	}

	var issues []domain.Issue
	if live.Disjunctive != def.Disjunctive {
		want := def.Disjunctive
		issues = append(issues, domain.Issue{
			Severity: domain.SeverityMedium,
			Code:     CodeDisjunctive,
			Message:  fmt.Sprintf("disjunctive is %t, expected %t", live.Disjunctive, want),
			Subject:  def.Handle,
			Details:  map[string]interface{}{"expected": want, "actual": live.Disjunctive},
			Patch:    &domain.CollectionPatch{Disjunctive: &want},
		})
	}
	if def.SortOrder != "" && live.SortOrder != def.SortOrder {
		want := def.SortOrder
		issues = append(issues, domain.Issue{
			Severity: domain.SeverityMedium,
			Code:     CodeSortOrder,
			Message:  fmt.Sprintf("sort order is %q, expected %q", live.SortOrder, want),
			Subject:  def.Handle,
			Details:  map[string]interface{}{"expected": want, "actual": live.SortOrder},
			Patch:    &domain.CollectionPatch{SortOrder: &want},
		})
	}
	if !RulesEqual(def.Rules, live.Rules) {
		missing, unexpected := RuleDelta(def.Rules, live.Rules)
		rules := make([]domain.Rule, len(def.Rules))
		copy(rules, def.Rules)
		issues = append(issues, domain.Issue{
			Severity: domain.SeverityCritical,
			Code:     CodeRulesDrift,
			Message:  "rules have drifted",
			Subject:  def.Handle,
			Details: map[string]interface{}{
				"missing":    missing,
				"unexpected": unexpected,
				"expected":   len(def.Rules),
				"actual":     len(live.Rules),
			},
			Patch: &domain.CollectionPatch{Rules: rules},
		})
	}
	return issues
}

// ApplyPatch returns the collection as it looks after the patch
func ApplyPatch(c domain.Collection, p domain.CollectionPatch) domain.Collection {
	if p.Disjunctive != nil {
		c.Disjunctive = *p.Disjunctive
	}
	if p.SortOrder != nil {
		c.SortOrder = *p.SortOrder
	}
	if p.Rules != nil {
		c.Rules = make([]domain.Rule, len(p.Rules))
		copy(c.Rules, p.Rules)
	}
	return c
}
