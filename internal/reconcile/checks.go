package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oilslickpad/storeops/internal/catalog"
	"github.com/oilslickpad/storeops/internal/domain"
)

// Thresholds configures the product-count checks
type Thresholds struct {
	// MinProducts applies to definitions that do not set their own
	MinProducts int
	// TooBroadShare flags a scoped collection matching at least this share of the
	// catalog. Zero disables the share check.
	TooBroadShare float64
}

// DefaultThresholds matches the config defaults
var DefaultThresholds = Thresholds{MinProducts: 1, TooBroadShare: 0.95}

// FindOrphans reports live collections absent from the definitions table
func FindOrphans(defs []catalog.Definition, live []domain.Collection, ignore []string) []domain.Issue {
	known := make(map[string]bool, len(defs)+len(ignore))
	for _, d := range defs {
		known[d.Handle] = true
	}
	for _, h := range ignore {
		known[strings.TrimSpace(h)] = true
	}

	var issues []domain.Issue
	for _, c := range live {
		if known[c.Handle] {
			continue
		}
		sev := domain.SeverityLow
		if c.Type == domain.CollectionTypeCustom {
			sev = domain.SeverityInfo
		}
		issues = append(issues, domain.Issue{
			Severity: sev,
			Code:     CodeOrphan,
			Message:  fmt.Sprintf("%s collection %q is not in the definitions table", c.Type, c.Title),
			Subject:  c.Handle,
			Details:  map[string]interface{}{"type": string(c.Type), "productCount": c.ProductCount},
		})
	}
	return issues
}

// CheckCounts flags empty, thin and too-broad collections. total is the number of
// products in the store.
func CheckCounts(def catalog.Definition, live domain.Collection, total int, th Thresholds) []domain.Issue {
	count := live.ProductCount
	details := map[string]interface{}{"matchCount": count, "totalProducts": total}

	if count == 0 {
		if total == 0 {
			return nil
		}
		return []domain.Issue{{
			Severity: domain.SeverityMedium,
			Code:     CodeEmpty,
			Message:  fmt.Sprintf("collection matches 0 of %d products", total),
			Subject:  def.Handle,
			Details:  details,
		}}
	}

	floor := def.MinProducts
	if floor == 0 {
		floor = th.MinProducts
	}
	if count < floor {
		return []domain.Issue{{
			Severity: domain.SeverityLow,
			Code:     CodeLowInventory,
			Message:  fmt.Sprintf("collection matches %d products, minimum is %d", count, floor),
			Subject:  def.Handle,
			Details:  details,
		}}
	}

	if def.Unscoped {
		return nil
	}
	overMax := def.MaxProducts > 0 && count > def.MaxProducts
	overShare := th.TooBroadShare > 0 && total > 0 && float64(count) >= th.TooBroadShare*float64(total)
	if overMax || overShare {
		return []domain.Issue{{
			Severity: domain.SeverityCritical,
			Code:     CodeTooBroad,
			Message:  fmt.Sprintf("collection matches %d of %d products, a filter rule is probably missing", count, total),
			Subject:  def.Handle,
			Details:  details,
		}}
	}
	return nil
}

// CheckMenuPositions verifies every menu-linked definition has a position and no
// two definitions share one within the same menu
func CheckMenuPositions(defs []catalog.Definition) []domain.Issue {
	var issues []domain.Issue
	taken := map[string]map[int]string{}
	for _, d := range defs {
		if d.Menu == "" {
			continue
		}
		if d.Position == nil {
			issues = append(issues, domain.Issue{
				Severity: domain.SeverityMedium,
				Code:     CodeMenuPositionMissing,
				Message:  fmt.Sprintf("collection is linked from %s without a position", d.Menu),
				Subject:  d.Handle,
				Details:  map[string]interface{}{"menu": d.Menu},
			})
			continue
		}
		if taken[d.Menu] == nil {
			taken[d.Menu] = map[int]string{}
		}
		if other, dup := taken[d.Menu][*d.Position]; dup {
			issues = append(issues, domain.Issue{
				Severity: domain.SeverityMedium,
				Code:     CodeMenuPositionDup,
				Message:  fmt.Sprintf("position %d in %s is also used by %s", *d.Position, d.Menu, other),
				Subject:  d.Handle,
				Details:  map[string]interface{}{"menu": d.Menu, "position": *d.Position, "conflictsWith": other},
			})
			continue
		}
		taken[d.Menu][*d.Position] = d.Handle
	}
	return issues
}

// CheckMenuLinks reports menu items pointing at collections that no longer exist
func CheckMenuLinks(menus []domain.Menu, live []domain.Collection) []domain.Issue {
	byGID := make(map[string]bool, len(live))
	byHandle := make(map[string]bool, len(live))
	for _, c := range live {
		byGID[c.GID] = true
		byHandle[c.Handle] = true
	}

	var issues []domain.Issue
	var walk func(menu string, items []domain.MenuItem)
	walk = func(menu string, items []domain.MenuItem) {
		for _, it := range items {
			if broken, target := brokenLink(it, byGID, byHandle); broken {
				issues = append(issues, domain.Issue{
					Severity: domain.SeverityHigh,
					Code:     CodeBrokenMenuLink,
					Message:  fmt.Sprintf("menu item %q in %s links to a missing collection", it.Title, menu),
					Subject:  menu,
					Details:  map[string]interface{}{"item": it.Title, "target": target},
				})
			}
			walk(menu, it.Items)
		}
	}
	for _, m := range menus {
		walk(m.Handle, m.Items)
	}
	return issues
}

func brokenLink(it domain.MenuItem, byGID, byHandle map[string]bool) (bool, string) {
	if !strings.EqualFold(it.Type, "COLLECTION") {
		return false, ""
	}
	if it.ResourceID != "" {
		return !byGID[it.ResourceID], it.ResourceID
	}
	if h, ok := strings.CutPrefix(it.URL, "/collections/"); ok && h != "" && h != "all" {
		return !byHandle[h], it.URL
	}
	return false, ""
}

// SortIssues orders issues most severe first, keeping emission order within a level
func SortIssues(issues []domain.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity.Rank() < issues[j].Severity.Rank()
	})
}
