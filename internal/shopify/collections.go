package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/oilslickpad/storeops/internal/domain"
)

const pageSize = 250

type collectionNode struct {
	ID            string `json:"id"`
	Handle        string `json:"handle"`
	Title         string `json:"title"`
	SortOrder     string `json:"sortOrder"`
	ProductsCount struct {
		Count int `json:"count"`
	} `json:"productsCount"`
	RuleSet *struct {
		AppliedDisjunctively bool `json:"appliedDisjunctively"`
		Rules                []struct {
			Column    string `json:"column"`
			Relation  string `json:"relation"`
			Condition string `json:"condition"`
		} `json:"rules"`
	} `json:"ruleSet"`
}

// ListCollections fetches every collection, translating GraphQL enums (TAG, EQUALS,
// BEST_SELLING) into the REST vocabulary used by definitions and updates.
func (c *Client) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	var out []domain.Collection
	after := ""
	for {
		variables := map[string]interface{}{"first": pageSize}
		if after != "" {
			variables["after"] = after
		}
		resp, err := c.Execute(ctx, CollectionsQuery, variables)
		if err != nil {
			return nil, fmt.Errorf("failed to query collections: %w", err)
		}

		var result struct {
			Collections struct {
				PageInfo pageInfo `json:"pageInfo"`
				Edges    []struct {
					Node collectionNode `json:"node"`
				} `json:"edges"`
			} `json:"collections"`
		}
		if err := json.Unmarshal(resp.Data, &result); err != nil {
			return nil, fmt.Errorf("failed to parse collections response: %w", err)
		}

		for _, e := range result.Collections.Edges {
			col, err := toCollection(e.Node)
			if err != nil {
				return nil, err
			}
			out = append(out, col)
		}

		if !result.Collections.PageInfo.HasNextPage {
			break
		}
		after = result.Collections.PageInfo.EndCursor
	}
	c.logger.Debug("Fetched collections", zap.Int("count", len(out)))
	return out, nil
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

func toCollection(n collectionNode) (domain.Collection, error) {
	id, err := extractIDFromGID(n.ID)
	if err != nil {
		return domain.Collection{}, err
	}
	col := domain.Collection{
		ID:           id,
		GID:          n.ID,
		Handle:       n.Handle,
		Title:        n.Title,
		Type:         domain.CollectionTypeCustom,
		SortOrder:    NormalizeSortOrder(n.SortOrder),
		ProductCount: n.ProductsCount.Count,
	}
	if n.RuleSet != nil {
		col.Type = domain.CollectionTypeSmart
		col.Disjunctive = n.RuleSet.AppliedDisjunctively
		col.Rules = make([]domain.Rule, 0, len(n.RuleSet.Rules))
		for _, r := range n.RuleSet.Rules {
			col.Rules = append(col.Rules, domain.Rule{
				Column:    strings.ToLower(r.Column),
				Relation:  strings.ToLower(r.Relation),
				Condition: r.Condition,
			})
		}
	}
	return col, nil
}

// NormalizeSortOrder maps GraphQL sort keys (BEST_SELLING) to REST ones (best-selling)
func NormalizeSortOrder(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", "-")
}

// UpdateSmartCollection sends only the fields present in the patch
func (c *Client) UpdateSmartCollection(ctx context.Context, id int64, patch domain.CollectionPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	body := map[string]interface{}{"id": id}
	if patch.Disjunctive != nil {
		body["disjunctive"] = *patch.Disjunctive
	}
	if patch.SortOrder != nil {
		body["sort_order"] = *patch.SortOrder
	}
	if patch.Rules != nil {
		body["rules"] = patch.Rules
	}

	path := fmt.Sprintf("smart_collections/%d.json", id)
	if err := c.Put(ctx, path, map[string]interface{}{"smart_collection": body}, nil); err != nil {
		return fmt.Errorf("failed to update smart collection %d: %w", id, err)
	}
	return nil
}
