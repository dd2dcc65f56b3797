package shopify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oilslickpad/storeops/internal/domain"
)

type menuItemNode struct {
	Title      string         `json:"title"`
	Type       string         `json:"type"`
	ResourceID string         `json:"resourceId"`
	URL        string         `json:"url"`
	Items      []menuItemNode `json:"items"`
}

// ListMenus fetches the store's navigation menus
func (c *Client) ListMenus(ctx context.Context) ([]domain.Menu, error) {
	resp, err := c.Execute(ctx, MenusQuery, map[string]interface{}{"first": 25})
	if err != nil {
		return nil, fmt.Errorf("failed to query menus: %w", err)
	}

	var result struct {
		Menus struct {
			Edges []struct {
				Node struct {
					Handle string         `json:"handle"`
					Title  string         `json:"title"`
					Items  []menuItemNode `json:"items"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"menus"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse menus response: %w", err)
	}

	menus := make([]domain.Menu, 0, len(result.Menus.Edges))
	for _, e := range result.Menus.Edges {
		menus = append(menus, domain.Menu{
			Handle: e.Node.Handle,
			Title:  e.Node.Title,
			Items:  toMenuItems(e.Node.Items),
		})
	}
	return menus, nil
}

func toMenuItems(nodes []menuItemNode) []domain.MenuItem {
	if len(nodes) == 0 {
		return nil
	}
	items := make([]domain.MenuItem, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, domain.MenuItem{
			Title:      n.Title,
			Type:       n.Type,
			ResourceID: n.ResourceID,
			URL:        n.URL,
			Items:      toMenuItems(n.Items),
		})
	}
	return items
}
