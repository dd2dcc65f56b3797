package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/tags"
	apperrors "github.com/oilslickpad/storeops/pkg/errors"
)

// ListOptions limits product listings. Max of 0 means no limit.
type ListOptions struct {
	Max    int
	Query  string // GraphQL search syntax, e.g. "status:active"
	Vendor string // REST listings only
}

type productNode struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Handle      string   `json:"handle"`
	Vendor      string   `json:"vendor"`
	ProductType string   `json:"productType"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
	Variants    struct {
		Edges []struct {
			Node struct {
				ID                string `json:"id"`
				SKU               string `json:"sku"`
				Title             string `json:"title"`
				Price             string `json:"price"`
				InventoryQuantity int    `json:"inventoryQuantity"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

// ListProducts pages through products over GraphQL
func (c *Client) ListProducts(ctx context.Context, opts ListOptions) ([]domain.Product, error) {
	var out []domain.Product
	after := ""
	for {
		first := pageSize
		if opts.Max > 0 && opts.Max-len(out) < first {
			first = opts.Max - len(out)
		}
		variables := map[string]interface{}{"first": first}
		if after != "" {
			variables["after"] = after
		}
		if opts.Query != "" {
			variables["query"] = opts.Query
		}

		resp, err := c.Execute(ctx, ProductsQuery, variables)
		if err != nil {
			return nil, fmt.Errorf("failed to query products: %w", err)
		}
		var result struct {
			Products struct {
				PageInfo pageInfo `json:"pageInfo"`
				Edges    []struct {
					Node productNode `json:"node"`
				} `json:"edges"`
			} `json:"products"`
		}
		if err := json.Unmarshal(resp.Data, &result); err != nil {
			return nil, fmt.Errorf("failed to parse products response: %w", err)
		}

		for _, e := range result.Products.Edges {
			p, err := toProduct(e.Node)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}

		if !result.Products.PageInfo.HasNextPage || (opts.Max > 0 && len(out) >= opts.Max) {
			break
		}
		after = result.Products.PageInfo.EndCursor
	}
	c.logger.Debug("Fetched products", zap.Int("count", len(out)))
	return out, nil
}

func toProduct(n productNode) (domain.Product, error) {
	id, err := extractIDFromGID(n.ID)
	if err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{
		ID:          id,
		GID:         n.ID,
		Title:       n.Title,
		Handle:      n.Handle,
		Vendor:      n.Vendor,
		ProductType: n.ProductType,
		Status:      n.Status,
		Tags:        n.Tags,
	}
	for _, e := range n.Variants.Edges {
		vid, err := extractIDFromGID(e.Node.ID)
		if err != nil {
			return domain.Product{}, err
		}
		p.Variants = append(p.Variants, domain.Variant{
			ID:                vid,
			GID:               e.Node.ID,
			SKU:               e.Node.SKU,
			Title:             e.Node.Title,
			Price:             e.Node.Price,
			InventoryQuantity: e.Node.InventoryQuantity,
		})
	}
	return p, nil
}

// CountProducts returns the number of products in the store
func (c *Client) CountProducts(ctx context.Context) (int, error) {
	var result struct {
		Count int `json:"count"`
	}
	if _, err := c.Get(ctx, "products/count.json", nil, &result); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return result.Count, nil
}

type restProduct struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Handle      string `json:"handle"`
	Vendor      string `json:"vendor"`
	ProductType string `json:"product_type"`
	Status      string `json:"status"`
	Tags        string `json:"tags"`
	BodyHTML    string `json:"body_html"`
	Images      []struct {
		ID int64 `json:"id"`
	} `json:"images"`
	Variants []struct {
		ID                int64  `json:"id"`
		SKU               string `json:"sku"`
		Title             string `json:"title"`
		Price             string `json:"price"`
		InventoryQuantity int    `json:"inventory_quantity"`
	} `json:"variants"`
}

var nextLinkPattern = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

// ListProductsREST pages through the REST products endpoint, which also carries
// body_html and images. Pagination follows the Link header.
func (c *Client) ListProductsREST(ctx context.Context, opts ListOptions) ([]domain.Product, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(pageSize))
	if opts.Vendor != "" {
		params.Set("vendor", opts.Vendor)
	}

	var out []domain.Product
	for {
		var result struct {
			Products []restProduct `json:"products"`
		}
		header, err := c.Get(ctx, "products.json", params, &result)
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}
		for _, rp := range result.Products {
			out = append(out, fromREST(rp))
			if opts.Max > 0 && len(out) >= opts.Max {
				return out, nil
			}
		}

		pageInfo, ok := nextPageInfo(header)
		if !ok {
			break
		}
		// page_info requests may only carry limit
		params = url.Values{}
		params.Set("limit", strconv.Itoa(pageSize))
		params.Set("page_info", pageInfo)
	}
	return out, nil
}

func fromREST(rp restProduct) domain.Product {
	p := domain.Product{
		ID:          rp.ID,
		GID:         ProductGID(rp.ID),
		Title:       rp.Title,
		Handle:      rp.Handle,
		Vendor:      rp.Vendor,
		ProductType: rp.ProductType,
		Status:      rp.Status,
		BodyHTML:    rp.BodyHTML,
		Tags:        tags.SplitList(rp.Tags),
		ImageCount:  len(rp.Images),
	}
	for _, v := range rp.Variants {
		p.Variants = append(p.Variants, domain.Variant{
			ID:                v.ID,
			GID:               fmt.Sprintf("gid://shopify/ProductVariant/%d", v.ID),
			SKU:               v.SKU,
			Title:             v.Title,
			Price:             v.Price,
			InventoryQuantity: v.InventoryQuantity,
		})
	}
	return p
}

func nextPageInfo(h http.Header) (string, bool) {
	m := nextLinkPattern.FindStringSubmatch(h.Get("Link"))
	if m == nil {
		return "", false
	}
	u, err := url.Parse(m[1])
	if err != nil {
		return "", false
	}
	pi := u.Query().Get("page_info")
	return pi, pi != ""
}

// UpdateProductTags replaces a product's tag list
func (c *Client) UpdateProductTags(ctx context.Context, id int64, tagList []string) error {
	body := map[string]interface{}{
		"product": map[string]interface{}{
			"id":   id,
			"tags": tags.JoinList(tagList),
		},
	}
	if err := c.Put(ctx, fmt.Sprintf("products/%d.json", id), body, nil); err != nil {
		return fmt.Errorf("failed to update tags of product %d: %w", id, err)
	}
	return nil
}

// ProductUpdate carries the product fields to change. Nil fields are left alone.
type ProductUpdate struct {
	Title  *string
	Status *string // ACTIVE, DRAFT or ARCHIVED
}

// UpdateProduct changes title and/or status through the productUpdate mutation
func (c *Client) UpdateProduct(ctx context.Context, id int64, upd ProductUpdate) error {
	input := map[string]interface{}{"id": ProductGID(id)}
	if upd.Title != nil {
		input["title"] = *upd.Title
	}
	if upd.Status != nil {
		input["status"] = *upd.Status
	}

	resp, err := c.Execute(ctx, ProductUpdateMutation, map[string]interface{}{"input": input})
	if err != nil {
		return fmt.Errorf("failed to update product %d: %w", id, err)
	}

	var result struct {
		ProductUpdate struct {
			UserErrors []apperrors.UserError `json:"userErrors"`
		} `json:"productUpdate"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse product update response: %w", err)
	}
	if len(result.ProductUpdate.UserErrors) > 0 {
		return &apperrors.ErrUserErrors{Operation: "productUpdate", Errors: result.ProductUpdate.UserErrors}
	}
	return nil
}

// UpdateVariantPrice sets a variant's price. price is a decimal string.
func (c *Client) UpdateVariantPrice(ctx context.Context, variantID int64, price string) error {
	body := map[string]interface{}{
		"variant": map[string]interface{}{
			"id":    variantID,
			"price": price,
		},
	}
	if err := c.Put(ctx, fmt.Sprintf("variants/%d.json", variantID), body, nil); err != nil {
		return fmt.Errorf("failed to update price of variant %d: %w", variantID, err)
	}
	return nil
}
