// Package woocommerce reads products from the WooCommerce source store used for
// price and stock comparison.
package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/oilslickpad/storeops/internal/config"
	apperrors "github.com/oilslickpad/storeops/pkg/errors"
)

const (
	serviceName = "woocommerce"
	perPage     = 100
	maxAttempts = 3
)

// Product is the subset of a WooCommerce product used for comparison
type Product struct {
	ID            int64
	Name          string
	SKU           string
	Price         decimal.Decimal
	HasPrice      bool
	StockQuantity *int
}

// Client calls the WooCommerce REST API with consumer key/secret auth
type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
	limiter        *rate.Limiter
	retryBase      time.Duration
	logger         *zap.Logger
}

// NewClient creates a WooCommerce HTTP client
func NewClient(cfg config.WooCommerceConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}
	return &Client{
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		limiter:        rate.NewLimiter(limit, 1),
		retryBase:      500 * time.Millisecond,
		logger:         logger,
	}
}

type rawProduct struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	SKU           string `json:"sku"`
	Price         string `json:"price"`
	StockQuantity *int   `json:"stock_quantity"`
}

// ListProducts fetches every published product, page by page
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	if c.baseURL == "" || c.consumerKey == "" || c.consumerSecret == "" {
		return nil, fmt.Errorf("woocommerce client not configured: base URL, consumer key and secret required")
	}

	var out []Product
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("per_page", strconv.Itoa(perPage))
		params.Set("page", strconv.Itoa(page))
		params.Set("status", "publish")

		body, header, err := c.get(ctx, "/wp-json/wc/v3/products", params)
		if err != nil {
			return nil, fmt.Errorf("failed to list products (page %d): %w", page, err)
		}
		var raw []rawProduct
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse products page %d: %w", page, err)
		}
		for _, r := range raw {
			out = append(out, c.toProduct(r))
		}

		totalPages, _ := strconv.Atoi(header.Get("X-WP-TotalPages"))
		if len(raw) == 0 || page >= totalPages {
			break
		}
	}
	c.logger.Debug("Fetched WooCommerce products", zap.Int("count", len(out)))
	return out, nil
}

func (c *Client) toProduct(r rawProduct) Product {
	p := Product{
		ID:            r.ID,
		Name:          r.Name,
		SKU:           strings.TrimSpace(r.SKU),
		StockQuantity: r.StockQuantity,
	}
	if r.Price != "" {
		price, err := decimal.NewFromString(r.Price)
		if err != nil {
			c.logger.Warn("Ignoring unparseable WooCommerce price",
				zap.Int64("product_id", r.ID), zap.String("price", r.Price), zap.Error(err))
		} else {
			p.Price = price
			p.HasPrice = true
		}
	}
	return p
}

// IndexBySKU maps products by SKU. Products without SKU are skipped; on duplicate
// SKUs the first product wins.
func IndexBySKU(products []Product) map[string]Product {
	out := make(map[string]Product, len(products))
	for _, p := range products {
		if p.SKU == "" {
			continue
		}
		if _, dup := out[p.SKU]; dup {
			continue
		}
		out[p.SKU] = p
	}
	return out
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, http.Header, error) {
	reqURL := c.baseURL + path + "?" + params.Encode()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, nil, err
		}
		req.SetBasicAuth(c.consumerKey, c.consumerSecret)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			c.logger.Warn("WooCommerce request failed", zap.Error(err), zap.Int("attempt", attempt))
			lastErr = err
			c.backoff(ctx, attempt)
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			c.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			remote := &apperrors.ErrRemote{Service: serviceName, Status: resp.StatusCode, Body: string(body)}
			if !remote.Transient() {
				return nil, nil, remote
			}
			c.logger.Warn("WooCommerce returned a transient error", zap.Int("status", resp.StatusCode), zap.Int("attempt", attempt))
			lastErr = remote
			c.backoff(ctx, attempt)
			continue
		}
		return body, resp.Header, nil
	}
	return nil, nil, lastErr
}

func (c *Client) backoff(ctx context.Context, attempt int) {
	if attempt >= maxAttempts {
		return
	}
	t := time.NewTimer(c.retryBase * time.Duration(1<<uint(attempt-1)))
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
