package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/oilslickpad/storeops/internal/config"
	apperrors "github.com/oilslickpad/storeops/pkg/errors"
)

const serviceName = "shopify"

// Client talks to the Shopify Admin API. Every call waits on a shared limiter so
// consecutive requests are at least MinInterval apart, and transient failures are
// retried with exponential backoff.
type Client struct {
	baseURL     string
	accessToken string
	apiVersion  string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxRetries  int
	retryBase   time.Duration
	logger      *zap.Logger
}

// NewClient creates a new Shopify Admin API client
func NewClient(cfg config.ShopifyConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Normalize shop domain. An explicit http:// is kept for local test servers.
	scheme := "https://"
	shopDomain := strings.TrimSpace(cfg.ShopDomain)
	if strings.HasPrefix(shopDomain, "http://") {
		scheme = "http://"
	}
	shopDomain = strings.TrimPrefix(shopDomain, "https://")
	shopDomain = strings.TrimPrefix(shopDomain, "http://")
	shopDomain = strings.TrimSuffix(shopDomain, "/")

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &Client{
		baseURL:     scheme + shopDomain,
		accessToken: cfg.AccessToken,
		apiVersion:  cfg.APIVersion,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: maxRetries,
		retryBase:  cfg.RetryBaseDelay,
		logger:     logger,
	}
}

// GraphQLRequest represents a GraphQL request
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// GraphQLResponse represents a GraphQL response
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error
type GraphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

// Execute executes a GraphQL query/mutation
func (c *Client) Execute(ctx context.Context, query string, variables map[string]interface{}) (*GraphQLResponse, error) {
	reqBody := GraphQLRequest{
		Query:     query,
		Variables: variables,
	}

	body, _, err := c.do(ctx, http.MethodPost, "graphql.json", nil, reqBody)
	if err != nil {
		return nil, err
	}

	var graphQLResp GraphQLResponse
	if err := json.Unmarshal(body, &graphQLResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}

	if len(graphQLResp.Errors) > 0 {
		errorMessages := make([]string, len(graphQLResp.Errors))
		for i, err := range graphQLResp.Errors {
			errorMessages[i] = err.Message
		}
		return nil, fmt.Errorf("graphQL errors: %s", strings.Join(errorMessages, "; "))
	}

	return &graphQLResp, nil
}

// Get calls a REST endpoint (path relative to /admin/api/<version>/) and decodes the
// JSON body into out. The response headers are returned for Link pagination.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out interface{}) (http.Header, error) {
	body, header, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return nil, err
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
		}
	}
	return header, nil
}

// Put sends a REST update and decodes the response into out when non-nil
func (c *Client) Put(ctx context.Context, path string, payload, out interface{}) error {
	body, _, err := c.do(ctx, http.MethodPut, path, nil, payload)
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", path, err)
		}
	}
	return nil
}

func (c *Client) endpoint(path string, params url.Values) string {
	u := fmt.Sprintf("%s/admin/api/%s/%s", c.baseURL, c.apiVersion, strings.TrimPrefix(path, "/"))
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, payload interface{}) ([]byte, http.Header, error) {
	var jsonData []byte
	if payload != nil {
		var err error
		jsonData, err = json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
	}
	reqURL := c.endpoint(path, params)

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, header, err := c.send(ctx, method, reqURL, jsonData)
		if err == nil {
			return body, header, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		if !retryable(err) || attempt == c.maxRetries {
			break
		}

		wait := c.exponentialBackoff(attempt)
		if d, ok := retryAfter(header); ok {
			wait = d
		}
		c.logger.Warn("Shopify request failed, retrying",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		if err := sleep(ctx, wait); err != nil {
			return nil, nil, err
		}
	}
	return nil, nil, lastErr
}

// send performs one HTTP round trip. On a non-2xx status it returns the headers
// alongside an *ErrRemote so the caller can honour Retry-After.
func (c *Client) send(ctx context.Context, method, reqURL string, jsonData []byte) ([]byte, http.Header, error) {
	var reqBody io.Reader
	if jsonData != nil {
		reqBody = bytes.NewReader(jsonData)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, &networkError{err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &networkError{err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.Header, &apperrors.ErrRemote{Service: serviceName, Status: resp.StatusCode, Body: string(body)}
	}
	return body, resp.Header, nil
}

type networkError struct {
	err error
}

func (e *networkError) Error() string { return "failed to execute request: " + e.err.Error() }
func (e *networkError) Unwrap() error { return e.err }

func retryable(err error) bool {
	if _, ok := err.(*networkError); ok {
		return true
	}
	return apperrors.IsTransient(err)
}

// exponentialBackoff returns base * 2^(attempt-1)
func (c *Client) exponentialBackoff(attempt int) time.Duration {
	return c.retryBase * time.Duration(1<<uint(attempt-1))
}

func retryAfter(h http.Header) (time.Duration, bool) {
	if h == nil {
		return 0, false
	}
	raw := strings.TrimSpace(h.Get("Retry-After"))
	if raw == "" {
		return 0, false
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs * float64(time.Second)), true
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// extractIDFromGID extracts the numeric ID from a Shopify GID (gid://shopify/Product/123)
func extractIDFromGID(gid string) (int64, error) {
	parts := strings.Split(gid, "/")
	if len(parts) == 0 {
		return 0, fmt.Errorf("invalid GID format: %s", gid)
	}
	idStr := parts[len(parts)-1]
	if i := strings.IndexByte(idStr, '?'); i >= 0 {
		idStr = idStr[:i]
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid GID format: %s", gid)
	}
	return id, nil
}

// ProductGID builds the GID of a product
func ProductGID(id int64) string {
	return fmt.Sprintf("gid://shopify/Product/%d", id)
}
