// Package service orchestrates the operational runs: fetch live state, evaluate,
// and optionally apply corrections with every write recorded in the audit log.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/repository"
	"github.com/oilslickpad/storeops/internal/shopify"
	"github.com/oilslickpad/storeops/internal/woocommerce"
)

// CollectionStore is the slice of the Shopify client the health monitor uses
type CollectionStore interface {
	ListCollections(ctx context.Context) ([]domain.Collection, error)
	CountProducts(ctx context.Context) (int, error)
	ListMenus(ctx context.Context) ([]domain.Menu, error)
	UpdateSmartCollection(ctx context.Context, id int64, patch domain.CollectionPatch) error
}

// ProductStore is the slice of the Shopify client the product runs use
type ProductStore interface {
	ListProducts(ctx context.Context, opts shopify.ListOptions) ([]domain.Product, error)
	ListProductsREST(ctx context.Context, opts shopify.ListOptions) ([]domain.Product, error)
	UpdateProductTags(ctx context.Context, id int64, tagList []string) error
	UpdateProduct(ctx context.Context, id int64, upd shopify.ProductUpdate) error
	UpdateVariantPrice(ctx context.Context, variantID int64, price string) error
}

// SourceStore is the secondary store prices are compared against
type SourceStore interface {
	ListProducts(ctx context.Context) ([]woocommerce.Product, error)
}

var (
	_ CollectionStore = (*shopify.Client)(nil)
	_ ProductStore    = (*shopify.Client)(nil)
	_ SourceStore     = (*woocommerce.Client)(nil)
)

// RunOptions are shared by every run
type RunOptions struct {
	RunID uuid.UUID
	// Apply performs writes; false is a dry run
	Apply      bool
	Max        int
	Collection string
}

// Counts summarizes the write phase of a run
type Counts struct {
	Fixed   int `json:"fixed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// recorder writes audit events for one run. A failing audit write is logged and
// never fails the run.
type recorder struct {
	repo   repository.AuditRepository
	runID  uuid.UUID
	tool   string
	logger *zap.Logger
}

func (r recorder) record(ctx context.Context, subject string, action domain.AuditAction, before, after map[string]interface{}, writeErr error) {
	if r.repo == nil {
		return
	}
	event := &domain.AuditEvent{
		RunID:     r.runID,
		Tool:      r.tool,
		Subject:   subject,
		Action:    action,
		Before:    before,
		After:     after,
		Success:   writeErr == nil,
		CreatedAt: time.Now(),
	}
	if writeErr != nil {
		msg := writeErr.Error()
		event.Error = &msg
	}
	if err := r.repo.Record(ctx, event); err != nil {
		r.logger.Warn("Failed to record audit event",
			zap.String("subject", subject),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

func runID(opts RunOptions) uuid.UUID {
	if opts.RunID == uuid.Nil {
		return uuid.New()
	}
	return opts.RunID
}

func countBySeverity(issues []domain.Issue) map[domain.Severity]int {
	out := make(map[domain.Severity]int, len(domain.Severities))
	for _, i := range issues {
		out[i.Severity]++
	}
	return out
}
