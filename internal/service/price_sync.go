package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/repository"
	"github.com/oilslickpad/storeops/internal/shopify"
	"github.com/oilslickpad/storeops/internal/woocommerce"
	apperrors "github.com/oilslickpad/storeops/pkg/errors"
)

const priceSyncTool = "price-sync"

// PriceSync compares Shopify variant prices and stock with the source store by SKU
type PriceSync struct {
	store  ProductStore
	source SourceStore
	audit  repository.AuditRepository
	logger *zap.Logger
}

// NewPriceSync creates a price sync run
func NewPriceSync(store ProductStore, source SourceStore, audit repository.AuditRepository, logger *zap.Logger) *PriceSync {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceSync{
		store:  store,
		source: source,
		audit:  audit,
		logger: logger,
	}
}

// PriceChange is a variant whose Shopify price differs from the source price
type PriceChange struct {
	ProductID int64  `json:"productId"`
	VariantID int64  `json:"variantId"`
	SKU       string `json:"sku"`
	Title     string `json:"title"`
	From      string `json:"from"`
	To        string `json:"to"`
	Applied   bool   `json:"applied"`
	Error     string `json:"error,omitempty"`
}

// StockMismatch is reported only; inventory is not written by this run
type StockMismatch struct {
	VariantID int64  `json:"variantId"`
	SKU       string `json:"sku"`
	Shopify   int    `json:"shopify"`
	Source    int    `json:"source"`
}

// PriceReport is the outcome of one price sync
type PriceReport struct {
	RunID           uuid.UUID       `json:"runId"`
	GeneratedAt     time.Time       `json:"generatedAt"`
	DryRun          bool            `json:"dryRun"`
	Variants        int             `json:"variants"`
	Matched         int             `json:"matched"`
	Unmatched       []string        `json:"unmatched"`
	PriceChanges    []PriceChange   `json:"priceChanges"`
	StockMismatches []StockMismatch `json:"stockMismatches"`
	Counts
}

// Run fetches both stores in parallel, matches variants by SKU and, with
// opts.Apply, sets each differing Shopify price to the source price
func (s *PriceSync) Run(ctx context.Context, opts RunOptions) (*PriceReport, error) {
	var (
		products []domain.Product
		source   []woocommerce.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ps, err := s.store.ListProducts(gctx, shopify.ListOptions{Max: opts.Max})
		if err != nil {
			return fmt.Errorf("shopify products: %w", err)
		}
		products = ps
		return nil
	})
	g.Go(func() error {
		ps, err := s.source.ListProducts(gctx)
		if err != nil {
			return fmt.Errorf("source products: %w", err)
		}
		source = ps
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to fetch products", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFetchFailed, err)
	}

	report := &PriceReport{
		RunID:           runID(opts),
		GeneratedAt:     time.Now(),
		DryRun:          !opts.Apply,
		Unmatched:       []string{},
		PriceChanges:    []PriceChange{},
		StockMismatches: []StockMismatch{},
	}
	rec := recorder{repo: s.audit, runID: report.RunID, tool: priceSyncTool, logger: s.logger}
	bySKU := woocommerce.IndexBySKU(source)

	for _, p := range products {
		for _, v := range p.Variants {
			if v.SKU == "" {
				continue
			}
			report.Variants++
			src, ok := bySKU[v.SKU]
			if !ok {
				report.Unmatched = append(report.Unmatched, v.SKU)
				continue
			}
			report.Matched++

			if src.StockQuantity != nil && *src.StockQuantity != v.InventoryQuantity {
				report.StockMismatches = append(report.StockMismatches, StockMismatch{
					VariantID: v.ID,
					SKU:       v.SKU,
					Shopify:   v.InventoryQuantity,
					Source:    *src.StockQuantity,
				})
			}

			if !src.HasPrice {
				continue
			}
			current, err := decimal.NewFromString(v.Price)
			if err != nil {
				s.logger.Warn("Ignoring unparseable Shopify price",
					zap.Int64("variant_id", v.ID), zap.String("price", v.Price), zap.Error(err))
				continue
			}
			// prices are written with two decimals, so compare against that
			target := src.Price.Round(2)
			if current.Equal(target) {
				continue
			}

			change := PriceChange{
				ProductID: p.ID,
				VariantID: v.ID,
				SKU:       v.SKU,
				Title:     p.Title,
				From:      current.StringFixed(2),
				To:        target.StringFixed(2),
			}
			if !opts.Apply {
				report.Skipped++
				report.PriceChanges = append(report.PriceChanges, change)
				continue
			}

			err = s.store.UpdateVariantPrice(ctx, v.ID, change.To)
			rec.record(ctx, strconv.FormatInt(v.ID, 10), domain.AuditActionPriceUpdate,
				map[string]interface{}{"sku": v.SKU, "price": change.From},
				map[string]interface{}{"sku": v.SKU, "price": change.To},
				err)
			if err != nil {
				s.logger.Error("Failed to update variant price",
					zap.Int64("variant_id", v.ID), zap.String("sku", v.SKU), zap.Error(err))
				report.Failed++
				change.Error = err.Error()
			} else {
				report.Fixed++
				change.Applied = true
			}
			report.PriceChanges = append(report.PriceChanges, change)
		}
	}

	s.logger.Info("Price sync finished",
		zap.String("run_id", report.RunID.String()),
		zap.Int("matched", report.Matched),
		zap.Int("price_changes", len(report.PriceChanges)),
		zap.Int("stock_mismatches", len(report.StockMismatches)))
	return report, nil
}
