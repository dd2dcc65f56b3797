package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/repository"
	"github.com/oilslickpad/storeops/internal/shopify"
	apperrors "github.com/oilslickpad/storeops/pkg/errors"
)

const (
	wholesaleTool = "hide-wholesale"
	statusDraft   = "DRAFT"
)

var wholesalePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bpack\b`),
	regexp.MustCompile(`\bpacks\b`),
	regexp.MustCompile(`\bbulk\b`),
	regexp.MustCompile(`\bwholesale\b`),
	regexp.MustCompile(`\b\d+[-\s]?packs?\b`),
	regexp.MustCompile(`\bcase\b`),
	regexp.MustCompile(`\bbox\b`),
	regexp.MustCompile(`\blot\b`),
	regexp.MustCompile(`\b\d+\s*(pc|pcs|piece|pieces|ct|count)\b`),
}

var (
	dollarPattern     = regexp.MustCompile(`\$\d+[\d.,]*\s*`)
	edgeDashPattern   = regexp.MustCompile(`^[\s\-–—]+|[\s\-–—]+$`)
	multiSpacePattern = regexp.MustCompile(`\s{2,}`)
)

// IsWholesale reports whether a title looks like a wholesale or bulk listing
func IsWholesale(title string) bool {
	lower := strings.ToLower(title)
	for _, re := range wholesalePatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// CleanTitle removes dollar amounts from a title and tidies the separators left behind
func CleanTitle(title string) string {
	cleaned := strings.TrimSpace(dollarPattern.ReplaceAllString(title, ""))
	cleaned = edgeDashPattern.ReplaceAllString(cleaned, "")
	return multiSpacePattern.ReplaceAllString(cleaned, " ")
}

// WholesaleCleanup drafts wholesale listings and strips prices out of titles
type WholesaleCleanup struct {
	store  ProductStore
	audit  repository.AuditRepository
	logger *zap.Logger
}

// NewWholesaleCleanup creates a wholesale cleanup run
func NewWholesaleCleanup(store ProductStore, audit repository.AuditRepository, logger *zap.Logger) *WholesaleCleanup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WholesaleCleanup{
		store:  store,
		audit:  audit,
		logger: logger,
	}
}

// CleanupChange is one planned product update
type CleanupChange struct {
	ProductID int64              `json:"productId"`
	Action    domain.AuditAction `json:"action"`
	From      string             `json:"from"`
	To        string             `json:"to"`
	Applied   bool               `json:"applied"`
	Error     string             `json:"error,omitempty"`
}

// CleanupReport is the outcome of one wholesale cleanup
type CleanupReport struct {
	RunID         uuid.UUID       `json:"runId"`
	GeneratedAt   time.Time       `json:"generatedAt"`
	DryRun        bool            `json:"dryRun"`
	Scanned       int             `json:"scanned"`
	Drafts        int             `json:"drafts"`
	TitlesCleaned int             `json:"titlesCleaned"`
	Changes       []CleanupChange `json:"changes"`
	Counts
}

// Run scans active products. Wholesale listings are set to draft; titles carrying
// a dollar amount are rewritten without it.
func (w *WholesaleCleanup) Run(ctx context.Context, opts RunOptions) (*CleanupReport, error) {
	products, err := w.store.ListProducts(ctx, shopify.ListOptions{Max: opts.Max, Query: "status:active"})
	if err != nil {
		w.logger.Error("Failed to fetch products", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFetchFailed, err)
	}

	report := &CleanupReport{
		RunID:       runID(opts),
		GeneratedAt: time.Now(),
		DryRun:      !opts.Apply,
		Scanned:     len(products),
		Changes:     []CleanupChange{},
	}
	rec := recorder{repo: w.audit, runID: report.RunID, tool: wholesaleTool, logger: w.logger}

	for _, p := range products {
		var changes []CleanupChange
		if IsWholesale(p.Title) && !strings.EqualFold(p.Status, statusDraft) {
			report.Drafts++
			changes = append(changes, CleanupChange{
				ProductID: p.ID,
				Action:    domain.AuditActionProductDraft,
				From:      p.Status,
				To:        statusDraft,
			})
		}
		if dollarPattern.MatchString(p.Title) {
			if cleaned := CleanTitle(p.Title); cleaned != "" && cleaned != p.Title {
				report.TitlesCleaned++
				changes = append(changes, CleanupChange{
					ProductID: p.ID,
					Action:    domain.AuditActionTitleClean,
					From:      p.Title,
					To:        cleaned,
				})
			}
		}

		for _, c := range changes {
			if !opts.Apply {
				report.Skipped++
				report.Changes = append(report.Changes, c)
				continue
			}
			err := w.apply(ctx, c)
			field := "status"
			if c.Action == domain.AuditActionTitleClean {
				field = "title"
			}
			rec.record(ctx, strconv.FormatInt(p.ID, 10), c.Action,
				map[string]interface{}{field: c.From},
				map[string]interface{}{field: c.To},
				err)
			if err != nil {
				w.logger.Error("Failed to update product",
					zap.Int64("product_id", p.ID),
					zap.String("action", string(c.Action)),
					zap.Error(err))
				report.Failed++
				c.Error = err.Error()
			} else {
				report.Fixed++
				c.Applied = true
			}
			report.Changes = append(report.Changes, c)
		}
	}
	return report, nil
}

func (w *WholesaleCleanup) apply(ctx context.Context, c CleanupChange) error {
	to := c.To
	if c.Action == domain.AuditActionTitleClean {
		return w.store.UpdateProduct(ctx, c.ProductID, shopify.ProductUpdate{Title: &to})
	}
	return w.store.UpdateProduct(ctx, c.ProductID, shopify.ProductUpdate{Status: &to})
}
