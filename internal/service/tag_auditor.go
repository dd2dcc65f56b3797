package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oilslickpad/storeops/internal/classify"
	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/repository"
	"github.com/oilslickpad/storeops/internal/shopify"
	apperrors "github.com/oilslickpad/storeops/pkg/errors"
)

const tagAuditTool = "validate-tags"

// TagAuditor validates product tags against the taxonomy and repairs the
// auto-fixable findings
type TagAuditor struct {
	store      ProductStore
	classifier *classify.Classifier
	audit      repository.AuditRepository
	logger     *zap.Logger
}

// NewTagAuditor creates a tag auditor
func NewTagAuditor(store ProductStore, classifier *classify.Classifier, audit repository.AuditRepository, logger *zap.Logger) *TagAuditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TagAuditor{
		store:      store,
		classifier: classifier,
		audit:      audit,
		logger:     logger,
	}
}

// ProductFinding lists the issues of one product and the tag set a fix would write
type ProductFinding struct {
	ProductID int64          `json:"productId"`
	Title     string         `json:"title"`
	Issues    []domain.Issue `json:"issues"`
	Before    []string       `json:"before"`
	After     []string       `json:"after,omitempty"`
	Applied   bool           `json:"applied"`
	Error     string         `json:"error,omitempty"`
}

// TagReport is the outcome of one tag audit
type TagReport struct {
	RunID       uuid.UUID               `json:"runId"`
	GeneratedAt time.Time               `json:"generatedAt"`
	DryRun      bool                    `json:"dryRun"`
	Scanned     int                     `json:"scanned"`
	WithIssues  int                     `json:"withIssues"`
	BySeverity  map[domain.Severity]int `json:"bySeverity"`
	Findings    []ProductFinding        `json:"findings"`
	Counts
}

// Issues flattens the findings
func (r *TagReport) Issues() []domain.Issue {
	var out []domain.Issue
	for _, f := range r.Findings {
		out = append(out, f.Issues...)
	}
	return out
}

// Run validates up to opts.Max products. With opts.Apply, every product whose
// converged tag set differs from its current one gets exactly one update.
func (a *TagAuditor) Run(ctx context.Context, opts RunOptions) (*TagReport, error) {
	products, err := a.store.ListProducts(ctx, shopify.ListOptions{Max: opts.Max})
	if err != nil {
		a.logger.Error("Failed to fetch products", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFetchFailed, err)
	}

	report := &TagReport{
		RunID:       runID(opts),
		GeneratedAt: time.Now(),
		DryRun:      !opts.Apply,
		Scanned:     len(products),
		Findings:    []ProductFinding{},
	}
	rec := recorder{repo: a.audit, runID: report.RunID, tool: tagAuditTool, logger: a.logger}

	for _, p := range products {
		issues := a.classifier.Validate(p)
		if len(issues) == 0 {
			continue
		}
		report.WithIssues++

		conv := a.classifier.Converge(p)
		finding := ProductFinding{
			ProductID: p.ID,
			Title:     p.Title,
			Issues:    issues,
			Before:    conv.Before,
		}
		if !conv.Changed() {
			report.Findings = append(report.Findings, finding)
			continue
		}
		finding.After = conv.After

		if !opts.Apply {
			report.Skipped++
			report.Findings = append(report.Findings, finding)
			continue
		}

		err := a.store.UpdateProductTags(ctx, p.ID, conv.After)
		rec.record(ctx, strconv.FormatInt(p.ID, 10), domain.AuditActionTagUpdate,
			map[string]interface{}{"tags": conv.Before},
			map[string]interface{}{"tags": conv.After},
			err)
		if err != nil {
			a.logger.Error("Failed to update product tags", zap.Int64("product_id", p.ID), zap.Error(err))
			report.Failed++
			finding.Error = err.Error()
		} else {
			report.Fixed++
			finding.Applied = true
		}
		report.Findings = append(report.Findings, finding)
	}

	report.BySeverity = countBySeverity(report.Issues())
	a.logger.Info("Tag audit finished",
		zap.String("run_id", report.RunID.String()),
		zap.Int("scanned", report.Scanned),
		zap.Int("with_issues", report.WithIssues),
		zap.Int("fixed", report.Fixed),
		zap.Int("failed", report.Failed))
	return report, nil
}
