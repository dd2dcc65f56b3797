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
	"github.com/oilslickpad/storeops/internal/tags"
	apperrors "github.com/oilslickpad/storeops/pkg/errors"
)

const classifyTool = "classify-products"

// ClassificationRun assigns family, pillar and use tags to untagged products
type ClassificationRun struct {
	store      ProductStore
	classifier *classify.Classifier
	audit      repository.AuditRepository
	logger     *zap.Logger
}

// NewClassificationRun creates a classification run
func NewClassificationRun(store ProductStore, classifier *classify.Classifier, audit repository.AuditRepository, logger *zap.Logger) *ClassificationRun {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassificationRun{
		store:      store,
		classifier: classifier,
		audit:      audit,
		logger:     logger,
	}
}

// Classification is the outcome for one product
type Classification struct {
	ProductID int64            `json:"productId"`
	Title     string           `json:"title"`
	Matched   bool             `json:"matched"`
	Result    *classify.Result `json:"result,omitempty"`
	Added     []string         `json:"added,omitempty"`
	Applied   bool             `json:"applied"`
	Error     string           `json:"error,omitempty"`
}

// ClassificationReport is the outcome of one classification run
type ClassificationReport struct {
	RunID       uuid.UUID               `json:"runId"`
	GeneratedAt time.Time               `json:"generatedAt"`
	DryRun      bool                    `json:"dryRun"`
	Scanned     int                     `json:"scanned"`
	Untagged    int                     `json:"untagged"`
	Classified  int                     `json:"classified"`
	Unmatched   int                     `json:"unmatched"`
	BySource    map[classify.Source]int `json:"bySource"`
	Results     []Classification        `json:"results"`
	Counts
}

// Run classifies every product without a family tag and adds the missing
// family, pillar and use tags
func (r *ClassificationRun) Run(ctx context.Context, opts RunOptions) (*ClassificationReport, error) {
	products, err := r.store.ListProducts(ctx, shopify.ListOptions{Max: opts.Max})
	if err != nil {
		r.logger.Error("Failed to fetch products", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFetchFailed, err)
	}

	report := &ClassificationReport{
		RunID:       runID(opts),
		GeneratedAt: time.Now(),
		DryRun:      !opts.Apply,
		Scanned:     len(products),
		BySource:    map[classify.Source]int{},
		Results:     []Classification{},
	}
	rec := recorder{repo: r.audit, runID: report.RunID, tool: classifyTool, logger: r.logger}

	for _, p := range products {
		if len(tags.Analyze(p.Tags).Families) > 0 {
			continue
		}
		report.Untagged++

		c := Classification{ProductID: p.ID, Title: p.Title}
		res, ok := r.classifier.Classify(p)
		if !ok {
			report.Unmatched++
			report.Results = append(report.Results, c)
			continue
		}
		report.Classified++
		report.BySource[res.Source]++
		c.Matched = true
		c.Result = &res

		current := tags.NewSet(p.Tags...)
		next := current.Clone()
		for _, t := range familyTags(res) {
			if !next.Has(t) {
				next.Add(t)
				c.Added = append(c.Added, t)
			}
		}
		if len(c.Added) == 0 {
			report.Results = append(report.Results, c)
			continue
		}
		if !opts.Apply {
			report.Skipped++
			report.Results = append(report.Results, c)
			continue
		}

		err := r.store.UpdateProductTags(ctx, p.ID, next.Strings())
		rec.record(ctx, strconv.FormatInt(p.ID, 10), domain.AuditActionTagUpdate,
			map[string]interface{}{"tags": current.Strings()},
			map[string]interface{}{"tags": next.Strings(), "family": res.Family, "confidence": res.Confidence},
			err)
		if err != nil {
			r.logger.Error("Failed to tag product", zap.Int64("product_id", p.ID), zap.Error(err))
			report.Failed++
			c.Error = err.Error()
		} else {
			report.Fixed++
			c.Applied = true
		}
		report.Results = append(report.Results, c)
	}

	r.logger.Info("Classification run finished",
		zap.String("run_id", report.RunID.String()),
		zap.Int("untagged", report.Untagged),
		zap.Int("classified", report.Classified),
		zap.Int("unmatched", report.Unmatched))
	return report, nil
}

func familyTags(res classify.Result) []string {
	out := []string{tags.New(tags.NamespaceFamily, res.Family).String()}
	if res.Pillar != "" {
		out = append(out, tags.New(tags.NamespacePillar, res.Pillar).String())
	}
	if res.Use != "" {
		out = append(out, tags.New(tags.NamespaceUse, res.Use).String())
	}
	return out
}
