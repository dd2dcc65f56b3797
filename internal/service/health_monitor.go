package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oilslickpad/storeops/internal/catalog"
	"github.com/oilslickpad/storeops/internal/config"
	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/reconcile"
	"github.com/oilslickpad/storeops/internal/repository"
	apperrors "github.com/oilslickpad/storeops/pkg/errors"
)

const healthTool = "collection-health"

// HealthMonitor diffs live collections against the definitions table
type HealthMonitor struct {
	store   CollectionStore
	catalog *catalog.Catalog
	health  config.HealthConfig
	audit   repository.AuditRepository
	logger  *zap.Logger
}

// NewHealthMonitor creates a collection health monitor
func NewHealthMonitor(store CollectionStore, cat *catalog.Catalog, health config.HealthConfig, audit repository.AuditRepository, logger *zap.Logger) *HealthMonitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthMonitor{
		store:   store,
		catalog: cat,
		health:  health,
		audit:   audit,
		logger:  logger,
	}
}

// PlannedPatch is one collection update, applied or not
type PlannedPatch struct {
	Handle       string   `json:"handle"`
	CollectionID int64    `json:"collectionId"`
	Fields       []string `json:"fields"`
	Applied      bool     `json:"applied"`
	Error        string   `json:"error,omitempty"`
}

// HealthReport is the outcome of one health monitor run
type HealthReport struct {
	RunID              uuid.UUID               `json:"runId"`
	GeneratedAt        time.Time               `json:"generatedAt"`
	DryRun             bool                    `json:"dryRun"`
	TotalProducts      int                     `json:"totalProducts"`
	LiveCollections    int                     `json:"liveCollections"`
	Checked            int                     `json:"checked"`
	Issues             []domain.Issue          `json:"issues"`
	BySeverity         map[domain.Severity]int `json:"bySeverity"`
	Patches            []PlannedPatch          `json:"patches"`
	UnresolvedCritical int                     `json:"unresolvedCritical"`
	Counts
}

// HasCritical reports whether CRITICAL issues remain after the fix pass
func (r *HealthReport) HasCritical() bool {
	return r.UnresolvedCritical > 0
}

type liveState struct {
	collections []domain.Collection
	total       int
	menus       []domain.Menu
}

// Run fetches live state, evaluates every check and, when opts.Apply is set,
// applies one merged patch per drifted collection
func (m *HealthMonitor) Run(ctx context.Context, opts RunOptions) (*HealthReport, error) {
	defs := m.catalog.Collections
	if opts.Collection != "" {
		def, ok := m.catalog.Definition(opts.Collection)
		if !ok {
			return nil, &apperrors.ErrValidation{
				Message: fmt.Sprintf("unknown collection handle %q", opts.Collection),
				Fields:  map[string]string{"collection": opts.Collection},
			}
		}
		defs = []catalog.Definition{def}
	}

	live, err := m.fetch(ctx)
	if err != nil {
		return nil, err
	}

	issues := reconcile.Evaluate(reconcile.Input{
		Definitions:   m.catalog.Collections,
		Live:          live.collections,
		Menus:         live.menus,
		TotalProducts: live.total,
		Thresholds: reconcile.Thresholds{
			MinProducts:   m.health.MinProducts,
			TooBroadShare: m.health.TooBroadShare,
		},
		OrphanIgnore: m.health.OrphanIgnore,
		Only:         opts.Collection,
	})

	report := &HealthReport{
		RunID:           runID(opts),
		GeneratedAt:     time.Now(),
		DryRun:          !opts.Apply,
		TotalProducts:   live.total,
		LiveCollections: len(live.collections),
		Checked:         len(defs),
		Issues:          issues,
		BySeverity:      countBySeverity(issues),
		Patches:         []PlannedPatch{},
	}

	resolved := m.fix(ctx, report, reconcile.Plan(issues, live.collections), live.collections, opts)
	for _, i := range issues {
		if i.Severity == domain.SeverityCritical && !resolved[issueKey(i)] {
			report.UnresolvedCritical++
		}
	}

	m.logger.Info("Collection health run finished",
		zap.String("run_id", report.RunID.String()),
		zap.Int("issues", len(issues)),
		zap.Int("fixed", report.Fixed),
		zap.Int("failed", report.Failed),
		zap.Int("unresolved_critical", report.UnresolvedCritical))
	return report, nil
}

// fetch reads collections, the product count and menus in parallel. Any failure
// aborts the run; nothing is diffed against partial state.
func (m *HealthMonitor) fetch(ctx context.Context) (*liveState, error) {
	var live liveState
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cs, err := m.store.ListCollections(gctx)
		if err != nil {
			return fmt.Errorf("collections: %w", err)
		}
		live.collections = cs
		return nil
	})
	g.Go(func() error {
		n, err := m.store.CountProducts(gctx)
		if err != nil {
			return fmt.Errorf("product count: %w", err)
		}
		live.total = n
		return nil
	})
	g.Go(func() error {
		menus, err := m.store.ListMenus(gctx)
		if err != nil {
			return fmt.Errorf("menus: %w", err)
		}
		live.menus = menus
		return nil
	})

	if err := g.Wait(); err != nil {
		m.logger.Error("Failed to fetch live state", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFetchFailed, err)
	}
	return &live, nil
}

// fix applies the planned operations one at a time. A failed update is counted and
// the pass moves on. It returns the keys of issues a successful update resolved.
func (m *HealthMonitor) fix(ctx context.Context, report *HealthReport, ops []reconcile.Operation, live []domain.Collection, opts RunOptions) map[string]bool {
	rec := recorder{repo: m.audit, runID: report.RunID, tool: healthTool, logger: m.logger}
	byHandle := reconcile.IndexByHandle(live)
	resolved := map[string]bool{}

	for _, op := range ops {
		planned := PlannedPatch{
			Handle:       op.Handle,
			CollectionID: op.CollectionID,
			Fields:       patchFields(op.Patch),
		}
		if !opts.Apply {
			report.Skipped++
			report.Patches = append(report.Patches, planned)
			continue
		}

		before := byHandle[op.Handle]
		err := m.store.UpdateSmartCollection(ctx, op.CollectionID, op.Patch)
		rec.record(ctx, op.Handle, domain.AuditActionCollectionPatch,
			collectionState(before, op.Patch),
			collectionState(reconcile.ApplyPatch(before, op.Patch), op.Patch),
			err)
		if err != nil {
			m.logger.Error("Failed to patch collection",
				zap.String("handle", op.Handle),
				zap.Int64("collection_id", op.CollectionID),
				zap.Error(err))
			report.Failed++
			planned.Error = err.Error()
			report.Patches = append(report.Patches, planned)
			continue
		}

		report.Fixed++
		planned.Applied = true
		report.Patches = append(report.Patches, planned)
		for _, i := range op.Issues {
			resolved[issueKey(i)] = true
		}
	}
	return resolved
}

func issueKey(i domain.Issue) string {
	return i.Subject + "|" + i.Code
}

func patchFields(p domain.CollectionPatch) []string {
	var fields []string
	if p.Disjunctive != nil {
		fields = append(fields, "disjunctive")
	}
	if p.SortOrder != nil {
		fields = append(fields, "sort_order")
	}
	if p.Rules != nil {
		fields = append(fields, "rules")
	}
	return fields
}

// collectionState captures the patched fields of c for the audit log
func collectionState(c domain.Collection, p domain.CollectionPatch) map[string]interface{} {
	state := map[string]interface{}{}
	if p.Disjunctive != nil {
		state["disjunctive"] = c.Disjunctive
	}
	if p.SortOrder != nil {
		state["sort_order"] = c.SortOrder
	}
	if p.Rules != nil {
		state["rules"] = c.Rules
	}
	return state
}
