package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oilslickpad/storeops/internal/catalog"
	"github.com/oilslickpad/storeops/internal/config"
	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/reconcile"
	"github.com/oilslickpad/storeops/internal/repository/memory"
	"github.com/oilslickpad/storeops/internal/taxonomy"
	apperrors "github.com/oilslickpad/storeops/pkg/errors"
)

var testHealth = config.HealthConfig{MinProducts: 1, TooBroadShare: 0.95, OrphanIgnore: []string{"frontpage", "all"}}

func quartzCatalog(t *testing.T) (*catalog.Catalog, catalog.Definition) {
	t.Helper()
	def, ok := catalog.Default().Definition("quartz-bangers")
	require.True(t, ok)
	return &catalog.Catalog{Taxonomy: taxonomy.Default(), Collections: []catalog.Definition{def}}, def
}

// driftedStore holds quartz-bangers with the material rule missing
func driftedStore(def catalog.Definition) *fakeStore {
	return &fakeStore{
		total: 751,
		collections: []domain.Collection{{
			ID:           42,
			GID:          "gid://shopify/Collection/42",
			Handle:       def.Handle,
			Title:        def.Title,
			Type:         domain.CollectionTypeSmart,
			Rules:        []domain.Rule{def.Rules[0], def.Rules[1]},
			Disjunctive:  false,
			SortOrder:    def.SortOrder,
			ProductCount: 40,
		}},
	}
}

func TestHealthMonitor_FixesRuleDriftOnce(t *testing.T) {
	ctx := context.Background()
	cat, def := quartzCatalog(t)
	store := driftedStore(def)
	audit := memory.NewAuditEventRepository()
	monitor := NewHealthMonitor(store, cat, testHealth, audit, nil)

	report, err := monitor.Run(ctx, RunOptions{Apply: true})
	require.NoError(t, err)

	require.Len(t, report.Issues, 1)
	assert.Equal(t, reconcile.CodeRulesDrift, report.Issues[0].Code)
	assert.Equal(t, "rules have drifted", report.Issues[0].Message)
	assert.Equal(t, 1, report.Fixed)
	assert.False(t, report.HasCritical())

	require.Len(t, store.collectionCalls, 1)
	call := store.collectionCalls[0]
	assert.Equal(t, int64(42), call.ID)
	assert.Nil(t, call.Patch.Disjunctive)
	assert.Nil(t, call.Patch.SortOrder)
	if diff := cmp.Diff(def.Rules, call.Patch.Rules); diff != "" {
		t.Errorf("patched rules mismatch (-want +got):\n%s", diff)
	}

	events, err := audit.ListByRun(ctx, report.RunID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.AuditActionCollectionPatch, events[0].Action)
	assert.True(t, events[0].Success)
	assert.Contains(t, events[0].Before, "rules")
	assert.NotContains(t, events[0].Before, "disjunctive")

	second, err := monitor.Run(ctx, RunOptions{Apply: true})
	require.NoError(t, err)
	assert.Empty(t, second.Issues)
	assert.Len(t, store.collectionCalls, 1, "second run must not write")
}

func TestHealthMonitor_DryRunWritesNothing(t *testing.T) {
	cat, def := quartzCatalog(t)
	store := driftedStore(def)
	monitor := NewHealthMonitor(store, cat, testHealth, nil, nil)

	report, err := monitor.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Empty(t, store.collectionCalls)
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, report.Patches, 1)
	assert.Equal(t, []string{"rules"}, report.Patches[0].Fields)
	assert.False(t, report.Patches[0].Applied)
	assert.True(t, report.HasCritical())
}

func TestHealthMonitor_FailedPatchIsCounted(t *testing.T) {
	ctx := context.Background()
	cat, def := quartzCatalog(t)
	store := driftedStore(def)
	store.updateErr = &apperrors.ErrRemote{Service: "shopify", Status: 422, Body: "invalid"}
	audit := memory.NewAuditEventRepository()
	monitor := NewHealthMonitor(store, cat, testHealth, audit, nil)

	report, err := monitor.Run(ctx, RunOptions{Apply: true})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.Fixed)
	assert.True(t, report.HasCritical())
	assert.NotEmpty(t, report.Patches[0].Error)

	events, err := audit.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Success)
	require.NotNil(t, events[0].Error)
}

func TestHealthMonitor_FetchFailureAborts(t *testing.T) {
	cat, def := quartzCatalog(t)
	store := driftedStore(def)
	store.menusErr = errors.New("connection reset")
	monitor := NewHealthMonitor(store, cat, testHealth, nil, nil)

	report, err := monitor.Run(context.Background(), RunOptions{Apply: true})
	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, apperrors.ErrFetchFailed)
	assert.Empty(t, store.collectionCalls)
}

func TestHealthMonitor_UnknownCollection(t *testing.T) {
	cat, def := quartzCatalog(t)
	monitor := NewHealthMonitor(driftedStore(def), cat, testHealth, nil, nil)

	_, err := monitor.Run(context.Background(), RunOptions{Collection: "no-such-handle"})
	var verr *apperrors.ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "no-such-handle", verr.Fields["collection"])
}

func TestHealthMonitor_SingleCollection(t *testing.T) {
	cat, def := quartzCatalog(t)
	store := driftedStore(def)
	// an orphan is only reported by full runs
	store.collections = append(store.collections, domain.Collection{
		ID: 7, Handle: "summer-sale", Title: "Summer Sale", Type: domain.CollectionTypeSmart, ProductCount: 3,
	})
	monitor := NewHealthMonitor(store, cat, testHealth, nil, nil)

	only, err := monitor.Run(context.Background(), RunOptions{Collection: def.Handle})
	require.NoError(t, err)
	assert.Equal(t, 1, only.Checked)
	require.Len(t, only.Issues, 1)
	assert.Equal(t, reconcile.CodeRulesDrift, only.Issues[0].Code)

	full, err := monitor.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, full.BySeverity[domain.SeverityLow])
}

func TestHealthMonitor_TooBroadStaysUnresolved(t *testing.T) {
	cat, def := quartzCatalog(t)
	store := driftedStore(def)
	store.collections[0].Rules = def.Rules
	store.collections[0].ProductCount = 751
	monitor := NewHealthMonitor(store, cat, testHealth, nil, nil)

	report, err := monitor.Run(context.Background(), RunOptions{Apply: true})
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, reconcile.CodeTooBroad, report.Issues[0].Code)
	assert.Equal(t, 751, report.Issues[0].Details["matchCount"])
	assert.Empty(t, store.collectionCalls)
	assert.True(t, report.HasCritical())
}
