package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/repository/memory"
	"github.com/oilslickpad/storeops/internal/woocommerce"
	apperrors "github.com/oilslickpad/storeops/pkg/errors"
)

func intPtr(n int) *int { return &n }

func priceFixtures() (*fakeStore, *fakeSource) {
	store := &fakeStore{products: []domain.Product{{
		ID:    1,
		Title: "Carb Cap",
		Variants: []domain.Variant{
			{ID: 101, SKU: "CC-A", Price: "12.5", InventoryQuantity: 3},
			{ID: 102, SKU: "CC-B", Price: "9.99", InventoryQuantity: 8},
			{ID: 103, SKU: "CC-C", Price: "4.00"},
			{ID: 104, Price: "1.00"},
		},
	}}}
	source := &fakeSource{products: []woocommerce.Product{
		{ID: 1, SKU: "CC-A", Price: decimal.RequireFromString("12.50"), HasPrice: true, StockQuantity: intPtr(5)},
		{ID: 2, SKU: "CC-B", Price: decimal.RequireFromString("10"), HasPrice: true, StockQuantity: intPtr(8)},
	}}
	return store, source
}

func TestPriceSync(t *testing.T) {
	ctx := context.Background()
	store, source := priceFixtures()
	audit := memory.NewAuditEventRepository()
	ps := NewPriceSync(store, source, audit, nil)

	report, err := ps.Run(ctx, RunOptions{Apply: true})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Variants)
	assert.Equal(t, 2, report.Matched)
	assert.Equal(t, []string{"CC-C"}, report.Unmatched)

	require.Len(t, report.PriceChanges, 1)
	change := report.PriceChanges[0]
	assert.Equal(t, int64(102), change.VariantID)
	assert.Equal(t, "9.99", change.From)
	assert.Equal(t, "10.00", change.To)
	assert.True(t, change.Applied)
	assert.Equal(t, []priceCall{{VariantID: 102, Price: "10.00"}}, store.priceCalls)

	require.Len(t, report.StockMismatches, 1)
	assert.Equal(t, StockMismatch{VariantID: 101, SKU: "CC-A", Shopify: 3, Source: 5}, report.StockMismatches[0])

	events, err := audit.ListByRun(ctx, report.RunID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.AuditActionPriceUpdate, events[0].Action)

	again, err := ps.Run(ctx, RunOptions{Apply: true})
	require.NoError(t, err)
	assert.Empty(t, again.PriceChanges)
	assert.Len(t, store.priceCalls, 1)
}

func TestPriceSync_SubCentSourcePriceSettles(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{products: []domain.Product{{
		ID:       1,
		Title:    "Dab Tool",
		Variants: []domain.Variant{{ID: 201, SKU: "DT-1", Price: "9.00"}},
	}}}
	source := &fakeSource{products: []woocommerce.Product{
		{ID: 1, SKU: "DT-1", Price: decimal.RequireFromString("10.005"), HasPrice: true},
	}}
	ps := NewPriceSync(store, source, nil, nil)

	report, err := ps.Run(ctx, RunOptions{Apply: true})
	require.NoError(t, err)
	require.Len(t, report.PriceChanges, 1)
	assert.Equal(t, "10.01", report.PriceChanges[0].To)

	again, err := ps.Run(ctx, RunOptions{Apply: true})
	require.NoError(t, err)
	assert.Empty(t, again.PriceChanges)
	assert.Equal(t, []priceCall{{VariantID: 201, Price: "10.01"}}, store.priceCalls)
}

func TestPriceSync_DryRun(t *testing.T) {
	store, source := priceFixtures()
	report, err := NewPriceSync(store, source, nil, nil).Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Empty(t, store.priceCalls)
	assert.Equal(t, 1, report.Skipped)
	assert.False(t, report.PriceChanges[0].Applied)
}

func TestPriceSync_SourceFailureAborts(t *testing.T) {
	store, source := priceFixtures()
	source.err = errors.New("503")
	_, err := NewPriceSync(store, source, nil, nil).Run(context.Background(), RunOptions{Apply: true})
	assert.ErrorIs(t, err, apperrors.ErrFetchFailed)
	assert.Empty(t, store.priceCalls)
}
