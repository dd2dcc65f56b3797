package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/repository/memory"
)

func TestIsWholesale(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"10 Pack Rolling Cones", true},
		{"Cones 10-pack", true},
		{"Bulk Grinder Case", true},
		{"Wholesale Lighters", true},
		{"Display Box of Papers", true},
		{"24ct Hemp Wick", true},
		{"50 pcs Screens", true},
		{"Lot of Carb Caps", true},
		{"Backpack Bong", false},
		{"Lotus Spoon Pipe", false},
		{"Beaker Bong", false},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWholesale(tt.title))
		})
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Glass Pipe - $12.99", "Glass Pipe"},
		{"$5.00 Dab Tool", "Dab Tool"},
		{"Rolling Tray  $9.99  Large", "Rolling Tray Large"},
		{"$1,299.00 – Heady Rig", "Heady Rig"},
		{"No Price Here", "No Price Here"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTitle(tt.in))
		})
	}
}

func TestWholesaleCleanup(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{products: []domain.Product{
		{ID: 1, Title: "10 Pack Cones", Status: "ACTIVE"},
		{ID: 2, Title: "Glass Pipe - $12.99", Status: "ACTIVE"},
		{ID: 3, Title: "Beaker Bong", Status: "ACTIVE"},
	}}
	audit := memory.NewAuditEventRepository()
	cleanup := NewWholesaleCleanup(store, audit, nil)

	dry, err := cleanup.Run(ctx, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, dry.Drafts)
	assert.Equal(t, 1, dry.TitlesCleaned)
	assert.Equal(t, 2, dry.Skipped)
	assert.Empty(t, store.productCalls)

	report, err := cleanup.Run(ctx, RunOptions{Apply: true})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Fixed)
	require.Len(t, store.productCalls, 2)

	draft := store.productCalls[0]
	assert.Equal(t, int64(1), draft.ID)
	require.NotNil(t, draft.Update.Status)
	assert.Equal(t, "DRAFT", *draft.Update.Status)
	assert.Nil(t, draft.Update.Title)

	retitle := store.productCalls[1]
	assert.Equal(t, int64(2), retitle.ID)
	require.NotNil(t, retitle.Update.Title)
	assert.Equal(t, "Glass Pipe", *retitle.Update.Title)
	assert.Nil(t, retitle.Update.Status)

	events, err := audit.ListByRun(ctx, report.RunID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.AuditActionProductDraft, events[0].Action)
	assert.Equal(t, domain.AuditActionTitleClean, events[1].Action)

	// drafted and retitled products need nothing further
	again, err := cleanup.Run(ctx, RunOptions{Apply: true})
	require.NoError(t, err)
	assert.Empty(t, again.Changes)
}
