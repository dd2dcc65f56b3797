package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oilslickpad/storeops/internal/classify"
	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/repository/memory"
)

func TestClassificationRun(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{products: []domain.Product{
		{ID: 1, Title: "14mm Quartz Banger with Terp Slurper", Tags: []string{"sale"}},
		{ID: 2, Title: "Beaker Bong", Tags: []string{"family:glass-bong"}},
		{ID: 3, Title: "Mystery Item"},
	}}
	classifier := newClassifier(t)
	audit := memory.NewAuditEventRepository()
	run := NewClassificationRun(store, classifier, audit, nil)

	report, err := run.Run(ctx, RunOptions{Apply: true})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 2, report.Untagged)
	assert.Equal(t, 1, report.Classified)
	assert.Equal(t, 1, report.Unmatched)
	assert.Equal(t, 1, report.BySource[classify.SourceKeywords])
	assert.Equal(t, 1, report.Fixed)

	def, ok := classifier.Taxonomy().FamilyDefinition("banger")
	require.True(t, ok)
	written := store.tagCalls[1]
	assert.Contains(t, written, "sale")
	assert.Contains(t, written, "family:banger")
	assert.Contains(t, written, "pillar:"+def.Pillar)
	assert.Contains(t, written, "use:"+def.Use)
	assert.NotContains(t, store.tagCalls, int64(2))

	require.Len(t, report.Results, 2)
	assert.True(t, report.Results[0].Matched)
	assert.Equal(t, "banger", report.Results[0].Result.Family)
	assert.False(t, report.Results[1].Matched)

	events, err := audit.ListByRun(ctx, report.RunID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "banger", events[0].After["family"])

	// product 1 now carries a family and is left alone
	store.tagCalls = nil
	second, err := run.Run(ctx, RunOptions{Apply: true})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Untagged)
	assert.Empty(t, store.tagCalls)
}

func TestClassificationRun_DryRun(t *testing.T) {
	store := &fakeStore{products: []domain.Product{
		{ID: 1, Title: "Klein Recycler Bong"},
	}}
	run := NewClassificationRun(store, newClassifier(t), nil, nil)

	report, err := run.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Empty(t, store.tagCalls)
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, report.Results, 1)
	assert.Equal(t, classify.SourceOverride, report.Results[0].Result.Source)
	assert.Contains(t, report.Results[0].Added, "family:glass-rig")
}
