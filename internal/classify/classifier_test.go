package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/taxonomy"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := New(taxonomy.Default(), Config{})
	require.NoError(t, err)
	return c
}

func TestClassify_QuartzBanger(t *testing.T) {
	c := newTestClassifier(t)

	res, ok := c.Classify(domain.Product{Title: "14mm Quartz Banger with Terp Slurper"})
	require.True(t, ok)
	assert.Equal(t, "banger", res.Rule)
	assert.Equal(t, "banger", res.Family)
	assert.Equal(t, "accessory", res.Pillar)
	assert.Equal(t, "dabbing", res.Use)
	assert.Equal(t, []string{"banger", "quartz", "terp slurper"}, res.Matches)
	assert.Equal(t, 6, res.Score)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, SourceKeywords, res.Source)
}

func TestClassify_RecyclerOverrideBeatsScoredLoop(t *testing.T) {
	c := newTestClassifier(t)
	p := domain.Product{Title: "Recycler Bong"}

	// the scored loop alone would stop at the bong rule
	score, hits, ok := c.Score("bong", p)
	require.True(t, ok)
	assert.Equal(t, 2, score)
	assert.Equal(t, []string{"bong"}, hits)

	res, ok := c.Classify(p)
	require.True(t, ok)
	assert.Equal(t, "dabRig", res.Rule)
	assert.Equal(t, "glass-rig", res.Family)
	assert.Equal(t, SourceOverride, res.Source)
	assert.Equal(t, 1.0, res.Confidence)
}

func TestClassify_VendorShortcut(t *testing.T) {
	c := newTestClassifier(t)

	res, ok := c.Classify(domain.Product{Title: "Slick Stack", Vendor: "Oil Slick"})
	require.True(t, ok)
	assert.Equal(t, "extraction-supply", res.Family)
	assert.Equal(t, SourceVendor, res.Source)
}

func TestClassify_FirstCandidateWins(t *testing.T) {
	p := domain.Product{Title: "Nectar Collector Dab Tool"}

	c := newTestClassifier(t)
	res, ok := c.Classify(p)
	require.True(t, ok)
	assert.Equal(t, "nectar-collector", res.Family)

	// dabTool scores lower but wins once it is declared first
	reordered := []FamilyRule{DefaultRules[9], DefaultRules[3]}
	require.Equal(t, "dabTool", reordered[0].Name)
	require.Equal(t, "nectar", reordered[1].Name)

	c2, err := New(taxonomy.Default(), Config{
		Rules:           reordered,
		Overrides:       []Override{},
		VendorShortcuts: []VendorShortcut{},
	})
	require.NoError(t, err)
	res, ok = c2.Classify(p)
	require.True(t, ok)
	assert.Equal(t, "dab-tool", res.Family)
	assert.Equal(t, 2, res.Score)
}

func TestClassify_Deterministic(t *testing.T) {
	c := newTestClassifier(t)
	p := domain.Product{Title: "Nectar Collector Dab Tool"}

	first, _ := c.Classify(p)
	for i := 0; i < 50; i++ {
		res, _ := c.Classify(p)
		assert.Equal(t, first, res)
	}
}

func TestClassify_Scores(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name       string
		title      string
		family     string
		confidence float64
	}{
		{"two keywords", "Beaker Bong", "glass-bong", 4.0 / 6.0},
		{"tall bong bonus", `12" Beaker Bong`, "glass-bong", 1.0},
		{"silicone is not a cone", "Silicone Hand Pipe", "spoon-pipe", 4.0 / 6.0},
		{"bowl excludes bong", "Glass Bong Bowl 14mm", "flower-bowl", 0.5},
		{"combo count is not a height", "2 in 1 Bong", "glass-bong", 2.0 / 6.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := c.Classify(domain.Product{Title: tt.title})
			require.True(t, ok)
			assert.Equal(t, tt.family, res.Family)
			assert.InDelta(t, tt.confidence, res.Confidence, 0.001)
		})
	}
}

func TestClassify_NoMatch(t *testing.T) {
	c := newTestClassifier(t)
	_, ok := c.Classify(domain.Product{Title: "Gift Card"})
	assert.False(t, ok)
}

func TestNew_RejectsUnknownReferences(t *testing.T) {
	_, err := New(taxonomy.Default(), Config{Rules: []FamilyRule{{Name: "x", Family: "nope", Keywords: []string{"x"}}}})
	assert.Error(t, err)

	_, err = New(taxonomy.Default(), Config{Overrides: []Override{{Keywords: []string{"x"}, Rule: "missing"}}})
	assert.Error(t, err)

	_, err = New(nil, Config{})
	assert.Error(t, err)
}

func TestContainsWord(t *testing.T) {
	assert.True(t, containsWord("raw cones", "cone"))
	assert.False(t, containsWord("silicone", "cone"))
	assert.False(t, containsWord("raw original", "rig"))
	assert.True(t, containsWord("mini rigs", "rig"))
	assert.True(t, containsWord("family:glass-bong", "bong"))
	assert.False(t, containsWord("anything", ""))
}

func TestExtractHeight(t *testing.T) {
	tests := []struct {
		text string
		want float64
		ok   bool
	}{
		{`12" beaker bong`, 12, true},
		{"8 inch recycler", 8, true},
		{"9.5in straight tube", 9.5, true},
		{"2 in 1 bong", 0, false},
		{"3 in 1 combo 10 in bong", 10, true},
		{"glass bong", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			v, ok := extract(tt.text, SignalHeight)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}
