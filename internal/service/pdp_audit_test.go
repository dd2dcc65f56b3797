package service

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oilslickpad/storeops/internal/domain"
)

func richProduct() domain.Product {
	body := "<h2>Features</h2><p>" + strings.Repeat("smooth ", 150) + "</p>" +
		"<p>Material: thick quartz banger nail with a male joint.</p>" +
		"<ul><li>14mm</li><li>90 degree</li></ul>"
	return domain.Product{
		ID:          1,
		Title:       "Quartz Banger Nail 14mm Male Joint",
		Status:      "active",
		ProductType: "Banger",
		BodyHTML:    body,
		Tags:        []string{"family:banger", "material:quartz", "use:dabbing"},
		ImageCount:  3,
		Variants:    []domain.Variant{{ID: 11, Title: "14mm", Price: "19.99"}},
	}
}

func TestScorePage(t *testing.T) {
	t.Run("complete page scores 100", func(t *testing.T) {
		ps := ScorePage(richProduct())
		assert.Equal(t, ScoreBreakdown{Content: 30, Structure: 20, SEO: 15, Media: 15, Variants: 10, Merchandising: 10}, ps.Breakdown)
		assert.Equal(t, 100, ps.Score)
		assert.Greater(t, ps.WordCount, 150)
	})

	t.Run("empty page scores 0", func(t *testing.T) {
		ps := ScorePage(domain.Product{ID: 2, Title: "$5 Thing"})
		assert.Equal(t, 0, ps.Score)
		assert.Equal(t, 0, ps.WordCount)
	})

	t.Run("table heavy body is penalized", func(t *testing.T) {
		body := "<table><tr>" + strings.Repeat("<td>x</td>", 11) + "</tr></table>"
		ps := ScorePage(domain.Product{ID: 3, Title: "Short", BodyHTML: body})
		assert.Equal(t, -5, ps.Breakdown.SEO)
		assert.Equal(t, 0, ps.Score)
	})

	t.Run("default variant earns price points only", func(t *testing.T) {
		ps := ScorePage(domain.Product{ID: 4, Variants: []domain.Variant{{Title: "Default Title", Price: "10.00"}}})
		assert.Equal(t, 5, ps.Breakdown.Variants)
	})
}

func TestPlainTextSeparatesBlocks(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<p>one</p><p>two &amp; three</p><style>p{}</style>"))
	require.NoError(t, err)
	doc.Find("style, script").Remove()
	assert.Equal(t, "one two & three", plainText(doc))
}

func TestPDPAudit_SortsWorstFirst(t *testing.T) {
	good := richProduct()
	bare := domain.Product{ID: 2, Title: "Bare", Status: "draft", Vendor: "What You Need"}
	good.Vendor = "What You Need"
	other := domain.Product{ID: 3, Title: "Other", Vendor: "Someone Else"}
	store := &fakeStore{products: []domain.Product{good, bare, other}}

	report, err := NewPDPAudit(store, nil).Run(context.Background(), "What You Need", RunOptions{})
	require.NoError(t, err)

	require.Len(t, report.Pages, 2)
	assert.Equal(t, int64(2), report.Pages[0].ProductID)
	assert.Equal(t, int64(1), report.Pages[1].ProductID)
	assert.Equal(t, 50.0, report.Average)
	assert.Equal(t, 100.0, report.ActiveAverage)
	assert.Equal(t, 1, report.Brackets["0-20"])
	assert.Equal(t, 1, report.Brackets["81-100"])
	assert.Equal(t, 0, report.Brackets["41-60"])
}
