package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/shopify"
	apperrors "github.com/oilslickpad/storeops/pkg/errors"
)

const defaultVariantTitle = "Default Title"

var (
	titleWordPattern = regexp.MustCompile(`\w+`)
	specWordPattern  = regexp.MustCompile(`(?i)(spec|dimension|material|size|feature|include)`)
)

// ScoreBreakdown is the per-area contribution to a PDP score
type ScoreBreakdown struct {
	Content       int `json:"content"`
	Structure     int `json:"structure"`
	SEO           int `json:"seo"`
	Media         int `json:"media"`
	Variants      int `json:"variants"`
	Merchandising int `json:"merchandising"`
}

func (b ScoreBreakdown) total() int {
	sum := b.Content + b.Structure + b.SEO + b.Media + b.Variants + b.Merchandising
	if sum < 0 {
		return 0
	}
	if sum > 100 {
		return 100
	}
	return sum
}

// PageScore is the quality score of one product detail page
type PageScore struct {
	ProductID    int64          `json:"productId"`
	Title        string         `json:"title"`
	Handle       string         `json:"handle"`
	Status       string         `json:"status"`
	Score        int            `json:"score"`
	WordCount    int            `json:"wordCount"`
	ImageCount   int            `json:"imageCount"`
	VariantCount int            `json:"variantCount"`
	Breakdown    ScoreBreakdown `json:"breakdown"`
}

// ScorePage rates a product detail page from 0 to 100
func ScorePage(p domain.Product) PageScore {
	ps := PageScore{
		ProductID:    p.ID,
		Title:        p.Title,
		Handle:       p.Handle,
		Status:       p.Status,
		ImageCount:   p.ImageCount,
		VariantCount: len(p.Variants),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.BodyHTML))
	if err != nil {
		return ps
	}
	doc.Find("style, script").Remove()
	plain := plainText(doc)
	words := strings.Fields(plain)
	ps.WordCount = len(words)

	var b ScoreBreakdown
	switch {
	case ps.WordCount >= 150:
		b.Content = 30
	case ps.WordCount >= 80:
		b.Content = 20
	case ps.WordCount >= 40:
		b.Content = 10
	case ps.WordCount >= 15:
		b.Content = 5
	}

	if doc.Find("h2, h3, h4").Length() > 0 {
		b.Structure += 8
	}
	if doc.Find("ul, ol").Length() > 0 {
		b.Structure += 7
	}
	if doc.Find("p").Length() >= 2 {
		b.Structure += 5
	}

	if strings.HasPrefix(p.Title, "$") {
		b.SEO -= 5
	}
	if n := utf8.RuneCountInString(p.Title); n >= 20 && n <= 70 {
		b.SEO += 5
	}
	switch hits := keywordHits(p.Title, strings.ToLower(plain)); {
	case hits >= 3:
		b.SEO += 5
	case hits >= 1:
		b.SEO += 3
	}
	if doc.Find("td").Length() > 10 && ps.WordCount < 50 {
		b.SEO -= 5
	}
	if specWordPattern.MatchString(plain) {
		b.SEO += 5
	}

	switch {
	case p.ImageCount >= 3:
		b.Media = 15
	case p.ImageCount >= 2:
		b.Media = 10
	case p.ImageCount >= 1:
		b.Media = 5
	}

	if len(p.Variants) > 0 {
		named, priced := false, true
		for _, v := range p.Variants {
			if v.Title != defaultVariantTitle {
				named = true
			}
			if v.Price == "" {
				priced = false
			}
		}
		if named {
			b.Variants += 5
		}
		if priced {
			b.Variants += 5
		}
	}

	if p.ProductType != "" {
		b.Merchandising += 5
	}
	switch {
	case len(p.Tags) >= 3:
		b.Merchandising += 5
	case len(p.Tags) >= 1:
		b.Merchandising += 3
	}

	ps.Breakdown = b
	ps.Score = b.total()
	return ps
}

// plainText joins every text node with a space so adjacent blocks do not run together
func plainText(doc *goquery.Document) string {
	var parts []string
	var walk func(s *goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				parts = append(parts, c.Text())
				return
			}
			walk(c)
		})
	}
	walk(doc.Selection)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func keywordHits(title, body string) int {
	seen := map[string]bool{}
	hits := 0
	for _, w := range titleWordPattern.FindAllString(strings.ToLower(title), -1) {
		if seen[w] {
			continue
		}
		seen[w] = true
		if len(w) > 3 && strings.Contains(body, w) {
			hits++
		}
	}
	return hits
}

// PDPReport is the outcome of one PDP audit, pages sorted worst first
type PDPReport struct {
	RunID         uuid.UUID      `json:"runId"`
	GeneratedAt   time.Time      `json:"generatedAt"`
	Vendor        string         `json:"vendor,omitempty"`
	Scanned       int            `json:"scanned"`
	Average       float64        `json:"average"`
	ActiveAverage float64        `json:"activeAverage"`
	Brackets      map[string]int `json:"brackets"`
	Pages         []PageScore    `json:"pages"`
}

// Brackets in display order
var Brackets = []string{"0-20", "21-40", "41-60", "61-80", "81-100"}

func bracket(score int) string {
	switch {
	case score <= 20:
		return Brackets[0]
	case score <= 40:
		return Brackets[1]
	case score <= 60:
		return Brackets[2]
	case score <= 80:
		return Brackets[3]
	default:
		return Brackets[4]
	}
}

// PDPAudit scores product detail pages. It never writes.
type PDPAudit struct {
	store  ProductStore
	logger *zap.Logger
}

// NewPDPAudit creates a PDP audit
func NewPDPAudit(store ProductStore, logger *zap.Logger) *PDPAudit {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDPAudit{store: store, logger: logger}
}

// Run scores every product of vendor (all vendors when empty)
func (a *PDPAudit) Run(ctx context.Context, vendor string, opts RunOptions) (*PDPReport, error) {
	products, err := a.store.ListProductsREST(ctx, shopify.ListOptions{Max: opts.Max, Vendor: vendor})
	if err != nil {
		a.logger.Error("Failed to fetch products", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFetchFailed, err)
	}

	report := &PDPReport{
		RunID:       runID(opts),
		GeneratedAt: time.Now(),
		Vendor:      vendor,
		Scanned:     len(products),
		Brackets:    map[string]int{},
		Pages:       make([]PageScore, 0, len(products)),
	}
	for _, b := range Brackets {
		report.Brackets[b] = 0
	}

	total, activeTotal, active := 0, 0, 0
	for _, p := range products {
		ps := ScorePage(p)
		report.Pages = append(report.Pages, ps)
		report.Brackets[bracket(ps.Score)]++
		total += ps.Score
		if strings.EqualFold(p.Status, "active") {
			active++
			activeTotal += ps.Score
		}
	}
	sort.SliceStable(report.Pages, func(i, j int) bool {
		return report.Pages[i].Score < report.Pages[j].Score
	})
	if len(products) > 0 {
		report.Average = float64(total) / float64(len(products))
	}
	if active > 0 {
		report.ActiveAverage = float64(activeTotal) / float64(active)
	}
	return report, nil
}
