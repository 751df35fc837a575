package source

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/WallCharmers/viktory-dashboard/internal/models"
)

// demoBaseline holds the anchor figures a demo period varies around.
// Derived from real historical WallCharmers performance so demo mode looks
// plausible next to live data.
type demoBaseline struct {
	revenue    float64
	minOrders  int
	maxOrders  int
	margin     float64
	prev       models.PeriodTotals
	jitter     float64 // +/- fraction applied to revenue
	unitsRatio float64 // units per order
}

var demoBaselines = map[models.Period]demoBaseline{
	models.PeriodToday: {
		revenue:   1847.23,
		minOrders: 28, maxOrders: 38,
		margin:     17.4,
		jitter:     0.15,
		unitsRatio: 1.15,
		prev:       models.PeriodTotals{Revenue: 2134.56, Orders: 35, Units: 42, Profit: 378.92, Margin: 17.8},
	},
	models.PeriodWeek: {
		revenue:   12456.78,
		minOrders: 190, maxOrders: 220,
		margin:     17.6,
		jitter:     0.05,
		unitsRatio: 1.20,
		prev:       models.PeriodTotals{Revenue: 11234.89, Orders: 187, Units: 223, Profit: 1967.45, Margin: 17.5},
	},
	models.PeriodMonth: {
		revenue:   60261.07,
		minOrders: 1000, maxOrders: 1050,
		margin:     17.84,
		jitter:     0.02,
		unitsRatio: 1.11,
		prev:       models.PeriodTotals{Revenue: 55432.18, Orders: 942, Units: 1047, Profit: 9877.74, Margin: 17.82},
	},
}

// DemoProvider generates plausible seller metrics without any network calls.
// Output is deterministic for a given (seed, period, calendar day), so
// repeated fetches within a day render identically. It never fails.
type DemoProvider struct {
	seed int64
	now  func() time.Time
}

// NewDemoProvider creates a demo provider with the given seed.
func NewDemoProvider(seed int64) *DemoProvider {
	return &DemoProvider{seed: seed, now: time.Now}
}

// Status implements Provider.
func (p *DemoProvider) Status() models.SourceStatus {
	return models.SourceDemo
}

// Fetch implements Provider. The error is always nil; the signature matches
// the Provider interface so the selector treats both paths uniformly.
func (p *DemoProvider) Fetch(_ context.Context, period models.Period) (*models.MetricsSnapshot, error) {
	base, ok := demoBaselines[period]
	if !ok {
		base = demoBaselines[models.PeriodToday]
	}

	now := p.now().UTC()
	rng := rand.New(rand.NewSource(p.daySeed(period, now)))

	variation := 1 + (rng.Float64()*2-1)*base.jitter
	revenue := round2(base.revenue * variation)
	orders := base.minOrders + rng.Intn(base.maxOrders-base.minOrders+1)
	units := int(float64(orders) * base.unitsRatio)
	profit := round2(revenue * base.margin / 100)

	current := models.PeriodTotals{
		Revenue: revenue,
		Orders:  orders,
		Units:   units,
		Profit:  profit,
		Margin:  base.margin,
	}

	return &models.MetricsSnapshot{
		Period:      period,
		Source:      models.SourceDemo,
		GeneratedAt: now,
		Current:     current,
		Previous:    base.prev,
		SKUs:        distributeSKUs(rng, revenue),
	}, nil
}

// daySeed folds the configured seed, the period, and the calendar day into
// one rand source seed. Same day + same period = same snapshot.
func (p *DemoProvider) daySeed(period models.Period, now time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(period))
	h.Write([]byte(now.Format("2006-01-02")))
	return p.seed ^ int64(h.Sum64())
}

// distributeSKUs spreads a period's revenue across the catalog by share
// weight, with a small deterministic wobble per product.
func distributeSKUs(rng *rand.Rand, totalRevenue float64) []models.SKUMetrics {
	skus := make([]models.SKUMetrics, 0, len(skuCatalog))
	for _, entry := range skuCatalog {
		share := entry.RevenueShare * (0.9 + rng.Float64()*0.2)
		revenue := round2(totalRevenue * share)
		units := int(revenue / avgUnitPrice)
		if revenue > 0 && units < 1 {
			units = 1
		}

		skus = append(skus, models.SKUMetrics{
			SKU:        entry.SKU,
			ASIN:       entry.ASIN,
			Name:       entry.Name,
			Revenue:    revenue,
			Units:      units,
			Profit:     round2(revenue * entry.Margin),
			Margin:     entry.Margin,
			AmzStock:   5 + rng.Intn(76),
			TotalStock: entry.TotalStock,
			ACOS:       entry.ACOS,
			Sessions:   entry.Sessions,
			Conversion: entry.Conversion,
			BSR:        entry.BSR,
			Reviews:    entry.Reviews,
			Rating:     entry.Rating,
		})
	}
	return skus
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
