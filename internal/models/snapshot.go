package models

import (
	"time"
)

// SourceStatus tags which data path produced a snapshot. Surfaced to the
// dashboard for display only.
type SourceStatus string

const (
	SourceLive       SourceStatus = "live"
	SourceDemo       SourceStatus = "demo"
	SourceHistorical SourceStatus = "historical"
)

// PeriodTotals holds aggregate seller performance for one reporting window.
type PeriodTotals struct {
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
	Units   int     `json:"units"`
	Profit  float64 `json:"profit"`
	Margin  float64 `json:"margin"` // percent
}

// SKUMetrics holds per-product performance within a snapshot.
type SKUMetrics struct {
	SKU        string  `json:"sku"`
	ASIN       string  `json:"asin"`
	Name       string  `json:"name"`
	Revenue    float64 `json:"revenue"`
	Units      int     `json:"units"`
	Profit     float64 `json:"profit"`
	Margin     float64 `json:"margin"` // fraction, e.g. 0.234
	AmzStock   int     `json:"amz_stock"`
	TotalStock int     `json:"total_stock"`
	ACOS       float64 `json:"acos"`
	Sessions   int     `json:"sessions"`
	Conversion float64 `json:"conversion"`
	BSR        int     `json:"bsr"`
	Reviews    int     `json:"reviews"`
	Rating     float64 `json:"rating"`
}

// MetricsSnapshot is one fetched or generated set of seller metrics for a
// single period. The shape is identical whether the live or demo source
// produced it, so the dashboard is source-agnostic.
type MetricsSnapshot struct {
	Period      Period       `json:"period"`
	Source      SourceStatus `json:"source"`
	GeneratedAt time.Time    `json:"generated_at"`
	Current     PeriodTotals `json:"current"`
	Previous    PeriodTotals `json:"previous"`
	SKUs        []SKUMetrics `json:"skus"`
}
