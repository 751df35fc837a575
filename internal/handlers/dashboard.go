package handlers

import (
	"context"
	"html/template"
	"net/http"

	"github.com/WallCharmers/viktory-dashboard/internal/common"
	"github.com/WallCharmers/viktory-dashboard/internal/config"
	"github.com/WallCharmers/viktory-dashboard/internal/models"
)

// MetricsFetcher provides metrics for a period. The contract is total: a
// snapshot always comes back, tagged with the path that produced it.
type MetricsFetcher interface {
	Fetch(ctx context.Context, period models.Period) (*models.MetricsSnapshot, models.SourceStatus)
}

// periodOption is one entry of the dashboard's period selector.
type periodOption struct {
	Value models.Period
	Label string
}

var periodOptions = []periodOption{
	{Value: models.PeriodToday, Label: "Today"},
	{Value: models.PeriodWeek, Label: "This Week"},
	{Value: models.PeriodMonth, Label: "This Month"},
}

// DashboardHandler serves the session-gated metrics dashboard page.
type DashboardHandler struct {
	logger    *common.Logger
	templates *template.Template
	jwtSecret []byte
	fetcher   MetricsFetcher
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(logger *common.Logger, jwtSecret []byte, fetcher MetricsFetcher) *DashboardHandler {
	return &DashboardHandler{
		logger:    logger,
		templates: LoadTemplates(),
		jwtSecret: jwtSecret,
		fetcher:   fetcher,
	}
}

// ServeHTTP renders the dashboard page.
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	// The password gate runs before any fetch is permitted.
	if loggedIn, _ := IsLoggedIn(r, h.jwtSecret); !loggedIn {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	period, err := models.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	snapshot, status := h.fetcher.Fetch(r.Context(), period)

	data := map[string]interface{}{
		"Page":          "dashboard",
		"Period":        period,
		"PeriodLabel":   periodLabel(period),
		"Periods":       periodOptions,
		"Comparison":    period.Comparison(),
		"Source":        status,
		"Snapshot":      snapshot,
		"RevenueDelta":  common.Delta(snapshot.Current.Revenue, snapshot.Previous.Revenue),
		"ProfitDelta":   common.Delta(snapshot.Current.Profit, snapshot.Previous.Profit),
		"OrdersDelta":   common.Delta(float64(snapshot.Current.Orders), float64(snapshot.Previous.Orders)),
		"UnitsDelta":    common.Delta(float64(snapshot.Current.Units), float64(snapshot.Previous.Units)),
		"GeneratedAt":   snapshot.GeneratedAt.Format("15:04:05 MST"),
		"PortalVersion": config.GetVersion(),
	}

	if err := h.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		if h.logger != nil {
			h.logger.Error().Str("template", "dashboard.html").Str("error", err.Error()).Msg("failed to render dashboard")
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func periodLabel(p models.Period) string {
	for _, opt := range periodOptions {
		if opt.Value == p {
			return opt.Label
		}
	}
	return string(p)
}
