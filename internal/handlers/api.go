package handlers

import (
	"net/http"

	"github.com/WallCharmers/viktory-dashboard/internal/common"
	"github.com/WallCharmers/viktory-dashboard/internal/models"
	"github.com/WallCharmers/viktory-dashboard/internal/source"
)

// MetricsHandler serves metrics snapshots as JSON.
// GET /api/metrics?period=today|week|month
type MetricsHandler struct {
	logger    *common.Logger
	jwtSecret []byte
	fetcher   MetricsFetcher
}

// NewMetricsHandler creates a new metrics API handler.
func NewMetricsHandler(logger *common.Logger, jwtSecret []byte, fetcher MetricsFetcher) *MetricsHandler {
	return &MetricsHandler{
		logger:    logger,
		jwtSecret: jwtSecret,
		fetcher:   fetcher,
	}
}

// ServeHTTP handles GET /api/metrics.
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	if loggedIn, _ := IsLoggedIn(r, h.jwtSecret); !loggedIn {
		WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	period, err := models.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	snapshot, _ := h.fetcher.Fetch(r.Context(), period)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   snapshot,
	})
}

// SourceReporter exposes the selector's diagnostics for the status endpoint.
type SourceReporter interface {
	LastOutcome() source.Outcome
	CredentialsComplete() bool
	MissingCredentials() []string
}

// StatusHandler reports credential completeness and the last fetch outcome.
// Credential names only; values never leave the process.
// GET /api/status
type StatusHandler struct {
	logger    *common.Logger
	jwtSecret []byte
	reporter  SourceReporter
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(logger *common.Logger, jwtSecret []byte, reporter SourceReporter) *StatusHandler {
	return &StatusHandler{
		logger:    logger,
		jwtSecret: jwtSecret,
		reporter:  reporter,
	}
}

// ServeHTTP handles GET /api/status.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	if loggedIn, _ := IsLoggedIn(r, h.jwtSecret); !loggedIn {
		WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"credentials_complete": h.reporter.CredentialsComplete(),
			"missing_credentials":  h.reporter.MissingCredentials(),
			"last_fetch":           h.reporter.LastOutcome(),
		},
	})
}
