// Package source implements the dashboard's data paths: a live provider
// backed by SP-API, a demo provider that always succeeds, and the selector
// that decides per request which one serves the page.
package source

import (
	"context"

	"github.com/WallCharmers/viktory-dashboard/internal/models"
)

// Provider produces a metrics snapshot for a reporting period.
// Two implementations exist:
//   - DemoProvider: deterministic synthetic data, never fails
//   - LiveProvider: real seller data from SP-API
type Provider interface {
	// Fetch builds a snapshot for the period.
	Fetch(ctx context.Context, period models.Period) (*models.MetricsSnapshot, error)

	// Status returns the tag this provider stamps on its snapshots.
	Status() models.SourceStatus
}
