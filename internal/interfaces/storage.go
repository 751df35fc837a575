package interfaces

import (
	"context"
	"errors"

	"github.com/WallCharmers/viktory-dashboard/internal/models"
)

// ErrNotFound is returned when no snapshot exists for a period.
var ErrNotFound = errors.New("snapshot not found")

// StorageManager provides access to domain-specific storage interfaces.
// Implementations can be swapped (BadgerDB now, centralised DB later).
type StorageManager interface {
	SnapshotStorage() SnapshotStorage
	Close() error
}

// SnapshotStorage persists metrics snapshots, latest-wins per period.
// Live snapshots are saved here so a later fallback can serve real
// historical data instead of generated demo figures.
type SnapshotStorage interface {
	Save(ctx context.Context, snapshot *models.MetricsSnapshot) error
	Latest(ctx context.Context, period models.Period) (*models.MetricsSnapshot, error)
}
