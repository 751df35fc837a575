package badger

import (
	"context"
	"fmt"

	"github.com/WallCharmers/viktory-dashboard/internal/common"
	"github.com/WallCharmers/viktory-dashboard/internal/interfaces"
	"github.com/WallCharmers/viktory-dashboard/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// SnapshotRecord is a stored metrics snapshot, keyed by period (latest wins).
type SnapshotRecord struct {
	Period   string `badgerhold:"key"`
	Snapshot models.MetricsSnapshot
}

// SnapshotStorage implements interfaces.SnapshotStorage using BadgerDB.
type SnapshotStorage struct {
	db     *BadgerDB
	logger *common.Logger
}

// NewSnapshotStorage creates snapshot storage backed by BadgerDB.
func NewSnapshotStorage(db *BadgerDB, logger *common.Logger) *SnapshotStorage {
	return &SnapshotStorage{
		db:     db,
		logger: logger,
	}
}

// Save upserts the snapshot for its period.
func (s *SnapshotStorage) Save(_ context.Context, snapshot *models.MetricsSnapshot) error {
	record := SnapshotRecord{
		Period:   string(snapshot.Period),
		Snapshot: *snapshot,
	}
	if err := s.db.Store().Upsert(record.Period, &record); err != nil {
		return fmt.Errorf("failed to save snapshot for %s: %w", snapshot.Period, err)
	}
	return nil
}

// Latest returns the most recently saved snapshot for the period.
func (s *SnapshotStorage) Latest(_ context.Context, period models.Period) (*models.MetricsSnapshot, error) {
	var record SnapshotRecord
	err := s.db.Store().Get(string(period), &record)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("%w: %s", interfaces.ErrNotFound, period)
		}
		return nil, fmt.Errorf("failed to load snapshot for %s: %w", period, err)
	}
	snapshot := record.Snapshot
	return &snapshot, nil
}
