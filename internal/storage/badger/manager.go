package badger

import (
	"github.com/WallCharmers/viktory-dashboard/internal/common"
	"github.com/WallCharmers/viktory-dashboard/internal/config"
	"github.com/WallCharmers/viktory-dashboard/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger.
type Manager struct {
	db        *BadgerDB
	snapshots interfaces.SnapshotStorage
	logger    *common.Logger
}

// NewManager creates a new Badger storage manager.
func NewManager(logger *common.Logger, cfg *config.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, cfg)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:        db,
		snapshots: NewSnapshotStorage(db, logger),
		logger:    logger,
	}

	logger.Debug().Msg("Badger storage manager initialized")

	return manager, nil
}

// SnapshotStorage returns the snapshot storage interface.
func (m *Manager) SnapshotStorage() interfaces.SnapshotStorage {
	return m.snapshots
}

// Close closes the database connection.
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
