package storage

import (
	"github.com/WallCharmers/viktory-dashboard/internal/common"
	"github.com/WallCharmers/viktory-dashboard/internal/config"
	"github.com/WallCharmers/viktory-dashboard/internal/interfaces"
	"github.com/WallCharmers/viktory-dashboard/internal/storage/badger"
)

// NewStorageManager creates a new storage manager based on config.
func NewStorageManager(logger *common.Logger, cfg *config.Config) (interfaces.StorageManager, error) {
	return badger.NewManager(logger, &cfg.Storage.Badger)
}
