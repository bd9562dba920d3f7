package app

import (
	"fmt"

	"cryptoTrade/config"
	"cryptoTrade/internal/adapters/sqlite"
	"cryptoTrade/internal/ports"
	"cryptoTrade/internal/utils"
)

// Storage bundles the repositories selected by configuration.
// Runs is nil unless a SQLite database is open.
type Storage struct {
	Klines ports.KlineRepository
	Runs   ports.RunRepository
	db     *sqlite.Repository
}

// OpenStorage opens the kline store named by cfg.Storage. When withRuns is set the
// SQLite database is opened for run persistence even if klines live in CSV files.
func OpenStorage(cfg *config.Config, logger ports.Logger, withRuns bool) (*Storage, error) {
	s := &Storage{}
	if cfg.Storage == config.StorageSQLite || withRuns {
		db, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: logger})
		if err != nil {
			return nil, err
		}
		s.db = db
		if withRuns {
			s.Runs = db
		}
	}

	switch cfg.Storage {
	case config.StorageSQLite:
		s.Klines = s.db
	case config.StorageCSV:
		store, err := utils.NewCSVStore(cfg.DataDir)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Klines = store
	default:
		s.Close()
		return nil, fmt.Errorf("%w: unknown storage %q", ports.ErrConfigurationError, cfg.Storage)
	}
	return s, nil
}

// Close releases the database connection, if any.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
