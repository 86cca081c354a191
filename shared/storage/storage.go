package storage

import (
	"fmt"

	"github.com/mousey-app/dashboard/shared/assets"
	"github.com/mousey-app/dashboard/shared/assets/fsstore"
	"github.com/mousey-app/dashboard/shared/assets/pebblestore"
	"github.com/mousey-app/dashboard/shared/config"
	"github.com/mousey-app/dashboard/shared/logger"
)

// Storage is the asset store selected by config, shared by the dashboard,
// the edge server and the publishing tool.
type Storage struct {
	assets.Writer
	Driver  string
	cleanup func() error
}

// New opens the store named by cfg.Public.Assets.
func New(cfg *config.Config) (*Storage, error) {
	return Open(cfg.Public.Assets.Driver, cfg.Public.Assets.Path)
}

func Open(driver, path string) (*Storage, error) {
	switch driver {
	case "fs", "":
		s, err := fsstore.New(path)
		if err != nil {
			return nil, err
		}
		return &Storage{Writer: s, Driver: "fs", cleanup: func() error { return nil }}, nil
	case "pebble":
		s, err := pebblestore.Open(path)
		if err != nil {
			return nil, err
		}
		return &Storage{Writer: s, Driver: "pebble", cleanup: s.Close}, nil
	default:
		return nil, fmt.Errorf("unknown asset driver %q", driver)
	}
}

// Cleanup releases the underlying store.
func (s *Storage) Cleanup() {
	if err := s.cleanup(); err != nil {
		logger.Log.Error("failed to close asset store", "driver", s.Driver, "error", err)
	}
}
