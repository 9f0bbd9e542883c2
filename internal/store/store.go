// Package store persists named collections as ordered lists of records.
//
// A collection is loaded whole and rewritten whole: Load fills a slice and
// Save atomically replaces the stored list. Insertion order is preserved
// across a round trip. Two drivers exist:
//
//   - "file":     one JSON document per collection under a data directory
//   - "postgres": a collections table keyed by (name, position)
package store

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Store is the durable collection store. Load leaves out untouched when the
// collection is absent or corrupt, so callers that start from an empty
// slice get an empty collection instead of an error.
type Store interface {
	Load(name string, out any) error
	Save(name string, v any) error
	Close() error
}

// Config selects and configures a driver.
type Config struct {
	Driver  string
	DataDir string // file driver
	DSN     string // postgres driver
}

// Open builds the configured driver.
func Open(cfg Config, log zerolog.Logger) (Store, error) {
	switch cfg.Driver {
	case "", "file":
		return openFile(cfg.DataDir, log)
	case "postgres":
		return openPostgres(cfg.DSN, log)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
