package types

import (
	"errors"
	"path/filepath"
)

// DatabaseFileName is the fixed name of the SQLite file inside DataDir.
const DatabaseFileName = "coffeeshop.db"

// Config holds backend selection and parameters for Storefront.Attach.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
	// EnforceForeignKeys turns on SQLite foreign key checks. Off by default
	// so that existing data files with orphaned category ids keep working.
	EnforceForeignKeys bool `json:"enforce_foreign_keys" yaml:"enforce_foreign_keys"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}

// DatabasePath returns the location of the database file. An empty DataDir
// means the current directory.
func (c Config) DatabasePath() string {
	dir := c.DataDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, DatabaseFileName)
}
