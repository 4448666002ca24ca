package types

import "errors"

// Storefront is the persistence boundary the UI layer talks to. Callers
// attach it to a data directory, use the stores, and detach when done.
type Storefront interface {
	// Attach validates config, creates the data directory if needed, and
	// ensures the schema exists. Returns ErrAlreadyAttached if called twice.
	Attach(config Config) error

	// Detach marks the storefront closed. Idempotent. After Detach every
	// store operation returns ErrDetached.
	Detach() error

	Categories() CategoryStore
	Products() ProductStore
	Sales() SalesLedger
	Analytics() Analytics
}

// Lifecycle errors.
var (
	ErrDetached        = errors.New("storefront is detached")
	ErrAlreadyAttached = errors.New("storefront is already attached")
)

// Maintenance covers the operator tasks that act on the whole data file
// rather than a single store.
type Maintenance interface {
	// Initialize creates any missing tables and indexes. Existing rows are
	// kept.
	Initialize() error

	// Seed inserts the demo catalog, skipping rows whose id already exists.
	Seed() error

	// Reset drops every table, recreates the schema, and reseeds the demo
	// catalog in one transaction. The ledger is lost.
	Reset() error

	// ExportSales writes the ledger as JSON lines to path and returns the
	// number of sales written.
	ExportSales(path string) (int, error)
}

// Shop is a Storefront that also exposes Maintenance.
type Shop interface {
	Storefront
	Maintenance
}
