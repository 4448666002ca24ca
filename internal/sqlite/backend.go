// Package sqlite implements the SQLite storage backend for the coffee shop
// storefront: schema management, the category and product stores, the sales
// ledger, seeding, analytics, and ledger export.
//
// The backend holds no open database handle between calls. Every operation
// opens a dedicated handle, runs its statements, and closes the handle before
// returning, whether it succeeded or failed.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/coffeeshop/pkg/types"
)

var _ types.Shop = (*Backend)(nil)

// busyTimeoutMillis bounds how long a call waits on a lock held by another
// process sharing the same file.
const busyTimeoutMillis = 5000

// Backend implements types.Shop on a single SQLite file.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	log      logrus.FieldLogger

	categories *categoriesTable
	products   *productsTable
	sales      *salesTable
	analytics  *analyticsQueries
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	b := &Backend{
		log: logrus.StandardLogger().WithField("component", "sqlite"),
	}
	b.categories = &categoriesTable{backend: b}
	b.products = &productsTable{backend: b}
	b.sales = &salesTable{backend: b}
	b.analytics = &analyticsQueries{backend: b}
	return b
}

// SetLogger replaces the backend logger. Passing nil restores the logrus
// standard logger.
func (b *Backend) SetLogger(l logrus.FieldLogger) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if l == nil {
		l = logrus.StandardLogger()
	}
	b.log = l.WithField("component", "sqlite")
}

// Attach validates config, creates DataDir if it does not exist, and runs
// Initialize. A schema failure is returned to the caller and leaves the
// backend detached.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	if b.attached {
		b.mu.Unlock()
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		b.mu.Unlock()
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		b.mu.Unlock()
		return types.NewStorageError("create data directory", err)
	}

	b.config = config
	b.attached = true
	b.mu.Unlock()

	if err := b.Initialize(); err != nil {
		b.mu.Lock()
		b.attached = false
		b.mu.Unlock()
		return err
	}
	return nil
}

// Detach marks the backend closed. There is no long-lived handle to release.
// Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attached = false
	return nil
}

// Categories returns the category store.
func (b *Backend) Categories() types.CategoryStore { return b.categories }

// Products returns the product store.
func (b *Backend) Products() types.ProductStore { return b.products }

// Sales returns the sales ledger.
func (b *Backend) Sales() types.SalesLedger { return b.sales }

// Analytics returns the ledger aggregate queries.
func (b *Backend) Analytics() types.Analytics { return b.analytics }

// uriPathEscaper percent-encodes the characters SQLite treats as URI
// delimiters in a file: name.
var uriPathEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// dsn builds the modernc.org/sqlite connection string. Pragmas are applied on
// every new connection by the driver.
func dsn(config types.Config) string {
	fk := 0
	if config.EnforceForeignKeys {
		fk = 1
	}
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(%d)&_pragma=busy_timeout(%d)",
		uriPathEscaper.Replace(config.DatabasePath()), fk, busyTimeoutMillis)
}

// acquire opens a dedicated single-connection handle for one operation and
// returns it with an operation-scoped logger. The caller must call release.
func (b *Backend) acquire(op string) (db *sql.DB, log logrus.FieldLogger, release func(), err error) {
	b.mu.RLock()
	attached, config, base := b.attached, b.config, b.log
	b.mu.RUnlock()

	if !attached {
		return nil, nil, nil, types.ErrDetached
	}

	log = base.WithFields(logrus.Fields{"op": op, "op_id": newOpID()})

	db, err = sql.Open("sqlite", dsn(config))
	if err != nil {
		return nil, nil, nil, types.NewStorageError("open database", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, nil, types.NewStorageError("open database", err)
	}

	start := time.Now()
	release = func() {
		if cerr := db.Close(); cerr != nil {
			log.WithError(cerr).Warn("closing database handle")
		}
		log.WithField("elapsed", time.Since(start)).Debug("operation finished")
	}
	return db, log, release, nil
}

// withDB runs fn on a handle that is released on every exit path.
func (b *Backend) withDB(op string, fn func(db *sql.DB) error) error {
	db, _, release, err := b.acquire(op)
	if err != nil {
		return err
	}
	defer release()
	return fn(db)
}

// withTx runs fn inside a single transaction. Any error from fn rolls the
// whole transaction back and is returned unchanged.
func (b *Backend) withTx(op string, fn func(tx *sql.Tx) error) error {
	db, log, release, err := b.acquire(op)
	if err != nil {
		return err
	}
	defer release()

	tx, err := db.Begin()
	if err != nil {
		return types.NewStorageError("begin transaction", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.WithError(rbErr).Error("rollback failed")
		}
		log.WithError(err).Warn("transaction rolled back")
		return err
	}

	if err := tx.Commit(); err != nil {
		return types.NewStorageError("commit transaction", err)
	}
	return nil
}

// newOpID generates a UUID v7 used to correlate the log lines of one
// operation.
func newOpID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
