// Package sqlite provides the public API for the SQLite storefront backend.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/coffeeshop/internal/sqlite"
	"github.com/mesh-intelligence/coffeeshop/pkg/types"
)

// NewBackend creates a new SQLite backend instance that logs through logger.
// A nil logger keeps the logrus standard logger. The backend is not
// attached; call Attach with a Config to initialize.
//
// Example:
//
//	shop := sqlite.NewBackend(nil)
//	err := shop.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".coffeeshop-db",
//	})
//	defer shop.Detach()
func NewBackend(logger logrus.FieldLogger) types.Shop {
	b := sqlite.NewBackend()
	if logger != nil {
		b.SetLogger(logger)
	}
	return b
}
