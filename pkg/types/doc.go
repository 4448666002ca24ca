// Package types defines the storefront entities (categories, products, sales),
// the store interfaces the persistence layer implements, configuration, and
// the error taxonomy shared by every store.
package types
