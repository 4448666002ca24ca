package sqlite

import (
	"database/sql"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/coffeeshop/pkg/types"
)

// Schema DDL for all tables. Column names and types match data files written
// by earlier versions of the app and must not change.
const (
	createCategories = `CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT
);`

	createProducts = `CREATE TABLE IF NOT EXISTS products (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    category_id INTEGER,
    name TEXT NOT NULL,
    description TEXT,
    price REAL NOT NULL,
    image_url TEXT,
    available BOOLEAN DEFAULT 1,
    FOREIGN KEY (category_id) REFERENCES categories (id)
);`

	createSales = `CREATE TABLE IF NOT EXISTS sales (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT NOT NULL,
    time TEXT NOT NULL,
    total REAL NOT NULL,
    payment_method TEXT NOT NULL DEFAULT 'Cash'
);`

	createSaleItems = `CREATE TABLE IF NOT EXISTS sale_items (
    sale_id INTEGER NOT NULL,
    product_id INTEGER NOT NULL,
    quantity INTEGER NOT NULL,
    price REAL NOT NULL,
    FOREIGN KEY (sale_id) REFERENCES sales (id),
    FOREIGN KEY (product_id) REFERENCES products (id)
);`
)

// Index DDL for the joins and filters the stores run.
const (
	idxProductsCategory = `CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);`
	idxSaleItemsSale    = `CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items(sale_id);`
	idxSalesDateTime    = `CREATE INDEX IF NOT EXISTS idx_sales_date_time ON sales(date, time);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createCategories,
	createProducts,
	createSales,
	createSaleItems,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxProductsCategory,
	idxSaleItemsSale,
	idxSalesDateTime,
}

// dropDDL removes every table, dependents first.
var dropDDL = []string{
	`DROP TABLE IF EXISTS sale_items;`,
	`DROP TABLE IF EXISTS sales;`,
	`DROP TABLE IF EXISTS products;`,
	`DROP TABLE IF EXISTS categories;`,
}

// Initialize ensures all four tables and their indexes exist. It is safe to
// call on every start. Failures are returned as StorageError and are not
// retried.
func (b *Backend) Initialize() error {
	err := b.withTx("initialize schema", createSchema)
	if err != nil {
		return err
	}
	b.logger().Info("database schema ready")
	return nil
}

// Reset drops all four tables, recreates them, and seeds the demo rows, all
// in one transaction. Every sale is lost. Intended for explicit developer
// requests only.
func (b *Backend) Reset() error {
	err := b.withTx("reset database", func(tx *sql.Tx) error {
		for _, ddl := range dropDDL {
			if _, err := tx.Exec(ddl); err != nil {
				return types.NewStorageError("drop table", err)
			}
		}
		if err := createSchema(tx); err != nil {
			return err
		}
		return seedTx(tx)
	})
	if err != nil {
		return err
	}
	b.logger().Warn("database reset to seed data")
	return nil
}

func createSchema(tx *sql.Tx) error {
	for _, ddl := range schemaDDL {
		if _, err := tx.Exec(ddl); err != nil {
			return types.NewStorageError("create table", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := tx.Exec(ddl); err != nil {
			return types.NewStorageError("create index", err)
		}
	}
	return nil
}

func (b *Backend) logger() logrus.FieldLogger {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.log
}
