// Tests for schema initialization and reset.
package sqlite

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/coffeeshop/pkg/types"
)

func TestInitialize_CreatesTablesWithExpectedColumns(t *testing.T) {
	b := setupBackend(t)
	db := openRaw(t, b)

	want := map[string][]string{
		"categories": {"id", "name", "description"},
		"products":   {"id", "category_id", "name", "description", "price", "image_url", "available"},
		"sales":      {"id", "date", "time", "total", "payment_method"},
		"sale_items": {"sale_id", "product_id", "quantity", "price"},
	}

	for table, cols := range want {
		t.Run(table, func(t *testing.T) {
			rows, err := db.Query("SELECT name FROM pragma_table_info(?)", table)
			require.NoError(t, err)
			defer rows.Close()

			var got []string
			for rows.Next() {
				var name string
				require.NoError(t, rows.Scan(&name))
				got = append(got, name)
			}
			require.NoError(t, rows.Err())
			assert.Equal(t, cols, got)
		})
	}
}

func TestInitialize_IsIdempotent(t *testing.T) {
	b := setupBackend(t)

	_, err := b.Categories().Create(&types.Category{Name: "Hot"})
	require.NoError(t, err)

	require.NoError(t, b.Initialize())
	require.NoError(t, b.Initialize())

	cats, err := b.Categories().ListAll()
	require.NoError(t, err)
	assert.Len(t, cats, 1, "initialize must not drop existing rows")
}

func TestInitialize_AdoptsExistingDataFile(t *testing.T) {
	dir := t.TempDir()
	b := setupBackendWithHookDir(t, dir)
	db := openRaw(t, b)

	// A row written by an older client, with NULL optional columns.
	_, err := db.Exec("INSERT INTO products (id, name, price, available) VALUES (7, 'Legacy', 2.5, NULL)")
	require.NoError(t, err)

	require.NoError(t, b.Detach())
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))

	p, found, err := b.Products().GetByID(7)
	require.NoError(t, err)
	require.True(t, found)
	assert.Nil(t, p.CategoryID)
	assert.Nil(t, p.CategoryName)
	assert.Empty(t, p.Description)
	assert.True(t, p.IsAvailable())
	assert.True(t, p.Price.Equal(decimal.RequireFromString("2.5")))
}

func TestReset(t *testing.T) {
	b := setupBackend(t)

	_, err := b.Categories().Create(&types.Category{Name: "Custom"})
	require.NoError(t, err)
	require.NoError(t, b.Seed())
	_, err = b.Sales().Create(&types.Sale{
		Date: "2024-01-01", Time: "09:00", Total: decimal.RequireFromString("4.39"),
		Items: []types.SaleItem{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = b.Products().Update(&types.Product{ID: 1, Name: "Renamed", Price: decimal.RequireFromString("1")})
	require.NoError(t, err)

	require.NoError(t, b.Reset())

	db := openRaw(t, b)
	assert.Equal(t, 0, countRows(t, db, "sales"))
	assert.Equal(t, 0, countRows(t, db, "sale_items"))
	assert.Equal(t, len(seedCategories), countRows(t, db, "categories"))
	assert.Equal(t, len(seedProducts), countRows(t, db, "products"))

	p, found, err := b.Products().GetByID(1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Espresso", p.Name, "reset restores seed rows")

	// Autoincrement restarts, so new rows follow the seeded ids.
	id, err := b.Categories().Create(&types.Category{Name: "After Reset"})
	require.NoError(t, err)
	assert.Equal(t, int64(len(seedCategories)+1), id)
}
