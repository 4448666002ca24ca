// This file implements the product store for the SQLite backend.
package sqlite

import (
	"database/sql"
	"errors"

	"github.com/mesh-intelligence/coffeeshop/pkg/types"
)

var _ types.ProductStore = (*productsTable)(nil)

type productsTable struct {
	backend *Backend
}

// productColumns is the select list shared by every product query. The
// category name comes from a left join aliased c.
const productColumns = `p.id, p.category_id, p.name, p.description, p.price,
    p.image_url, p.available, c.name`

// ListAll returns every product ordered by name, with CategoryName set from
// the joined category.
func (pt *productsTable) ListAll() ([]types.Product, error) {
	return pt.list("list products",
		"SELECT "+productColumns+` FROM products p
    LEFT JOIN categories c ON p.category_id = c.id
    ORDER BY p.name`)
}

// ListByCategory returns the products whose category_id equals categoryID,
// ordered by name.
func (pt *productsTable) ListByCategory(categoryID int64) ([]types.Product, error) {
	return pt.list("list products by category",
		"SELECT "+productColumns+` FROM products p
    LEFT JOIN categories c ON p.category_id = c.id
    WHERE p.category_id = ?
    ORDER BY p.name`, categoryID)
}

func (pt *productsTable) list(op, query string, args ...any) ([]types.Product, error) {
	results := []types.Product{}
	err := pt.backend.withDB(op, func(db *sql.DB) error {
		rows, err := db.Query(query, args...)
		if err != nil {
			return types.NewStorageError("fetching products", err)
		}
		defer rows.Close()

		for rows.Next() {
			p, err := hydrateProduct(rows)
			if err != nil {
				return types.NewStorageError("hydrating product", err)
			}
			results = append(results, *p)
		}
		if err := rows.Err(); err != nil {
			return types.NewStorageError("iterating products", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetByID retrieves a product by id. A missing id yields found=false.
func (pt *productsTable) GetByID(id int64) (*types.Product, bool, error) {
	var product *types.Product
	err := pt.backend.withDB("get product", func(db *sql.DB) error {
		row := db.QueryRow("SELECT "+productColumns+` FROM products p
    LEFT JOIN categories c ON p.category_id = c.id
    WHERE p.id = ?`, id)
		p, err := hydrateProduct(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return types.NewStorageError("getting product", err)
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return product, product != nil, nil
}

// Create inserts a product and returns the generated id. Image URL and price
// are stored exactly as supplied.
func (pt *productsTable) Create(p *types.Product) (int64, error) {
	if p == nil {
		return 0, &types.ValidationError{Entity: "product", Reason: "is missing"}
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}

	var id int64
	err := pt.backend.withDB("create product", func(db *sql.DB) error {
		res, err := db.Exec(
			`INSERT INTO products (category_id, name, description, price, image_url, available)
    VALUES (?, ?, ?, ?, ?, ?)`,
			nullableID(p.CategoryID), p.Name, p.Description, p.Price, p.ImageURL, availableFlag(p),
		)
		if err != nil {
			return types.NewStorageError("inserting product", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return types.NewStorageError("reading product id", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	p.ID = id
	return id, nil
}

// Update rewrites every column of the product with p.ID.
func (pt *productsTable) Update(p *types.Product) (bool, error) {
	if p == nil || p.ID == 0 {
		return false, &types.ValidationError{Entity: "product", Field: "id", Reason: "is required for updates"}
	}
	if err := p.Validate(); err != nil {
		return false, err
	}

	var changed bool
	err := pt.backend.withDB("update product", func(db *sql.DB) error {
		res, err := db.Exec(
			`UPDATE products SET
    category_id = ?, name = ?, description = ?, price = ?, image_url = ?, available = ?
    WHERE id = ?`,
			nullableID(p.CategoryID), p.Name, p.Description, p.Price, p.ImageURL, availableFlag(p), p.ID,
		)
		if err != nil {
			return types.NewStorageError("updating product", err)
		}
		changed, err = exactlyOneRow(res)
		return err
	})
	return changed, err
}

// Delete removes a product by id. Sale items that reference it keep their
// recorded price; their product name reads back empty.
func (pt *productsTable) Delete(id int64) (bool, error) {
	var removed bool
	err := pt.backend.withDB("delete product", func(db *sql.DB) error {
		res, err := db.Exec("DELETE FROM products WHERE id = ?", id)
		if err != nil {
			return types.NewStorageError("deleting product", err)
		}
		removed, err = exactlyOneRow(res)
		return err
	})
	return removed, err
}

// hydrateProduct converts a row selected with productColumns.
func hydrateProduct(row rowScanner) (*types.Product, error) {
	var (
		p         types.Product
		catID     sql.NullInt64
		desc      sql.NullString
		imageURL  sql.NullString
		available sql.NullBool
		catName   sql.NullString
	)
	if err := row.Scan(&p.ID, &catID, &p.Name, &desc, &p.Price, &imageURL, &available, &catName); err != nil {
		return nil, err
	}
	if catID.Valid {
		p.CategoryID = types.Int64Ptr(catID.Int64)
	}
	if catName.Valid {
		name := catName.String
		p.CategoryName = &name
	}
	p.Description = desc.String
	p.ImageURL = imageURL.String
	// A NULL flag reads as available, matching the column default.
	p.Available = types.BoolPtr(!available.Valid || available.Bool)
	return &p, nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func availableFlag(p *types.Product) int {
	if p.IsAvailable() {
		return 1
	}
	return 0
}
