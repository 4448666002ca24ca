// This file implements the category store for the SQLite backend.
package sqlite

import (
	"database/sql"
	"errors"

	"github.com/mesh-intelligence/coffeeshop/pkg/types"
)

var _ types.CategoryStore = (*categoriesTable)(nil)

type categoriesTable struct {
	backend *Backend
}

// ListAll returns every category ordered by name ascending.
func (ct *categoriesTable) ListAll() ([]types.Category, error) {
	results := []types.Category{}
	err := ct.backend.withDB("list categories", func(db *sql.DB) error {
		rows, err := db.Query("SELECT id, name, description FROM categories ORDER BY name")
		if err != nil {
			return types.NewStorageError("fetching categories", err)
		}
		defer rows.Close()

		for rows.Next() {
			cat, err := hydrateCategory(rows)
			if err != nil {
				return types.NewStorageError("hydrating category", err)
			}
			results = append(results, *cat)
		}
		if err := rows.Err(); err != nil {
			return types.NewStorageError("iterating categories", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetByID retrieves a category by id. A missing id yields found=false.
func (ct *categoriesTable) GetByID(id int64) (*types.Category, bool, error) {
	var cat *types.Category
	err := ct.backend.withDB("get category", func(db *sql.DB) error {
		row := db.QueryRow("SELECT id, name, description FROM categories WHERE id = ?", id)
		c, err := hydrateCategory(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return types.NewStorageError("getting category", err)
		}
		cat = c
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return cat, cat != nil, nil
}

// Create inserts a category and returns the generated id. The id is also
// written back to c.ID.
func (ct *categoriesTable) Create(c *types.Category) (int64, error) {
	if c == nil {
		return 0, &types.ValidationError{Entity: "category", Reason: "is missing"}
	}
	if err := c.Validate(); err != nil {
		return 0, err
	}

	var id int64
	err := ct.backend.withDB("create category", func(db *sql.DB) error {
		res, err := db.Exec(
			"INSERT INTO categories (name, description) VALUES (?, ?)",
			c.Name, c.Description,
		)
		if err != nil {
			return types.NewStorageError("inserting category", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return types.NewStorageError("reading category id", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	c.ID = id
	return id, nil
}

// Update rewrites name and description of the category with c.ID. An unknown
// id is not an error; it reports false.
func (ct *categoriesTable) Update(c *types.Category) (bool, error) {
	if c == nil || c.ID == 0 {
		return false, &types.ValidationError{Entity: "category", Field: "id", Reason: "is required for updates"}
	}
	if err := c.Validate(); err != nil {
		return false, err
	}

	var changed bool
	err := ct.backend.withDB("update category", func(db *sql.DB) error {
		res, err := db.Exec(
			"UPDATE categories SET name = ?, description = ? WHERE id = ?",
			c.Name, c.Description, c.ID,
		)
		if err != nil {
			return types.NewStorageError("updating category", err)
		}
		changed, err = exactlyOneRow(res)
		return err
	})
	return changed, err
}

// Delete removes a category by id. Products that reference it keep their
// category_id.
func (ct *categoriesTable) Delete(id int64) (bool, error) {
	var removed bool
	err := ct.backend.withDB("delete category", func(db *sql.DB) error {
		res, err := db.Exec("DELETE FROM categories WHERE id = ?", id)
		if err != nil {
			return types.NewStorageError("deleting category", err)
		}
		removed, err = exactlyOneRow(res)
		return err
	})
	return removed, err
}

// hydrateCategory converts a single SQLite row into a *types.Category.
func hydrateCategory(row rowScanner) (*types.Category, error) {
	var (
		c    types.Category
		desc sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &desc); err != nil {
		return nil, err
	}
	c.Description = desc.String
	return &c, nil
}

// exactlyOneRow reports whether a write touched exactly one row.
func exactlyOneRow(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, types.NewStorageError("reading affected rows", err)
	}
	return n == 1, nil
}
