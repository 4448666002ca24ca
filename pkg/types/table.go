package types

// CategoryStore provides CRUD operations over categories.
type CategoryStore interface {
	// ListAll returns every category ordered by name. Never nil.
	ListAll() ([]Category, error)

	// GetByID returns the category with the given id. A missing id is
	// reported through found=false, not an error.
	GetByID(id int64) (cat *Category, found bool, err error)

	// Create inserts the category and returns its new id.
	// Returns a ValidationError when the name is empty or blank.
	Create(c *Category) (int64, error)

	// Update rewrites the category identified by c.ID. Returns a
	// ValidationError when the id is unset and false when no row matched.
	Update(c *Category) (bool, error)

	// Delete removes the category. Dependent products are left untouched.
	Delete(id int64) (bool, error)
}

// ProductStore provides CRUD operations over products.
type ProductStore interface {
	// ListAll returns every product ordered by name with CategoryName
	// populated from the joined category.
	ListAll() ([]Product, error)

	// ListByCategory returns products whose category id matches exactly,
	// ordered by name.
	ListByCategory(categoryID int64) ([]Product, error)

	GetByID(id int64) (p *Product, found bool, err error)
	Create(p *Product) (int64, error)
	Update(p *Product) (bool, error)
	Delete(id int64) (bool, error)
}

// SalesLedger is the append-only record of sales. There is no update or
// delete.
type SalesLedger interface {
	// Create records the sale and its line items in one transaction. Line
	// item prices are read from the products table, never from the caller.
	// Returns the new sale id.
	Create(s *Sale) (int64, error)

	// GetAll returns every sale with its items, newest first.
	GetAll() ([]Sale, error)
}

// Analytics answers aggregate questions over the ledger.
type Analytics interface {
	Summary() (SalesSummary, error)

	// TopProducts ranks products by quantity sold. A limit of zero or less
	// uses DefaultTopProductsLimit.
	TopProducts(limit int) ([]ProductSales, error)
}
