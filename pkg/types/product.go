package types

import "github.com/shopspring/decimal"

// Product is a menu item. Optional columns are pointers so that "unset" is
// distinguishable from a zero value.
type Product struct {
	ID         int64  `json:"id"`
	CategoryID *int64 `json:"category_id,omitempty"`
	// CategoryName is read-only. It is filled by ProductStore.ListAll and is
	// nil when the category id is unset or points at a missing category.
	CategoryName *string         `json:"category_name,omitempty"`
	Name         string          `json:"name" validate:"required,notblank"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"image_url,omitempty"`
	// Available defaults to true when nil.
	Available *bool `json:"available,omitempty"`
}

// Validate reports a ValidationError when the product has no name. Price is
// not checked; the store keeps whatever the caller supplies.
func (p *Product) Validate() error {
	return validateEntity("product", p)
}

// IsAvailable reports the effective availability of the product.
func (p *Product) IsAvailable() bool {
	return p.Available == nil || *p.Available
}

// Int64Ptr returns a pointer to v. Handy for Product.CategoryID.
func Int64Ptr(v int64) *int64 { return &v }

// BoolPtr returns a pointer to v. Handy for Product.Available.
func BoolPtr(v bool) *bool { return &v }
