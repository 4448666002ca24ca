package types

// Category groups products for browsing. Products reference categories by id;
// a category does not own its products.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" validate:"required,notblank"`
	Description string `json:"description,omitempty"`
}

// Validate reports a ValidationError when the category has no name.
func (c *Category) Validate() error {
	return validateEntity("category", c)
}
