// Package cart holds the in-progress order at the counter. It prices lines
// with decimal arithmetic and turns the result into a types.Sale for the
// ledger. A Cart is not safe for concurrent use.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/coffeeshop/pkg/types"
)

// DefaultTaxRate is the sales tax applied when none is configured.
var DefaultTaxRate = decimal.RequireFromString("0.10")

// Line is one product in the cart.
type Line struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Amount is the line's unit price times its quantity.
func (l Line) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart accumulates lines in the order products were first added.
type Cart struct {
	taxRate decimal.Decimal
	lines   []Line
}

// New returns an empty cart. A negative rate is treated as zero.
func New(taxRate decimal.Decimal) *Cart {
	if taxRate.IsNegative() {
		taxRate = decimal.Zero
	}
	return &Cart{taxRate: taxRate}
}

// TaxRate returns the rate the cart applies to its subtotal.
func (c *Cart) TaxRate() decimal.Decimal { return c.taxRate }

// Add puts qty units of p in the cart, merging with an existing line for the
// same product. The unit price is the product's current price.
func (c *Cart) Add(p types.Product, qty int) error {
	if p.ID == 0 {
		return &types.ValidationError{Entity: "cart line", Field: "product_id", Reason: "is required"}
	}
	if qty <= 0 {
		return &types.ValidationError{Entity: "cart line", Field: "quantity", Reason: "must be greater than 0"}
	}
	if !p.IsAvailable() {
		return &types.ValidationError{Entity: "cart line", Field: "available", Reason: "is false for " + p.Name}
	}

	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Quantity += qty
		return nil
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  qty,
	})
	return nil
}

// Remove drops the line for productID. It reports whether a line existed.
func (c *Cart) Remove(productID int64) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true
}

// SetQuantity replaces the quantity of an existing line. Zero removes it.
func (c *Cart) SetQuantity(productID int64, qty int) error {
	if qty < 0 {
		return &types.ValidationError{Entity: "cart line", Field: "quantity", Reason: "must not be negative"}
	}
	i := c.index(productID)
	if i < 0 {
		return &types.NotFoundError{Entity: "Cart line", ID: productID}
	}
	if qty == 0 {
		c.Remove(productID)
		return nil
	}
	c.lines[i].Quantity = qty
	return nil
}

// Lines returns a copy of the cart's lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len is the number of distinct products in the cart.
func (c *Cart) Len() int { return len(c.lines) }

// Subtotal is the sum of line amounts before tax.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Amount())
	}
	return sum
}

// Tax is the subtotal times the tax rate, rounded half away from zero to cents.
func (c *Cart) Tax() decimal.Decimal {
	return c.Subtotal().Mul(c.taxRate).Round(2)
}

// Total is the subtotal plus tax.
func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal().Add(c.Tax())
}

// Checkout builds the sale for the cart's contents. The cart is left as is;
// callers clear it with Clear once the ledger accepts the sale.
func (c *Cart) Checkout(date, clock, paymentMethod string) (*types.Sale, error) {
	if len(c.lines) == 0 {
		return nil, &types.ValidationError{Entity: "sale", Field: "items", Reason: "must have at least 1 entries"}
	}
	if paymentMethod == "" {
		paymentMethod = types.DefaultPaymentMethod
	}

	items := make([]types.SaleItem, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, types.SaleItem{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Quantity:    l.Quantity,
			Price:       l.UnitPrice,
		})
	}
	sale := &types.Sale{
		Date:          date,
		Time:          clock,
		Total:         c.Total(),
		PaymentMethod: paymentMethod,
		Items:         items,
	}
	if err := sale.Validate(); err != nil {
		return nil, err
	}
	return sale, nil
}

// Clear empties the cart.
func (c *Cart) Clear() { c.lines = nil }

func (c *Cart) index(productID int64) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
