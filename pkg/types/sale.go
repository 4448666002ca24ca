package types

import "github.com/shopspring/decimal"

// Payment methods offered at the counter.
const (
	PaymentCash          = "Cash"
	PaymentCreditCard    = "Credit Card"
	PaymentDigitalWallet = "Digital Wallet"

	DefaultPaymentMethod = PaymentCash
)

// DefaultTopProductsLimit is the number of products Analytics.TopProducts
// returns when no limit is given.
const DefaultTopProductsLimit = 5

// Sale is one checkout. Date and time are stored as text and ordered
// lexically, so callers should use YYYY-MM-DD and zero-padded 24-hour time.
// Total is computed by the caller and includes tax.
type Sale struct {
	ID            int64           `json:"id"`
	Date          string          `json:"date" validate:"required"`
	Time          string          `json:"time" validate:"required"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	Items         []SaleItem      `json:"items" validate:"min=1,dive"`
}

// SaleItem is one line of a sale. Price is the product's unit price at the
// moment the sale was recorded and does not follow later price edits.
type SaleItem struct {
	SaleID    int64 `json:"sale_id,omitempty"`
	ProductID int64 `json:"product_id" validate:"required"`
	// ProductName is read-only, joined from products on read. Empty when the
	// product has since been deleted.
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	Price       decimal.Decimal `json:"price"`
}

// Validate checks that the sale has a date, a time, and at least one item
// with a product id and a positive quantity.
func (s *Sale) Validate() error {
	return validateEntity("sale", s)
}

// SalesSummary aggregates the whole ledger.
type SalesSummary struct {
	SaleCount int             `json:"sale_count"`
	Revenue   decimal.Decimal `json:"revenue"`
	ItemsSold int             `json:"items_sold"`
}

// ProductSales is one row of the top products ranking.
type ProductSales struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}
