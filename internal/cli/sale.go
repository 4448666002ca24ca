// Sales ledger commands for the coffeeshop CLI.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/coffeeshop/pkg/cart"
	"github.com/mesh-intelligence/coffeeshop/pkg/types"
)

// Ledger date and time layouts. Both sort lexically.
const (
	saleDateLayout = "2006-01-02"
	saleTimeLayout = "15:04:05"
)

// now is overridden in tests.
var now = time.Now

func (a *app) newSaleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sale",
		Aliases: []string{"sales"},
		Short:   "Record and review sales",
	}
	cmd.AddCommand(a.newSaleRecordCmd())
	cmd.AddCommand(a.newSaleListCmd())
	return cmd
}

// saleRequest is one parsed --item flag.
type saleRequest struct {
	productID int64
	quantity  int
}

// parseItem parses "id:qty". A bare id means one unit.
func parseItem(arg string) (saleRequest, error) {
	idPart, qtyPart, hasQty := strings.Cut(arg, ":")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		return saleRequest{}, usageErrorf("invalid item %q: product id must be a positive integer", arg)
	}
	qty := 1
	if hasQty {
		qty, err = strconv.Atoi(qtyPart)
		if err != nil || qty <= 0 {
			return saleRequest{}, usageErrorf("invalid item %q: quantity must be a positive integer", arg)
		}
	}
	return saleRequest{productID: id, quantity: qty}, nil
}

func (a *app) newSaleRecordCmd() *cobra.Command {
	var (
		items   []string
		payment string
		date    string
		clock   string
	)
	cmd := &cobra.Command{
		Use:   "record --item <id>[:qty] [--item ...]",
		Short: "Check out a cart of products",
		Long: "Record builds a cart from the given items at current prices, adds tax at\n" +
			"the configured rate, and appends the sale to the ledger.",
		Example: "  coffeeshop sale record --item 1 --item 3:2 --payment \"Credit Card\"",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(items) == 0 {
				return usageErrorf("at least one --item is required")
			}
			requests := make([]saleRequest, 0, len(items))
			for _, arg := range items {
				req, err := parseItem(arg)
				if err != nil {
					return err
				}
				requests = append(requests, req)
			}

			rate, err := taxRate(a.cfg)
			if err != nil {
				return err
			}
			ts := now()
			if date == "" {
				date = ts.Format(saleDateLayout)
			}
			if clock == "" {
				clock = ts.Format(saleTimeLayout)
			}

			c := cart.New(rate)
			var sale *types.Sale
			err = a.withShop(func(shop types.Shop) error {
				for _, req := range requests {
					prod, found, err := shop.Products().GetByID(req.productID)
					if err != nil {
						return err
					}
					if !found {
						return &types.NotFoundError{Entity: "Product", ID: req.productID}
					}
					if err := c.Add(*prod, req.quantity); err != nil {
						return err
					}
				}

				var err error
				sale, err = c.Checkout(date, clock, payment)
				if err != nil {
					return err
				}
				_, err = shop.Sales().Create(sale)
				return err
			})
			if err != nil {
				return err
			}

			p := a.printer(cmd)
			return p.emit(sale, func() {
				rows := make([][]string, 0, len(c.Lines()))
				for _, l := range c.Lines() {
					rows = append(rows, []string{l.Name, strconv.Itoa(l.Quantity), l.UnitPrice.StringFixed(2), l.Amount().StringFixed(2)})
				}
				p.table([]string{"PRODUCT", "QTY", "PRICE", "AMOUNT"}, rows)
				p.muted("Subtotal %s  Tax %s", c.Subtotal().StringFixed(2), c.Tax().StringFixed(2))
				p.success("Recorded sale %d: $%s (%s)", sale.ID, sale.Total.StringFixed(2), sale.PaymentMethod)
			})
		},
	}
	cmd.Flags().StringArrayVar(&items, "item", nil, "product id and optional quantity, id[:qty] (repeatable)")
	cmd.Flags().StringVar(&payment, "payment", types.DefaultPaymentMethod,
		fmt.Sprintf("payment method (%s, %s, %s)", types.PaymentCash, types.PaymentCreditCard, types.PaymentDigitalWallet))
	cmd.Flags().StringVar(&date, "date", "", "sale date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&clock, "time", "", "sale time HH:MM:SS (default: now)")
	return cmd
}

func (a *app) newSaleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sales, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var sales []types.Sale
			err := a.withShop(func(shop types.Shop) error {
				var err error
				sales, err = shop.Sales().GetAll()
				return err
			})
			if err != nil {
				return err
			}

			p := a.printer(cmd)
			return p.emit(sales, func() {
				if len(sales) == 0 {
					p.muted("No sales recorded.")
					return
				}
				rows := make([][]string, 0, len(sales))
				for _, s := range sales {
					rows = append(rows, []string{
						strconv.FormatInt(s.ID, 10),
						s.Date,
						s.Time,
						s.Total.StringFixed(2),
						s.PaymentMethod,
						summarizeItems(s.Items),
					})
				}
				p.table([]string{"ID", "DATE", "TIME", "TOTAL", "PAYMENT", "ITEMS"}, rows)
				p.muted("Total: %d sale(s)", len(sales))
			})
		},
	}
}

// summarizeItems renders items as "2x Latte, 1x Espresso". Items whose
// product was deleted show the product id.
func summarizeItems(items []types.SaleItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		name := it.ProductName
		if name == "" {
			name = fmt.Sprintf("product #%d", it.ProductID)
		}
		parts = append(parts, fmt.Sprintf("%dx %s", it.Quantity, name))
	}
	return strings.Join(parts, ", ")
}
