// Product commands for the coffeeshop CLI.
package cli

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/coffeeshop/internal/images"
	"github.com/mesh-intelligence/coffeeshop/pkg/types"
)

func (a *app) newProductCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "product",
		Aliases: []string{"products"},
		Short:   "Manage menu products",
	}
	cmd.AddCommand(a.newProductListCmd())
	cmd.AddCommand(a.newProductGetCmd())
	cmd.AddCommand(a.newProductAddCmd())
	cmd.AddCommand(a.newProductUpdateCmd())
	cmd.AddCommand(a.newProductDeleteCmd())
	return cmd
}

func (a *app) newProductListCmd() *cobra.Command {
	var category int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var products []types.Product
			err := a.withShop(func(shop types.Shop) error {
				var err error
				if cmd.Flags().Changed("category") {
					products, err = shop.Products().ListByCategory(category)
				} else {
					products, err = shop.Products().ListAll()
				}
				return err
			})
			if err != nil {
				return err
			}

			p := a.printer(cmd)
			return p.emit(products, func() {
				if len(products) == 0 {
					p.muted("No products found.")
					return
				}
				rows := make([][]string, 0, len(products))
				for _, prod := range products {
					rows = append(rows, []string{
						strconv.FormatInt(prod.ID, 10),
						prod.Name,
						categoryLabel(prod),
						prod.Price.StringFixed(2),
						availabilityLabel(prod),
					})
				}
				p.table([]string{"ID", "NAME", "CATEGORY", "PRICE", "AVAILABLE"}, rows)
			})
		},
	}
	cmd.Flags().Int64Var(&category, "category", 0, "only products in this category id")
	return cmd
}

func (a *app) newProductGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var (
				prod  *types.Product
				found bool
			)
			err = a.withShop(func(shop types.Shop) error {
				var err error
				prod, found, err = shop.Products().GetByID(id)
				return err
			})
			if err != nil {
				return err
			}
			if !found {
				return &types.NotFoundError{Entity: "Product", ID: id}
			}

			p := a.printer(cmd)
			return p.emit(prod, func() {
				p.section(prod.Name)
				fmt.Fprintf(p.out, "ID:          %d\n", prod.ID)
				fmt.Fprintf(p.out, "Category:    %s\n", categoryLabel(*prod))
				fmt.Fprintf(p.out, "Price:       $%s\n", prod.Price.StringFixed(2))
				fmt.Fprintf(p.out, "Available:   %s\n", availabilityLabel(*prod))
				fmt.Fprintf(p.out, "Description: %s\n", prod.Description)
				fmt.Fprintf(p.out, "Image:       %s\n", prod.ImageURL)
			})
		},
	}
}

// productFlags are the editable product fields shared by add and update.
type productFlags struct {
	category    int64
	description string
	price       string
	image       string
	unavailable bool
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.category, "category", 0, "category id")
	cmd.Flags().StringVar(&f.description, "description", "", "product description")
	cmd.Flags().StringVar(&f.price, "price", "", "unit price, e.g. 3.99")
	cmd.Flags().StringVar(&f.image, "image", "", "image URL")
	cmd.Flags().BoolVar(&f.unavailable, "unavailable", false, "hide the product from sale")
}

// apply copies every flag the user set onto prod.
func (f *productFlags) apply(cmd *cobra.Command, prod *types.Product) error {
	changed := cmd.Flags().Changed
	if changed("category") {
		prod.CategoryID = types.Int64Ptr(f.category)
	}
	if changed("description") {
		prod.Description = f.description
	}
	if changed("price") {
		price, err := parsePrice(f.price)
		if err != nil {
			return err
		}
		prod.Price = price
	}
	if changed("image") {
		prod.ImageURL = f.image
	}
	if changed("unavailable") {
		prod.Available = types.BoolPtr(!f.unavailable)
	}
	return nil
}

func (a *app) newProductAddCmd() *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a product",
		Long: "Add creates a product. --price is required. Without --image a stock\n" +
			"coffee photo is chosen.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("price") {
				return usageErrorf("--price is required")
			}
			prod := &types.Product{Name: args[0]}
			if err := f.apply(cmd, prod); err != nil {
				return err
			}
			prod.ImageURL = images.OrDefault(prod.ImageURL)

			err := a.withShop(func(shop types.Shop) error {
				_, err := shop.Products().Create(prod)
				return err
			})
			if err != nil {
				return err
			}

			p := a.printer(cmd)
			return p.emit(prod, func() {
				p.success("Created product %d (%s, $%s)", prod.ID, prod.Name, prod.Price.StringFixed(2))
			})
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) newProductUpdateCmd() *cobra.Command {
	var (
		f    productFlags
		name string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a product",
		Long:  "Update rewrites the product. Flags that are not given keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var prod *types.Product
			err = a.withShop(func(shop types.Shop) error {
				current, found, err := shop.Products().GetByID(id)
				if err != nil {
					return err
				}
				if !found {
					return &types.NotFoundError{Entity: "Product", ID: id}
				}
				if cmd.Flags().Changed("name") {
					current.Name = name
				}
				if err := f.apply(cmd, current); err != nil {
					return err
				}
				if _, err := shop.Products().Update(current); err != nil {
					return err
				}
				prod = current
				return nil
			})
			if err != nil {
				return err
			}

			p := a.printer(cmd)
			return p.emit(prod, func() {
				p.success("Updated product %d (%s)", prod.ID, prod.Name)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	f.register(cmd)
	return cmd
}

func (a *app) newProductDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Long:  "Delete removes the product. Recorded sales keep their line items.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var removed bool
			err = a.withShop(func(shop types.Shop) error {
				var err error
				removed, err = shop.Products().Delete(id)
				return err
			})
			if err != nil {
				return err
			}
			if !removed {
				return &types.NotFoundError{Entity: "Product", ID: id}
			}

			p := a.printer(cmd)
			return p.emit(map[string]any{"deleted": id}, func() {
				p.success("Deleted product %d", id)
			})
		},
	}
}

func parsePrice(s string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, usageErrorf("invalid price %q", s)
	}
	if price.IsNegative() {
		return decimal.Zero, usageErrorf("price must not be negative, got %s", s)
	}
	return price, nil
}

func categoryLabel(p types.Product) string {
	switch {
	case p.CategoryName != nil:
		return *p.CategoryName
	case p.CategoryID != nil:
		return fmt.Sprintf("#%d", *p.CategoryID)
	default:
		return "-"
	}
}

func availabilityLabel(p types.Product) string {
	if p.IsAvailable() {
		return "yes"
	}
	return "no"
}
