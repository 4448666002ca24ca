// Reporting commands for the coffeeshop CLI: analytics and export.
package cli

import (
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/coffeeshop/pkg/types"
)

func (a *app) newAnalyticsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Summarize the sales ledger",
	}
	cmd.AddCommand(a.newAnalyticsSummaryCmd())
	cmd.AddCommand(a.newAnalyticsTopCmd())
	return cmd
}

func (a *app) newAnalyticsSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show sale count, revenue, and items sold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var summary types.SalesSummary
			err := a.withShop(func(shop types.Shop) error {
				var err error
				summary, err = shop.Analytics().Summary()
				return err
			})
			if err != nil {
				return err
			}

			p := a.printer(cmd)
			return p.emit(summary, func() {
				p.section("Sales summary")
				p.table([]string{"SALES", "REVENUE", "ITEMS SOLD"}, [][]string{{
					strconv.Itoa(summary.SaleCount),
					summary.Revenue.StringFixed(2),
					strconv.Itoa(summary.ItemsSold),
				}})
			})
		},
	}
}

func (a *app) newAnalyticsTopCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Rank products by quantity sold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var top []types.ProductSales
			err := a.withShop(func(shop types.Shop) error {
				var err error
				top, err = shop.Analytics().TopProducts(limit)
				return err
			})
			if err != nil {
				return err
			}

			p := a.printer(cmd)
			return p.emit(top, func() {
				if len(top) == 0 {
					p.muted("No products sold yet.")
					return
				}
				rows := make([][]string, 0, len(top))
				for i, ps := range top {
					rows = append(rows, []string{strconv.Itoa(i + 1), ps.Name, strconv.Itoa(ps.Quantity)})
				}
				p.table([]string{"RANK", "PRODUCT", "SOLD"}, rows)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", types.DefaultTopProductsLimit, "number of products to show")
	return cmd
}

func (a *app) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Write the sales ledger as JSON lines",
		Long:  "Export writes every sale, newest first, as one JSON object per line. The file is replaced atomically.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			var n int
			err = a.withShop(func(shop types.Shop) error {
				var err error
				n, err = shop.ExportSales(path)
				return err
			})
			if err != nil {
				return err
			}

			p := a.printer(cmd)
			return p.emit(map[string]any{"path": path, "sales": n}, func() {
				p.success("Exported %d sale(s) to %s", n, path)
			})
		},
	}
}
