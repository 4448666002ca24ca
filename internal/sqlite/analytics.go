// This file implements aggregate queries over the sales ledger.
package sqlite

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/coffeeshop/pkg/types"
)

var _ types.Analytics = (*analyticsQueries)(nil)

type analyticsQueries struct {
	backend *Backend
}

// Summary counts sales, sums their totals, and sums item quantities. Revenue
// is rounded to cents because the engine sums REAL values.
func (aq *analyticsQueries) Summary() (types.SalesSummary, error) {
	var summary types.SalesSummary
	err := aq.backend.withDB("sales summary", func(db *sql.DB) error {
		var revenue float64
		err := db.QueryRow("SELECT COUNT(*), COALESCE(SUM(total), 0) FROM sales").
			Scan(&summary.SaleCount, &revenue)
		if err != nil {
			return types.NewStorageError("summarizing sales", err)
		}
		summary.Revenue = decimal.NewFromFloat(revenue).Round(2)

		err = db.QueryRow("SELECT COALESCE(SUM(quantity), 0) FROM sale_items").Scan(&summary.ItemsSold)
		if err != nil {
			return types.NewStorageError("summarizing sale items", err)
		}
		return nil
	})
	return summary, err
}

// TopProducts ranks products by total quantity sold, highest first, ties by
// name. Items whose product no longer exists are not ranked.
func (aq *analyticsQueries) TopProducts(limit int) ([]types.ProductSales, error) {
	if limit <= 0 {
		limit = types.DefaultTopProductsLimit
	}

	results := []types.ProductSales{}
	err := aq.backend.withDB("top products", func(db *sql.DB) error {
		rows, err := db.Query(`SELECT p.id, p.name, SUM(si.quantity) AS sold
    FROM sale_items si
    JOIN products p ON si.product_id = p.id
    GROUP BY p.id, p.name
    ORDER BY sold DESC, p.name ASC
    LIMIT ?`, limit)
		if err != nil {
			return types.NewStorageError("ranking products", err)
		}
		defer rows.Close()

		for rows.Next() {
			var ps types.ProductSales
			if err := rows.Scan(&ps.ProductID, &ps.Name, &ps.Quantity); err != nil {
				return types.NewStorageError("scanning product ranking", err)
			}
			results = append(results, ps)
		}
		if err := rows.Err(); err != nil {
			return types.NewStorageError("iterating product ranking", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
