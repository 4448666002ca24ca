// This file implements the append-only sales ledger for the SQLite backend.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/coffeeshop/pkg/types"
)

var _ types.SalesLedger = (*salesTable)(nil)

type salesTable struct {
	backend *Backend
}

// Create records a sale and its line items atomically. Each item's price is
// read from the products table inside the transaction; a missing product
// returns NotFoundError and nothing is written. On success s.ID, and each
// item's SaleID and Price, are filled in.
func (st *salesTable) Create(s *types.Sale) (int64, error) {
	if s == nil {
		return 0, &types.ValidationError{Entity: "sale", Reason: "is missing"}
	}
	if err := s.Validate(); err != nil {
		return 0, err
	}

	method := s.PaymentMethod
	if method == "" {
		method = types.DefaultPaymentMethod
	}

	var saleID int64
	prices := make([]decimal.Decimal, len(s.Items))
	err := st.backend.withTx("create sale", func(tx *sql.Tx) error {
		res, err := tx.Exec(
			"INSERT INTO sales (date, time, total, payment_method) VALUES (?, ?, ?, ?)",
			s.Date, s.Time, s.Total, method,
		)
		if err != nil {
			return types.NewStorageError("inserting sale", err)
		}
		saleID, err = res.LastInsertId()
		if err != nil {
			return types.NewStorageError("reading sale id", err)
		}

		for i, item := range s.Items {
			var price decimal.Decimal
			err := tx.QueryRow("SELECT price FROM products WHERE id = ?", item.ProductID).Scan(&price)
			if errors.Is(err, sql.ErrNoRows) {
				return &types.NotFoundError{Entity: "Product", ID: item.ProductID}
			}
			if err != nil {
				return types.NewStorageError("reading product price", err)
			}

			if _, err := tx.Exec(
				"INSERT INTO sale_items (sale_id, product_id, quantity, price) VALUES (?, ?, ?, ?)",
				saleID, item.ProductID, item.Quantity, price,
			); err != nil {
				return types.NewStorageError("inserting sale item", err)
			}
			prices[i] = price
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.ID = saleID
	s.PaymentMethod = method
	for i := range s.Items {
		s.Items[i].SaleID = saleID
		s.Items[i].Price = prices[i]
	}
	return saleID, nil
}

// salesQuery groups each sale's items into one comma-separated run of JSON
// objects in insertion order. The CASE keeps the packed column NULL for a sale without items
// instead of yielding one object of nulls from the left join.
const salesQuery = `SELECT
    s.id,
    s.date,
    s.time,
    s.total,
    s.payment_method,
    GROUP_CONCAT(
        CASE WHEN si.sale_id IS NULL THEN NULL ELSE json_object(
            'product_id', si.product_id,
            'product_name', p.name,
            'quantity', si.quantity,
            'price', si.price
        ) END,
        ','
        ORDER BY si.rowid
    ) AS items
FROM sales s
LEFT JOIN sale_items si ON s.id = si.sale_id
LEFT JOIN products p ON si.product_id = p.id
GROUP BY s.id
ORDER BY s.date DESC, s.time DESC, s.id DESC`

// GetAll returns every sale, newest first by date then time (text order),
// with its items unpacked.
func (st *salesTable) GetAll() ([]types.Sale, error) {
	var grouped []groupedSaleRow
	err := st.backend.withDB("list sales", func(db *sql.DB) error {
		rows, err := db.Query(salesQuery)
		if err != nil {
			return types.NewStorageError("fetching sales", err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				r      groupedSaleRow
				method sql.NullString
			)
			if err := rows.Scan(&r.ID, &r.Date, &r.Time, &r.Total, &method, &r.Items); err != nil {
				return types.NewStorageError("scanning sale", err)
			}
			r.PaymentMethod = method.String
			grouped = append(grouped, r)
		}
		if err := rows.Err(); err != nil {
			return types.NewStorageError("iterating sales", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return unpackSales(grouped)
}

// groupedSaleRow is one row of salesQuery before its items are unpacked.
type groupedSaleRow struct {
	ID            int64
	Date          string
	Time          string
	Total         decimal.Decimal
	PaymentMethod string
	Items         sql.NullString // packed JSON objects, NULL when the sale has no items
}

// unpackSales converts grouped rows into sales, preserving row order. It
// touches no database state.
func unpackSales(rows []groupedSaleRow) ([]types.Sale, error) {
	sales := make([]types.Sale, 0, len(rows))
	for _, r := range rows {
		items, err := unpackSaleItems(r.ID, r.Items)
		if err != nil {
			return nil, err
		}
		method := r.PaymentMethod
		if method == "" {
			method = types.DefaultPaymentMethod
		}
		sales = append(sales, types.Sale{
			ID:            r.ID,
			Date:          r.Date,
			Time:          r.Time,
			Total:         r.Total,
			PaymentMethod: method,
			Items:         items,
		})
	}
	return sales, nil
}

// unpackSaleItems parses the packed column produced by GROUP_CONCAT. An
// absent or empty value yields an empty, non-nil slice.
func unpackSaleItems(saleID int64, packed sql.NullString) ([]types.SaleItem, error) {
	if !packed.Valid || packed.String == "" {
		return []types.SaleItem{}, nil
	}

	var raw []struct {
		ProductID   int64           `json:"product_id"`
		ProductName *string         `json:"product_name"`
		Quantity    int             `json:"quantity"`
		Price       decimal.Decimal `json:"price"`
	}
	if err := json.Unmarshal([]byte("["+packed.String+"]"), &raw); err != nil {
		return nil, types.NewStorageError(fmt.Sprintf("unpacking items of sale %d", saleID), err)
	}

	items := make([]types.SaleItem, 0, len(raw))
	for _, r := range raw {
		item := types.SaleItem{
			SaleID:    saleID,
			ProductID: r.ProductID,
			Quantity:  r.Quantity,
			Price:     r.Price,
		}
		if r.ProductName != nil {
			item.ProductName = *r.ProductName
		}
		items = append(items, item)
	}
	return items, nil
}
