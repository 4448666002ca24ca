// This file implements demo data seeding.
package sqlite

import (
	"database/sql"

	"github.com/mesh-intelligence/coffeeshop/pkg/types"
)

// seedCategory describes a category inserted by Seed.
type seedCategory struct {
	id          int64
	name        string
	description string
}

// seedProduct describes a product inserted by Seed.
type seedProduct struct {
	id          int64
	categoryID  int64
	name        string
	description string
	price       string
	imageURL    string
}

var seedCategories = []seedCategory{
	{1, "Hot Coffee", "Warm coffee beverages served hot"},
	{2, "Cold Coffee", "Chilled coffee beverages served cold or with ice"},
	{3, "Seasonal", "Limited time special coffee offerings"},
}

var seedProducts = []seedProduct{
	{1, 1, "Espresso", "Strong concentrated coffee served in small shots", "3.99",
		"https://images.pexels.com/photos/1695052/pexels-photo-1695052.jpeg"},
	{2, 1, "Cappuccino", "Espresso with steamed milk foam", "4.99",
		"https://images.pexels.com/photos/533393/pexels-photo-533393.jpeg"},
	{3, 1, "Latte", "Espresso with steamed milk and light foam", "5.49",
		"https://images.pexels.com/photos/312418/pexels-photo-312418.jpeg"},
	{4, 1, "Mocha", "Espresso with chocolate, steamed milk, and whipped cream", "5.99",
		"https://images.pexels.com/photos/6331490/pexels-photo-6331490.jpeg"},
	{5, 2, "Iced Americano", "Espresso diluted with cold water and ice", "4.49",
		"https://images.pexels.com/photos/9360311/pexels-photo-9360311.jpeg"},
	{6, 2, "Iced Latte", "Chilled espresso with milk and ice", "5.49",
		"https://images.pexels.com/photos/3020917/pexels-photo-3020917.jpeg"},
	{7, 2, "Cold Brew", "Slow-steeped coffee served cold and smooth", "5.99",
		"https://images.pexels.com/photos/894695/pexels-photo-894695.jpeg"},
	{8, 3, "Pumpkin Spice Latte", "Espresso with pumpkin spice, steamed milk, and whipped cream", "6.49",
		"https://images.pexels.com/photos/4110005/pexels-photo-4110005.jpeg"},
	{9, 3, "Peppermint Mocha", "Chocolatey espresso with peppermint, steamed milk, and whipped cream", "6.49",
		"https://images.pexels.com/photos/302901/pexels-photo-302901.jpeg"},
	{10, 3, "Gingerbread Latte", "Espresso with gingerbread syrup, steamed milk, and whipped cream", "6.49",
		"https://images.pexels.com/photos/731932/pexels-photo-731932.jpeg"},
}

// Seed inserts the demo categories and products. Rows whose id already
// exists are left as they are, so Seed can run any number of times.
func (b *Backend) Seed() error {
	if err := b.withTx("seed demo data", seedTx); err != nil {
		return err
	}
	b.logger().WithField("categories", len(seedCategories)).
		WithField("products", len(seedProducts)).
		Info("demo data seeded")
	return nil
}

func seedTx(tx *sql.Tx) error {
	for _, c := range seedCategories {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO categories (id, name, description) VALUES (?, ?, ?)",
			c.id, c.name, c.description,
		); err != nil {
			return types.NewStorageError("seeding category "+c.name, err)
		}
	}
	for _, p := range seedProducts {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO products (id, category_id, name, description, price, image_url, available)
    VALUES (?, ?, ?, ?, CAST(? AS REAL), ?, 1)`,
			p.id, p.categoryID, p.name, p.description, p.price, p.imageURL,
		); err != nil {
			return types.NewStorageError("seeding product "+p.name, err)
		}
	}
	return nil
}
