// Command coffeeshop operates the coffee shop storefront database.
package main

import "github.com/mesh-intelligence/coffeeshop/internal/cli"

func main() {
	cli.Execute()
}
