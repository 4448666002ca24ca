// Category commands for the coffeeshop CLI.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/coffeeshop/pkg/types"
)

func (a *app) newCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories"},
		Short:   "Manage menu categories",
	}
	cmd.AddCommand(a.newCategoryListCmd())
	cmd.AddCommand(a.newCategoryGetCmd())
	cmd.AddCommand(a.newCategoryAddCmd())
	cmd.AddCommand(a.newCategoryUpdateCmd())
	cmd.AddCommand(a.newCategoryDeleteCmd())
	return cmd
}

func (a *app) newCategoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cats []types.Category
			err := a.withShop(func(shop types.Shop) error {
				var err error
				cats, err = shop.Categories().ListAll()
				return err
			})
			if err != nil {
				return err
			}

			p := a.printer(cmd)
			return p.emit(cats, func() {
				if len(cats) == 0 {
					p.muted("No categories found.")
					return
				}
				rows := make([][]string, 0, len(cats))
				for _, c := range cats {
					rows = append(rows, []string{strconv.FormatInt(c.ID, 10), c.Name, c.Description})
				}
				p.table([]string{"ID", "NAME", "DESCRIPTION"}, rows)
			})
		},
	}
}

func (a *app) newCategoryGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var (
				cat   *types.Category
				found bool
			)
			err = a.withShop(func(shop types.Shop) error {
				var err error
				cat, found, err = shop.Categories().GetByID(id)
				return err
			})
			if err != nil {
				return err
			}
			if !found {
				return &types.NotFoundError{Entity: "Category", ID: id}
			}

			p := a.printer(cmd)
			return p.emit(cat, func() {
				p.section(cat.Name)
				fmt.Fprintf(p.out, "ID:          %d\n", cat.ID)
				fmt.Fprintf(p.out, "Description: %s\n", cat.Description)
			})
		},
	}
}

func (a *app) newCategoryAddCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := &types.Category{Name: args[0], Description: description}
			err := a.withShop(func(shop types.Shop) error {
				_, err := shop.Categories().Create(cat)
				return err
			})
			if err != nil {
				return err
			}

			p := a.printer(cmd)
			return p.emit(cat, func() {
				p.success("Created category %d (%s)", cat.ID, cat.Name)
			})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "category description")
	return cmd
}

func (a *app) newCategoryUpdateCmd() *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a category's name or description",
		Long:  "Update rewrites the category. Flags that are not given keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var cat *types.Category
			err = a.withShop(func(shop types.Shop) error {
				current, found, err := shop.Categories().GetByID(id)
				if err != nil {
					return err
				}
				if !found {
					return &types.NotFoundError{Entity: "Category", ID: id}
				}
				if cmd.Flags().Changed("name") {
					current.Name = name
				}
				if cmd.Flags().Changed("description") {
					current.Description = description
				}
				if _, err := shop.Categories().Update(current); err != nil {
					return err
				}
				cat = current
				return nil
			})
			if err != nil {
				return err
			}

			p := a.printer(cmd)
			return p.emit(cat, func() {
				p.success("Updated category %d (%s)", cat.ID, cat.Name)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	return cmd
}

func (a *app) newCategoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long:  "Delete removes the category. Products in it keep their category id.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var removed bool
			err = a.withShop(func(shop types.Shop) error {
				var err error
				removed, err = shop.Categories().Delete(id)
				return err
			})
			if err != nil {
				return err
			}
			if !removed {
				return &types.NotFoundError{Entity: "Category", ID: id}
			}

			p := a.printer(cmd)
			return p.emit(map[string]any{"deleted": id}, func() {
				p.success("Deleted category %d", id)
			})
		},
	}
}

// parseID parses a positive entity id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, usageErrorf("invalid id %q", arg)
	}
	return id, nil
}
