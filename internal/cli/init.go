// Data file lifecycle commands: init, seed, reset.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/coffeeshop/internal/paths"
	"github.com/mesh-intelligence/coffeeshop/pkg/types"
)

func (a *app) newInitCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and the storefront database",
		Long: "Init writes a default config.yaml if none exists, creates the data\n" +
			"directory, and ensures every table exists. Existing data is kept.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wrote, err := writeConfigIfMissing(a.configDir, a.dataDir)
			if err != nil {
				return err
			}
			dataDir, err := a.resolveDataDir()
			if err != nil {
				return err
			}

			err = a.withShop(func(shop types.Shop) error {
				if seed {
					return shop.Seed()
				}
				return nil
			})
			if err != nil {
				return err
			}

			p := a.printer(cmd)
			return p.emit(map[string]any{
				"config_file":    paths.ConfigFile(a.configDir),
				"config_written": wrote,
				"data_dir":       dataDir,
				"seeded":         seed,
			}, func() {
				if wrote {
					p.success("Wrote %s", paths.ConfigFile(a.configDir))
				}
				p.success("Storefront initialized in %s", dataDir)
				if seed {
					p.success("Demo catalog seeded")
				}
			})
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "insert the demo catalog")
	return cmd
}

func (a *app) newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo categories and products",
		Long:  "Seed inserts the demo catalog. Rows whose id already exists are left untouched.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.withShop(func(shop types.Shop) error { return shop.Seed() }); err != nil {
				return err
			}
			p := a.printer(cmd)
			return p.emit(map[string]bool{"seeded": true}, func() {
				p.success("Demo catalog seeded")
			})
		},
	}
}

func (a *app) newResetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop all data and restore the demo catalog",
		Long: "Reset drops every table, recreates the schema, and reseeds the demo\n" +
			"catalog. The sales ledger is lost. Requires --yes.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return usageErrorf("reset destroys the sales ledger; rerun with --yes")
			}
			if err := a.withShop(func(shop types.Shop) error { return shop.Reset() }); err != nil {
				return err
			}
			p := a.printer(cmd)
			return p.emit(map[string]bool{"reset": true}, func() {
				p.warning("Storefront reset; sales ledger cleared")
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
