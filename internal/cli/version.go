package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/mesh-intelligence/coffeeshop"

// Version is the release version, set at build time with
// -ldflags "-X github.com/mesh-intelligence/coffeeshop/internal/cli.Version=...".
var Version = "0.1.0-dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the coffeeshop version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "coffeeshop v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
