// Package cli implements the coffeeshop operator command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/coffeeshop/internal/paths"
	"github.com/mesh-intelligence/coffeeshop/pkg/sqlite"
	"github.com/mesh-intelligence/coffeeshop/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// app holds global flag values and the state built from them before a
// subcommand runs.
type app struct {
	configDir string
	dataDir   string
	logLevel  string
	jsonMode  bool

	cfg *viper.Viper
	log *logrus.Logger
}

// NewRootCmd creates the top-level "coffeeshop" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{log: logrus.New()}

	root := &cobra.Command{
		Use:   "coffeeshop",
		Short: "Operate the coffee shop storefront database",
		Long: "coffeeshop manages the local storefront database: the catalog of\n" +
			"categories and products, the sales ledger, and demo data.",
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: $(CWD)/.coffeeshop)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: $(CWD)/.coffeeshop-db)")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output as JSON")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default: warn)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.newSeedCmd())
	root.AddCommand(a.newResetCmd())
	root.AddCommand(a.newCategoryCmd())
	root.AddCommand(a.newProductCmd())
	root.AddCommand(a.newSaleCmd())
	root.AddCommand(a.newAnalyticsCmd())
	root.AddCommand(a.newExportCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode maps caller mistakes to exitUserError and everything else to
// exitSysError.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrValidation), errors.Is(err, types.ErrNotFound), errors.Is(err, errUsage):
		return exitUserError
	default:
		return exitSysError
	}
}

// errUsage marks bad command-line input.
var errUsage = errors.New("usage")

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errUsage}, args...)...)
}

// setup resolves the config directory, loads configuration, and configures
// logging. The version command needs none of it.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	a.configDir = configDir

	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := a.logLevel
	if level == "" {
		level = cfg.GetString(cfgKeyLogLevel)
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return usageErrorf("invalid log level %q", level)
	}
	a.log.SetLevel(lvl)
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

// resolveDataDir applies flag > config.yaml > env > default precedence.
func (a *app) resolveDataDir() (string, error) {
	return paths.ResolveDataDir(a.dataDir, a.cfg.GetString(cfgKeyDataDir))
}

// withShop attaches a storefront for the duration of fn.
func (a *app) withShop(fn func(shop types.Shop) error) error {
	dataDir, err := a.resolveDataDir()
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	shop := sqlite.NewBackend(a.log)
	if err := shop.Attach(types.Config{
		Backend:            types.BackendSQLite,
		DataDir:            dataDir,
		EnforceForeignKeys: a.cfg.GetBool(cfgKeyEnforceFK),
	}); err != nil {
		return fmt.Errorf("attach storefront: %w", err)
	}
	defer shop.Detach()

	return fn(shop)
}

// printer returns the output helper for cmd.
func (a *app) printer(cmd *cobra.Command) printer {
	return printer{out: cmd.OutOrStdout(), json: a.jsonMode}
}
