package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/coffeeshop/internal/paths"
	"github.com/mesh-intelligence/coffeeshop/pkg/types"
)

// TestEnv provides an isolated environment with its own config and data
// directory.
type TestEnv struct {
	t       *testing.T
	Config  string
	DataDir string
}

// NewTestEnv creates a new isolated test environment and clears every
// environment override.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	for _, key := range []string{
		paths.EnvConfigDir, paths.EnvDataDir,
		"COFFEESHOP_LOG_LEVEL", "COFFEESHOP_TAX_RATE", "COFFEESHOP_ENFORCE_FOREIGN_KEYS",
	} {
		t.Setenv(key, "")
	}

	orig := now
	now = func() time.Time { return time.Date(2024, 1, 1, 9, 15, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })

	tempDir := t.TempDir()
	return &TestEnv{
		t:       t,
		Config:  filepath.Join(tempDir, "config"),
		DataDir: filepath.Join(tempDir, "data"),
	}
}

// WriteConfig writes config.yaml with the given keys.
func (e *TestEnv) WriteConfig(values map[string]any) {
	e.t.Helper()
	require.NoError(e.t, os.MkdirAll(e.Config, 0o755))
	data, err := yaml.Marshal(values)
	require.NoError(e.t, err)
	require.NoError(e.t, os.WriteFile(paths.ConfigFile(e.Config), data, 0o644))
}

// CmdResult holds the result of a command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	Err      error
	ExitCode int
}

// Run executes the CLI in-process with the environment's directories.
func (e *TestEnv) Run(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.Config, "--data-dir", e.DataDir}, args...)
	root := NewRootCmd()
	root.SetArgs(allArgs)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.Execute()
	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Err:      err,
		ExitCode: exitCode(err),
	}
}

// MustRun executes the CLI and fails the test if the command errors.
func (e *TestEnv) MustRun(args ...string) CmdResult {
	e.t.Helper()
	result := e.Run(args...)
	require.NoError(e.t, result.Err, "coffeeshop %v\nstdout: %s\nstderr: %s", args, result.Stdout, result.Stderr)
	return result
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var result T
	require.NoError(t, json.Unmarshal([]byte(s), &result), "output: %s", s)
	return result
}

func TestCLI_InitWritesConfigAndDatabase(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRun("init")
	assert.Contains(t, result.Stdout, "Storefront initialized")

	_, err := os.Stat(filepath.Join(env.DataDir, types.DatabaseFileName))
	assert.NoError(t, err, "database file created")

	data, err := os.ReadFile(paths.ConfigFile(env.Config))
	require.NoError(t, err)
	var cfg configFile
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "0.1", cfg.TaxRate)

	// A second init keeps the existing config.
	require.NoError(t, os.WriteFile(paths.ConfigFile(env.Config), []byte("log_level: error\n"), 0o644))
	env.MustRun("init")
	data, err = os.ReadFile(paths.ConfigFile(env.Config))
	require.NoError(t, err)
	assert.Equal(t, "log_level: error\n", string(data))
}

func TestCLI_InitWithSeed(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRun("init", "--seed")

	cats := ParseJSON[[]types.Category](t, env.MustRun("--json", "category", "list").Stdout)
	assert.Len(t, cats, 3)
	assert.Equal(t, "Cold Coffee", cats[0].Name)

	products := ParseJSON[[]types.Product](t, env.MustRun("--json", "product", "list", "--category", "2").Stdout)
	assert.Len(t, products, 3)
}

func TestCLI_CategoryLifecycle(t *testing.T) {
	env := NewTestEnv(t)

	created := ParseJSON[types.Category](t, env.MustRun("--json", "category", "add", "Tea", "--description", "Leaf").Stdout)
	assert.Equal(t, int64(1), created.ID)

	updated := ParseJSON[types.Category](t, env.MustRun("--json", "category", "update", "1", "--name", "Teas").Stdout)
	assert.Equal(t, "Teas", updated.Name)
	assert.Equal(t, "Leaf", updated.Description, "untouched flags keep their value")

	got := ParseJSON[types.Category](t, env.MustRun("--json", "category", "get", "1").Stdout)
	assert.Equal(t, updated, got)

	env.MustRun("category", "delete", "1")
	result := env.Run("category", "get", "1")
	assert.ErrorIs(t, result.Err, types.ErrNotFound)
	assert.Equal(t, exitUserError, result.ExitCode)

	human := env.MustRun("category", "list")
	assert.Contains(t, human.Stdout, "No categories found.")
}

func TestCLI_ProductAddDefaultsImage(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRun("init", "--seed")

	prod := ParseJSON[types.Product](t, env.MustRun("--json", "product", "add", "Flat White",
		"--price", "4.75", "--category", "1").Stdout)
	assert.NotEmpty(t, prod.ImageURL, "CLI fills a stock image")
	assert.True(t, prod.Price.Equal(decimal.RequireFromString("4.75")))

	got := ParseJSON[types.Product](t, env.MustRun("--json", "product", "get", "11").Stdout)
	assert.Equal(t, "Hot Coffee", *got.CategoryName)
	assert.Equal(t, prod.ImageURL, got.ImageURL)

	result := env.Run("product", "add", "No Price")
	assert.Equal(t, exitUserError, result.ExitCode)

	result = env.Run("product", "add", "Bad", "--price", "abc")
	assert.Equal(t, exitUserError, result.ExitCode)
}

func TestCLI_ProductUpdateAndDelete(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRun("init", "--seed")

	updated := ParseJSON[types.Product](t, env.MustRun("--json", "product", "update", "1",
		"--price", "4.25", "--unavailable").Stdout)
	assert.Equal(t, "Espresso", updated.Name)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("4.25")))
	assert.False(t, updated.IsAvailable())

	human := env.MustRun("product", "list")
	assert.Contains(t, human.Stdout, "Espresso")
	assert.Contains(t, human.Stdout, "4.25")

	env.MustRun("product", "delete", "1")
	result := env.Run("product", "delete", "1")
	assert.ErrorIs(t, result.Err, types.ErrNotFound)
}

func TestCLI_SaleRecordAppliesTax(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRun("init", "--seed")

	sale := ParseJSON[types.Sale](t, env.MustRun("--json", "sale", "record", "--item", "1").Stdout)
	assert.Equal(t, "4.39", sale.Total.StringFixed(2))
	assert.Equal(t, "2024-01-01", sale.Date)
	assert.Equal(t, "09:15:00", sale.Time)
	assert.Equal(t, types.PaymentCash, sale.PaymentMethod)

	sales := ParseJSON[[]types.Sale](t, env.MustRun("--json", "sale", "list").Stdout)
	require.Len(t, sales, 1)
	require.Len(t, sales[0].Items, 1)
	assert.Equal(t, "Espresso", sales[0].Items[0].ProductName)
	assert.Equal(t, "3.99", sales[0].Items[0].Price.StringFixed(2))
}

func TestCLI_SaleRecordUsesConfiguredTaxRate(t *testing.T) {
	env := NewTestEnv(t)
	env.WriteConfig(map[string]any{"tax_rate": "0"})
	env.MustRun("init", "--seed")

	sale := ParseJSON[types.Sale](t, env.MustRun("--json", "sale", "record",
		"--item", "3:2", "--item", "1", "--payment", types.PaymentDigitalWallet,
		"--date", "2024-02-01", "--time", "10:00").Stdout)
	assert.Equal(t, "14.97", sale.Total.StringFixed(2))
	assert.Equal(t, types.PaymentDigitalWallet, sale.PaymentMethod)
	assert.Len(t, sale.Items, 2)
}

func TestCLI_SaleRecordErrors(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRun("init", "--seed")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no items", []string{"sale", "record"}, errUsage},
		{"bad item", []string{"sale", "record", "--item", "x:1"}, errUsage},
		{"zero quantity", []string{"sale", "record", "--item", "1:0"}, errUsage},
		{"unknown product", []string{"sale", "record", "--item", "999"}, types.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := env.Run(tt.args...)
			assert.ErrorIs(t, result.Err, tt.want)
			assert.Equal(t, exitUserError, result.ExitCode)
		})
	}

	sales := ParseJSON[[]types.Sale](t, env.MustRun("--json", "sale", "list").Stdout)
	assert.Empty(t, sales)
}

func TestCLI_AnalyticsAndExport(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRun("init", "--seed")
	env.MustRun("sale", "record", "--item", "1:2", "--date", "2024-01-01")
	env.MustRun("sale", "record", "--item", "3", "--date", "2024-01-02")

	summary := ParseJSON[types.SalesSummary](t, env.MustRun("--json", "analytics", "summary").Stdout)
	assert.Equal(t, 2, summary.SaleCount)
	assert.Equal(t, 3, summary.ItemsSold)

	top := ParseJSON[[]types.ProductSales](t, env.MustRun("--json", "analytics", "top", "--limit", "1").Stdout)
	require.Len(t, top, 1)
	assert.Equal(t, "Espresso", top[0].Name)

	path := filepath.Join(t.TempDir(), "ledger.jsonl")
	result := env.MustRun("export", path)
	assert.Contains(t, result.Stdout, "Exported 2 sale(s)")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("\n")))
}

func TestCLI_ResetRequiresConfirmation(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRun("init", "--seed")
	env.MustRun("sale", "record", "--item", "1")

	result := env.Run("reset")
	assert.ErrorIs(t, result.Err, errUsage)
	assert.Equal(t, exitUserError, result.ExitCode)

	env.MustRun("reset", "--yes")
	sales := ParseJSON[[]types.Sale](t, env.MustRun("--json", "sale", "list").Stdout)
	assert.Empty(t, sales)
}

func TestCLI_InvalidLogLevel(t *testing.T) {
	env := NewTestEnv(t)
	result := env.Run("--log-level", "loud", "category", "list")
	assert.ErrorIs(t, result.Err, errUsage)
}

func TestCLI_DebugLoggingGoesToStderr(t *testing.T) {
	env := NewTestEnv(t)
	result := env.MustRun("--log-level", "debug", "init")
	assert.Contains(t, result.Stderr, "operation finished")
	assert.NotContains(t, result.Stdout, "operation finished")
}

func TestCLI_Version(t *testing.T) {
	env := NewTestEnv(t)
	result := env.MustRun("version")
	assert.Contains(t, result.Stdout, "coffeeshop v"+Version)

	_, err := os.Stat(env.Config)
	assert.True(t, os.IsNotExist(err), "version touches no directories")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(&types.ValidationError{Entity: "sale", Reason: "x"}))
	assert.Equal(t, exitUserError, exitCode(&types.NotFoundError{Entity: "Product", ID: 1}))
	assert.Equal(t, exitSysError, exitCode(types.NewStorageError("open", os.ErrPermission)))
}
