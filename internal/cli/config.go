// Config loading for the coffeeshop CLI.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/coffeeshop/internal/paths"
	"github.com/mesh-intelligence/coffeeshop/pkg/cart"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	envPrefix = "COFFEESHOP"

	cfgKeyDataDir   = "data_dir"
	cfgKeyLogLevel  = "log_level"
	cfgKeyTaxRate   = "tax_rate"
	cfgKeyEnforceFK = "enforce_foreign_keys"

	defaultLogLevel = "warn"
)

// configFile is the structure written to config.yaml by init.
type configFile struct {
	DataDir            string `yaml:"data_dir,omitempty"`
	LogLevel           string `yaml:"log_level"`
	TaxRate            string `yaml:"tax_rate"`
	EnforceForeignKeys bool   `yaml:"enforce_foreign_keys"`
}

func defaultConfigFile() configFile {
	return configFile{
		LogLevel: defaultLogLevel,
		TaxRate:  cart.DefaultTaxRate.String(),
	}
}

// loadConfig reads config.yaml from configDir with Viper. A .env file in the
// working directory is loaded into the environment first. A missing
// config.yaml is not an error.
//
// data_dir is read from the file only; its environment override is applied
// by paths.ResolveDataDir so that config.yaml keeps precedence over it.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyTaxRate, cart.DefaultTaxRate.String())
	v.SetDefault(cfgKeyEnforceFK, false)

	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{cfgKeyLogLevel, cfgKeyTaxRate, cfgKeyEnforceFK} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// taxRate parses tax_rate from configuration.
func taxRate(v *viper.Viper) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(v.GetString(cfgKeyTaxRate))
	if err != nil {
		return decimal.Zero, usageErrorf("invalid tax_rate %q", v.GetString(cfgKeyTaxRate))
	}
	if rate.IsNegative() {
		return decimal.Zero, usageErrorf("tax_rate must not be negative, got %s", rate)
	}
	return rate, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns false.
func writeConfigIfMissing(configDir, dataDir string) (bool, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}

	path := paths.ConfigFile(configDir)
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	cfg := defaultConfigFile()
	cfg.DataDir = dataDir
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
