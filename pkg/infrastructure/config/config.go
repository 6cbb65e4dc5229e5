package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Identifier strategies
const (
	IDStrategySequence = "sequence"
	IDStrategyUUID     = "uuid"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Warehouse WarehouseConfig
	Ledger    LedgerConfig
	Log       LogConfig
	Output    OutputConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// WarehouseConfig holds settings of the single warehouse ledger
type WarehouseConfig struct {
	Name string
}

// LedgerConfig holds work order processing settings
type LedgerConfig struct {
	// AtomicReservations makes multi-line reservations and bulk issues all-or-nothing
	AtomicReservations bool
	IDStrategy         string // sequence, uuid
	SequenceStart      int64
}

// LogConfig holds logging configuration. Empty fields take the defaults of the
// environment named by App.Env.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// OutputConfig holds report rendering settings
type OutputConfig struct {
	Format string // text, json, csv
	Dir    string // csv files and json report are written here when set
}

// flagKeys maps command line flags onto configuration keys
var flagKeys = map[string]string{
	"strict":      "ledger.atomic_reservations",
	"id-strategy": "ledger.id_strategy",
	"warehouse":   "warehouse.name",
	"log-level":   "log.level",
	"log-format":  "log.format",
	"format":      "output.format",
	"output":      "output.dir",
	"env":         "app.env",
}

// Load loads configuration.
// Priority (highest to lowest):
// 1. Command line flags that were explicitly set
// 2. Environment variables with MRP_ prefix (e.g., MRP_LEDGER_ATOMIC_RESERVATIONS)
// 3. The config file (configFile, or mrp.yaml in the working directory)
// 4. Built-in defaults
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("mrp")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("MRP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Warehouse: WarehouseConfig{
			Name: v.GetString("warehouse.name"),
		},
		Ledger: LedgerConfig{
			AtomicReservations: v.GetBool("ledger.atomic_reservations"),
			IDStrategy:         strings.ToLower(v.GetString("ledger.id_strategy")),
			SequenceStart:      v.GetInt64("ledger.sequence_start"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Output: OutputConfig{
			Format: strings.ToLower(v.GetString("output.format")),
			Dir:    v.GetString("output.dir"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "mrp")
	v.SetDefault("app.env", "development")
	v.SetDefault("warehouse.name", "MainWarehouse")
	v.SetDefault("ledger.atomic_reservations", false)
	v.SetDefault("ledger.id_strategy", IDStrategySequence)
	v.SetDefault("ledger.sequence_start", 1000)
	v.SetDefault("log.level", "")
	v.SetDefault("log.format", "")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("output.format", "text")
	v.SetDefault("output.dir", "")
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.Ledger.IDStrategy {
	case IDStrategySequence, IDStrategyUUID:
	default:
		return fmt.Errorf("unsupported id strategy: %s", c.Ledger.IDStrategy)
	}
	switch c.Output.Format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("unsupported output format: %s", c.Output.Format)
	}
	if c.Output.Format == "csv" && c.Output.Dir == "" {
		return fmt.Errorf("csv output requires an output directory")
	}
	if c.Warehouse.Name == "" {
		return fmt.Errorf("warehouse name cannot be empty")
	}
	return nil
}
