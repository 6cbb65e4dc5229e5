package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/vsinha/mrpledger/pkg/domain/services"
	"github.com/vsinha/mrpledger/pkg/infrastructure/config"
	"github.com/vsinha/mrpledger/pkg/infrastructure/logger"
	"github.com/vsinha/mrpledger/pkg/interfaces/cli/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	subcommand := "run"
	if len(args) > 0 {
		switch args[0] {
		case "run", "session", "generate":
			subcommand, args = args[0], args[1:]
		}
	}

	if subcommand == "generate" {
		return runGenerate(ctx, args, out)
	}

	flags := pflag.NewFlagSet("mrp "+subcommand, pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	var (
		configFile  = flags.String("config", "", "Configuration file (default: ./mrp.yaml if present)")
		scenarioDir = flags.String("scenario", "", "Scenario directory with products.csv and bom.csv")
		seedFile    = flags.String("seed", "", "YAML seed file")
		produce     = flags.StringArray("produce", nil, "Production cycle CODE:QTY (repeatable)")
		verbose     = flags.BoolP("verbose", "v", false, "Include warnings and metrics in the output")
		help        = flags.BoolP("help", "h", false, "Show help message")
	)
	flags.String("format", "text", "Output format: text, json, csv")
	flags.String("output", "", "Output directory for json/csv results")
	flags.Bool("strict", false, "Make multi-line reservations and issues all-or-nothing")
	flags.String("id-strategy", config.IDStrategySequence, "Identifier strategy: sequence, uuid")
	flags.String("warehouse", "MainWarehouse", "Warehouse name")
	flags.String("log-level", "", "Log level: debug, info, warn, error (default: warn, info in production)")
	flags.String("log-format", "", "Log format: console, json (default: console, json in production)")
	flags.String("env", "development", "Environment name")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			*help = true
		} else {
			return err
		}
	}

	cmdConfig := commands.Config{
		ScenarioDir: *scenarioDir,
		SeedFile:    *seedFile,
		Produce:     *produce,
		Verbose:     *verbose,
		Help:        *help,
	}
	if !*help {
		cfg, err := config.Load(*configFile, flags)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cmdConfig.App = cfg
	}

	log, cleanup, err := newLogger(cmdConfig.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer cleanup()

	if subcommand == "session" {
		return commands.NewSessionCommand(cmdConfig, log, services.SystemClock{}, in, out).Execute(ctx)
	}
	return commands.NewLedgerCommand(cmdConfig, log, services.SystemClock{}, out).Execute(ctx)
}

func runGenerate(ctx context.Context, args []string, out io.Writer) error {
	flags := pflag.NewFlagSet("mrp generate", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var genConfig commands.GenerateConfig
	flags.IntVar(&genConfig.Components, "components", 10, "Number of component products")
	flags.IntVar(&genConfig.Products, "products", 3, "Number of finished goods")
	flags.IntVar(&genConfig.MaxLines, "max-lines", 4, "Maximum BOM lines per finished good")
	flags.IntVar(&genConfig.RunSize, "run-size", 10, "Units per finished good the stock is sized for")
	flags.Float64Var(&genConfig.Coverage, "coverage", 1.0, "Stock multiplier")
	flags.StringVar(&genConfig.OutputDir, "output", "", "Output directory for generated files")
	flags.Int64Var(&genConfig.Seed, "seed", 0, "Random seed for reproducible generation")
	flags.BoolVarP(&genConfig.Verbose, "verbose", "v", false, "Enable verbose output")
	flags.BoolVarP(&genConfig.Help, "help", "h", false, "Show help message")

	if err := flags.Parse(args); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			return err
		}
		genConfig.Help = true
	}
	return commands.NewGenerateCommand(genConfig, out).Execute(ctx)
}

// loggerConfig starts from the environment's logger defaults and applies explicit settings
func loggerConfig(cfg *config.Config) *logger.Config {
	if cfg == nil {
		return logger.DefaultConfig()
	}
	logConfig := logger.ConfigForEnvironment(cfg.App.Env)
	if cfg.Log.Level != "" {
		logConfig.Level = cfg.Log.Level
	}
	if cfg.Log.Format != "" {
		logConfig.Format = cfg.Log.Format
	}
	if cfg.Log.Output != "" {
		logConfig.Output = cfg.Log.Output
	}
	return logConfig
}

func newLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	log, cleanup, err := logger.New(loggerConfig(cfg))
	if err != nil {
		return nil, nil, err
	}
	if cfg != nil {
		log = log.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))
	}
	return log, cleanup, nil
}
