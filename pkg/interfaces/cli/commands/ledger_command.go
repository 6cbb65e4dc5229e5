package commands

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/vsinha/mrpledger/pkg/application/dto"
	"github.com/vsinha/mrpledger/pkg/domain/services"
	"github.com/vsinha/mrpledger/pkg/infrastructure/config"
	"github.com/vsinha/mrpledger/pkg/interfaces/cli/output"
)

// Config holds configuration for the ledger command
type Config struct {
	App         *config.Config
	ScenarioDir string
	SeedFile    string
	Produce     []string
	Verbose     bool
	Help        bool
}

// LedgerCommand seeds the ledger, runs the requested production cycles and prints the result
type LedgerCommand struct {
	config Config
	logger *zap.Logger
	clock  services.Clock
	out    io.Writer
}

// NewLedgerCommand creates a new ledger command writing to out
func NewLedgerCommand(config Config, logger *zap.Logger, clock services.Clock, out io.Writer) *LedgerCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = services.SystemClock{}
	}
	return &LedgerCommand{
		config: config,
		logger: logger,
		clock:  clock,
		out:    out,
	}
}

// Execute runs the ledger command
func (c *LedgerCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}
	if c.config.App == nil {
		return fmt.Errorf("application configuration is required")
	}

	requests := make([]ProduceRequest, 0, len(c.config.Produce))
	for _, raw := range c.config.Produce {
		req, err := ParseProduceRequest(raw)
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}
		requests = append(requests, req)
	}

	data, err := LoadSeedData(c.config.ScenarioDir, c.config.SeedFile)
	if err != nil {
		return fmt.Errorf("failed to load seed data: %w", err)
	}

	rt, err := NewRuntime(c.config.App, c.logger, c.clock)
	if err != nil {
		return fmt.Errorf("failed to create ledger: %w", err)
	}

	warnings, err := rt.Service.Seed(ctx, data)
	if err != nil {
		return fmt.Errorf("failed to seed ledger: %w", err)
	}
	c.logger.Info("ledger seeded",
		zap.String("warehouse", c.config.App.Warehouse.Name),
		zap.Int("products", len(data.Products)),
		zap.Int("boms", len(data.BOMs)),
		zap.Bool("atomic_reservations", c.config.App.Ledger.AtomicReservations))

	runs := make([]dto.ProductionRun, 0, len(requests))
	for _, req := range requests {
		run := dto.ProductionRun{Product: req.Product, Quantity: req.Quantity}
		wo, err := rt.Service.Produce(ctx, req.Product, req.Quantity)
		if err != nil {
			run.Error = err.Error()
			c.logger.Warn("production run failed",
				zap.String("product", string(req.Product)),
				zap.Int64("quantity", int64(req.Quantity)),
				zap.Error(err))
		} else {
			run.WorkOrderID = wo.ID
			run.Succeeded = true
		}
		runs = append(runs, run)
	}

	report, err := BuildReport(rt, runs, warnings, c.clock.Now())
	if err != nil {
		return err
	}

	outputConfig := output.Config{
		Format:    c.config.App.Output.Format,
		OutputDir: c.config.App.Output.Dir,
		Verbose:   c.config.Verbose,
	}
	if err := output.Generate(report, outputConfig, c.out); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}
	return nil
}

// showHelp displays the help message
func (c *LedgerCommand) showHelp() {
	fmt.Fprint(c.out, `MRP Ledger CLI - work orders against a single warehouse stock ledger

USAGE:
    mrp [run] [OPTIONS]                    # Seed, run production cycles, print the ledger
    mrp session [OPTIONS]                  # Interactive work order session
    mrp generate --output <dir> [OPTIONS]  # Write a random scenario

OPTIONS:
    --config <file>         Configuration file (default: ./mrp.yaml if present)
    --scenario <dir>        Scenario directory with products.csv and bom.csv
    --seed <file>           YAML seed file with products and boms
    --produce <CODE:QTY>    Create, issue and report a work order (repeatable)
    --format <fmt>          Output format: text, json, csv (default: text)
    --output <dir>          Output directory for json/csv results
    --strict                Make multi-line reservations and issues all-or-nothing
    --id-strategy <s>       Identifier strategy: sequence, uuid (default: sequence)
    --warehouse <name>      Warehouse name (default: MainWarehouse)
    --log-level <level>     debug, info, warn, error (default: warn, info in production)
    --log-format <fmt>      console, json (default: console, json in production)
    --env <name>            Environment name; production switches logging to JSON at info
    --verbose               Include warnings and metrics in the output
    --help                  Show this help message

Without --scenario or --seed the ledger is seeded with C001 (500), C002 (300),
FG01 (10) and BOM FG01 = C001 x2, C002 x1.

CSV FILE FORMATS:

products.csv:
    code,name,initial_stock
    C001,Component-1,500

bom.csv:
    parent_code,component_code,qty_per
    FG01,C001,2

ENVIRONMENT:
    Every setting can be given as MRP_<SECTION>_<KEY>, e.g. MRP_LEDGER_ATOMIC_RESERVATIONS=true

EXAMPLES:
    mrp --produce FG01:5
    mrp --produce FG01:5 --produce FG01:1000 --format json
    mrp generate --output ./scenario --seed 42
    mrp --scenario ./scenario --produce FG01:3 --strict --verbose
`)
}
