package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vsinha/mrpledger/pkg/domain/entities"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Components int     // Number of component products
	Products   int     // Number of finished goods, each with one BOM
	MaxLines   int     // Maximum BOM lines per finished good
	RunSize    int     // Units per finished good the stock is sized for
	Coverage   float64 // Stock multiplier (e.g., 0.5 = half coverage, 2.0 = double)
	OutputDir  string  // Output directory for products.csv and bom.csv
	Seed       int64   // Random seed for reproducible generation
	Help       bool
	Verbose    bool
}

// GenerateCommand writes a random single-level scenario
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
	out    io.Writer
}

// generatedLine is one BOM line of a generated finished good
type generatedLine struct {
	component string
	qtyPer    entities.Quantity
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig, out io.Writer) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
		out:    out,
	}
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}
	if err := cmd.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out, "Generating scenario with %d components, %d products, up to %d lines, %.1fx coverage\n",
			cmd.config.Components, cmd.config.Products, cmd.config.MaxLines, cmd.config.Coverage)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	components := make([]string, cmd.config.Components)
	for i := range components {
		components[i] = fmt.Sprintf("C%03d", i+1)
	}
	boms := cmd.generateBOMs(components)

	if err := cmd.writeProducts(components, boms); err != nil {
		return fmt.Errorf("failed to generate products: %w", err)
	}
	if err := cmd.writeBOMs(boms); err != nil {
		return fmt.Errorf("failed to generate BOM: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out, "Scenario generated successfully in %s\n", cmd.config.OutputDir)
	}
	return nil
}

func (cmd *GenerateCommand) validate() error {
	switch {
	case cmd.config.OutputDir == "":
		return fmt.Errorf("--output is required")
	case cmd.config.Components < 1:
		return fmt.Errorf("--components must be at least 1")
	case cmd.config.Products < 1:
		return fmt.Errorf("--products must be at least 1")
	case cmd.config.MaxLines < 1:
		return fmt.Errorf("--max-lines must be at least 1")
	case cmd.config.RunSize < 1:
		return fmt.Errorf("--run-size must be at least 1")
	case cmd.config.Coverage < 0:
		return fmt.Errorf("--coverage cannot be negative")
	}
	return nil
}

// generateBOMs gives every finished good 1..MaxLines distinct components with qty 1-5
func (cmd *GenerateCommand) generateBOMs(components []string) [][]generatedLine {
	boms := make([][]generatedLine, cmd.config.Products)
	for i := range boms {
		numLines := 1 + cmd.rand.Intn(min(cmd.config.MaxLines, len(components)))
		picked := cmd.rand.Perm(len(components))[:numLines]
		lines := make([]generatedLine, 0, numLines)
		for _, idx := range picked {
			lines = append(lines, generatedLine{
				component: components[idx],
				qtyPer:    entities.Quantity(1 + cmd.rand.Intn(5)),
			})
		}
		boms[i] = lines
	}
	return boms
}

// writeProducts sizes component stock to cover one run of every finished good times Coverage
func (cmd *GenerateCommand) writeProducts(components []string, boms [][]generatedLine) error {
	demand := make(map[string]entities.Quantity, len(components))
	for _, lines := range boms {
		for _, line := range lines {
			demand[line.component] += line.qtyPer * entities.Quantity(cmd.config.RunSize)
		}
	}

	rows := [][]string{{"code", "name", "initial_stock"}}
	for i, code := range components {
		stock := int64(float64(demand[code]) * cmd.config.Coverage)
		rows = append(rows, []string{code, fmt.Sprintf("Component-%d", i+1), strconv.FormatInt(stock, 10)})
	}
	for i := range boms {
		rows = append(rows, []string{productCode(i), fmt.Sprintf("Finished-Good-%d", i+1), "0"})
	}
	return cmd.writeCSV("products.csv", rows)
}

func (cmd *GenerateCommand) writeBOMs(boms [][]generatedLine) error {
	rows := [][]string{{"parent_code", "component_code", "qty_per"}}
	for i, lines := range boms {
		for _, line := range lines {
			rows = append(rows, []string{productCode(i), line.component, strconv.FormatInt(int64(line.qtyPer), 10)})
		}
	}
	return cmd.writeCSV("bom.csv", rows)
}

func (cmd *GenerateCommand) writeCSV(name string, rows [][]string) error {
	file, err := os.Create(filepath.Join(cmd.config.OutputDir, name))
	if err != nil {
		return err
	}
	defer file.Close()

	return csv.NewWriter(file).WriteAll(rows)
}

func productCode(i int) string {
	return fmt.Sprintf("FG%02d", i+1)
}

// printHelp shows usage information
func (cmd *GenerateCommand) printHelp() {
	fmt.Fprintln(cmd.out, `MRP Scenario Generator

USAGE:
    mrp generate [OPTIONS]

OPTIONS:
    --components <N>    Number of component products (default: 10)
    --products <N>      Number of finished goods (default: 3)
    --max-lines <N>     Maximum BOM lines per finished good (default: 4)
    --run-size <N>      Units per finished good the stock is sized for (default: 10)
    --coverage <F>      Stock multiplier (e.g., 0.5 = half coverage, 2.0 = double) (default: 1.0)
    --output <DIR>      Output directory for generated files (required)
    --seed <N>          Random seed for reproducible generation (optional)
    --verbose           Enable verbose output
    --help              Show this help message

EXAMPLES:
    # Generate a small scenario and run it
    mrp generate --output ./scenario --seed 42
    mrp --scenario ./scenario --produce FG01:10

    # Generate a starved scenario to exercise shortages
    mrp generate --components 20 --products 5 --coverage 0.5 --output ./short`)
}
