package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vsinha/mrpledger/pkg/application/services/workorder"
	"github.com/vsinha/mrpledger/pkg/domain/entities"
	"github.com/vsinha/mrpledger/pkg/domain/services"
)

// SessionCommand handles the interactive work order session
type SessionCommand struct {
	config  Config
	logger  *zap.Logger
	clock   services.Clock
	runtime *Runtime
	scanner *bufio.Scanner
	out     io.Writer
}

// NewSessionCommand creates a session reading commands from in and writing to out
func NewSessionCommand(config Config, logger *zap.Logger, clock services.Clock, in io.Reader, out io.Writer) *SessionCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = services.SystemClock{}
	}
	return &SessionCommand{
		config:  config,
		logger:  logger,
		clock:   clock,
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// Execute seeds the ledger and runs the session until quit or end of input
func (c *SessionCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.printHelp()
		return nil
	}
	if c.config.App == nil {
		return fmt.Errorf("application configuration is required")
	}

	data, err := LoadSeedData(c.config.ScenarioDir, c.config.SeedFile)
	if err != nil {
		return fmt.Errorf("failed to load seed data: %w", err)
	}
	c.runtime, err = NewRuntime(c.config.App, c.logger, c.clock)
	if err != nil {
		return fmt.Errorf("failed to create ledger: %w", err)
	}
	warnings, err := c.runtime.Service.Seed(ctx, data)
	if err != nil {
		return fmt.Errorf("failed to seed ledger: %w", err)
	}
	for _, warning := range warnings {
		fmt.Fprintf(c.out, "Warning: %s\n", warning)
	}

	return c.runInteractiveSession(ctx)
}

func (c *SessionCommand) runInteractiveSession(ctx context.Context) error {
	fmt.Fprintln(c.out, "=== MRP Ledger Session ===")
	fmt.Fprintln(c.out, "Type 'help' for available commands")
	fmt.Fprintln(c.out)

	for {
		fmt.Fprint(c.out, "mrp> ")
		if !c.scanner.Scan() {
			break
		}

		line := strings.TrimSpace(c.scanner.Text())
		if line == "" {
			continue
		}

		quit, err := c.processCommand(ctx, line)
		if err != nil {
			fmt.Fprintf(c.out, "ERROR: %v\n", err)
		}
		if quit {
			fmt.Fprintln(c.out, "Exiting. Goodbye!")
			return nil
		}
		fmt.Fprintln(c.out)
	}

	return c.scanner.Err()
}

func (c *SessionCommand) processCommand(ctx context.Context, line string) (bool, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false, nil
	}

	command := parts[0]
	args := parts[1:]

	switch command {
	case "help", "h":
		c.printInteractiveHelp()
	case "add-product", "product":
		return false, c.handleAddProduct(ctx, args)
	case "define-bom", "bom":
		return false, c.handleDefineBOM(ctx, args)
	case "create":
		return false, c.handleCreate(ctx, args)
	case "issue":
		return false, c.handleIssue(ctx, args)
	case "issue-all":
		return false, c.handleIssueAll(ctx, args)
	case "report":
		return false, c.handleReport(ctx, args)
	case "stock":
		fmt.Fprint(c.out, c.runtime.Service.WarehouseSummary())
	case "list", "orders":
		c.handleList()
	case "status":
		return false, c.handleStatus()
	case "events":
		return false, c.handleShowEvents(args)
	case "quit", "q", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command: %s (type 'help' for available commands)", command)
	}

	return false, nil
}

func (c *SessionCommand) handleAddProduct(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: add-product <code> <initial-stock> [name...]")
	}

	stock, err := parseQuantity(args[1])
	if err != nil {
		return err
	}
	name := args[0]
	if len(args) > 2 {
		name = strings.Join(args[2:], " ")
	}

	if err := c.runtime.Service.AddProduct(ctx, entities.ProductCode(args[0]), name, stock); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Added product %s\n", args[0])
	return nil
}

func (c *SessionCommand) handleDefineBOM(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: define-bom <product> <component>:<qty-per> [<component>:<qty-per>...]")
	}

	lines := make([]workorder.BOMLineInput, 0, len(args)-1)
	for _, arg := range args[1:] {
		component, qty, found := strings.Cut(arg, ":")
		if !found || component == "" {
			return fmt.Errorf("invalid BOM line %q (expected component:qty-per)", arg)
		}
		if _, err := c.runtime.Service.GetProduct(entities.ProductCode(component)); err != nil {
			return fmt.Errorf("component not found, add product first: %s", component)
		}
		qtyPer, err := parseQuantity(qty)
		if err != nil {
			return err
		}
		lines = append(lines, workorder.BOMLineInput{Component: entities.ProductCode(component), QtyPer: qtyPer})
	}

	if err := c.runtime.Service.DefineBOM(ctx, entities.ProductCode(args[0]), lines); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "BOM defined for %s\n", args[0])
	return nil
}

func (c *SessionCommand) handleCreate(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: create <product> <qty>")
	}
	qty, err := parseQuantity(args[1])
	if err != nil {
		return err
	}

	wo, err := c.runtime.Service.CreateWorkOrder(ctx, entities.ProductCode(args[0]), qty)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Created WorkOrder: %s (materials reserved).\n", wo.ID)
	return nil
}

func (c *SessionCommand) handleIssue(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: issue <work-order> <component> <qty>")
	}
	qty, err := parseQuantity(args[2])
	if err != nil {
		return err
	}

	issue, err := c.runtime.Service.IssueMaterial(ctx, args[0], entities.ProductCode(args[1]), qty)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Issued: %s\n", issue.Describe())
	return nil
}

func (c *SessionCommand) handleIssueAll(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: issue-all <work-order>")
	}

	issued, err := c.runtime.Service.IssueMaterialsForWorkOrder(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Issued materials:")
	for _, issue := range issued {
		fmt.Fprintf(c.out, "  %s\n", issue.Describe())
	}
	return nil
}

func (c *SessionCommand) handleReport(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: report <work-order> <qty>")
	}
	qty, err := parseQuantity(args[1])
	if err != nil {
		return err
	}

	report, err := c.runtime.Service.ReportProduction(ctx, args[0], qty)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Production reported: %s\n", report.Describe())
	return nil
}

func (c *SessionCommand) handleList() {
	fmt.Fprintln(c.out, "Work Orders:")
	for _, wo := range c.runtime.Service.AllWorkOrders() {
		fmt.Fprint(c.out, wo.String())
	}
}

func (c *SessionCommand) handleStatus() error {
	allEvents, err := c.runtime.Events.ReadAllEvents(0)
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	fmt.Fprintf(c.out, "=== Ledger Status ===\n")
	fmt.Fprintf(c.out, "Warehouse: %s\n", c.runtime.Service.WarehouseName())
	fmt.Fprintf(c.out, "Work orders: %d\n", len(c.runtime.Service.AllWorkOrders()))
	fmt.Fprintf(c.out, "Total events: %d\n", len(allEvents))

	eventCounts := make(map[string]int)
	for _, event := range allEvents {
		eventCounts[event.Type()]++
	}
	eventTypes := make([]string, 0, len(eventCounts))
	for eventType := range eventCounts {
		eventTypes = append(eventTypes, eventType)
	}
	sort.Strings(eventTypes)

	fmt.Fprintf(c.out, "\nEvent counts by type:\n")
	for _, eventType := range eventTypes {
		fmt.Fprintf(c.out, "  %s: %d\n", eventType, eventCounts[eventType])
	}
	return nil
}

func (c *SessionCommand) handleShowEvents(args []string) error {
	limit := 10
	if len(args) > 0 {
		if l, err := strconv.Atoi(args[0]); err == nil && l > 0 {
			limit = l
		}
	}

	allEvents, err := c.runtime.Events.ReadAllEvents(0)
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	fmt.Fprintf(c.out, "=== Recent Events (last %d) ===\n", limit)
	start := len(allEvents) - limit
	if start < 0 {
		start = 0
	}
	for _, event := range allEvents[start:] {
		fmt.Fprintf(c.out, "[%s] %s -> %s v%d\n",
			event.Timestamp().Format("15:04:05"),
			event.Type(),
			event.StreamID(),
			event.Version())
	}
	return nil
}

func parseQuantity(raw string) (entities.Quantity, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity: %s", raw)
	}
	return entities.Quantity(n), nil
}

func (c *SessionCommand) printHelp() {
	fmt.Fprintln(c.out, `Interactive Ledger Session

USAGE:
    mrp session [OPTIONS]

OPTIONS:
    --scenario <DIR>    Scenario directory with products.csv and bom.csv
    --seed <FILE>       YAML seed file
    --strict            Make multi-line reservations and issues all-or-nothing
    --help              Show this help message

DESCRIPTION:
    Seeds the ledger, then reads commands that create work orders, issue
    materials and report production against it.`)
}

func (c *SessionCommand) printInteractiveHelp() {
	fmt.Fprintln(c.out, `Available commands:

  add-product <code> <initial-stock> [name...]
      Register a product
      Example: add-product C003 120 Chain Set

  define-bom <product> <component>:<qty-per> ...
      Define or replace the BOM of a product
      Example: define-bom FG02 C001:1 C003:2

  create <product> <qty>
      Create a work order, reserving its materials

  issue <work-order> <component> <qty>
      Issue reserved stock of one component

  issue-all <work-order>
      Issue every BOM line for the work order

  report <work-order> <qty>
      Report produced quantity and complete the work order

  stock
      Show the warehouse stock summary

  list
      List work orders

  status
      Show event counts

  events [limit]
      Show recent events (default: 10)

  help, h
      Show this help message

  quit, q, exit
      End the session`)
}
