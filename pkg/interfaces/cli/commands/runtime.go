package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/mrpledger/pkg/application/dto"
	"github.com/vsinha/mrpledger/pkg/application/services/workorder"
	"github.com/vsinha/mrpledger/pkg/domain/entities"
	"github.com/vsinha/mrpledger/pkg/domain/services"
	"github.com/vsinha/mrpledger/pkg/infrastructure/config"
	"github.com/vsinha/mrpledger/pkg/infrastructure/events"
	"github.com/vsinha/mrpledger/pkg/infrastructure/metrics"
	"github.com/vsinha/mrpledger/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/mrpledger/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/mrpledger/pkg/infrastructure/repositories/yaml"
)

// Runtime bundles the service with the event store and metrics it publishes to
type Runtime struct {
	Service *workorder.Service
	Events  *events.InMemoryEventStore
	Metrics *metrics.LedgerMetrics
}

// NewRuntime wires a work order service from application configuration
func NewRuntime(cfg *config.Config, logger *zap.Logger, clock services.Clock) (*Runtime, error) {
	var ids services.IDGenerator
	switch cfg.Ledger.IDStrategy {
	case config.IDStrategyUUID:
		ids = services.NewUUIDGenerator()
	case config.IDStrategySequence:
		ids = services.NewSequenceGenerator(cfg.Ledger.SequenceStart)
	default:
		return nil, fmt.Errorf("unsupported id strategy: %s", cfg.Ledger.IDStrategy)
	}

	store := events.NewInMemoryEventStore(logger)
	ledgerMetrics := metrics.NewLedgerMetrics()

	svc, err := workorder.NewService(
		memory.NewStockLedger(cfg.Warehouse.Name),
		workorder.WithIDGenerator(ids),
		workorder.WithClock(clock),
		workorder.WithLogger(logger),
		workorder.WithEventStore(store),
		workorder.WithMetrics(ledgerMetrics),
		workorder.WithAtomicReservations(cfg.Ledger.AtomicReservations),
	)
	if err != nil {
		return nil, err
	}

	return &Runtime{Service: svc, Events: store, Metrics: ledgerMetrics}, nil
}

// LoadSeedData reads the scenario directory or seed file; with neither it returns the sample data
func LoadSeedData(scenarioDir, seedFile string) (*dto.SeedData, error) {
	switch {
	case scenarioDir != "" && seedFile != "":
		return nil, fmt.Errorf("specify either a scenario directory or a seed file, not both")
	case scenarioDir != "":
		return csv.NewLoader().LoadScenario(scenarioDir)
	case seedFile != "":
		return yaml.NewLoader().LoadFile(seedFile)
	default:
		return dto.SampleSeedData(), nil
	}
}

// ProduceRequest asks for one full production cycle of a product
type ProduceRequest struct {
	Product  entities.ProductCode
	Quantity entities.Quantity
}

// ParseProduceRequest parses CODE:QTY
func ParseProduceRequest(value string) (ProduceRequest, error) {
	code, qty, found := strings.Cut(value, ":")
	code = strings.TrimSpace(code)
	if !found || code == "" {
		return ProduceRequest{}, fmt.Errorf("invalid produce request %q (expected CODE:QTY)", value)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(qty), 10, 64)
	if err != nil || n <= 0 {
		return ProduceRequest{}, fmt.Errorf("invalid produce quantity in %q", value)
	}
	return ProduceRequest{Product: entities.ProductCode(code), Quantity: entities.Quantity(n)}, nil
}

// BuildReport snapshots the runtime state into a report
func BuildReport(rt *Runtime, runs []dto.ProductionRun, warnings []string, generatedAt time.Time) (*dto.LedgerReport, error) {
	svc := rt.Service
	report := &dto.LedgerReport{
		Warehouse:          svc.WarehouseName(),
		AtomicReservations: svc.AtomicReservations(),
		GeneratedAt:        generatedAt,
		Runs:               runs,
		Stock:              dto.NewStockRows(svc.StockLevels()),
		Warnings:           warnings,
		StockSummary:       svc.WarehouseSummary(),
	}
	if report.Runs == nil {
		report.Runs = []dto.ProductionRun{}
	}

	workOrders := svc.AllWorkOrders()
	report.WorkOrders = make([]dto.WorkOrderView, 0, len(workOrders))
	for _, wo := range workOrders {
		report.WorkOrders = append(report.WorkOrders, dto.NewWorkOrderView(wo))
	}

	samples, err := rt.Metrics.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, sample := range samples {
		report.Metrics = append(report.Metrics, dto.MetricSample{
			Name:   sample.Name,
			Labels: sample.Labels,
			Value:  sample.Value,
		})
	}
	return report, nil
}
