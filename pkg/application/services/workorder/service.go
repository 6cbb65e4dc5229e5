package workorder

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/vsinha/mrpledger/pkg/domain/entities"
	"github.com/vsinha/mrpledger/pkg/domain/repositories"
	"github.com/vsinha/mrpledger/pkg/domain/services"
	"github.com/vsinha/mrpledger/pkg/infrastructure/events"
	"github.com/vsinha/mrpledger/pkg/infrastructure/metrics"
	"github.com/vsinha/mrpledger/pkg/infrastructure/repositories/memory"
)

// BOMLineInput is one (component, quantity per finished unit) pair passed to DefineBOM
type BOMLineInput struct {
	Component entities.ProductCode
	QtyPer    entities.Quantity
}

// Service coordinates the product registry, BOM store, work orders and the stock ledger.
//
// Every operation on an existing work order holds that work order's lock for its
// whole duration. Ledger calls are individually atomic; multi-line reservation and
// bulk issue are only atomic across lines when atomic reservations are enabled.
type Service struct {
	ledger     repositories.StockLedger
	products   repositories.ProductRepository
	boms       repositories.BOMRepository
	workOrders repositories.WorkOrderRepository

	ids        services.IDGenerator
	clock      services.Clock
	logger     *zap.Logger
	eventStore events.EventStore
	metrics    *metrics.LedgerMetrics
	atomic     bool

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewService creates a work order service backed by ledger
func NewService(ledger repositories.StockLedger, opts ...Option) (*Service, error) {
	if ledger == nil {
		return nil, fmt.Errorf("stock ledger is required")
	}

	s := &Service{
		ledger:     ledger,
		products:   memory.NewProductRepository(16),
		boms:       memory.NewBOMRepository(16),
		workOrders: memory.NewWorkOrderRepository(),
		ids:        services.NewSequenceGenerator(services.DefaultSequenceStart),
		clock:      services.SystemClock{},
		logger:     zap.NewNop(),
		locks:      make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AtomicReservations reports whether multi-line operations are all-or-nothing
func (s *Service) AtomicReservations() bool {
	return s.atomic
}

// AddProduct registers a product and receives its initial stock
func (s *Service) AddProduct(ctx context.Context, code entities.ProductCode, name string, initialStock entities.Quantity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	product, err := entities.NewProduct(code, name)
	if err != nil {
		return err
	}
	if err := s.products.Add(product); err != nil {
		s.logger.Warn("product registration rejected", zap.String("product", string(code)), zap.Error(err))
		return err
	}

	now := s.clock.Now()
	s.publish(string(code), events.NewProductRegisteredEvent(*product, initialStock, now))
	if initialStock > 0 {
		s.ledger.AddStock(code, initialStock)
		s.metrics.RecordStockOperation(metrics.OpReceive, int64(initialStock), nil)
		s.publish(string(code), events.NewStockReceivedEvent(code, initialStock, "initial", now))
	}

	s.logger.Debug("product registered",
		zap.String("product", string(code)),
		zap.Int64("quantity", int64(initialStock)))
	return nil
}

// GetProduct returns the registered product; unknown codes fail with InvalidOperation
func (s *Service) GetProduct(code entities.ProductCode) (*entities.Product, error) {
	return s.products.Get(code)
}

// Products returns registered products in registration order
func (s *Service) Products() []*entities.Product {
	return s.products.All()
}

// DefineBOM replaces the BOM of a registered product.
// Components are not required to be registered.
func (s *Service) DefineBOM(ctx context.Context, code entities.ProductCode, lines []BOMLineInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !s.products.Exists(code) {
		err := entities.NewInvalidOperationError("PRODUCT_NOT_FOUND", "Product not found: %s", code)
		s.logger.Warn("bom definition rejected", zap.String("product", string(code)), zap.Error(err))
		return err
	}

	items := make([]entities.BOMItem, 0, len(lines))
	for _, line := range lines {
		item, err := entities.NewBOMItem(line.Component, line.QtyPer)
		if err != nil {
			return err
		}
		items = append(items, *item)
	}
	bom, err := entities.NewBOM(code, items)
	if err != nil {
		return err
	}
	s.boms.Define(bom)

	s.publish(string(code), events.NewBOMDefinedEvent(bom, s.clock.Now()))
	s.logger.Debug("bom defined", zap.String("product", string(code)), zap.Int("lines", len(items)))
	return nil
}

// GetBOM returns the BOM of a product, if one is defined
func (s *Service) GetBOM(code entities.ProductCode) (*entities.BOM, bool) {
	return s.boms.Get(code)
}

// CreateWorkOrder reserves every BOM line scaled by qty and stores a new work order
// in MATERIAL_RESERVED. A failing reservation returns InsufficientStock; unless atomic
// reservations are enabled, lines reserved before it stay reserved.
func (s *Service) CreateWorkOrder(ctx context.Context, code entities.ProductCode, qty entities.Quantity) (*entities.WorkOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !s.products.Exists(code) {
		return nil, entities.NewInvalidOperationError("PRODUCT_NOT_FOUND", "Product not found: %s", code)
	}
	bom, ok := s.boms.Get(code)
	if !ok {
		return nil, entities.NewInvalidOperationError("BOM_NOT_DEFINED", "BOM not defined for: %s", code)
	}

	if qty <= 0 {
		return nil, entities.NewInvalidArgumentError("INVALID_QUANTITY", "work order quantity must be positive, got %d", qty)
	}
	reqs, err := bom.Requirements(qty)
	if err != nil {
		return nil, err
	}

	wo, err := entities.NewWorkOrder(s.ids.Next(services.WorkOrderPrefix), code, qty, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.reserve(wo, reqs); err != nil {
		s.logger.Warn("work order reservation failed",
			zap.String("work_order", wo.ID),
			zap.String("product", string(code)),
			zap.Int64("quantity", int64(qty)),
			zap.Error(err))
		return nil, err
	}

	if err := wo.Advance(entities.MaterialReserved); err != nil {
		return nil, err
	}
	// Held until the snapshot so operations on the new id wait for creation to finish
	lock := s.lockFor(wo.ID)
	lock.Lock()
	defer lock.Unlock()
	s.workOrders.Save(wo)
	s.metrics.RecordWorkOrderStatus(wo.Status.String())

	s.publish(wo.ID, events.NewWorkOrderCreatedEvent(wo))
	s.publish(wo.ID, events.NewStockReservedEvent(wo.ID, reqs, wo.CreatedAt))
	s.logger.Debug("work order created",
		zap.String("work_order", wo.ID),
		zap.String("product", string(code)),
		zap.Int64("quantity", int64(qty)))
	return wo.Snapshot(), nil
}

func (s *Service) reserve(wo *entities.WorkOrder, reqs []entities.Requirement) error {
	if s.atomic {
		err := s.ledger.ReserveAll(reqs)
		s.metrics.RecordStockOperation(metrics.OpReserve, totalUnits(reqs), err)
		if err != nil {
			return fmt.Errorf("reserving materials for %s: %w", wo.ID, err)
		}
		return nil
	}
	for _, req := range reqs {
		err := s.ledger.Reserve(req.Component, req.Quantity)
		s.metrics.RecordStockOperation(metrics.OpReserve, int64(req.Quantity), err)
		if err != nil {
			return fmt.Errorf("reserving %d of %s for %s: %w", req.Quantity, req.Component, wo.ID, err)
		}
	}
	return nil
}

// IssueMaterial consumes qty of a component from reserved stock against a work order.
// The issued quantity is not checked against the BOM; it is bounded by reserved stock only.
func (s *Service) IssueMaterial(ctx context.Context, woID string, component entities.ProductCode, qty entities.Quantity) (entities.MaterialIssue, error) {
	if err := ctx.Err(); err != nil {
		return entities.MaterialIssue{}, err
	}

	wo, unlock, err := s.acquire(woID)
	if err != nil {
		return entities.MaterialIssue{}, err
	}
	defer unlock()

	if err := requireIssuable(wo); err != nil {
		return entities.MaterialIssue{}, err
	}
	if !s.products.Exists(component) {
		return entities.MaterialIssue{}, entities.NewInvalidOperationError("COMPONENT_NOT_FOUND",
			"Component not found: %s", component)
	}

	err = s.ledger.IssueReserved(component, qty)
	s.metrics.RecordStockOperation(metrics.OpIssue, int64(qty), err)
	if err != nil {
		s.logger.Warn("material issue failed",
			zap.String("work_order", wo.ID),
			zap.String("component", string(component)),
			zap.Int64("quantity", int64(qty)),
			zap.Error(err))
		return entities.MaterialIssue{}, fmt.Errorf("issuing %d of %s for %s: %w", qty, component, wo.ID, err)
	}

	issue := s.recordIssue(wo, component, qty)
	if wo.Status == entities.MaterialReserved {
		if err := s.advance(wo, entities.MaterialIssued); err != nil {
			return entities.MaterialIssue{}, err
		}
	}
	return issue, nil
}

// IssueMaterialsForWorkOrder issues every BOM line scaled by the work order quantity,
// one MaterialIssue per line in BOM order. Unless atomic reservations are enabled, a
// failing line leaves the issues before it recorded and the status unchanged.
func (s *Service) IssueMaterialsForWorkOrder(ctx context.Context, woID string) ([]entities.MaterialIssue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wo, unlock, err := s.acquire(woID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	bom, ok := s.boms.Get(wo.Product)
	if !ok {
		return nil, entities.NewInvalidOperationError("BOM_NOT_DEFINED", "BOM not defined for: %s", wo.Product)
	}
	if err := requireIssuable(wo); err != nil {
		return nil, err
	}

	reqs, err := bom.Requirements(wo.Quantity)
	if err != nil {
		return nil, err
	}
	if s.atomic {
		err := s.ledger.IssueAll(reqs)
		s.metrics.RecordStockOperation(metrics.OpIssue, totalUnits(reqs), err)
		if err != nil {
			s.logger.Warn("bulk material issue failed", zap.String("work_order", wo.ID), zap.Error(err))
			return nil, fmt.Errorf("issuing materials for %s: %w", wo.ID, err)
		}
	}

	issued := make([]entities.MaterialIssue, 0, len(reqs))
	for _, req := range reqs {
		if !s.atomic {
			err := s.ledger.IssueReserved(req.Component, req.Quantity)
			s.metrics.RecordStockOperation(metrics.OpIssue, int64(req.Quantity), err)
			if err != nil {
				s.logger.Warn("bulk material issue failed",
					zap.String("work_order", wo.ID),
					zap.String("component", string(req.Component)),
					zap.Int64("quantity", int64(req.Quantity)),
					zap.Int("issued_lines", len(issued)),
					zap.Error(err))
				return nil, fmt.Errorf("issuing %d of %s for %s: %w", req.Quantity, req.Component, wo.ID, err)
			}
		}
		issued = append(issued, s.recordIssue(wo, req.Component, req.Quantity))
	}

	if err := s.advance(wo, entities.MaterialIssued); err != nil {
		return nil, err
	}
	return issued, nil
}

// ReportProduction completes a work order in MATERIAL_ISSUED, adding producedQty of
// the finished product to available stock
func (s *Service) ReportProduction(ctx context.Context, woID string, producedQty entities.Quantity) (entities.ProductionReport, error) {
	if err := ctx.Err(); err != nil {
		return entities.ProductionReport{}, err
	}

	wo, unlock, err := s.acquire(woID)
	if err != nil {
		return entities.ProductionReport{}, err
	}
	defer unlock()

	if wo.Status != entities.MaterialIssued {
		err := entities.NewInvalidOperationError("MATERIALS_NOT_ISSUED",
			"Materials must be issued before production reporting.")
		s.logger.Warn("production report rejected",
			zap.String("work_order", wo.ID),
			zap.Stringer("status", wo.Status))
		return entities.ProductionReport{}, err
	}
	if producedQty <= 0 || producedQty > wo.Quantity {
		return entities.ProductionReport{}, entities.NewInvalidOperationError("INVALID_PRODUCED_QUANTITY",
			"Produced quantity invalid.")
	}

	report := entities.ProductionReport{
		TransactionHeader: entities.TransactionHeader{
			ID:        s.ids.Next(services.ProductionReportPrefix),
			Timestamp: s.clock.Now(),
		},
		WorkOrder: wo.Ref(),
		Quantity:  producedQty,
	}
	if err := wo.AttachReport(report); err != nil {
		return entities.ProductionReport{}, err
	}

	s.ledger.AddStock(wo.Product, producedQty)
	s.metrics.RecordStockOperation(metrics.OpProduce, int64(producedQty), nil)
	if err := s.advance(wo, entities.Completed); err != nil {
		return entities.ProductionReport{}, err
	}

	s.publish(wo.ID, events.NewProductionReportedEvent(report))
	s.publish(string(wo.Product), events.NewStockReceivedEvent(wo.Product, producedQty, wo.ID, report.Timestamp))
	s.logger.Debug("production reported",
		zap.String("work_order", wo.ID),
		zap.String("product", string(wo.Product)),
		zap.Int64("quantity", int64(producedQty)),
		zap.Stringer("yield", report.Yield()))
	return report, nil
}

// WorkOrder returns a snapshot of one work order
func (s *Service) WorkOrder(id string) (*entities.WorkOrder, error) {
	wo, unlock, err := s.acquire(id)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return wo.Snapshot(), nil
}

// AllWorkOrders returns snapshots of every work order in creation order
func (s *Service) AllWorkOrders() []*entities.WorkOrder {
	all := s.workOrders.All()
	snapshots := make([]*entities.WorkOrder, 0, len(all))
	for _, wo := range all {
		lock := s.lockFor(wo.ID)
		lock.Lock()
		snapshots = append(snapshots, wo.Snapshot())
		lock.Unlock()
	}
	return snapshots
}

// Transactions returns the material issues of a work order followed by its production report
func (s *Service) Transactions(woID string) ([]entities.Transaction, error) {
	wo, unlock, err := s.acquire(woID)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return wo.Transactions(), nil
}

// WarehouseSummary renders the stock table of every touched product code
func (s *Service) WarehouseSummary() string {
	return s.ledger.Summary()
}

// StockLevels returns the stock of every touched product code sorted by code
func (s *Service) StockLevels() []entities.StockLevel {
	return s.ledger.Levels()
}

// WarehouseName returns the name of the ledger's warehouse
func (s *Service) WarehouseName() string {
	return s.ledger.Name()
}

// acquire looks up a stored work order and locks it; callers must call unlock
func (s *Service) acquire(id string) (*entities.WorkOrder, func(), error) {
	wo, err := s.workOrders.Get(id)
	if err != nil {
		return nil, nil, err
	}
	lock := s.lockFor(id)
	lock.Lock()
	return wo, lock.Unlock, nil
}

func (s *Service) lockFor(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func (s *Service) recordIssue(wo *entities.WorkOrder, component entities.ProductCode, qty entities.Quantity) entities.MaterialIssue {
	issue := entities.MaterialIssue{
		TransactionHeader: entities.TransactionHeader{
			ID:        s.ids.Next(services.MaterialIssuePrefix),
			Timestamp: s.clock.Now(),
		},
		WorkOrder: wo.Ref(),
		Warehouse: s.ledger.Name(),
		Component: component,
		Quantity:  qty,
	}
	wo.RecordIssue(issue)

	s.publish(wo.ID, events.NewMaterialIssuedEvent(issue))
	s.logger.Debug("material issued",
		zap.String("work_order", wo.ID),
		zap.String("component", string(component)),
		zap.Int64("quantity", int64(qty)))
	return issue
}

func (s *Service) advance(wo *entities.WorkOrder, to entities.WorkOrderStatus) error {
	from := wo.Status
	if err := wo.Advance(to); err != nil {
		return err
	}
	if from != to {
		s.metrics.RecordWorkOrderStatus(to.String())
	}
	return nil
}

func (s *Service) publish(streamID string, event events.Event) {
	if s.eventStore == nil {
		return
	}
	if err := s.eventStore.AppendEvent(streamID, event); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("event_type", event.Type()),
			zap.String("stream", streamID),
			zap.Error(err))
	}
}

// requireIssuable rejects work orders that hold no reservations or are already completed
func requireIssuable(wo *entities.WorkOrder) error {
	switch wo.Status {
	case entities.Created:
		return entities.NewInvalidOperationError("MATERIALS_NOT_RESERVED", "Materials not reserved yet.")
	case entities.Completed:
		return entities.NewInvalidOperationError("WORK_ORDER_COMPLETED", "WorkOrder already completed: %s", wo.ID)
	}
	return nil
}

func totalUnits(reqs []entities.Requirement) int64 {
	var total int64
	for _, req := range reqs {
		total += int64(req.Quantity)
	}
	return total
}
