package events

import (
	"time"

	"github.com/vsinha/mrpledger/pkg/domain/entities"
)

const (
	ProductRegisteredEvent = "product.registered"
	BOMDefinedEvent        = "bom.defined"

	WorkOrderCreatedEvent = "workorder.created"

	StockReservedEvent = "stock.reserved"
	StockReceivedEvent = "stock.received"

	MaterialIssuedEvent     = "material.issued"
	ProductionReportedEvent = "production.reported"
)

type ProductRegistered struct {
	Product      entities.Product  `json:"product"`
	InitialStock entities.Quantity `json:"initial_stock"`
}

type BOMDefined struct {
	Product entities.ProductCode `json:"product"`
	Items   []entities.BOMItem   `json:"items"`
}

type WorkOrderCreated struct {
	WorkOrder entities.WorkOrderRef `json:"work_order"`
}

type StockReserved struct {
	WorkOrder    string                 `json:"work_order"`
	Requirements []entities.Requirement `json:"requirements"`
}

type StockReceived struct {
	Product  entities.ProductCode `json:"product"`
	Quantity entities.Quantity    `json:"quantity"`
	Source   string               `json:"source"`
}

type MaterialIssued struct {
	Issue entities.MaterialIssue `json:"issue"`
}

type ProductionReported struct {
	Report entities.ProductionReport `json:"report"`
}

func NewProductRegisteredEvent(product entities.Product, initialStock entities.Quantity, at time.Time) Event {
	return NewEvent(ProductRegisteredEvent, string(product.Code), ProductRegistered{
		Product:      product,
		InitialStock: initialStock,
	}, at)
}

func NewBOMDefinedEvent(bom *entities.BOM, at time.Time) Event {
	items := make([]entities.BOMItem, len(bom.Items))
	copy(items, bom.Items)
	return NewEvent(BOMDefinedEvent, string(bom.Product), BOMDefined{Product: bom.Product, Items: items}, at)
}

func NewWorkOrderCreatedEvent(wo *entities.WorkOrder) Event {
	return NewEvent(WorkOrderCreatedEvent, wo.ID, WorkOrderCreated{WorkOrder: wo.Ref()}, wo.CreatedAt)
}

func NewStockReservedEvent(workOrderID string, reqs []entities.Requirement, at time.Time) Event {
	owned := make([]entities.Requirement, len(reqs))
	copy(owned, reqs)
	return NewEvent(StockReservedEvent, workOrderID, StockReserved{
		WorkOrder:    workOrderID,
		Requirements: owned,
	}, at)
}

// NewStockReceivedEvent records stock added to a product, keyed by product code
func NewStockReceivedEvent(product entities.ProductCode, qty entities.Quantity, source string, at time.Time) Event {
	return NewEvent(StockReceivedEvent, string(product), StockReceived{
		Product:  product,
		Quantity: qty,
		Source:   source,
	}, at)
}

func NewMaterialIssuedEvent(issue entities.MaterialIssue) Event {
	return NewEvent(MaterialIssuedEvent, issue.WorkOrder.ID, MaterialIssued{Issue: issue}, issue.Timestamp)
}

func NewProductionReportedEvent(report entities.ProductionReport) Event {
	return NewEvent(ProductionReportedEvent, report.WorkOrder.ID, ProductionReported{Report: report}, report.Timestamp)
}
