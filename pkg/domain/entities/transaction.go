package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind tags the variant of an inventory transaction
type TransactionKind int

const (
	TransactionKindMaterialIssue TransactionKind = iota
	TransactionKindProductionReport
)

// String method for TransactionKind enum
func (k TransactionKind) String() string {
	switch k {
	case TransactionKindMaterialIssue:
		return "MaterialIssue"
	case TransactionKindProductionReport:
		return "ProductionReport"
	default:
		return "Unknown"
	}
}

// TransactionHeader holds the fields shared by every inventory transaction
type TransactionHeader struct {
	ID        string
	Timestamp time.Time
}

// Transaction is an immutable inventory record attached to a work order.
// The set of variants is closed: MaterialIssue and ProductionReport.
type Transaction interface {
	Header() TransactionHeader
	Kind() TransactionKind
	Describe() string
	transaction()
}

// WorkOrderRef identifies the work order a transaction was booked against
type WorkOrderRef struct {
	ID       string
	Product  ProductCode
	Quantity Quantity
}

func (r WorkOrderRef) String() string {
	return fmt.Sprintf("%s [%s x%d]", r.ID, r.Product, r.Quantity)
}

// MaterialIssue records reserved component stock consumed by a work order
type MaterialIssue struct {
	TransactionHeader
	WorkOrder WorkOrderRef
	Warehouse string
	Component ProductCode
	Quantity  Quantity
}

// ProductionReport records finished units reported against a work order
type ProductionReport struct {
	TransactionHeader
	WorkOrder WorkOrderRef
	Quantity  Quantity
}

var (
	_ Transaction = MaterialIssue{}
	_ Transaction = ProductionReport{}
)

func (m MaterialIssue) Header() TransactionHeader { return m.TransactionHeader }
func (m MaterialIssue) Kind() TransactionKind     { return TransactionKindMaterialIssue }
func (m MaterialIssue) transaction()              {}

// Describe renders the issue as a single log/report line
func (m MaterialIssue) Describe() string {
	return fmt.Sprintf("%s: Issued %d of %s from %s for %s",
		m.ID, m.Quantity, m.Component, m.Warehouse, m.WorkOrder)
}

func (p ProductionReport) Header() TransactionHeader { return p.TransactionHeader }
func (p ProductionReport) Kind() TransactionKind     { return TransactionKindProductionReport }
func (p ProductionReport) transaction()              {}

// Describe renders the report as a single log/report line
func (p ProductionReport) Describe() string {
	return fmt.Sprintf("%s: Produced %d units for %s", p.ID, p.Quantity, p.WorkOrder)
}

// Yield returns produced / requested units, rounded to four places
func (p ProductionReport) Yield() decimal.Decimal {
	if p.WorkOrder.Quantity <= 0 {
		return decimal.Zero
	}
	produced := decimal.NewFromInt(int64(p.Quantity))
	requested := decimal.NewFromInt(int64(p.WorkOrder.Quantity))
	return produced.DivRound(requested, 4)
}
