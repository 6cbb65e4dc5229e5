package entities

import (
	"fmt"
	"strings"
	"time"
)

// WorkOrderStatus represents the lifecycle stage of a work order.
// Values are ordered; a work order never moves to a lower value.
type WorkOrderStatus int

const (
	Created WorkOrderStatus = iota
	MaterialReserved
	MaterialIssued
	// InProduction is declared for completeness but no operation assigns it
	InProduction
	Completed
)

// String method for WorkOrderStatus enum
func (s WorkOrderStatus) String() string {
	switch s {
	case Created:
		return "CREATED"
	case MaterialReserved:
		return "MATERIAL_RESERVED"
	case MaterialIssued:
		return "MATERIAL_ISSUED"
	case InProduction:
		return "IN_PRODUCTION"
	case Completed:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// WorkOrder is a request to produce a quantity of a product, tracked through
// reservation, issue and completion
type WorkOrder struct {
	ID        string
	Product   ProductCode
	Quantity  Quantity
	Status    WorkOrderStatus
	CreatedAt time.Time
	Issues    []MaterialIssue
	Report    *ProductionReport
}

// NewWorkOrder creates a validated WorkOrder in the Created status
func NewWorkOrder(id string, product ProductCode, quantity Quantity, createdAt time.Time) (*WorkOrder, error) {
	if id == "" {
		return nil, NewInvalidArgumentError("INVALID_WORK_ORDER_ID", "work order id cannot be empty")
	}
	if string(product) == "" {
		return nil, NewInvalidArgumentError("INVALID_PRODUCT_CODE", "product code cannot be empty")
	}
	if quantity <= 0 {
		return nil, NewInvalidArgumentError("INVALID_QUANTITY", "work order quantity must be positive, got %d", quantity)
	}
	return &WorkOrder{
		ID:        id,
		Product:   product,
		Quantity:  quantity,
		Status:    Created,
		CreatedAt: createdAt,
	}, nil
}

// Ref returns the identifying reference stored on transactions
func (w *WorkOrder) Ref() WorkOrderRef {
	return WorkOrderRef{ID: w.ID, Product: w.Product, Quantity: w.Quantity}
}

// Advance moves the work order forward to the given status.
// Moving to the current status is a no-op; moving backwards fails.
func (w *WorkOrder) Advance(to WorkOrderStatus) error {
	if to < w.Status {
		return NewInvalidOperationError("INVALID_TRANSITION",
			"work order %s cannot move from %s to %s", w.ID, w.Status, to)
	}
	w.Status = to
	return nil
}

// RecordIssue appends a material issue to the work order history
func (w *WorkOrder) RecordIssue(issue MaterialIssue) {
	w.Issues = append(w.Issues, issue)
}

// AttachReport attaches the single production report of the work order
func (w *WorkOrder) AttachReport(report ProductionReport) error {
	if w.Report != nil {
		return NewInvalidOperationError("REPORT_EXISTS",
			"work order %s already has production report %s", w.ID, w.Report.ID)
	}
	w.Report = &report
	return nil
}

// IssuedQuantity sums every issue recorded for a component
func (w *WorkOrder) IssuedQuantity(component ProductCode) Quantity {
	var total Quantity
	for _, issue := range w.Issues {
		if issue.Component == component {
			total += issue.Quantity
		}
	}
	return total
}

// Transactions lists the issues in order followed by the production report, if any
func (w *WorkOrder) Transactions() []Transaction {
	txs := make([]Transaction, 0, len(w.Issues)+1)
	for _, issue := range w.Issues {
		txs = append(txs, issue)
	}
	if w.Report != nil {
		txs = append(txs, *w.Report)
	}
	return txs
}

// Snapshot returns a deep copy that shares no mutable state with w
func (w *WorkOrder) Snapshot() *WorkOrder {
	cp := &WorkOrder{
		ID:        w.ID,
		Product:   w.Product,
		Quantity:  w.Quantity,
		Status:    w.Status,
		CreatedAt: w.CreatedAt,
	}
	if len(w.Issues) > 0 {
		cp.Issues = make([]MaterialIssue, len(w.Issues))
		copy(cp.Issues, w.Issues)
	}
	if w.Report != nil {
		report := *w.Report
		cp.Report = &report
	}
	return cp
}

// Summary renders the short form used in transaction descriptions
func (w *WorkOrder) Summary() string {
	return w.Ref().String()
}

func (w *WorkOrder) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s Status=%s\n", w.Summary(), w.Status)
	if len(w.Issues) > 0 {
		sb.WriteString("  Material Issues:\n")
		for _, issue := range w.Issues {
			fmt.Fprintf(&sb, "    %s\n", issue.Describe())
		}
	}
	if w.Report != nil {
		fmt.Fprintf(&sb, "  Production: %s\n", w.Report.Describe())
	}
	return sb.String()
}
