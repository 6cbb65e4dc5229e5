package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpledger/pkg/domain/entities"
)

// LedgerReport is the structured result of a CLI run
type LedgerReport struct {
	Warehouse          string          `json:"warehouse"`
	AtomicReservations bool            `json:"atomic_reservations"`
	GeneratedAt        time.Time       `json:"generated_at"`
	Runs               []ProductionRun `json:"runs"`
	WorkOrders         []WorkOrderView `json:"work_orders"`
	Stock              []StockRow      `json:"stock"`
	Warnings           []string        `json:"warnings,omitempty"`
	Metrics            []MetricSample  `json:"metrics,omitempty"`
	StockSummary       string          `json:"-"`
}

// ProductionRun is the outcome of one requested create/issue/report cycle
type ProductionRun struct {
	Product     entities.ProductCode `json:"product"`
	Quantity    entities.Quantity    `json:"quantity"`
	WorkOrderID string               `json:"work_order_id,omitempty"`
	Succeeded   bool                 `json:"succeeded"`
	Error       string               `json:"error,omitempty"`
}

type WorkOrderView struct {
	ID        string               `json:"id"`
	Product   entities.ProductCode `json:"product"`
	Quantity  entities.Quantity    `json:"quantity"`
	Status    string               `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	Issues    []IssueView          `json:"issues"`
	Report    *ReportView          `json:"report,omitempty"`
	Text      string               `json:"-"`
}

type IssueView struct {
	ID        string               `json:"id"`
	Component entities.ProductCode `json:"component"`
	Quantity  entities.Quantity    `json:"quantity"`
	Warehouse string               `json:"warehouse"`
	Timestamp time.Time            `json:"timestamp"`
}

type ReportView struct {
	ID        string            `json:"id"`
	Quantity  entities.Quantity `json:"quantity"`
	Yield     decimal.Decimal   `json:"yield"`
	Timestamp time.Time         `json:"timestamp"`
}

type StockRow struct {
	Product   entities.ProductCode `json:"product"`
	Available entities.Quantity    `json:"available"`
	Reserved  entities.Quantity    `json:"reserved"`
}

type MetricSample struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	Value  float64           `json:"value"`
}

// NewWorkOrderView flattens a work order and its transactions
func NewWorkOrderView(wo *entities.WorkOrder) WorkOrderView {
	view := WorkOrderView{
		ID:        wo.ID,
		Product:   wo.Product,
		Quantity:  wo.Quantity,
		Status:    wo.Status.String(),
		CreatedAt: wo.CreatedAt,
		Issues:    make([]IssueView, 0, len(wo.Issues)),
		Text:      wo.String(),
	}
	for _, issue := range wo.Issues {
		view.Issues = append(view.Issues, IssueView{
			ID:        issue.ID,
			Component: issue.Component,
			Quantity:  issue.Quantity,
			Warehouse: issue.Warehouse,
			Timestamp: issue.Timestamp,
		})
	}
	if wo.Report != nil {
		view.Report = &ReportView{
			ID:        wo.Report.ID,
			Quantity:  wo.Report.Quantity,
			Yield:     wo.Report.Yield(),
			Timestamp: wo.Report.Timestamp,
		}
	}
	return view
}

// NewStockRows converts ledger levels, keeping their order
func NewStockRows(levels []entities.StockLevel) []StockRow {
	rows := make([]StockRow, 0, len(levels))
	for _, level := range levels {
		rows = append(rows, StockRow{
			Product:   level.Product,
			Available: level.Available,
			Reserved:  level.Reserved,
		})
	}
	return rows
}
