package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_Describe(t *testing.T) {
	ref := WorkOrderRef{ID: "WO-1002", Product: "FG01", Quantity: 5}

	issue := MaterialIssue{
		TransactionHeader: TransactionHeader{ID: "MI-1003"},
		WorkOrder:         ref,
		Warehouse:         "MainWarehouse",
		Component:         "C001",
		Quantity:          10,
	}
	assert.Equal(t, "MI-1003: Issued 10 of C001 from MainWarehouse for WO-1002 [FG01 x5]", issue.Describe())
	assert.Equal(t, "MaterialIssue", issue.Kind().String())

	report := ProductionReport{
		TransactionHeader: TransactionHeader{ID: "PR-1005"},
		WorkOrder:         ref,
		Quantity:          5,
	}
	assert.Equal(t, "PR-1005: Produced 5 units for WO-1002 [FG01 x5]", report.Describe())
	assert.Equal(t, "ProductionReport", report.Kind().String())
}

func TestProductionReport_Yield(t *testing.T) {
	tests := []struct {
		name      string
		produced  Quantity
		requested Quantity
		expected  string
	}{
		{"full", 5, 5, "1"},
		{"partial", 2, 3, "0.6667"},
		{"quarter", 1, 4, "0.25"},
		{"no requested quantity", 1, 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ProductionReport{
				WorkOrder: WorkOrderRef{ID: "WO-1", Product: "FG01", Quantity: tt.requested},
				Quantity:  tt.produced,
			}
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(report.Yield()),
				"expected %s, got %s", tt.expected, report.Yield())
		})
	}
}
