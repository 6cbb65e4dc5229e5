package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpledger/pkg/application/dto"
)

var reportTime = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func sampleReport() *dto.LedgerReport {
	return &dto.LedgerReport{
		Warehouse:   "MainWarehouse",
		GeneratedAt: reportTime,
		Runs: []dto.ProductionRun{
			{Product: "FG01", Quantity: 5, WorkOrderID: "WO-1000", Succeeded: true},
			{Product: "FG01", Quantity: 1000, Error: "Not enough available stock to reserve for C001"},
		},
		WorkOrders: []dto.WorkOrderView{{
			ID:       "WO-1000",
			Product:  "FG01",
			Quantity: 5,
			Status:   "COMPLETED",
			Issues: []dto.IssueView{
				{ID: "MI-1001", Component: "C001", Quantity: 10, Warehouse: "MainWarehouse", Timestamp: reportTime},
			},
			Report: &dto.ReportView{ID: "PR-1002", Quantity: 4, Yield: decimal.RequireFromString("0.8"), Timestamp: reportTime},
			Text:   "WO-1000 [FG01 x5] Status=COMPLETED\n",
		}},
		Stock: []dto.StockRow{
			{Product: "C001", Available: 490},
			{Product: "FG01", Available: 14},
		},
		Warnings:     []string{"BOM for FG02 references unregistered component C009"},
		Metrics:      []dto.MetricSample{{Name: "mrp_work_orders_total", Labels: map[string]string{"status": "COMPLETED"}, Value: 1}},
		StockSummary: "Warehouse MainWarehouse Stock:\n",
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestGenerate_Text(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Generate(sampleReport(), Config{Format: "text"}, &out))

	text := out.String()
	assert.Contains(t, text, "  FG01 x5 -> WO-1000 COMPLETED\n")
	assert.Contains(t, text, "  FG01 x1000 -> ERROR: Not enough available stock to reserve for C001\n")
	assert.Contains(t, text, "Work Orders:\nWO-1000 [FG01 x5] Status=COMPLETED\n")
	assert.Contains(t, text, "Warehouse MainWarehouse Stock:\n")
	assert.NotContains(t, text, "Warnings:")
	assert.NotContains(t, text, "Metrics:")
}

func TestGenerate_TextVerbose(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Generate(sampleReport(), Config{Format: "text", Verbose: true}, &out))

	text := out.String()
	assert.Contains(t, text, "Warnings:\n  - BOM for FG02 references unregistered component C009\n")
	assert.Contains(t, text, `mrp_work_orders_total{"status":"COMPLETED"} 1`)
}

func TestGenerate_JSON(t *testing.T) {
	t.Run("to writer", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, Generate(sampleReport(), Config{Format: "json"}, &out))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, "MainWarehouse", decoded["warehouse"])
		assert.NotContains(t, decoded, "StockSummary")
		orders := decoded["work_orders"].([]any)
		require.Len(t, orders, 1)
		report := orders[0].(map[string]any)["report"].(map[string]any)
		assert.Equal(t, "0.8", report["yield"])
	})

	t.Run("to directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")
		var out bytes.Buffer
		require.NoError(t, Generate(sampleReport(), Config{Format: "json", OutputDir: dir, Verbose: true}, &out))

		raw, err := os.ReadFile(filepath.Join(dir, "ledger_report.json"))
		require.NoError(t, err)
		assert.True(t, json.Valid(raw))
		assert.Contains(t, out.String(), "JSON report saved to:")
	})
}

func TestGenerate_CSV(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Generate(sampleReport(), Config{Format: "csv", OutputDir: dir}, &bytes.Buffer{}))

	assert.Equal(t, [][]string{
		{"product", "available", "reserved"},
		{"C001", "490", "0"},
		{"FG01", "14", "0"},
	}, readCSV(t, filepath.Join(dir, "stock.csv")))

	assert.Equal(t, [][]string{
		{"id", "product", "quantity", "status", "produced", "yield"},
		{"WO-1000", "FG01", "5", "COMPLETED", "4", "0.8"},
	}, readCSV(t, filepath.Join(dir, "work_orders.csv")))

	assert.Equal(t, [][]string{
		{"id", "work_order", "component", "quantity", "warehouse", "timestamp"},
		{"MI-1001", "WO-1000", "C001", "10", "MainWarehouse", "2024-03-01T09:30:00Z"},
	}, readCSV(t, filepath.Join(dir, "material_issues.csv")))
}

func TestGenerate_Errors(t *testing.T) {
	assert.Error(t, Generate(sampleReport(), Config{Format: "csv"}, &bytes.Buffer{}))
	assert.ErrorContains(t, Generate(sampleReport(), Config{Format: "xml"}, &bytes.Buffer{}), "unsupported output format")
}
