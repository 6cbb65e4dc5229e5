package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vsinha/mrpledger/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
}

// Generate writes the report in the configured format
func Generate(report *dto.LedgerReport, config Config, w io.Writer) error {
	switch config.Format {
	case "text":
		return generateTextOutput(report, config, w)
	case "json":
		return generateJSONOutput(report, config, w)
	case "csv":
		return generateCSVOutput(report, config, w)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput writes the work order listing followed by the stock table
func generateTextOutput(report *dto.LedgerReport, config Config, w io.Writer) error {
	if len(report.Runs) > 0 {
		fmt.Fprintf(w, "Production Runs:\n")
		for _, run := range report.Runs {
			if run.Succeeded {
				fmt.Fprintf(w, "  %s x%d -> %s COMPLETED\n", run.Product, run.Quantity, run.WorkOrderID)
				continue
			}
			fmt.Fprintf(w, "  %s x%d -> ERROR: %s\n", run.Product, run.Quantity, run.Error)
		}
		fmt.Fprintln(w)
	}

	if config.Verbose && len(report.Warnings) > 0 {
		fmt.Fprintf(w, "Warnings:\n")
		for _, warning := range report.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Work Orders:\n")
	for _, wo := range report.WorkOrders {
		fmt.Fprint(w, wo.Text)
	}
	fmt.Fprintln(w)

	fmt.Fprint(w, report.StockSummary)

	if config.Verbose && len(report.Metrics) > 0 {
		fmt.Fprintf(w, "\nMetrics:\n")
		for _, sample := range report.Metrics {
			fmt.Fprintf(w, "  %s%s %g\n", sample.Name, formatLabels(sample.Labels), sample.Value)
		}
	}
	return nil
}

func generateJSONOutput(report *dto.LedgerReport, config Config, w io.Writer) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		_, err = fmt.Fprintln(w, string(jsonData))
		return err
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(config.OutputDir, "ledger_report.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	if config.Verbose {
		fmt.Fprintf(w, "JSON report saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput writes stock.csv, work_orders.csv and material_issues.csv
func generateCSVOutput(report *dto.LedgerReport, config Config, w io.Writer) error {
	if config.OutputDir == "" {
		return fmt.Errorf("csv output requires an output directory")
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	stock := [][]string{{"product", "available", "reserved"}}
	for _, row := range report.Stock {
		stock = append(stock, []string{
			string(row.Product),
			strconv.FormatInt(int64(row.Available), 10),
			strconv.FormatInt(int64(row.Reserved), 10),
		})
	}

	orders := [][]string{{"id", "product", "quantity", "status", "produced", "yield"}}
	issues := [][]string{{"id", "work_order", "component", "quantity", "warehouse", "timestamp"}}
	for _, wo := range report.WorkOrders {
		produced, yield := "", ""
		if wo.Report != nil {
			produced = strconv.FormatInt(int64(wo.Report.Quantity), 10)
			yield = wo.Report.Yield.String()
		}
		orders = append(orders, []string{
			wo.ID, string(wo.Product), strconv.FormatInt(int64(wo.Quantity), 10), wo.Status, produced, yield,
		})
		for _, issue := range wo.Issues {
			issues = append(issues, []string{
				issue.ID, wo.ID, string(issue.Component), strconv.FormatInt(int64(issue.Quantity), 10),
				issue.Warehouse, issue.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			})
		}
	}

	files := []struct {
		name string
		rows [][]string
	}{
		{"stock.csv", stock},
		{"work_orders.csv", orders},
		{"material_issues.csv", issues},
	}
	for _, f := range files {
		filename := filepath.Join(config.OutputDir, f.name)
		if err := writeCSV(filename, f.rows); err != nil {
			return err
		}
		if config.Verbose {
			fmt.Fprintf(w, "CSV written to: %s\n", filename)
		}
	}
	return nil
}

func writeCSV(filename string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	raw, err := json.Marshal(labels)
	if err != nil {
		return ""
	}
	return string(raw)
}
