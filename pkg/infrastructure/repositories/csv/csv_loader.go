package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vsinha/mrpledger/pkg/application/dto"
	"github.com/vsinha/mrpledger/pkg/domain/entities"
)

// Scenario file names
const (
	ProductsFile = "products.csv"
	BOMFile      = "bom.csv"
)

var (
	productsHeader = []string{"code", "name", "initial_stock"}
	bomHeader      = []string{"parent_code", "component_code", "qty_per"}
)

// Loader handles loading seed data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadScenario loads products.csv and bom.csv from dir
func (l *Loader) LoadScenario(dir string) (*dto.SeedData, error) {
	products, err := l.LoadProducts(filepath.Join(dir, ProductsFile))
	if err != nil {
		return nil, err
	}
	boms, err := l.LoadBOMs(filepath.Join(dir, BOMFile))
	if err != nil {
		return nil, err
	}
	return &dto.SeedData{Products: products, BOMs: boms}, nil
}

// LoadProducts loads product records from a CSV file
func (l *Loader) LoadProducts(filename string) ([]dto.ProductRecord, error) {
	records, err := readRecords(filename, "products", productsHeader)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("products CSV must have header and at least one data row")
	}

	products := make([]dto.ProductRecord, 0, len(records))
	for i, record := range records {
		product, err := parseProduct(record)
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		products = append(products, product)
	}
	return products, nil
}

// LoadBOMs loads BOM lines from a CSV file, grouped by parent in order of first appearance.
// Lines keep their file order within each BOM.
func (l *Loader) LoadBOMs(filename string) ([]dto.BOMRecord, error) {
	records, err := readRecords(filename, "BOM", bomHeader)
	if err != nil {
		return nil, err
	}

	var boms []dto.BOMRecord
	index := make(map[entities.ProductCode]int)
	for i, record := range records {
		parent, line, err := parseBOMLine(record)
		if err != nil {
			return nil, fmt.Errorf("BOM CSV row %d: %w", i+2, err)
		}
		pos, exists := index[parent]
		if !exists {
			pos = len(boms)
			index[parent] = pos
			boms = append(boms, dto.BOMRecord{Product: parent})
		}
		boms[pos].Items = append(boms[pos].Items, line)
	}
	return boms, nil
}

// readRecords returns the data rows of a CSV file after validating its header and row widths
func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s CSV is missing its header", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}
	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseProduct(record []string) (dto.ProductRecord, error) {
	code := strings.TrimSpace(record[0])
	if code == "" {
		return dto.ProductRecord{}, fmt.Errorf("empty code")
	}

	initialStock, err := strconv.ParseInt(strings.TrimSpace(record[2]), 10, 64)
	if err != nil {
		return dto.ProductRecord{}, fmt.Errorf("invalid initial_stock: %s", record[2])
	}

	return dto.ProductRecord{
		Code:         entities.ProductCode(code),
		Name:         strings.TrimSpace(record[1]),
		InitialStock: entities.Quantity(initialStock),
	}, nil
}

func parseBOMLine(record []string) (entities.ProductCode, dto.BOMLineRecord, error) {
	parent := strings.TrimSpace(record[0])
	if parent == "" {
		return "", dto.BOMLineRecord{}, fmt.Errorf("empty parent_code")
	}

	qtyPer, err := strconv.ParseInt(strings.TrimSpace(record[2]), 10, 64)
	if err != nil {
		return "", dto.BOMLineRecord{}, fmt.Errorf("invalid qty_per: %s", record[2])
	}

	return entities.ProductCode(parent), dto.BOMLineRecord{
		Component: entities.ProductCode(strings.TrimSpace(record[1])),
		QtyPer:    entities.Quantity(qtyPer),
	}, nil
}
