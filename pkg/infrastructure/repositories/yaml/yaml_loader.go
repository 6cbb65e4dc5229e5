package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vsinha/mrpledger/pkg/application/dto"
)

// Loader reads seed data from YAML documents of the form
//
//	products:
//	  - {code: C001, name: Component-1, initial_stock: 500}
//	boms:
//	  - product: FG01
//	    items:
//	      - {component: C001, qty_per: 2}
type Loader struct{}

// NewLoader creates a new YAML loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile reads and parses a seed file
func (l *Loader) LoadFile(filename string) (*dto.SeedData, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", filename, err)
	}
	data, err := l.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", filename, err)
	}
	return data, nil
}

// Parse decodes a seed document; unknown keys are rejected
func (l *Loader) Parse(content []byte) (*dto.SeedData, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)

	var data dto.SeedData
	if err := decoder.Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("seed document is empty")
		}
		return nil, fmt.Errorf("failed to parse seed YAML: %w", err)
	}

	for i, product := range data.Products {
		if product.Code == "" {
			return nil, fmt.Errorf("product %d: empty code", i+1)
		}
	}
	for i, bom := range data.BOMs {
		if bom.Product == "" {
			return nil, fmt.Errorf("bom %d: empty product", i+1)
		}
	}
	return &data, nil
}
