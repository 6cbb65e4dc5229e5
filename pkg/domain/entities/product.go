package entities

import "fmt"

// ProductCode represents a unique product or component identifier
type ProductCode string

// Quantity represents an integer quantity value for discrete manufacturing units
type Quantity int64

// Product represents a finished good or a component held in the warehouse
type Product struct {
	Code ProductCode
	Name string
}

// NewProduct creates a validated Product
func NewProduct(code ProductCode, name string) (*Product, error) {
	if string(code) == "" {
		return nil, NewInvalidArgumentError("INVALID_PRODUCT_CODE", "product code cannot be empty")
	}
	return &Product{
		Code: code,
		Name: name,
	}, nil
}

// Rename changes the display name; the code is immutable
func (p *Product) Rename(name string) {
	p.Name = name
}

func (p Product) String() string {
	return fmt.Sprintf("%s [%s]", p.Name, p.Code)
}
