package entities

import (
	"fmt"
	"math"
	"strings"
)

// BOMItem represents a single component line of a Bill of Materials
type BOMItem struct {
	Component ProductCode
	QtyPer    Quantity
}

// NewBOMItem creates a validated BOMItem
func NewBOMItem(component ProductCode, qtyPer Quantity) (*BOMItem, error) {
	if string(component) == "" {
		return nil, NewInvalidArgumentError("INVALID_COMPONENT", "component code cannot be empty")
	}
	if qtyPer <= 0 {
		return nil, NewInvalidArgumentError("INVALID_QTY_PER", "quantity per must be positive, got %d", qtyPer)
	}
	return &BOMItem{
		Component: component,
		QtyPer:    qtyPer,
	}, nil
}

func (i BOMItem) String() string {
	return fmt.Sprintf("%s x%d", i.Component, i.QtyPer)
}

// Requirement is a component quantity needed to build a given number of finished units
type Requirement struct {
	Component ProductCode
	Quantity  Quantity
}

// BOM is the ordered single-level component list of a finished product.
// Item order is insertion order and drives reservation and issue order.
type BOM struct {
	Product ProductCode
	Items   []BOMItem
}

// NewBOM creates a BOM owning a copy of the given items
func NewBOM(product ProductCode, items []BOMItem) (*BOM, error) {
	if string(product) == "" {
		return nil, NewInvalidArgumentError("INVALID_PRODUCT_CODE", "product code cannot be empty")
	}
	owned := make([]BOMItem, len(items))
	copy(owned, items)
	return &BOM{
		Product: product,
		Items:   owned,
	}, nil
}

// Requirements scales every line by the number of finished units, keeping line order.
// Repeated components stay on separate lines. A line whose scaled quantity does not fit
// in a Quantity fails with InvalidArgument.
func (b *BOM) Requirements(units Quantity) ([]Requirement, error) {
	reqs := make([]Requirement, 0, len(b.Items))
	for _, item := range b.Items {
		if units > 0 && item.QtyPer > math.MaxInt64/units {
			return nil, NewInvalidArgumentError("QUANTITY_OVERFLOW",
				"%d x %d of %s for %s exceeds the largest quantity", item.QtyPer, units, item.Component, b.Product)
		}
		reqs = append(reqs, Requirement{
			Component: item.Component,
			Quantity:  item.QtyPer * units,
		})
	}
	return reqs, nil
}

// Clone returns a copy that shares no items with b
func (b *BOM) Clone() *BOM {
	items := make([]BOMItem, len(b.Items))
	copy(items, b.Items)
	return &BOM{Product: b.Product, Items: items}
}

func (b *BOM) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "BOM for %s:\n", b.Product)
	for _, item := range b.Items {
		fmt.Fprintf(&sb, "   - %s\n", item)
	}
	return sb.String()
}
