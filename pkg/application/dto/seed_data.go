package dto

import (
	"github.com/vsinha/mrpledger/pkg/domain/entities"
)

// SeedData is the product catalogue and BOM set loaded before any work order runs
type SeedData struct {
	Products []ProductRecord `yaml:"products" json:"products"`
	BOMs     []BOMRecord     `yaml:"boms" json:"boms"`
}

// ProductRecord registers one product with its opening stock
type ProductRecord struct {
	Code         entities.ProductCode `yaml:"code" json:"code"`
	Name         string               `yaml:"name" json:"name"`
	InitialStock entities.Quantity    `yaml:"initial_stock" json:"initial_stock"`
}

// BOMRecord defines the ordered component lines of one product
type BOMRecord struct {
	Product entities.ProductCode `yaml:"product" json:"product"`
	Items   []BOMLineRecord      `yaml:"items" json:"items"`
}

type BOMLineRecord struct {
	Component entities.ProductCode `yaml:"component" json:"component"`
	QtyPer    entities.Quantity    `yaml:"qty_per" json:"qty_per"`
}

// SampleSeedData returns the demo catalogue: two components and one finished good
func SampleSeedData() *SeedData {
	return &SeedData{
		Products: []ProductRecord{
			{Code: "C001", Name: "Component-1", InitialStock: 500},
			{Code: "C002", Name: "Component-2", InitialStock: 300},
			{Code: "FG01", Name: "Finished-Good-1", InitialStock: 10},
		},
		BOMs: []BOMRecord{
			{
				Product: "FG01",
				Items: []BOMLineRecord{
					{Component: "C001", QtyPer: 2},
					{Component: "C002", QtyPer: 1},
				},
			},
		},
	}
}

// BOMEntities converts the BOM records to entities for validation before loading
func (d *SeedData) BOMEntities() ([]*entities.BOM, error) {
	boms := make([]*entities.BOM, 0, len(d.BOMs))
	for _, record := range d.BOMs {
		items := make([]entities.BOMItem, 0, len(record.Items))
		for _, line := range record.Items {
			item, err := entities.NewBOMItem(line.Component, line.QtyPer)
			if err != nil {
				return nil, err
			}
			items = append(items, *item)
		}
		bom, err := entities.NewBOM(record.Product, items)
		if err != nil {
			return nil, err
		}
		boms = append(boms, bom)
	}
	return boms, nil
}
