package repositories

import "github.com/vsinha/mrpledger/pkg/domain/entities"

// BOMRepository provides access to Bill of Materials data
type BOMRepository interface {
	// Define stores the BOM, replacing any previous BOM for the same product
	Define(bom *entities.BOM)
	Get(product entities.ProductCode) (*entities.BOM, bool)
	All() []*entities.BOM
}
