package memory

import (
	"sync"

	"github.com/vsinha/mrpledger/pkg/domain/entities"
	"github.com/vsinha/mrpledger/pkg/domain/repositories"
)

// BOMRepository provides in-memory BOM storage, one BOM per finished product
type BOMRepository struct {
	mu    sync.RWMutex
	boms  map[entities.ProductCode]*entities.BOM
	order []entities.ProductCode
}

// NewBOMRepository creates a new in-memory BOM repository
func NewBOMRepository(expectedBOMs int) *BOMRepository {
	return &BOMRepository{
		boms:  make(map[entities.ProductCode]*entities.BOM, expectedBOMs),
		order: make([]entities.ProductCode, 0, expectedBOMs),
	}
}

// Verify interface compliance
var _ repositories.BOMRepository = (*BOMRepository)(nil)

// Define stores a copy of the BOM, replacing any previous BOM for the product wholesale
func (r *BOMRepository) Define(bom *entities.BOM) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.boms[bom.Product]; !exists {
		r.order = append(r.order, bom.Product)
	}
	r.boms[bom.Product] = bom.Clone()
}

// Get returns a copy of the BOM of a product, if one is defined
func (r *BOMRepository) Get(product entities.ProductCode) (*entities.BOM, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bom, exists := r.boms[product]
	if !exists {
		return nil, false
	}
	return bom.Clone(), true
}

// All returns copies of every BOM in the order its product was first defined
func (r *BOMRepository) All() []*entities.BOM {
	r.mu.RLock()
	defer r.mu.RUnlock()

	boms := make([]*entities.BOM, 0, len(r.order))
	for _, code := range r.order {
		boms = append(boms, r.boms[code].Clone())
	}
	return boms
}
