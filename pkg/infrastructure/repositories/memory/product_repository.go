package memory

import (
	"sync"

	"github.com/vsinha/mrpledger/pkg/domain/entities"
	"github.com/vsinha/mrpledger/pkg/domain/repositories"
)

// ProductRepository provides in-memory product storage
type ProductRepository struct {
	mu          sync.RWMutex
	products    []*entities.Product
	productsMap map[entities.ProductCode]int
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository(expectedProducts int) *ProductRepository {
	return &ProductRepository{
		products:    make([]*entities.Product, 0, expectedProducts),
		productsMap: make(map[entities.ProductCode]int, expectedProducts),
	}
}

// Verify interface compliance
var _ repositories.ProductRepository = (*ProductRepository)(nil)

// Add registers a copy of the product; the registry is append-only
func (r *ProductRepository) Add(product *entities.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.productsMap[product.Code]; exists {
		return entities.NewInvalidArgumentError("DUPLICATE_PRODUCT", "Product code exists: %s", product.Code)
	}
	r.productsMap[product.Code] = len(r.products)
	stored := *product
	r.products = append(r.products, &stored)
	return nil
}

// Get returns a copy of the product registered under code
func (r *ProductRepository) Get(code entities.ProductCode) (*entities.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.productsMap[code]
	if !exists {
		return nil, entities.NewInvalidOperationError("PRODUCT_NOT_FOUND", "Product not found: %s", code)
	}
	product := *r.products[index]
	return &product, nil
}

// Exists reports whether code is registered
func (r *ProductRepository) Exists(code entities.ProductCode) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.productsMap[code]
	return exists
}

// All returns copies of the products in registration order
func (r *ProductRepository) All() []*entities.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*entities.Product, 0, len(r.products))
	for _, stored := range r.products {
		product := *stored
		products = append(products, &product)
	}
	return products
}
