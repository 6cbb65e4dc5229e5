package repositories

import "github.com/vsinha/mrpledger/pkg/domain/entities"

// ProductRepository provides access to the append-only product registry
type ProductRepository interface {
	// Add registers a product; a duplicate code fails with InvalidArgument
	Add(product *entities.Product) error
	// Get returns the product or an InvalidOperation error for unknown codes
	Get(code entities.ProductCode) (*entities.Product, error)
	Exists(code entities.ProductCode) bool
	// All returns products in registration order
	All() []*entities.Product
}
