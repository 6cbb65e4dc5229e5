package repositories

import "github.com/vsinha/mrpledger/pkg/domain/entities"

// WorkOrderRepository provides access to work orders.
// Work orders are never removed.
type WorkOrderRepository interface {
	Save(workOrder *entities.WorkOrder)
	// Get returns the stored work order or an InvalidOperation error
	Get(id string) (*entities.WorkOrder, error)
	// All returns work orders in creation order
	All() []*entities.WorkOrder
}
