package memory

import (
	"sync"

	"github.com/vsinha/mrpledger/pkg/domain/entities"
	"github.com/vsinha/mrpledger/pkg/domain/repositories"
)

// WorkOrderRepository provides insertion-ordered in-memory work order storage
type WorkOrderRepository struct {
	mu         sync.RWMutex
	workOrders map[string]*entities.WorkOrder
	order      []string
}

// NewWorkOrderRepository creates a new in-memory work order repository
func NewWorkOrderRepository() *WorkOrderRepository {
	return &WorkOrderRepository{
		workOrders: make(map[string]*entities.WorkOrder),
	}
}

// Verify interface compliance
var _ repositories.WorkOrderRepository = (*WorkOrderRepository)(nil)

// Save stores a work order; saving an existing id keeps its original position
func (r *WorkOrderRepository) Save(workOrder *entities.WorkOrder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.workOrders[workOrder.ID]; !exists {
		r.order = append(r.order, workOrder.ID)
	}
	r.workOrders[workOrder.ID] = workOrder
}

// Get returns the work order stored under id
func (r *WorkOrderRepository) Get(id string) (*entities.WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wo, exists := r.workOrders[id]
	if !exists {
		return nil, entities.NewInvalidOperationError("WORK_ORDER_NOT_FOUND", "WorkOrder not found: %s", id)
	}
	return wo, nil
}

// All returns work orders in creation order
func (r *WorkOrderRepository) All() []*entities.WorkOrder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	workOrders := make([]*entities.WorkOrder, 0, len(r.order))
	for _, id := range r.order {
		workOrders = append(workOrders, r.workOrders[id])
	}
	return workOrders
}
