package workorder

import (
	"go.uber.org/zap"

	"github.com/vsinha/mrpledger/pkg/domain/repositories"
	"github.com/vsinha/mrpledger/pkg/domain/services"
	"github.com/vsinha/mrpledger/pkg/infrastructure/events"
	"github.com/vsinha/mrpledger/pkg/infrastructure/metrics"
)

// Option configures a Service
type Option func(*Service)

// WithIDGenerator replaces the default sequence generator
func WithIDGenerator(ids services.IDGenerator) Option {
	return func(s *Service) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithClock replaces the wall clock used for creation and transaction timestamps
func WithClock(clock services.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEventStore publishes an event for every successful operation
func WithEventStore(store events.EventStore) Option {
	return func(s *Service) {
		s.eventStore = store
	}
}

func WithMetrics(m *metrics.LedgerMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithAtomicReservations makes work order creation and bulk issue all-or-nothing.
// When disabled, a failing BOM line leaves the lines before it in effect.
func WithAtomicReservations(enabled bool) Option {
	return func(s *Service) {
		s.atomic = enabled
	}
}

func WithProductRepository(repo repositories.ProductRepository) Option {
	return func(s *Service) {
		if repo != nil {
			s.products = repo
		}
	}
}

func WithBOMRepository(repo repositories.BOMRepository) Option {
	return func(s *Service) {
		if repo != nil {
			s.boms = repo
		}
	}
}

func WithWorkOrderRepository(repo repositories.WorkOrderRepository) Option {
	return func(s *Service) {
		if repo != nil {
			s.workOrders = repo
		}
	}
}
