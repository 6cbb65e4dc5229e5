package memory

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/vsinha/mrpledger/pkg/domain/entities"
	"github.com/vsinha/mrpledger/pkg/domain/repositories"
)

type stockEntry struct {
	available entities.Quantity
	reserved  entities.Quantity
}

// StockLedger provides in-memory warehouse stock storage.
//
// A single mutex guards the whole ledger, so every operation, including the
// multi-line ReserveAll/IssueAll and the cross-code Summary, is serializable.
// Per-code locking would also be valid as long as Summary and Levels still
// read a consistent view across codes.
type StockLedger struct {
	name    string
	mu      sync.Mutex
	entries map[entities.ProductCode]*stockEntry
}

// NewStockLedger creates an empty ledger for the named warehouse
func NewStockLedger(name string) *StockLedger {
	return &StockLedger{
		name:    name,
		entries: make(map[entities.ProductCode]*stockEntry),
	}
}

// Verify interface compliance
var _ repositories.StockLedger = (*StockLedger)(nil)

// Name returns the warehouse name
func (l *StockLedger) Name() string {
	return l.name
}

// entry returns the entry for code, creating it when missing. Callers hold mu.
func (l *StockLedger) entry(code entities.ProductCode) *stockEntry {
	e, ok := l.entries[code]
	if !ok {
		e = &stockEntry{}
		l.entries[code] = e
	}
	return e
}

// peek returns the current quantities without touching the code. Callers hold mu.
func (l *StockLedger) peek(code entities.ProductCode) stockEntry {
	if e, ok := l.entries[code]; ok {
		return *e
	}
	return stockEntry{}
}

// AddStock increases available stock; non-positive quantities are ignored
func (l *StockLedger) AddStock(code entities.ProductCode, qty entities.Quantity) {
	if qty <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entry(code).available += qty
}

// Reserve moves stock from available to reserved
func (l *StockLedger) Reserve(code entities.ProductCode, qty entities.Quantity) error {
	if err := requirePositive("reserve", code, qty); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if qty > l.peek(code).available {
		return shortAvailable(code)
	}
	e := l.entry(code)
	e.available -= qty
	e.reserved += qty
	return nil
}

// Release moves stock from reserved back to available
func (l *StockLedger) Release(code entities.ProductCode, qty entities.Quantity) error {
	if err := requirePositive("release", code, qty); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if qty > l.peek(code).reserved {
		return entities.NewInsufficientStockError("INSUFFICIENT_RESERVED",
			"Not enough reserved stock to release for %s", code)
	}
	e := l.entry(code)
	e.reserved -= qty
	e.available += qty
	return nil
}

// IssueReserved consumes reserved stock. Consumed stock is not tracked further.
func (l *StockLedger) IssueReserved(code entities.ProductCode, qty entities.Quantity) error {
	if err := requirePositive("issue", code, qty); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if qty > l.peek(code).reserved {
		return shortReserved(code)
	}
	l.entry(code).reserved -= qty
	return nil
}

// ReserveAll reserves every requirement under one lock acquisition, or nothing.
// Requirements for the same code are checked cumulatively.
func (l *StockLedger) ReserveAll(reqs []entities.Requirement) error {
	if err := validateRequirements("reserve", reqs); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	needed := make(map[entities.ProductCode]entities.Quantity, len(reqs))
	for _, req := range reqs {
		total, err := accumulate("reserve", req, needed[req.Component])
		if err != nil {
			return err
		}
		needed[req.Component] = total
		if total > l.peek(req.Component).available {
			return shortAvailable(req.Component)
		}
	}
	for _, req := range reqs {
		e := l.entry(req.Component)
		e.available -= req.Quantity
		e.reserved += req.Quantity
	}
	return nil
}

// IssueAll consumes every requirement from reserved stock under one lock acquisition, or nothing
func (l *StockLedger) IssueAll(reqs []entities.Requirement) error {
	if err := validateRequirements("issue", reqs); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	needed := make(map[entities.ProductCode]entities.Quantity, len(reqs))
	for _, req := range reqs {
		total, err := accumulate("issue", req, needed[req.Component])
		if err != nil {
			return err
		}
		needed[req.Component] = total
		if total > l.peek(req.Component).reserved {
			return shortReserved(req.Component)
		}
	}
	for _, req := range reqs {
		l.entry(req.Component).reserved -= req.Quantity
	}
	return nil
}

// Available returns available stock, 0 for unknown codes
func (l *StockLedger) Available(code entities.ProductCode) entities.Quantity {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.peek(code).available
}

// Reserved returns reserved stock, 0 for unknown codes
func (l *StockLedger) Reserved(code entities.ProductCode) entities.Quantity {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.peek(code).reserved
}

// Level returns both quantities of a code read atomically
func (l *StockLedger) Level(code entities.ProductCode) entities.StockLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.peek(code)
	return entities.StockLevel{Product: code, Available: e.available, Reserved: e.reserved}
}

// Levels returns every touched code sorted ascending
func (l *StockLedger) Levels() []entities.StockLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.levelsLocked()
}

func (l *StockLedger) levelsLocked() []entities.StockLevel {
	levels := make([]entities.StockLevel, 0, len(l.entries))
	for code, e := range l.entries {
		levels = append(levels, entities.StockLevel{Product: code, Available: e.available, Reserved: e.reserved})
	}
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].Product < levels[j].Product
	})
	return levels
}

// Summary renders the stock table of every touched code sorted ascending
func (l *StockLedger) Summary() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Warehouse %s Stock:\n", l.name)
	fmt.Fprintf(&sb, "%-12s %-10s %-10s\n", "Product", "Available", "Reserved")
	for _, level := range l.levelsLocked() {
		fmt.Fprintf(&sb, "%-12s %-10d %-10d\n", level.Product, level.Available, level.Reserved)
	}
	return sb.String()
}

func requirePositive(op string, code entities.ProductCode, qty entities.Quantity) error {
	if qty <= 0 {
		return entities.NewInvalidArgumentError("INVALID_QUANTITY",
			"%s quantity for %s must be positive, got %d", op, code, qty)
	}
	return nil
}

func validateRequirements(op string, reqs []entities.Requirement) error {
	for _, req := range reqs {
		if err := requirePositive(op, req.Component, req.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// accumulate adds req to the quantity already needed of its code, failing instead of wrapping
func accumulate(op string, req entities.Requirement, needed entities.Quantity) (entities.Quantity, error) {
	if req.Quantity > math.MaxInt64-needed {
		return 0, entities.NewInvalidArgumentError("QUANTITY_OVERFLOW",
			"total %s quantity for %s exceeds the largest quantity", op, req.Component)
	}
	return needed + req.Quantity, nil
}

func shortAvailable(code entities.ProductCode) error {
	return entities.NewInsufficientStockError("INSUFFICIENT_AVAILABLE",
		"Not enough available stock to reserve for %s", code)
}

func shortReserved(code entities.ProductCode) error {
	return entities.NewInsufficientStockError("INSUFFICIENT_RESERVED",
		"Not enough reserved stock to issue for %s", code)
}
