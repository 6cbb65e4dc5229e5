package services

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Identifier prefixes
const (
	WorkOrderPrefix        = "WO"
	MaterialIssuePrefix    = "MI"
	ProductionReportPrefix = "PR"
)

// DefaultSequenceStart is the first number handed out by a SequenceGenerator
const DefaultSequenceStart = 1000

// IDGenerator produces unique identifiers of the form <PREFIX>-<suffix>
type IDGenerator interface {
	Next(prefix string) string
}

// SequenceGenerator numbers identifiers from one counter shared by all prefixes,
// so ids are unique and increasing across work orders, issues and reports
type SequenceGenerator struct {
	counter atomic.Int64
}

// NewSequenceGenerator creates a generator whose first id ends in start
func NewSequenceGenerator(start int64) *SequenceGenerator {
	g := &SequenceGenerator{}
	g.counter.Store(start)
	return g
}

// Next returns the next identifier for prefix
func (g *SequenceGenerator) Next(prefix string) string {
	n := g.counter.Add(1) - 1
	return fmt.Sprintf("%s-%d", prefix, n)
}

// UUIDGenerator suffixes identifiers with random UUIDs
type UUIDGenerator struct{}

// NewUUIDGenerator creates a UUID based generator
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Next returns a new identifier for prefix
func (g *UUIDGenerator) Next(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Clock supplies creation timestamps
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant
type FixedClock struct {
	Instant time.Time
}

// Now returns the fixed instant
func (c FixedClock) Now() time.Time {
	return c.Instant
}
