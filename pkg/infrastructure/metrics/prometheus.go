// Package metrics counts ledger operations on a dedicated Prometheus registry.
package metrics

import (
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Prometheus metric names.
const (
	MetricStockOperationsTotal = "mrp_stock_operations_total"
	MetricStockQuantityTotal   = "mrp_stock_quantity_total"
	MetricWorkOrdersTotal      = "mrp_work_orders_total"
)

// Operation label values.
const (
	OpReceive = "receive"
	OpReserve = "reserve"
	OpIssue   = "issue"
	OpProduce = "produce"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// LedgerMetrics records stock movements and work order transitions.
// A nil *LedgerMetrics is valid and records nothing.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type LedgerMetrics struct {
	registry *prometheus.Registry

	stockOperations *prometheus.CounterVec
	stockQuantity   *prometheus.CounterVec
	workOrders      *prometheus.CounterVec
}

// NewLedgerMetrics creates the counters and registers them on a fresh registry
func NewLedgerMetrics() *LedgerMetrics {
	// A private registry keeps repeated constructions from colliding
	registry := prometheus.NewRegistry()

	m := &LedgerMetrics{
		registry: registry,
		stockOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricStockOperationsTotal,
				Help: "Total number of stock ledger operations by outcome.",
			},
			[]string{"operation", "result"},
		),
		stockQuantity: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricStockQuantityTotal,
				Help: "Total units moved by successful stock ledger operations.",
			},
			[]string{"operation"},
		),
		workOrders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricWorkOrdersTotal,
				Help: "Total number of work order status transitions by target status.",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(m.stockOperations, m.stockQuantity, m.workOrders)
	return m
}

// Registry returns the registry holding the ledger counters
func (m *LedgerMetrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordStockOperation counts one ledger operation; units are only added on success
func (m *LedgerMetrics) RecordStockOperation(operation string, units int64, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.stockOperations.WithLabelValues(operation, ResultFailure).Inc()
		return
	}
	m.stockOperations.WithLabelValues(operation, ResultSuccess).Inc()
	if units > 0 {
		m.stockQuantity.WithLabelValues(operation).Add(float64(units))
	}
}

// RecordWorkOrderStatus counts a transition into status
func (m *LedgerMetrics) RecordWorkOrderStatus(status string) {
	if m == nil {
		return
	}
	m.workOrders.WithLabelValues(status).Inc()
}

// Sample is one counter series flattened for reporting
type Sample struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	Value  float64           `json:"value"`
}

// Snapshot gathers every series sorted by name then labels
func (m *LedgerMetrics) Snapshot() ([]Sample, error) {
	if m == nil {
		return nil, nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	samples := make([]Sample, 0)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			samples = append(samples, Sample{
				Name:   family.GetName(),
				Labels: labelMap(metric.GetLabel()),
				Value:  metricValue(metric),
			})
		}
	}
	sort.SliceStable(samples, func(i, j int) bool {
		if samples[i].Name != samples[j].Name {
			return samples[i].Name < samples[j].Name
		}
		return labelKey(samples[i].Labels) < labelKey(samples[j].Labels)
	})
	return samples, nil
}

func labelMap(pairs []*dto.LabelPair) map[string]string {
	if len(pairs) == 0 {
		return nil
	}
	labels := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		labels[pair.GetName()] = pair.GetValue()
	}
	return labels
}

func metricValue(metric *dto.Metric) float64 {
	switch {
	case metric.GetCounter() != nil:
		return metric.GetCounter().GetValue()
	case metric.GetGauge() != nil:
		return metric.GetGauge().GetValue()
	default:
		return 0
	}
}

func labelKey(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+labels[k])
	}
	return strings.Join(parts, ",")
}
