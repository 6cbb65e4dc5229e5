package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerMetrics_RecordStockOperation(t *testing.T) {
	m := NewLedgerMetrics()

	m.RecordStockOperation(OpReserve, 10, nil)
	m.RecordStockOperation(OpReserve, 5, nil)
	m.RecordStockOperation(OpReserve, 99, errors.New("short"))
	m.RecordStockOperation(OpIssue, 10, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.stockOperations.WithLabelValues(OpReserve, ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stockOperations.WithLabelValues(OpReserve, ResultFailure)))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.stockQuantity.WithLabelValues(OpReserve)))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.stockQuantity.WithLabelValues(OpIssue)))
}

func TestLedgerMetrics_RecordWorkOrderStatus(t *testing.T) {
	m := NewLedgerMetrics()

	m.RecordWorkOrderStatus("MATERIAL_RESERVED")
	m.RecordWorkOrderStatus("MATERIAL_RESERVED")
	m.RecordWorkOrderStatus("COMPLETED")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.workOrders.WithLabelValues("MATERIAL_RESERVED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.workOrders.WithLabelValues("COMPLETED")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.workOrders))
}

func TestLedgerMetrics_Snapshot(t *testing.T) {
	m := NewLedgerMetrics()
	m.RecordStockOperation(OpReceive, 500, nil)
	m.RecordWorkOrderStatus("COMPLETED")

	samples, err := m.Snapshot()
	require.NoError(t, err)

	require.Len(t, samples, 3)
	assert.Equal(t, Sample{
		Name:   MetricStockOperationsTotal,
		Labels: map[string]string{"operation": OpReceive, "result": ResultSuccess},
		Value:  1,
	}, samples[0])
	assert.Equal(t, MetricStockQuantityTotal, samples[1].Name)
	assert.Equal(t, 500.0, samples[1].Value)
	assert.Equal(t, MetricWorkOrdersTotal, samples[2].Name)
}

func TestLedgerMetrics_NilSafe(t *testing.T) {
	var m *LedgerMetrics

	assert.NotPanics(t, func() {
		m.RecordStockOperation(OpIssue, 1, nil)
		m.RecordWorkOrderStatus("COMPLETED")
	})
	assert.Nil(t, m.Registry())

	samples, err := m.Snapshot()
	assert.NoError(t, err)
	assert.Nil(t, samples)
}

func TestNewLedgerMetrics_Independent(t *testing.T) {
	a := NewLedgerMetrics()
	b := NewLedgerMetrics()

	a.RecordWorkOrderStatus("COMPLETED")

	assert.NotSame(t, a.Registry(), b.Registry())
	assert.Equal(t, 0, testutil.CollectAndCount(b.workOrders))
}
