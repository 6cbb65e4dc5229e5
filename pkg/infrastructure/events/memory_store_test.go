package events

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vsinha/mrpledger/pkg/domain/entities"
)

var testTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func TestInMemoryEventStore_VersionsPerStream(t *testing.T) {
	store := NewInMemoryEventStore(nil)

	wo := &entities.WorkOrder{ID: "WO-1000", Product: "FG01", Quantity: 5, CreatedAt: testTime}
	require.NoError(t, store.AppendEvent(wo.ID, NewWorkOrderCreatedEvent(wo)))
	require.NoError(t, store.AppendEvent("FG01", NewStockReceivedEvent("FG01", 5, "production", testTime)))
	require.NoError(t, store.AppendEvent(wo.ID, NewStockReservedEvent(wo.ID, []entities.Requirement{{Component: "C001", Quantity: 10}}, testTime)))

	woEvents, err := store.ReadEvents("WO-1000", 0)
	require.NoError(t, err)
	require.Len(t, woEvents, 2)
	assert.Equal(t, WorkOrderCreatedEvent, woEvents[0].Type())
	assert.Equal(t, 1, woEvents[0].Version())
	assert.Equal(t, StockReservedEvent, woEvents[1].Type())
	assert.Equal(t, 2, woEvents[1].Version())

	fgEvents, err := store.ReadEvents("FG01", 1)
	require.NoError(t, err)
	require.Len(t, fgEvents, 1)
	assert.Equal(t, 1, fgEvents[0].Version())
	assert.Equal(t, StockReceived{Product: "FG01", Quantity: 5, Source: "production"}, fgEvents[0].Data())

	tail, err := store.ReadEvents("WO-1000", 2)
	require.NoError(t, err)
	assert.Len(t, tail, 1)

	none, err := store.ReadEvents("missing", 1)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInMemoryEventStore_ReadAllEvents(t *testing.T) {
	store := NewInMemoryEventStore(nil)
	for _, code := range []entities.ProductCode{"C001", "C002", "FG01"} {
		require.NoError(t, store.AppendEvent(string(code),
			NewProductRegisteredEvent(entities.Product{Code: code, Name: string(code)}, 0, testTime)))
	}

	all, err := store.ReadAllEvents(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "C001", all[0].StreamID())
	assert.Equal(t, "FG01", all[2].StreamID())

	fromOne, err := store.ReadAllEvents(1)
	require.NoError(t, err)
	assert.Len(t, fromOne, 2)

	past, err := store.ReadAllEvents(10)
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestInMemoryEventStore_Subscribers(t *testing.T) {
	store := NewInMemoryEventStore(nil)

	var mu sync.Mutex
	var seen []string
	handler := &HandlerFunc{
		Types: []string{MaterialIssuedEvent},
		Fn: func(e Event) error {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, e.StreamID())
			return nil
		},
	}
	require.NoError(t, store.Subscribe([]string{MaterialIssuedEvent}, handler))

	issue := entities.MaterialIssue{
		TransactionHeader: entities.TransactionHeader{ID: "MI-1001", Timestamp: testTime},
		WorkOrder:         entities.WorkOrderRef{ID: "WO-1000", Product: "FG01", Quantity: 5},
		Component:         "C001",
		Quantity:          10,
	}
	require.NoError(t, store.AppendEvent("WO-1000", NewMaterialIssuedEvent(issue)))
	require.NoError(t, store.AppendEvent("WO-1000", NewWorkOrderCreatedEvent(&entities.WorkOrder{ID: "WO-1000"})))
	store.Wait()

	mu.Lock()
	assert.Equal(t, []string{"WO-1000"}, seen)
	mu.Unlock()

	require.NoError(t, store.Unsubscribe(handler))
	require.NoError(t, store.AppendEvent("WO-1000", NewMaterialIssuedEvent(issue)))
	store.Wait()

	mu.Lock()
	assert.Len(t, seen, 1)
	mu.Unlock()
}

func TestInMemoryEventStore_HandlerErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	store := NewInMemoryEventStore(zap.New(core))

	handler := &HandlerFunc{
		Types: []string{ProductionReportedEvent},
		Fn:    func(Event) error { return errors.New("boom") },
	}
	require.NoError(t, store.Subscribe([]string{ProductionReportedEvent}, handler))

	report := entities.ProductionReport{
		TransactionHeader: entities.TransactionHeader{ID: "PR-1003", Timestamp: testTime},
		WorkOrder:         entities.WorkOrderRef{ID: "WO-1000", Product: "FG01", Quantity: 5},
		Quantity:          5,
	}
	require.NoError(t, store.AppendEvent("WO-1000", NewProductionReportedEvent(report)))
	store.Wait()

	entries := logs.FilterMessage("event handler failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, ProductionReportedEvent, entries[0].ContextMap()["event_type"])
}

func TestNewBOMDefinedEvent_CopiesItems(t *testing.T) {
	bom, err := entities.NewBOM("FG01", []entities.BOMItem{{Component: "C001", QtyPer: 2}})
	require.NoError(t, err)

	event := NewBOMDefinedEvent(bom, testTime)
	bom.Items[0].QtyPer = 9

	data, ok := event.Data().(BOMDefined)
	require.True(t, ok)
	assert.Equal(t, entities.Quantity(2), data.Items[0].QtyPer)
	assert.Equal(t, "FG01", event.StreamID())
	assert.Equal(t, testTime, event.Timestamp())
}
