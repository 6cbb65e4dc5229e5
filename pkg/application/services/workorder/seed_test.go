package workorder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpledger/pkg/application/dto"
	"github.com/vsinha/mrpledger/pkg/domain/entities"
)

func TestService_SeedSampleData(t *testing.T) {
	svc := newTestService(t)

	warnings, err := svc.Seed(context.Background(), dto.SampleSeedData())
	require.NoError(t, err)

	assert.Empty(t, warnings)
	assert.Len(t, svc.Products(), 3)
	assertLevel(t, svc, "C001", 500, 0)
	assertLevel(t, svc, "C002", 300, 0)
	assertLevel(t, svc, "FG01", 10, 0)
	bom, ok := svc.GetBOM("FG01")
	require.True(t, ok)
	assert.Equal(t, []entities.BOMItem{{Component: "C001", QtyPer: 2}, {Component: "C002", QtyPer: 1}}, bom.Items)
}

func TestService_SeedWarnings(t *testing.T) {
	svc := newTestService(t)
	data := &dto.SeedData{
		Products: []dto.ProductRecord{{Code: "FG01", Name: "Bike"}},
		BOMs: []dto.BOMRecord{{
			Product: "FG01",
			Items:   []dto.BOMLineRecord{{Component: "RAW1", QtyPer: 1}, {Component: "RAW1", QtyPer: 2}},
		}},
	}

	warnings, err := svc.Seed(context.Background(), data)
	require.NoError(t, err)

	assert.Contains(t, warnings, "BOM for FG01 references unregistered component RAW1")
	assert.Contains(t, warnings, "BOM for FG01 lists component RAW1 on 2 lines")
	_, ok := svc.GetBOM("FG01")
	assert.True(t, ok)
}

func TestService_SeedErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate product", func(t *testing.T) {
		svc := newTestService(t)
		data := &dto.SeedData{Products: []dto.ProductRecord{{Code: "C001"}, {Code: "C001"}}}
		_, err := svc.Seed(ctx, data)
		assert.ErrorIs(t, err, entities.ErrInvalidArgument)
	})

	t.Run("bom for unregistered product", func(t *testing.T) {
		svc := newTestService(t)
		data := &dto.SeedData{BOMs: []dto.BOMRecord{{Product: "FG01", Items: []dto.BOMLineRecord{{Component: "C001", QtyPer: 1}}}}}
		_, err := svc.Seed(ctx, data)
		assert.ErrorIs(t, err, entities.ErrInvalidOperation)
	})
}

func TestService_Produce(t *testing.T) {
	ctx := context.Background()
	svc := newSeededService(t)

	wo, err := svc.Produce(ctx, "FG01", 5)
	require.NoError(t, err)
	assert.Equal(t, entities.Completed, wo.Status)
	assertLevel(t, svc, "FG01", 15, 0)
	assertLevel(t, svc, "C001", 490, 0)

	_, err = svc.Produce(ctx, "FG01", 1000)
	assert.ErrorIs(t, err, entities.ErrInsufficientStock)
	assert.Len(t, svc.AllWorkOrders(), 1)
}
