package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpledger/pkg/domain/entities"
)

func mustBOM(t *testing.T, product entities.ProductCode, items ...entities.BOMItem) *entities.BOM {
	t.Helper()
	bom, err := entities.NewBOM(product, items)
	require.NoError(t, err)
	return bom
}

func knownSet(codes ...entities.ProductCode) func(entities.ProductCode) bool {
	set := make(map[entities.ProductCode]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return func(c entities.ProductCode) bool { return set[c] }
}

func TestBOMValidator_CleanBOM(t *testing.T) {
	boms := []*entities.BOM{
		mustBOM(t, "FG01", entities.BOMItem{Component: "C001", QtyPer: 2}, entities.BOMItem{Component: "C002", QtyPer: 1}),
	}

	result := NewBOMValidator().ValidateBOMs(boms, knownSet("FG01", "C001", "C002"))

	assert.True(t, result.OK())
	assert.False(t, result.HasCycles)
	assert.Empty(t, result.UnknownComponents)
}

func TestBOMValidator_UnknownComponents(t *testing.T) {
	boms := []*entities.BOM{
		mustBOM(t, "FG01", entities.BOMItem{Component: "C001", QtyPer: 2}, entities.BOMItem{Component: "GHOST", QtyPer: 1}),
	}

	result := NewBOMValidator().ValidateBOMs(boms, knownSet("FG01", "C001"))

	assert.Equal(t, []entities.ProductCode{"GHOST"}, result.UnknownComponents["FG01"])
	assert.Contains(t, result.Warnings, "BOM for FG01 references unregistered component GHOST")
}

func TestBOMValidator_RepeatedAndSelfReference(t *testing.T) {
	boms := []*entities.BOM{
		mustBOM(t, "FG01",
			entities.BOMItem{Component: "C001", QtyPer: 2},
			entities.BOMItem{Component: "FG01", QtyPer: 1},
			entities.BOMItem{Component: "C001", QtyPer: 3},
		),
	}

	result := NewBOMValidator().ValidateBOMs(boms, nil)

	assert.Equal(t, []entities.ProductCode{"FG01"}, result.SelfReferences)
	require.Len(t, result.RepeatedComponents, 1)
	assert.Equal(t, RepeatedComponent{Product: "FG01", Component: "C001", Lines: 2}, result.RepeatedComponents[0])
	assert.False(t, result.HasCycles, "self references are not reported as cycles")
}

func TestBOMValidator_DetectCycleAcrossBOMs(t *testing.T) {
	boms := []*entities.BOM{
		mustBOM(t, "A", entities.BOMItem{Component: "B", QtyPer: 1}),
		mustBOM(t, "B", entities.BOMItem{Component: "C", QtyPer: 1}),
		mustBOM(t, "C", entities.BOMItem{Component: "A", QtyPer: 1}),
	}

	result := NewBOMValidator().ValidateBOMs(boms, knownSet("A", "B", "C"))

	require.True(t, result.HasCycles)
	require.Len(t, result.CyclePaths, 1)
	cycle := result.CyclePaths[0]
	assert.Len(t, cycle, 4)
	assert.Equal(t, cycle[0], cycle[len(cycle)-1])
	assert.False(t, result.OK())
}
