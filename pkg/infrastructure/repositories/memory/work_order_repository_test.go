package memory

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpledger/pkg/domain/entities"
)

func TestWorkOrderRepository_InsertionOrder(t *testing.T) {
	repo := NewWorkOrderRepository()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, id := range []string{"WO-1005", "WO-1000", "WO-1003"} {
		wo, err := entities.NewWorkOrder(id, "FG01", 1, created)
		require.NoError(t, err)
		repo.Save(wo)
	}

	ids := make([]string, 0, 3)
	for _, wo := range repo.All() {
		ids = append(ids, wo.ID)
	}
	assert.Equal(t, []string{"WO-1005", "WO-1000", "WO-1003"}, ids)

	got, err := repo.Get("WO-1000")
	require.NoError(t, err)
	got.Status = entities.MaterialReserved
	repo.Save(got)
	assert.Len(t, repo.All(), 3, "re-saving keeps a single entry")
}

func TestWorkOrderRepository_UnknownID(t *testing.T) {
	repo := NewWorkOrderRepository()

	_, err := repo.Get("WO-9999")

	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrInvalidOperation)
	assert.Equal(t, fmt.Sprintf("WorkOrder not found: %s", "WO-9999"), err.Error())
}
