package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockLevel_Total(t *testing.T) {
	level := StockLevel{Product: "C001", Available: 490, Reserved: 10}
	assert.Equal(t, Quantity(500), level.Total())
}
