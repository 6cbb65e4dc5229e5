package yaml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpledger/pkg/application/dto"
)

const sampleSeed = `
products:
  - code: C001
    name: Component-1
    initial_stock: 500
  - code: C002
    name: Component-2
    initial_stock: 300
  - {code: FG01, name: Finished-Good-1, initial_stock: 10}
boms:
  - product: FG01
    items:
      - {component: C001, qty_per: 2}
      - {component: C002, qty_per: 1}
`

func TestLoader_Parse(t *testing.T) {
	data, err := NewLoader().Parse([]byte(sampleSeed))
	require.NoError(t, err)

	assert.Equal(t, dto.SampleSeedData(), data)
}

func TestLoader_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSeed), 0o644))

	data, err := NewLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, data.Products, 3)

	_, err = NewLoader().LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read seed file")
}

func TestLoader_ParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{"empty", "", "empty"},
		{"unknown key", "products:\n  - {code: C001, colour: red}\n", "failed to parse"},
		{"bad quantity", "products:\n  - {code: C001, initial_stock: many}\n", "failed to parse"},
		{"missing code", "products:\n  - {name: Nameless}\n", "product 1: empty code"},
		{"missing bom product", "boms:\n  - items: [{component: C001, qty_per: 1}]\n", "bom 1: empty product"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().Parse([]byte(tt.content))
			assert.ErrorContains(t, err, tt.contains)
		})
	}
}
