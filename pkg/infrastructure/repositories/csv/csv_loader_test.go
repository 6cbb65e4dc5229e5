package csv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpledger/pkg/application/dto"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_LoadScenario(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProductsFile, "code,name,initial_stock\nC001,Component-1,500\nC002, Component-2 ,300\nFG01,Finished-Good-1,10\nFG02,Finished-Good-2,0\n")
	writeFile(t, dir, BOMFile, "parent_code,component_code,qty_per\nFG01,C001,2\nFG02,C002,4\nFG01,C002,1\n")

	data, err := NewLoader().LoadScenario(dir)
	require.NoError(t, err)

	require.Len(t, data.Products, 4)
	assert.Equal(t, dto.ProductRecord{Code: "C002", Name: "Component-2", InitialStock: 300}, data.Products[1])

	assert.Equal(t, []dto.BOMRecord{
		{Product: "FG01", Items: []dto.BOMLineRecord{{Component: "C001", QtyPer: 2}, {Component: "C002", QtyPer: 1}}},
		{Product: "FG02", Items: []dto.BOMLineRecord{{Component: "C002", QtyPer: 4}}},
	}, data.BOMs)
}

func TestLoader_LoadBOMs_HeaderOnly(t *testing.T) {
	path := writeFile(t, t.TempDir(), BOMFile, "parent_code,component_code,qty_per\n")

	boms, err := NewLoader().LoadBOMs(path)
	require.NoError(t, err)
	assert.Empty(t, boms)
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		load     func(l *Loader, path string) error
		contains string
	}{
		{
			name:     "products header mismatch",
			file:     ProductsFile,
			content:  "code,title,stock\nC001,x,1\n",
			load:     func(l *Loader, p string) error { _, err := l.LoadProducts(p); return err },
			contains: "header mismatch",
		},
		{
			name:     "products without rows",
			file:     ProductsFile,
			content:  "code,name,initial_stock\n",
			load:     func(l *Loader, p string) error { _, err := l.LoadProducts(p); return err },
			contains: "at least one data row",
		},
		{
			name:     "bad initial stock",
			file:     ProductsFile,
			content:  "code,name,initial_stock\nC001,x,lots\n",
			load:     func(l *Loader, p string) error { _, err := l.LoadProducts(p); return err },
			contains: "row 2: invalid initial_stock",
		},
		{
			name:     "empty product code",
			file:     ProductsFile,
			content:  "code,name,initial_stock\n,x,1\n",
			load:     func(l *Loader, p string) error { _, err := l.LoadProducts(p); return err },
			contains: "empty code",
		},
		{
			name:     "bad qty per",
			file:     BOMFile,
			content:  "parent_code,component_code,qty_per\nFG01,C001,2\nFG01,C002,one\n",
			load:     func(l *Loader, p string) error { _, err := l.LoadBOMs(p); return err },
			contains: "row 3: invalid qty_per",
		},
		{
			name:     "empty file",
			file:     BOMFile,
			content:  "",
			load:     func(l *Loader, p string) error { _, err := l.LoadBOMs(p); return err },
			contains: "missing its header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			err := tt.load(NewLoader(), path)
			assert.ErrorContains(t, err, tt.contains)
		})
	}
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader().LoadScenario(t.TempDir())
	assert.ErrorContains(t, err, "failed to open products file")
}
