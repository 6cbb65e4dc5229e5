package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "MainWarehouse", cfg.Warehouse.Name)
	assert.False(t, cfg.Ledger.AtomicReservations)
	assert.Equal(t, IDStrategySequence, cfg.Ledger.IDStrategy)
	assert.Equal(t, int64(1000), cfg.Ledger.SequenceStart)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Empty(t, cfg.Log.Level)
	assert.Empty(t, cfg.Log.Format)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mrp.yaml")
	content := "warehouse:\n  name: Plant2\nledger:\n  atomic_reservations: true\n  id_strategy: uuid\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "Plant2", cfg.Warehouse.Name)
	assert.True(t, cfg.Ledger.AtomicReservations)
	assert.Equal(t, IDStrategyUUID, cfg.Ledger.IDStrategy)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mrp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("warehouse:\n  name: Plant2\n"), 0o644))
	t.Setenv("MRP_WAREHOUSE_NAME", "Plant3")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "Plant3", cfg.Warehouse.Name)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MRP_OUTPUT_FORMAT", "text")

	flags := pflag.NewFlagSet("mrp", pflag.ContinueOnError)
	flags.Bool("strict", false, "")
	flags.String("format", "text", "")
	require.NoError(t, flags.Parse([]string{"--strict", "--format", "json"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.True(t, cfg.Ledger.AtomicReservations)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("MRP_LEDGER_ID_STRATEGY", "snowflake")
	_, err := Load("", nil)
	assert.ErrorContains(t, err, "unsupported id strategy")

	t.Setenv("MRP_LEDGER_ID_STRATEGY", "sequence")
	t.Setenv("MRP_OUTPUT_FORMAT", "xml")
	_, err = Load("", nil)
	assert.ErrorContains(t, err, "unsupported output format")

	t.Setenv("MRP_OUTPUT_FORMAT", "csv")
	_, err = Load("", nil)
	assert.ErrorContains(t, err, "requires an output directory")

	t.Setenv("MRP_OUTPUT_DIR", t.TempDir())
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Output.Format)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
