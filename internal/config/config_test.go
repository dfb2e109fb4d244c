package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndFirstRunFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "lotline.db"), cfg.DBPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Log.UseCases)
	assert.Equal(t, "STORE", cfg.Inventory.StockStage)
	assert.True(t, cfg.Reorder.Strict)
	assert.Equal(t, "member", cfg.Identity.Role)
	assert.Empty(t, cfg.Identity.User)

	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	assert.NoError(t, err, "default config.yaml written on first run")
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	yaml := `db_path: /tmp/plant.db
log:
  level: debug
  format: json
  use_cases: true
inventory:
  stock_stage: WAREHOUSE
reorder:
  strict: false
identity:
  user: jdoe
  org: acme
  role: admin
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/plant.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Log.UseCases)
	assert.Equal(t, "WAREHOUSE", cfg.Inventory.StockStage)
	assert.False(t, cfg.Reorder.Strict)
	assert.Equal(t, "jdoe", cfg.Identity.User)
	assert.Equal(t, "acme", cfg.Identity.Org)
	assert.Equal(t, "admin", cfg.Identity.Role)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("identity:\n  org: acme\n"), 0o644))
	t.Setenv("LOTLINE_IDENTITY_ORG", "globex")
	t.Setenv("LOTLINE_REORDER_STRICT", "false")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "globex", cfg.Identity.Org)
	assert.False(t, cfg.Reorder.Strict)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"level":  "log:\n  level: loud\n",
		"format": "log:\n  format: xml\n",
		"role":   "identity:\n  role: owner\n",
	}
	for name, yaml := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unterminated\n"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestDefaultDir_Env(t *testing.T) {
	t.Setenv("LOTLINE_CONFIG_DIR", "/srv/lotline")
	dir, err := DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, "/srv/lotline", dir)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{Log: LogConfig{Level: "warn", Format: "json"}}
	logger := cfg.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}
