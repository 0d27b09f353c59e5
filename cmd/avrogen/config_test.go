package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg, help, err := parseConfig(nil)
	require.NoError(t, err)
	assert.False(t, help)
	assert.Equal(t, defaultConfig(), cfg)
	assert.Nil(t, cfg.Namespace)
}

func TestConfigFileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avrogen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dir: ./model
recursive: true
types: [Order, Customer]
out: schemas
naming: snake
namespace: com.example.shop
docs: true
verify: true
`), 0o644))

	cfg, _, err := parseConfig([]string{"-config", path})
	require.NoError(t, err)
	assert.Equal(t, "./model", cfg.Dir)
	assert.True(t, cfg.Recursive)
	assert.Equal(t, []string{"Order", "Customer"}, cfg.Types)
	assert.Equal(t, "schemas", cfg.Out)
	assert.Equal(t, "  ", cfg.Indent)
	assert.Equal(t, "snake", cfg.Naming)
	require.NotNil(t, cfg.Namespace)
	assert.Equal(t, "com.example.shop", *cfg.Namespace)
	assert.True(t, cfg.Docs)
	assert.True(t, cfg.Verify)
	assert.False(t, cfg.Strict)

	// explicit flags win, unset flags keep file values
	cfg, _, err = parseConfig([]string{"-config", path, "-types", "Order", "-docs=false", "-namespace", "", "-indent", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"Order"}, cfg.Types)
	assert.False(t, cfg.Docs)
	require.NotNil(t, cfg.Namespace)
	assert.Equal(t, "", *cfg.Namespace)
	assert.Equal(t, "", cfg.Indent)
	assert.Equal(t, "./model", cfg.Dir)
}

func TestConfigErrors(t *testing.T) {
	_, _, err := parseConfig([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("types: {"), 0o644))
	_, _, err = parseConfig([]string{"-config", path})
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, splitList(" A, ,B "))
	assert.Equal(t, []string{}, splitList(""))
}
