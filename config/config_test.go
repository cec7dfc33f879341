package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wippyai/parse-bridge/errors"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	require.Equal(t, ".", d.Root)
	require.Equal(t, "./treebank.mrg", d.GrammarPath())
	require.Equal(t, uint32(256), d.Engine.MemoryLimitPages)
	require.False(t, d.Tracing.Enabled)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
root: /opt/stanford
grammar: $(ROOT)/grammar/wsjPCFG.ser.gz
options: ["-retainTmpSubcategories"]
log:
  level: debug
tracing:
  enabled: true
  exporter: none
`), 0o600))

	cfg, used, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, used)
	require.Equal(t, "/opt/stanford/grammar/wsjPCFG.ser.gz", cfg.GrammarPath())
	require.Equal(t, []string{"-retainTmpSubcategories"}, cfg.Options)
	require.Equal(t, "debug", cfg.Log.Level)
	require.True(t, cfg.Tracing.Enabled)
	require.Equal(t, "none", cfg.Tracing.Exporter)

	// Unset keys keep their defaults.
	require.Equal(t, Defaults().Tokenizer, cfg.Tokenizer)
	require.Equal(t, "parse-bridge", cfg.Tracing.ServiceName)
	require.Equal(t, uint32(256), cfg.Engine.MemoryLimitPages)
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PARSEBRIDGE_ROOT", "/srv/nlp")
	t.Setenv("PARSEBRIDGE_ENGINE_MEMORY_LIMIT_PAGES", "32")

	cfg, _, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "/srv/nlp/treebank.mrg", cfg.GrammarPath())
	require.Equal(t, uint32(32), cfg.Engine.MemoryLimitPages)
}

func TestLoad_SearchPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(".parse-bridge.yaml", []byte("root: here\n"), 0o600))

	cfg, used, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ".parse-bridge.yaml", used)
	require.Equal(t, "here", cfg.Root)
}

func TestLoad_Errors(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.True(t, errors.IsKind(err, errors.KindInvalidData))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("root: [unclosed\n"), 0o600))
	_, _, err = Load(bad)
	require.Error(t, err)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefault(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	cfg, _, err := Load(path)
	require.NoError(t, err)
	d := Defaults()
	require.Equal(t, d.GrammarPath(), cfg.GrammarPath())
	require.Equal(t, d.Tokenizer, cfg.Tokenizer)
	require.Equal(t, d.Engine, cfg.Engine)
	require.Equal(t, d.Log, cfg.Log)
	require.Equal(t, d.Tracing, cfg.Tracing)
}

func TestLogger(t *testing.T) {
	cfg := Defaults()
	l, err := cfg.Logger()
	require.NoError(t, err)
	require.NotNil(t, l)

	cfg.Log.Development = true
	_, err = cfg.Logger()
	require.NoError(t, err)

	cfg.Log.Level = "chatty"
	_, err = cfg.Logger()
	require.True(t, errors.IsKind(err, errors.KindInvalidInput))
}
