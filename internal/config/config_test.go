package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "project.md", cfg.Document)
	assert.Equal(t, 10, cfg.MaxBackups)
	assert.Equal(t, []string{"Ideas", "Todo", "In Progress", "Done"}, cfg.DefaultSections)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFrom_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, "document: plans/web.md\nmax_backups: 3\ndefault_sections: [Backlog, Doing]\n")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "plans/web.md", cfg.Document)
	assert.Equal(t, 3, cfg.MaxBackups)
	assert.Equal(t, []string{"Backlog", "Doing"}, cfg.DefaultSections)
	assert.Equal(t, "./backups", cfg.BackupDir)
}

func TestLoadFrom_EmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := LoadFrom(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFrom_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "documnet: x.md\n"},
		{"negative backups", "max_backups: -1\n"},
		{"blank document", "document: \"  \"\n"},
		{"bad yaml", "document: [\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncode_DecodesBack(t *testing.T) {
	cfg := Default()
	cfg.LogCalls = true

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))
	assert.Contains(t, buf.String(), "log_calls: true")

	got := Config{}
	require.NoError(t, Decode(&buf, &got))
	assert.Equal(t, cfg, got)
}

func TestResolved_ExpandsHome(t *testing.T) {
	t.Setenv("HOME", "/home/ana")

	cfg, err := Default().Resolved()
	require.NoError(t, err)
	assert.Equal(t, "/home/ana/.mdplan/index.db", cfg.IndexPath)
	assert.Equal(t, "project.md", cfg.Document)
}
