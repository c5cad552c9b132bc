package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recera/vango-styles/pkg/styling"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "text", cfg.Styling.SheetMode)
	assert.Equal(t, "/live", cfg.Server.LivePath)
	assert.Equal(t, 100*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, []string{".yaml", ".yml", ".json"}, cfg.Watch.Extensions)
	assert.Equal(t, "normal", cfg.Logging.Console.Level)

	mode, err := cfg.SheetMode()
	require.NoError(t, err)
	assert.Equal(t, styling.ModeText, mode)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vstyle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
styling:
  sheet_mode: typed
  unitless: [gridGap]
server:
  addr: ":9000"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "typed", cfg.Styling.SheetMode)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	// untouched fields keep their defaults
	assert.Equal(t, "/live", cfg.Server.LivePath)
	assert.True(t, cfg.Server.Metrics)

	assert.True(t, cfg.Units().IsUnitless("grid-gap"))
	assert.Equal(t, "4", cfg.Units().Normalize("gridGap", styling.Number(4)))
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Styling.SheetMode)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown field", "styling:\n  colour: red\n"},
		{"bad mode", "styling:\n  sheet_mode: fancy\n"},
		{"bad level", "logging:\n  console:\n    level: loud\n"},
		{"relative live path", "server:\n  live_path: live\n"},
		{"bad version", "version: 2\n"},
		{"bad extension", "watch:\n  extensions: [yaml]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, err := Default()
			require.NoError(t, err)
			_, err = Parse([]byte(tt.src), base)
			require.Error(t, err)
			assert.ErrorIs(t, err, styling.ErrConfiguration)
		})
	}
}

func TestDump(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	data, err := Dump(cfg)
	require.NoError(t, err)

	again, err := Parse(data, &Config{})
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}
