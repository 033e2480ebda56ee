package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MEDIA_STORAGE_PATH", dir)
	t.Setenv("SEARCH_PAGE_SIZE", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "community.db", cfg.DatabasePath)
	assert.Equal(t, filepath.Join(dir, DefaultBugReportsSubDir), cfg.BugReportsPath)
	assert.Equal(t, 20, cfg.SearchPageSize)
	assert.Equal(t, "India", cfg.DefaultCountry)
	assert.False(t, cfg.CreateMissingSurnames)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigInvalidIntFallsBack(t *testing.T) {
	t.Setenv("MEDIA_STORAGE_PATH", t.TempDir())
	t.Setenv("SEARCH_PAGE_SIZE", "lots")
	t.Setenv("IMPORT_CREATE_SURNAMES", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.SearchPageSize)
	assert.True(t, cfg.CreateMissingSurnames)
}

func TestLoadConfigRejectsBadLogFormat(t *testing.T) {
	t.Setenv("MEDIA_STORAGE_PATH", t.TempDir())
	t.Setenv("LOG_FORMAT", "xml")

	_, err := LoadConfig()
	require.Error(t, err)
}
