package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, "./snapshots.db", d.SnapshotPath)
	assert.False(t, d.MetricsEnabled)
	assert.Equal(t, 64, d.CacheLineBytes)
}

func TestSettingsFrom(t *testing.T) {
	c := New(map[string]any{
		"snapshot.path":    "/var/lib/pool/snap.db",
		"metrics.enabled":  true,
		"cache.line_bytes": 128,
	})

	s := SettingsFrom(c)
	assert.Equal(t, "/var/lib/pool/snap.db", s.SnapshotPath)
	assert.True(t, s.MetricsEnabled)
	assert.Equal(t, 128, s.CacheLineBytes)
}

func TestSettingsFrom_PartialConfig(t *testing.T) {
	c := New(map[string]any{"metrics.enabled": true})

	s := SettingsFrom(c)
	assert.True(t, s.MetricsEnabled)
	assert.Equal(t, Defaults().SnapshotPath, s.SnapshotPath)
	assert.Equal(t, Defaults().CacheLineBytes, s.CacheLineBytes)
}

func TestLoadSettings(t *testing.T) {
	path := writeFile(t, "slotpool.yaml",
		"snapshot.path: ./data.db\nmetrics.enabled: true\ncache.line_bytes: 32\n")

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "./data.db", s.SnapshotPath)
	assert.True(t, s.MetricsEnabled)
	assert.Equal(t, 32, s.CacheLineBytes)
}

func TestLoadSettings_MissingFile(t *testing.T) {
	_, err := LoadSettings("/nonexistent/slotpool.yaml")
	assert.Error(t, err)
}

func TestLoadSettingsOrDefaults(t *testing.T) {
	// A missing file yields the defaults, not an error.
	s, err := LoadSettingsOrDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)

	// An existing file is resolved normally.
	path := writeFile(t, "slotpool.yaml", "snapshot.path: ./other.db\n")
	s, err = LoadSettingsOrDefaults(path)
	require.NoError(t, err)
	assert.Equal(t, "./other.db", s.SnapshotPath)

	// Malformed files still fail.
	bad := writeFile(t, "bad.yaml", "{not yaml")
	_, err = LoadSettingsOrDefaults(bad)
	assert.Error(t, err)
}
