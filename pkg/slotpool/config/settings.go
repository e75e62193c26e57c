package config

// Settings holds library-wide defaults resolved from a Config.
// Keys use dotted names, e.g.:
//
//	snapshot.path: ./snapshots.db
//	metrics.enabled: true
//	cache.line_bytes: 64
type Settings struct {
	// SnapshotPath is the SQLite database path for the snapshot store.
	SnapshotPath string

	// MetricsEnabled turns on the OpenTelemetry metrics recorder for
	// pools constructed from these settings.
	MetricsEnabled bool

	// CacheLineBytes is the storage budget for goroutine-private caches.
	CacheLineBytes int
}

// Defaults returns the settings used when no config file is present.
func Defaults() Settings {
	return Settings{
		SnapshotPath:   "./snapshots.db",
		MetricsEnabled: false,
		CacheLineBytes: 64,
	}
}

// SettingsFrom resolves Settings from a Config, falling back to
// Defaults for missing keys.
func SettingsFrom(c Config) Settings {
	d := Defaults()
	return Settings{
		SnapshotPath:   c.String("snapshot.path", d.SnapshotPath),
		MetricsEnabled: c.Bool("metrics.enabled", d.MetricsEnabled),
		CacheLineBytes: c.Int("cache.line_bytes", d.CacheLineBytes),
	}
}

// LoadSettings reads a config file and resolves Settings from it.
func LoadSettings(path string) (Settings, error) {
	c, err := FromFile(path)
	if err != nil {
		return Settings{}, err
	}
	return SettingsFrom(c), nil
}
