package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Pipeline defaults
	v.SetDefault("import.workers", 1) // sequential unless asked otherwise

	// Dedupe defaults. The weights reproduce the catalog's scoring model:
	// exact title + shared artist + co-located + 5 matching tags = 0.95.
	v.SetDefault("dedupe.threshold", 0.70)
	v.SetDefault("dedupe.location_epsilon_meters", 10.0)
	v.SetDefault("dedupe.nearby_radius_meters", 250.0)
	v.SetDefault("dedupe.title_weight", 0.20)
	v.SetDefault("dedupe.artist_weight", 0.20)
	v.SetDefault("dedupe.location_weight", 0.30)
	v.SetDefault("dedupe.tag_weight", 0.05)
	v.SetDefault("dedupe.tag_weight_cap", 0.25)

	// Catalog defaults
	v.SetDefault("catalog.base_url", "http://localhost:8900")
	v.SetDefault("catalog.requests_per_minute", 60)
	v.SetDefault("catalog.timeout_seconds", 30)

	// Photo verification defaults
	v.SetDefault("photos.verify", true)
	v.SetDefault("photos.timeout_seconds", 15)
	v.SetDefault("photos.max_bytes", int64(20*1024*1024))

	// Report defaults
	v.SetDefault("report.dir", "reports")
}

// BindSensitiveEnvVars binds secrets to environment variables so they never
// have to live in a config file on disk.
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("catalog.token", "ARTCAT_CATALOG_TOKEN")
}
