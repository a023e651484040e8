package config

import "time"

// Config represents the core artcat configuration
type Config struct {
	Import  ImportConfig  `mapstructure:"import" toml:"import"`
	Dedupe  DedupeConfig  `mapstructure:"dedupe" toml:"dedupe"`
	Catalog CatalogConfig `mapstructure:"catalog" toml:"catalog"`
	Photos  PhotosConfig  `mapstructure:"photos" toml:"photos"`
	Report  ReportConfig  `mapstructure:"report" toml:"report"`
}

// ImportConfig configures pipeline execution
type ImportConfig struct {
	// Workers is the number of concurrent record workers (default: 1 = sequential)
	Workers int `mapstructure:"workers" toml:"workers"`
}

// MaxWorkers caps --concurrency so a misconfigured run cannot hammer the
// destination API with an unbounded goroutine count.
const MaxWorkers = 16

// DedupeConfig configures the duplicate detector.
// Weights are additive per signal; the final score is clipped to [0,1].
type DedupeConfig struct {
	Threshold             float64 `mapstructure:"threshold" toml:"threshold"`               // min score classified as duplicate, inclusive (default: 0.70)
	LocationEpsilonMeters float64 `mapstructure:"location_epsilon_meters" toml:"location_epsilon_meters"` // geodesic distance treated as "same spot" (default: 10)
	NearbyRadiusMeters    float64 `mapstructure:"nearby_radius_meters" toml:"nearby_radius_meters"`    // radius of the candidate query (default: 250)
	TitleWeight           float64 `mapstructure:"title_weight" toml:"title_weight"`            // default: 0.20
	ArtistWeight          float64 `mapstructure:"artist_weight" toml:"artist_weight"`           // default: 0.20
	LocationWeight        float64 `mapstructure:"location_weight" toml:"location_weight"`         // default: 0.30
	TagWeight             float64 `mapstructure:"tag_weight" toml:"tag_weight"`              // per matching tag key+value (default: 0.05)
	TagWeightCap          float64 `mapstructure:"tag_weight_cap" toml:"tag_weight_cap"`          // cumulative tag contribution cap (default: 0.25)
}

// CatalogConfig configures access to the destination artwork catalog
type CatalogConfig struct {
	BaseURL           string `mapstructure:"base_url" toml:"base_url"`            // e.g. "https://api.openartmap.org"
	Token             string `mapstructure:"token" toml:"token"`               // bearer token (ARTCAT_CATALOG_TOKEN)
	RequestsPerMinute int    `mapstructure:"requests_per_minute" toml:"requests_per_minute"` // create-call rate limit, 0 = unlimited (default: 60)
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" toml:"timeout_seconds"`     // per-request timeout (default: 30)
	SnapshotPath      string `mapstructure:"snapshot_path" toml:"snapshot_path"`       // optional SQLite snapshot for offline dedupe
}

// Timeout returns the per-request timeout as a duration
func (c CatalogConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PhotosConfig configures photo URL verification
type PhotosConfig struct {
	Verify         bool  `mapstructure:"verify" toml:"verify"`          // check photo URLs before export (default: true)
	TimeoutSeconds int   `mapstructure:"timeout_seconds" toml:"timeout_seconds"` // per-photo timeout (default: 15)
	MaxBytes       int64 `mapstructure:"max_bytes" toml:"max_bytes"`       // response size cap (default: 20 MiB)
}

// ReportConfig configures the run report output
type ReportConfig struct {
	Dir string `mapstructure:"dir" toml:"dir"` // directory for timestamped report files (default: "reports")
}

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
