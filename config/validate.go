package config

import "github.com/openartmap/artcat/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Import.Workers < 1 {
		return errors.Newf("import.workers must be >= 1, got %d", c.Import.Workers)
	}
	if c.Import.Workers > MaxWorkers {
		return errors.Newf("import.workers must be <= %d, got %d", MaxWorkers, c.Import.Workers)
	}

	if c.Dedupe.Threshold < 0 || c.Dedupe.Threshold > 1 {
		return errors.Newf("dedupe.threshold must be in [0,1], got %f", c.Dedupe.Threshold)
	}
	if c.Dedupe.LocationEpsilonMeters <= 0 {
		return errors.Newf("dedupe.location_epsilon_meters must be > 0, got %f", c.Dedupe.LocationEpsilonMeters)
	}
	if c.Dedupe.NearbyRadiusMeters < c.Dedupe.LocationEpsilonMeters {
		return errors.Newf("dedupe.nearby_radius_meters (%f) must be >= location_epsilon_meters (%f)",
			c.Dedupe.NearbyRadiusMeters, c.Dedupe.LocationEpsilonMeters)
	}
	for name, w := range map[string]float64{
		"dedupe.title_weight":    c.Dedupe.TitleWeight,
		"dedupe.artist_weight":   c.Dedupe.ArtistWeight,
		"dedupe.location_weight": c.Dedupe.LocationWeight,
		"dedupe.tag_weight":      c.Dedupe.TagWeight,
		"dedupe.tag_weight_cap":  c.Dedupe.TagWeightCap,
	} {
		if w < 0 {
			return errors.Newf("%s must be >= 0, got %f", name, w)
		}
	}
	if c.Dedupe.TagWeightCap < c.Dedupe.TagWeight {
		return errors.Newf("dedupe.tag_weight_cap (%f) must be >= tag_weight (%f)",
			c.Dedupe.TagWeightCap, c.Dedupe.TagWeight)
	}

	if c.Catalog.BaseURL == "" {
		return errors.New("catalog.base_url cannot be empty")
	}
	if c.Catalog.RequestsPerMinute < 0 {
		return errors.Newf("catalog.requests_per_minute must be >= 0, got %d", c.Catalog.RequestsPerMinute)
	}
	if c.Catalog.TimeoutSeconds <= 0 {
		return errors.Newf("catalog.timeout_seconds must be > 0, got %d", c.Catalog.TimeoutSeconds)
	}

	if c.Photos.Verify {
		if c.Photos.TimeoutSeconds <= 0 {
			return errors.Newf("photos.timeout_seconds must be > 0, got %d", c.Photos.TimeoutSeconds)
		}
		if c.Photos.MaxBytes <= 0 {
			return errors.Newf("photos.max_bytes must be > 0, got %d", c.Photos.MaxBytes)
		}
	}

	if c.Report.Dir == "" {
		return errors.New("report.dir cannot be empty")
	}

	return nil
}
