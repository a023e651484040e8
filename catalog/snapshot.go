package catalog

import (
	"context"
	"database/sql"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/openartmap/artcat/db"
	"github.com/openartmap/artcat/errors"
	"github.com/openartmap/artcat/geo"
)

// SnapshotStore answers nearby queries from a local SQLite snapshot of the
// destination catalog. Candidate rows are pre-filtered with a bounding-box
// range scan, then checked with exact haversine distance.
type SnapshotStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// OpenSnapshot opens (and if needed migrates) a snapshot database
func OpenSnapshot(path string, logger *zap.SugaredLogger) (*SnapshotStore, error) {
	database, err := db.OpenWithMigrations(path, logger)
	if err != nil {
		return nil, errors.Wrap(err, "opening catalog snapshot")
	}
	return &SnapshotStore{db: database, logger: logger}, nil
}

// NewSnapshotStore wraps an already-open database (used by tests)
func NewSnapshotStore(database *sql.DB, logger *zap.SugaredLogger) *SnapshotStore {
	return &SnapshotStore{db: database, logger: logger}
}

// Close closes the underlying database
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// Nearby returns all snapshot artworks within radiusMeters of (lat, lon)
func (s *SnapshotStore) Nearby(ctx context.Context, lat, lon, radiusMeters float64) ([]Artwork, error) {
	minLat, maxLat, minLon, maxLon := geo.BoundingBox(lat, lon, radiusMeters)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, lat, lon, artists, tags
		FROM artworks
		WHERE lat BETWEEN ? AND ? AND lon BETWEEN ? AND ?`,
		minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot nearby query")
	}
	defer rows.Close()

	var artworks []Artwork
	for rows.Next() {
		var a Artwork
		var artistsJSON, tagsJSON string
		if err := rows.Scan(&a.ID, &a.Title, &a.Lat, &a.Lon, &artistsJSON, &tagsJSON); err != nil {
			return nil, errors.Wrap(err, "scanning snapshot row")
		}
		if err := json.Unmarshal([]byte(artistsJSON), &a.Artists); err != nil {
			return nil, errors.Wrapf(err, "decoding artists for artwork %s", a.ID)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &a.Tags); err != nil {
			return nil, errors.Wrapf(err, "decoding tags for artwork %s", a.ID)
		}

		// The box overshoots the circle at its corners
		if geo.Distance(lat, lon, a.Lat, a.Lon) <= radiusMeters {
			artworks = append(artworks, a)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating snapshot rows")
	}

	if s.logger != nil {
		s.logger.Debugw("Snapshot nearby query",
			"lat", lat, "lon", lon, "radius_m", radiusMeters, "candidates", len(artworks))
	}

	return artworks, nil
}

// Upsert inserts or replaces one artwork in the snapshot
func (s *SnapshotStore) Upsert(ctx context.Context, a Artwork) error {
	artistsJSON, err := json.Marshal(a.Artists)
	if err != nil {
		return errors.Wrap(err, "encoding artists")
	}
	tagsJSON, err := json.Marshal(a.Tags)
	if err != nil {
		return errors.Wrap(err, "encoding tags")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO artworks (id, title, lat, lon, artists, tags)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			lat = excluded.lat,
			lon = excluded.lon,
			artists = excluded.artists,
			tags = excluded.tags`,
		a.ID, a.Title, a.Lat, a.Lon, string(artistsJSON), string(tagsJSON))
	return errors.Wrap(err, "upserting snapshot artwork")
}

// Count returns the number of artworks in the snapshot
func (s *SnapshotStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM artworks").Scan(&n)
	return n, errors.Wrap(err, "counting snapshot artworks")
}
