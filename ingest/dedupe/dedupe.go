// Package dedupe scores incoming records against nearby catalog artworks to
// decide whether an import would create a duplicate. Scoring is additive over
// weighted signals; the weights and threshold come from configuration so
// operators can tune them per data source.
package dedupe

import (
	"sort"
	"strings"
	"unicode"

	"github.com/openartmap/artcat/catalog"
	"github.com/openartmap/artcat/config"
	"github.com/openartmap/artcat/geo"
	"github.com/openartmap/artcat/ingest/types"
)

// Candidate is one existing artwork that scored against an incoming record
type Candidate struct {
	ExistingArtworkID string   `json:"existing_artwork_id"`
	Score             float64  `json:"score"`
	Signals           []string `json:"signals"`
}

// Detector scores records against catalog artworks
type Detector struct {
	cfg config.DedupeConfig
}

// NewDetector creates a detector with the given weights and threshold
func NewDetector(cfg config.DedupeConfig) *Detector {
	return &Detector{cfg: cfg}
}

// Threshold returns the configured duplicate threshold
func (d *Detector) Threshold() float64 {
	return d.cfg.Threshold
}

// Score evaluates every candidate against the record and returns all of them
// with their scores, highest first. Ties are broken by artwork ID so repeated
// runs over the same inputs always pick the same winner.
func (d *Detector) Score(rec *types.UnifiedImportRecord, title string, tags *types.Tags, candidates []catalog.Artwork) []Candidate {
	scored := make([]Candidate, 0, len(candidates))
	for _, art := range candidates {
		scored = append(scored, d.scoreOne(rec, title, tags, art))
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ExistingArtworkID < scored[j].ExistingArtworkID
	})
	return scored
}

// Duplicate returns the best-scoring candidate at or above the threshold,
// or nil when the record is clear to import
func (d *Detector) Duplicate(rec *types.UnifiedImportRecord, title string, tags *types.Tags, candidates []catalog.Artwork) *Candidate {
	scored := d.Score(rec, title, tags, candidates)
	if len(scored) == 0 {
		return nil
	}
	best := scored[0]
	if best.Score >= d.cfg.Threshold {
		return &best
	}
	return nil
}

func (d *Detector) scoreOne(rec *types.UnifiedImportRecord, title string, tags *types.Tags, art catalog.Artwork) Candidate {
	c := Candidate{ExistingArtworkID: art.ID}

	if title != "" && normalizeTitle(title) == normalizeTitle(art.Title) {
		c.Score += d.cfg.TitleWeight
		c.Signals = append(c.Signals, "title")
	}

	if artistsOverlap(rec.Artists, art.Artists) {
		c.Score += d.cfg.ArtistWeight
		c.Signals = append(c.Signals, "artist")
	}

	if geo.Distance(rec.Lat, rec.Lon, art.Lat, art.Lon) <= d.cfg.LocationEpsilonMeters {
		c.Score += d.cfg.LocationWeight
		c.Signals = append(c.Signals, "location")
	}

	if tagScore := d.tagScore(tags, art.Tags); tagScore > 0 {
		c.Score += tagScore
		c.Signals = append(c.Signals, "tags")
	}

	// Weights are operator-tunable and may sum past 1
	if c.Score > 1 {
		c.Score = 1
	}

	return c
}

// tagScore awards TagWeight per tag whose key and value both match,
// capped at TagWeightCap
func (d *Detector) tagScore(tags *types.Tags, existing map[string]string) float64 {
	if tags == nil || len(existing) == 0 {
		return 0
	}
	score := 0.0
	tags.Each(func(key, value string) {
		if existingValue, ok := existing[key]; ok && existingValue == value {
			score += d.cfg.TagWeight
		}
	})
	if score > d.cfg.TagWeightCap {
		score = d.cfg.TagWeightCap
	}
	return score
}

// artistsOverlap reports whether the two artist lists share a name,
// ignoring case and surrounding whitespace
func artistsOverlap(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, artist := range a {
		if name := normalizeArtist(artist); name != "" {
			seen[name] = struct{}{}
		}
	}
	for _, artist := range b {
		if _, ok := seen[normalizeArtist(artist)]; ok {
			return true
		}
	}
	return false
}

func normalizeArtist(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeTitle lowercases, strips punctuation and collapses whitespace so
// "Digital  Orca!" and "digital orca" compare equal
func normalizeTitle(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimRight(b.String(), " ")
}
