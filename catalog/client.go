package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/openartmap/artcat/errors"
)

// maxErrorBodyBytes bounds how much of an error response is read for the message
const maxErrorBodyBytes = 4096

// Client queries the catalog's read API for artworks near a point
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.SugaredLogger
}

// NewClient creates a catalog read client. token may be empty for catalogs
// with public read access.
func NewClient(baseURL, token string, timeout time.Duration, logger *zap.SugaredLogger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Nearby returns all artworks within radiusMeters of (lat, lon)
func (c *Client) Nearby(ctx context.Context, lat, lon, radiusMeters float64) ([]Artwork, error) {
	endpoint := fmt.Sprintf("%s/api/artworks/nearby?%s", c.baseURL, url.Values{
		"lat":    {fmt.Sprintf("%f", lat)},
		"lon":    {fmt.Sprintf("%f", lon)},
		"radius": {fmt.Sprintf("%f", radiusMeters)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building nearby request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "nearby artwork query")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, errors.Newf("nearby artwork query returned %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var artworks []Artwork
	if err := json.NewDecoder(resp.Body).Decode(&artworks); err != nil {
		return nil, errors.Wrap(err, "decoding nearby response")
	}

	if c.logger != nil {
		c.logger.Debugw("Nearby artwork query",
			"lat", lat, "lon", lon, "radius_m", radiusMeters, "candidates", len(artworks))
	}

	return artworks, nil
}
