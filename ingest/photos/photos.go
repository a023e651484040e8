// Package photos verifies that a record's photo URLs are reachable before
// export. Failures never block an import; they surface as warnings on the
// record's report entry.
package photos

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/openartmap/artcat/config"
	"github.com/openartmap/artcat/internal/httpclient"
)

// Checker probes photo URLs over HTTP
type Checker struct {
	client   *httpclient.SaferClient
	maxBytes int64
	logger   *zap.SugaredLogger
}

// NewChecker builds a checker from photo configuration
func NewChecker(cfg config.PhotosConfig, logger *zap.SugaredLogger) *Checker {
	return &Checker{
		client:   httpclient.NewSaferClient(time.Duration(cfg.TimeoutSeconds) * time.Second),
		maxBytes: cfg.MaxBytes,
		logger:   logger,
	}
}

// NewCheckerWithClient builds a checker around an existing client (used by tests)
func NewCheckerWithClient(client *httpclient.SaferClient, maxBytes int64, logger *zap.SugaredLogger) *Checker {
	return &Checker{client: client, maxBytes: maxBytes, logger: logger}
}

// Verify probes every URL and returns one warning per unusable photo.
// An empty slice means all photos checked out.
func (c *Checker) Verify(ctx context.Context, urls []string) []string {
	var warnings []string
	for _, photoURL := range urls {
		if err := c.verifyOne(ctx, photoURL); err != nil {
			warnings = append(warnings, fmt.Sprintf("photo %s: %v", photoURL, err))
			if c.logger != nil {
				c.logger.Debugw("Photo verification failed", "url", photoURL, "error", err)
			}
		}
	}
	return warnings
}

// verifyOne tries HEAD first; servers that reject HEAD get a GET whose body
// is discarded immediately
func (c *Checker) verifyOne(ctx context.Context, photoURL string) error {
	if _, err := c.client.ValidateURL(photoURL); err != nil {
		return err
	}

	resp, err := c.head(ctx, photoURL)
	if err != nil || resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented {
		if resp != nil {
			resp.Body.Close()
		}
		resp, err = c.get(ctx, photoURL)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unreachable (status %d)", resp.StatusCode)
	}

	if length := resp.Header.Get("Content-Length"); length != "" && c.maxBytes > 0 {
		if size, parseErr := strconv.ParseInt(length, 10, 64); parseErr == nil && size > c.maxBytes {
			return fmt.Errorf("too large (%d bytes, limit %d)", size, c.maxBytes)
		}
	}

	return nil
}

func (c *Checker) head(ctx context.Context, photoURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, photoURL, nil)
	if err != nil {
		return nil, err
	}
	return c.client.Do(req)
}

func (c *Checker) get(ctx context.Context, photoURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, photoURL, nil)
	if err != nil {
		return nil, err
	}
	return c.client.Do(req)
}
