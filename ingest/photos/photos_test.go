package photos

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openartmap/artcat/internal/httpclient"
)

func testChecker(maxBytes int64) *Checker {
	return NewCheckerWithClient(httpclient.WrapClient(&http.Client{}), maxBytes, nil)
}

func TestVerifyReachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1024")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	warnings := testChecker(1 << 20).Verify(context.Background(), []string{server.URL + "/photo.jpg"})
	assert.Empty(t, warnings)
}

func TestVerifyNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	warnings := testChecker(0).Verify(context.Background(), []string{server.URL + "/gone.jpg"})
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "404")
	assert.Contains(t, warnings[0], server.URL)
}

func TestVerifyFallsBackToGet(t *testing.T) {
	var methods []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	warnings := testChecker(0).Verify(context.Background(), []string{server.URL + "/photo.jpg"})
	assert.Empty(t, warnings)
	assert.Equal(t, []string{http.MethodHead, http.MethodGet}, methods)
}

func TestVerifyTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "5000000")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	warnings := testChecker(1 << 20).Verify(context.Background(), []string{server.URL + "/huge.jpg"})
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "too large")
}

func TestVerifyBadURL(t *testing.T) {
	warnings := testChecker(0).Verify(context.Background(), []string{"file:///etc/passwd"})
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "scheme")
}

func TestVerifyMultiple(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/good.jpg" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	warnings := testChecker(0).Verify(context.Background(), []string{
		server.URL + "/good.jpg",
		server.URL + "/bad.jpg",
	})
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "bad.jpg")
}
