package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocalPathPassesThrough(t *testing.T) {
	fetcher := NewFetcher(t.TempDir(), nil)

	path, err := fetcher.Resolve(context.Background(), "/data/papers.csv")
	require.NoError(t, err)
	assert.Equal(t, "/data/papers.csv", path)
}

func TestResolveHTTPDownloadsAndCaches(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("abstract,source,title\n")) //nolint:errcheck
	}))
	defer server.Close()

	fetcher := NewFetcher(t.TempDir(), nil)

	path, err := fetcher.Resolve(context.Background(), server.URL+"/papers.csv")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "abstract,source,title\n", string(data))

	// Second resolve reuses the cached copy.
	cached, err := fetcher.Resolve(context.Background(), server.URL+"/papers.csv")
	require.NoError(t, err)
	assert.Equal(t, path, cached)
	assert.Equal(t, 1, hits)
}

func TestResolveHTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(t.TempDir(), nil)

	_, err := fetcher.Resolve(context.Background(), server.URL+"/missing.csv")
	assert.ErrorContains(t, err, "404")
}

func TestResolveS3WithoutClient(t *testing.T) {
	fetcher := NewFetcher(t.TempDir(), nil)

	_, err := fetcher.Resolve(context.Background(), "s3://bucket/papers.csv")
	assert.ErrorContains(t, err, "no s3 client is configured")
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := parseS3URI("s3://datasets/scopus/papers.csv")
	require.NoError(t, err)
	assert.Equal(t, "datasets", bucket)
	assert.Equal(t, "scopus/papers.csv", key)

	_, _, err = parseS3URI("s3://datasets")
	assert.ErrorContains(t, err, "expected s3://bucket/key")
}

func TestCachePathIsStable(t *testing.T) {
	fetcher := NewFetcher(filepath.Join(t.TempDir(), "cache"), nil)

	a, err := fetcher.cachePath("https://example.com/papers.csv")
	require.NoError(t, err)
	b, err := fetcher.cachePath("https://example.com/papers.csv")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := fetcher.cachePath("https://example.com/other.csv")
	require.NoError(t, err)
	assert.NotEqual(t, a, other)
}
