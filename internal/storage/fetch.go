package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Fetcher resolves a dataset source to a local file path. Plain paths pass
// through untouched; s3:// and http(s):// sources are downloaded once into
// the cache directory and the cached copy is reused on later runs.
type Fetcher struct {
	cacheDir string
	s3       *S3Client
	http     *resty.Client
}

func NewFetcher(cacheDir string, s3Client *S3Client) *Fetcher {
	return &Fetcher{
		cacheDir: cacheDir,
		s3:       s3Client,
		http:     resty.New(),
	}
}

func (f *Fetcher) Resolve(ctx context.Context, source string) (string, error) {
	switch {
	case strings.HasPrefix(source, "s3://"):
		return f.fetchS3(ctx, source)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return f.fetchHTTP(ctx, source)
	default:
		// Local path: hand it to the reader as-is, it opens lazily.
		return source, nil
	}
}

func (f *Fetcher) cachePath(source string) (string, error) {
	if err := os.MkdirAll(f.cacheDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("error creating cache dir: %w", err)
	}
	sum := sha256.Sum256([]byte(source))
	return filepath.Join(f.cacheDir, hex.EncodeToString(sum[:])+"_"+filepath.Base(source)), nil
}

func (f *Fetcher) fetchS3(ctx context.Context, source string) (string, error) {
	if f.s3 == nil {
		return "", fmt.Errorf("source %s requires s3, but no s3 client is configured", source)
	}

	dest, err := f.cachePath(source)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(dest); err == nil {
		slog.Info("using cached dataset file", "source", source, "path", dest)
		return dest, nil
	}

	bucket, key, err := parseS3URI(source)
	if err != nil {
		return "", err
	}

	slog.Info("downloading dataset file from s3", "bucket", bucket, "key", key)
	if err := f.s3.DownloadFile(ctx, bucket, key, dest); err != nil {
		return "", fmt.Errorf("error downloading %s: %w", source, err)
	}
	return dest, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, source string) (string, error) {
	dest, err := f.cachePath(source)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(dest); err == nil {
		slog.Info("using cached dataset file", "source", source, "path", dest)
		return dest, nil
	}

	slog.Info("downloading dataset file", "url", source)
	resp, err := f.http.R().SetContext(ctx).SetOutput(dest).Get(source)
	if err != nil {
		return "", fmt.Errorf("error downloading %s: %w", source, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("error downloading %s: status %s", source, resp.Status())
	}
	return dest, nil
}

func parseS3URI(source string) (bucket, key string, err error) {
	parsed, err := url.Parse(source)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 uri %s: %w", source, err)
	}
	bucket = parsed.Host
	key = strings.TrimPrefix(parsed.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 uri %s: expected s3://bucket/key", source)
	}
	return bucket, key, nil
}
