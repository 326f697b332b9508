// Package materialize lands provider output at canonical storage keys.
// Providers hand results back in several shapes (inline bytes, download
// URIs, objects written near a requested key) and everything downstream
// expects one object at one known key.
package materialize

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/HenrikWarf/creative-studio/internal/infra"
	"github.com/HenrikWarf/creative-studio/internal/storage"
)

// Materializer copies generation results into the asset bucket.
type Materializer struct {
	store      storage.BlobStore
	httpClient *http.Client
	apiKey     string
	attempts   int
	delay      time.Duration
	logger     zerolog.Logger
}

// New builds a materializer bound to the asset bucket. The API key is used
// when downloading from provider-owned googleapis.com URLs.
func New(store storage.BlobStore, cfg *infra.Config, logger zerolog.Logger, httpClient *http.Client) *Materializer {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Materializer{
		store:      store,
		httpClient: httpClient,
		apiKey:     cfg.GeminiAPIKey,
		attempts:   cfg.ResolveAttempts,
		delay:      cfg.ResolveDelay,
		logger:     logger,
	}
}

// FromBytes uploads inline result bytes at key.
func (m *Materializer) FromBytes(ctx context.Context, data []byte, key, contentType string) (string, error) {
	return m.store.Upload(ctx, data, key, contentType)
}

// FromURI lands the object behind a gs:// or https:// result URI at key.
func (m *Materializer) FromURI(ctx context.Context, uri, key, contentType string) (string, error) {
	if strings.HasPrefix(uri, "gs://") {
		return m.fromObjectURI(ctx, uri, key)
	}
	return m.fromHTTP(ctx, uri, key, contentType)
}

// FromPrefix resolves an object the provider wrote under key (possibly with
// extra path segments), moves it to exactly key, and patches the content
// type. The provider-chosen original is deleted best-effort.
func (m *Materializer) FromPrefix(ctx context.Context, key, suffix, contentType string) (string, error) {
	found, err := storage.Resolve(ctx, m.store, key, suffix, m.attempts, m.delay)
	if err != nil {
		return "", err
	}
	if found != key {
		if err := m.store.Copy(ctx, found, key); err != nil {
			return "", fmt.Errorf("move %s to %s: %w", found, key, err)
		}
		if err := m.store.Delete(ctx, found); err != nil {
			m.logger.Warn().Err(err).Str("key", found).Msg("cleanup of provider object failed")
		}
	}
	if err := m.store.SetContentType(ctx, key, contentType); err != nil {
		return "", err
	}
	return key, nil
}

func (m *Materializer) fromObjectURI(ctx context.Context, uri, key string) (string, error) {
	rest := strings.TrimPrefix(uri, "gs://")
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok {
		return "", fmt.Errorf("malformed object uri %q", uri)
	}
	if bucket == m.store.Bucket() && object == key {
		return key, nil
	}
	// The provider may report the object slightly before it is visible.
	if ok, err := m.store.Exists(ctx, object); err == nil && !ok && bucket == m.store.Bucket() {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(m.delay):
		}
	}
	if err := m.store.CopyFromBucket(ctx, bucket, object, key); err != nil {
		return "", err
	}
	return key, nil
}

func (m *Materializer) fromHTTP(ctx context.Context, uri, key, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return "", fmt.Errorf("create download request: %w", err)
	}
	if strings.Contains(uri, "googleapis.com") && m.apiKey != "" {
		req.Header.Set("x-goog-api-key", m.apiKey)
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", uri, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: status %d", uri, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read download: %w", err)
	}
	return m.store.Upload(ctx, data, key, contentType)
}
