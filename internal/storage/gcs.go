// Package storage wraps the GCS bucket that holds every generated artifact.
// Persisted records keep bare object keys; signed URLs are minted on the way
// out and never stored.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// BlobStore is the contract handlers and materialization depend on.
type BlobStore interface {
	Upload(ctx context.Context, data []byte, key, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	SignedURL(key string) string
	Exists(ctx context.Context, key string) (bool, error)
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	Copy(ctx context.Context, srcKey, dstKey string) error
	CopyFromBucket(ctx context.Context, srcBucket, srcKey, dstKey string) error
	Delete(ctx context.Context, key string) error
	SetContentType(ctx context.Context, key, contentType string) error
	Bucket() string
}

// Gateway implements BlobStore on top of a single GCS bucket.
type Gateway struct {
	client *gcs.Client
	bucket string
	ttl    time.Duration
	logger zerolog.Logger
}

// NewGateway opens a GCS client scoped to the configured bucket. Credentials
// come from the environment (application default credentials).
func NewGateway(ctx context.Context, bucket string, ttl time.Duration, logger zerolog.Logger, opts ...option.ClientOption) (*Gateway, error) {
	opts = append([]option.ClientOption{option.WithScopes(gcs.ScopeReadWrite)}, opts...)
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Gateway{client: client, bucket: bucket, ttl: ttl, logger: logger}, nil
}

// Bucket returns the bucket name the gateway writes to.
func (g *Gateway) Bucket() string {
	return g.bucket
}

// Upload writes data under key and returns the key.
func (g *Gateway) Upload(ctx context.Context, data []byte, key, contentType string) (string, error) {
	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize object %s: %w", key, err)
	}
	g.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("uploaded object")
	return key, nil
}

// Download reads the full object at key.
func (g *Gateway) Download(ctx context.Context, key string) ([]byte, error) {
	r, err := g.client.Bucket(g.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open object %s: %w", key, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return data, nil
}

// SignedURL mints a V4 GET URL for the object at key. Values that are already
// URLs, inline data, or error markers pass through untouched, and signing
// failures fall back to the raw key so a read never breaks on a bad object
// reference.
func (g *Gateway) SignedURL(key string) string {
	if IsPassThrough(key) {
		return key
	}
	url, err := g.client.Bucket(g.bucket).SignedURL(key, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(g.ttl),
	})
	if err != nil {
		g.logger.Error().Err(err).Str("key", key).Msg("sign url failed")
		return key
	}
	return url
}

// IsPassThrough reports whether a stored value should skip signing.
func IsPassThrough(key string) bool {
	return key == "" ||
		strings.HasPrefix(key, "http") ||
		strings.HasPrefix(key, "data:") ||
		strings.HasPrefix(key, "Error")
}

// Exists reports whether an object is present at key.
func (g *Gateway) Exists(ctx context.Context, key string) (bool, error) {
	_, err := g.client.Bucket(g.bucket).Object(key).Attrs(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat object %s: %w", key, err)
	}
	return true, nil
}

// ListKeys returns every object key under prefix.
func (g *Gateway) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	it := g.client.Bucket(g.bucket).Objects(ctx, &gcs.Query{Prefix: prefix})
	var keys []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list objects %s: %w", prefix, err)
		}
		keys = append(keys, attrs.Name)
	}
	return keys, nil
}

// Copy duplicates an object within the bucket.
func (g *Gateway) Copy(ctx context.Context, srcKey, dstKey string) error {
	return g.CopyFromBucket(ctx, g.bucket, srcKey, dstKey)
}

// CopyFromBucket copies an object from another bucket into this one.
func (g *Gateway) CopyFromBucket(ctx context.Context, srcBucket, srcKey, dstKey string) error {
	src := g.client.Bucket(srcBucket).Object(srcKey)
	dst := g.client.Bucket(g.bucket).Object(dstKey)
	if _, err := dst.CopierFrom(src).Run(ctx); err != nil {
		return fmt.Errorf("copy %s/%s to %s: %w", srcBucket, srcKey, dstKey, err)
	}
	return nil
}

// Delete removes the object at key.
func (g *Gateway) Delete(ctx context.Context, key string) error {
	if err := g.client.Bucket(g.bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// SetContentType patches the object's content type attribute.
func (g *Gateway) SetContentType(ctx context.Context, key, contentType string) error {
	_, err := g.client.Bucket(g.bucket).Object(key).Update(ctx, gcs.ObjectAttrsToUpdate{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("update object %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying client.
func (g *Gateway) Close() error {
	return g.client.Close()
}

var _ BlobStore = (*Gateway)(nil)
