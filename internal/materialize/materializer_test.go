package materialize

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/HenrikWarf/creative-studio/internal/domain"
	"github.com/HenrikWarf/creative-studio/internal/infra"
)

type memStore struct {
	objects      map[string][]byte
	contentTypes map[string]string
	deleteErr    error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (s *memStore) Upload(ctx context.Context, data []byte, key, contentType string) (string, error) {
	s.objects[key] = data
	s.contentTypes[key] = contentType
	return key, nil
}

func (s *memStore) Download(ctx context.Context, key string) ([]byte, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("object missing")
	}
	return data, nil
}

func (s *memStore) SignedURL(key string) string {
	return "https://signed.test/" + key
}

func (s *memStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := s.objects[key]
	return ok, nil
}

func (s *memStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for k := range s.objects {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (s *memStore) Copy(ctx context.Context, srcKey, dstKey string) error {
	data, ok := s.objects[srcKey]
	if !ok {
		return errors.New("source missing")
	}
	s.objects[dstKey] = data
	return nil
}

func (s *memStore) CopyFromBucket(ctx context.Context, srcBucket, srcKey, dstKey string) error {
	return s.Copy(ctx, srcKey, dstKey)
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	return nil
}

func (s *memStore) SetContentType(ctx context.Context, key, contentType string) error {
	s.contentTypes[key] = contentType
	return nil
}

func (s *memStore) Bucket() string {
	return "test-bucket"
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func testMaterializer(store *memStore, rt roundTripFunc) *Materializer {
	cfg := &infra.Config{GeminiAPIKey: "test-key", ResolveAttempts: 3, ResolveDelay: 0}
	var client *http.Client
	if rt != nil {
		client = &http.Client{Transport: rt}
	}
	return New(store, cfg, zerolog.Nop(), client)
}

func TestFromBytes(t *testing.T) {
	store := newMemStore()
	m := testMaterializer(store, nil)
	key, err := m.FromBytes(context.Background(), []byte("png-bytes"), "generated_images/a.png", "image/png")
	if err != nil {
		t.Fatalf("FromBytes returned error: %v", err)
	}
	if !bytes.Equal(store.objects[key], []byte("png-bytes")) {
		t.Fatalf("stored bytes mismatch")
	}
}

func TestFromURIDownloadsWithAPIKey(t *testing.T) {
	store := newMemStore()
	var sawHeader string
	m := testMaterializer(store, func(r *http.Request) (*http.Response, error) {
		sawHeader = r.Header.Get("x-goog-api-key")
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader([]byte("video-bytes"))),
		}, nil
	})
	key, err := m.FromURI(context.Background(), "https://generativelanguage.googleapis.com/v1beta/files/abc:download", "generated_videos/v.mp4", "video/mp4")
	if err != nil {
		t.Fatalf("FromURI returned error: %v", err)
	}
	if sawHeader != "test-key" {
		t.Fatalf("expected api key header on provider download, got %q", sawHeader)
	}
	if !bytes.Equal(store.objects[key], []byte("video-bytes")) {
		t.Fatalf("stored bytes mismatch")
	}
}

func TestFromURICopiesObjectURI(t *testing.T) {
	store := newMemStore()
	store.objects["provider/output.mp4"] = []byte("vid")
	m := testMaterializer(store, nil)
	key, err := m.FromURI(context.Background(), "gs://test-bucket/provider/output.mp4", "generated_videos/v.mp4", "video/mp4")
	if err != nil {
		t.Fatalf("FromURI returned error: %v", err)
	}
	if !bytes.Equal(store.objects[key], []byte("vid")) {
		t.Fatalf("copied bytes mismatch")
	}
}

func TestFromURISameKeyIsNoop(t *testing.T) {
	store := newMemStore()
	store.objects["generated_videos/v.mp4"] = []byte("vid")
	m := testMaterializer(store, nil)
	key, err := m.FromURI(context.Background(), "gs://test-bucket/generated_videos/v.mp4", "generated_videos/v.mp4", "video/mp4")
	if err != nil {
		t.Fatalf("FromURI returned error: %v", err)
	}
	if key != "generated_videos/v.mp4" {
		t.Fatalf("unexpected key: %q", key)
	}
}

func TestFromPrefixMovesAndPatches(t *testing.T) {
	store := newMemStore()
	store.objects["generated_videos/v.mp4/sample_0.mp4"] = []byte("vid")
	m := testMaterializer(store, nil)
	key, err := m.FromPrefix(context.Background(), "generated_videos/v.mp4", ".mp4", "video/mp4")
	if err != nil {
		t.Fatalf("FromPrefix returned error: %v", err)
	}
	if key != "generated_videos/v.mp4" {
		t.Fatalf("unexpected key: %q", key)
	}
	if !bytes.Equal(store.objects[key], []byte("vid")) {
		t.Fatalf("moved bytes mismatch")
	}
	if store.contentTypes[key] != "video/mp4" {
		t.Fatalf("content type not patched: %q", store.contentTypes[key])
	}
	if _, ok := store.objects["generated_videos/v.mp4/sample_0.mp4"]; ok {
		t.Fatalf("provider original should be deleted")
	}
}

func TestFromPrefixCleanupFailureIsNonFatal(t *testing.T) {
	store := newMemStore()
	store.objects["generated_videos/v.mp4/sample_0.mp4"] = []byte("vid")
	store.deleteErr = errors.New("delete denied")
	m := testMaterializer(store, nil)
	if _, err := m.FromPrefix(context.Background(), "generated_videos/v.mp4", ".mp4", "video/mp4"); err != nil {
		t.Fatalf("cleanup failure should not fail materialization: %v", err)
	}
}

func TestFromPrefixNotLocated(t *testing.T) {
	store := newMemStore()
	m := testMaterializer(store, nil)
	_, err := m.FromPrefix(context.Background(), "generated_videos/missing.mp4", ".mp4", "video/mp4")
	if !errors.Is(err, domain.ErrOutputNotLocated) {
		t.Fatalf("expected ErrOutputNotLocated, got %v", err)
	}
}
