package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/HenrikWarf/creative-studio/internal/domain"
	"github.com/HenrikWarf/creative-studio/internal/infra"
	"github.com/HenrikWarf/creative-studio/internal/materialize"
	"github.com/HenrikWarf/creative-studio/internal/providers/genai"
)

type fakeStore struct {
	objects map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (s *fakeStore) Upload(ctx context.Context, data []byte, key, contentType string) (string, error) {
	s.objects[key] = data
	return key, nil
}

func (s *fakeStore) Download(ctx context.Context, key string) ([]byte, error) {
	return s.objects[key], nil
}

func (s *fakeStore) SignedURL(key string) string { return key }

func (s *fakeStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := s.objects[key]
	return ok, nil
}

func (s *fakeStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (s *fakeStore) Copy(ctx context.Context, srcKey, dstKey string) error {
	s.objects[dstKey] = s.objects[srcKey]
	return nil
}

func (s *fakeStore) CopyFromBucket(ctx context.Context, srcBucket, srcKey, dstKey string) error {
	return s.Copy(ctx, srcKey, dstKey)
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *fakeStore) SetContentType(ctx context.Context, key, contentType string) error { return nil }

func (s *fakeStore) Bucket() string { return "test-bucket" }

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonBody(v any) io.ReadCloser {
	data, _ := json.Marshal(v)
	return io.NopCloser(bytes.NewReader(data))
}

func testVeo(store *fakeStore, rt roundTripFunc) *Veo {
	cfg := &infra.Config{
		GeminiAPIKey:    "test-key",
		ModelVideo:      "veo-3.1-generate-preview",
		PollInterval:    time.Millisecond,
		PollMaxWait:     time.Second,
		ResolveAttempts: 2,
		ResolveDelay:    0,
	}
	backend := genai.NewDirectBackend("https://genai.test/v1beta", "test-key")
	client := &http.Client{Transport: rt}
	mat := materialize.New(store, cfg, zerolog.Nop(), client)
	return NewVeo(backend, store, mat, cfg, zerolog.Nop(), client)
}

func TestImageToVideoPollsUntilDone(t *testing.T) {
	store := newFakeStore()
	var polls int32
	veo := testVeo(store, func(r *http.Request) (*http.Response, error) {
		switch {
		case strings.Contains(r.URL.Path, ":predictLongRunning"):
			return &http.Response{StatusCode: 200, Body: jsonBody(map[string]any{
				"name": "models/veo/operations/op-1",
				"done": false,
			})}, nil
		case strings.Contains(r.URL.Path, "operations/op-1"):
			n := atomic.AddInt32(&polls, 1)
			if n < 3 {
				return &http.Response{StatusCode: 200, Body: jsonBody(map[string]any{
					"name": "models/veo/operations/op-1",
					"done": false,
				})}, nil
			}
			return &http.Response{StatusCode: 200, Body: jsonBody(map[string]any{
				"name": "models/veo/operations/op-1",
				"done": true,
				"response": map[string]any{
					"generateVideoResponse": map[string]any{
						"generatedSamples": []map[string]any{
							{"video": map[string]any{"uri": "https://files.googleapis.com/v1/files/abc:download"}},
						},
					},
				},
			})}, nil
		case strings.Contains(r.URL.Host, "files.googleapis.com"):
			if r.Header.Get("x-goog-api-key") != "test-key" {
				t.Errorf("download missing api key header")
			}
			return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewReader([]byte("mp4-bytes")))}, nil
		default:
			t.Errorf("unexpected request: %s", r.URL)
			return &http.Response{StatusCode: 404, Body: io.NopCloser(strings.NewReader(""))}, nil
		}
	})

	results, err := veo.ImageToVideo(context.Background(), ImageToVideoRequest{
		Image:  Input{Data: []byte("png"), MimeType: "image/png"},
		Prompt: "make it move",
	})
	if err != nil {
		t.Fatalf("ImageToVideo returned error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if polls != 3 {
		t.Fatalf("expected 3 polls, got %d", polls)
	}
	if !bytes.Equal(store.objects[results[0].Key], []byte("mp4-bytes")) {
		t.Fatalf("materialized bytes mismatch")
	}
}

func TestFanOutStartsOnePollSequencePerVideo(t *testing.T) {
	store := newFakeStore()
	var submits int32
	veo := testVeo(store, func(r *http.Request) (*http.Response, error) {
		if strings.Contains(r.URL.Path, ":predictLongRunning") {
			atomic.AddInt32(&submits, 1)
			return &http.Response{StatusCode: 200, Body: jsonBody(map[string]any{
				"name": "models/veo/operations/op",
				"done": true,
				"response": map[string]any{
					"videos": []map[string]any{{"bytesBase64Encoded": "bXA0", "mimeType": "video/mp4"}},
				},
			})}, nil
		}
		t.Errorf("unexpected request: %s", r.URL)
		return nil, errors.New("unexpected")
	})

	results, err := veo.ImageToVideo(context.Background(), ImageToVideoRequest{
		Image:     Input{Data: []byte("png")},
		Prompt:    "move",
		NumVideos: 3,
	})
	if err != nil {
		t.Fatalf("ImageToVideo returned error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if submits != 3 {
		t.Fatalf("expected 3 submissions, got %d", submits)
	}
}

func TestFanOutFailsWholeBatch(t *testing.T) {
	store := newFakeStore()
	var submits int32
	veo := testVeo(store, func(r *http.Request) (*http.Response, error) {
		n := atomic.AddInt32(&submits, 1)
		if n == 2 {
			return &http.Response{StatusCode: 200, Body: jsonBody(map[string]any{
				"name":  "models/veo/operations/bad",
				"done":  true,
				"error": map[string]any{"code": 13, "message": "internal generation failure"},
			})}, nil
		}
		return &http.Response{StatusCode: 200, Body: jsonBody(map[string]any{
			"name": "models/veo/operations/ok",
			"done": true,
			"response": map[string]any{
				"videos": []map[string]any{{"bytesBase64Encoded": "bXA0"}},
			},
		})}, nil
	})

	_, err := veo.ImageToVideo(context.Background(), ImageToVideoRequest{
		Image:     Input{Data: []byte("png")},
		Prompt:    "move",
		NumVideos: 3,
	})
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
	if !strings.Contains(err.Error(), "internal generation failure") {
		t.Fatalf("provider message should propagate verbatim: %v", err)
	}
}

func TestAwaitTimesOut(t *testing.T) {
	store := newFakeStore()
	veo := testVeo(store, func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: 200, Body: jsonBody(map[string]any{
			"name": "models/veo/operations/slow",
			"done": false,
		})}, nil
	})
	veo.cfg.PollMaxWait = 5 * time.Millisecond

	_, err := veo.ImageToVideo(context.Background(), ImageToVideoRequest{
		Image:  Input{Data: []byte("png")},
		Prompt: "move",
	})
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("expected timeout failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "did not finish") {
		t.Fatalf("unexpected error: %v", err)
	}
}
