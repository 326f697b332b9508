package tryon

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/HenrikWarf/creative-studio/internal/domain"
	"github.com/HenrikWarf/creative-studio/internal/infra"
	"github.com/HenrikWarf/creative-studio/internal/providers/genai"
)

type fakeBackend struct {
	managed bool
}

func (b *fakeBackend) Managed() bool { return b.managed }

func (b *fakeBackend) Endpoint(model, verb string) string {
	return "https://vertex.test/v1/projects/p/locations/l/publishers/google/models/" + model + ":" + verb
}

func (b *fakeBackend) PollRequest(ctx context.Context, model, operation string) (*http.Request, error) {
	return nil, errors.New("not implemented")
}

func (b *fakeBackend) Authorize(req *http.Request) error { return nil }

var _ genai.Backend = (*fakeBackend)(nil)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func predictionResponse(data []byte) *http.Response {
	body, _ := json.Marshal(map[string]any{
		"predictions": []map[string]any{{
			"bytesBase64Encoded": base64.StdEncoding.EncodeToString(data),
			"mimeType":           "image/png",
		}},
	})
	return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewReader(body))}
}

func newTestClient(managed bool, rt roundTripFunc) *Client {
	cfg := &infra.Config{ModelTryOn: "virtual-try-on-preview-08-04"}
	return NewClient(&fakeBackend{managed: managed}, cfg, zerolog.Nop(), &http.Client{Transport: rt})
}

func TestTryOnChainsGarments(t *testing.T) {
	var calls int
	var lastPerson string
	client := newTestClient(true, func(r *http.Request) (*http.Response, error) {
		calls++
		var req tryOnRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		lastPerson = req.Instances[0].PersonImage.Image.BytesBase64Encoded
		return predictionResponse([]byte{byte(calls)}), nil
	})

	out, err := client.TryOn(context.Background(),
		Input{Data: []byte("person")},
		[]Input{{Data: []byte("shirt")}, {Data: []byte("jacket")}},
	)
	if err != nil {
		t.Fatalf("TryOn returned error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 predictions, got %d", calls)
	}
	// Second fitting must receive the first fitting's output, not the
	// original person image.
	if lastPerson != base64.StdEncoding.EncodeToString([]byte{1}) {
		t.Fatalf("garments not chained: %q", lastPerson)
	}
	if !bytes.Equal(out, []byte{2}) {
		t.Fatalf("unexpected final image: %v", out)
	}
}

func TestTryOnRequiresManagedBackend(t *testing.T) {
	client := newTestClient(false, func(r *http.Request) (*http.Response, error) {
		t.Fatal("no upstream call expected")
		return nil, nil
	})
	_, err := client.TryOn(context.Background(), Input{Data: []byte("p")}, []Input{{Data: []byte("g")}})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTryOnRequiresGarments(t *testing.T) {
	client := newTestClient(true, nil)
	_, err := client.TryOn(context.Background(), Input{Data: []byte("p")}, nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTryOnEmptyPrediction(t *testing.T) {
	client := newTestClient(true, func(r *http.Request) (*http.Response, error) {
		body, _ := json.Marshal(map[string]any{"predictions": []any{}})
		return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewReader(body))}, nil
	})
	_, err := client.TryOn(context.Background(), Input{Data: []byte("p")}, []Input{{Data: []byte("g")}})
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
}
