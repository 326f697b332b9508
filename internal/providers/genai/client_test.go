package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/HenrikWarf/creative-studio/internal/domain"
	"github.com/HenrikWarf/creative-studio/internal/infra"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func testConfig() *infra.Config {
	return &infra.Config{
		UseVertex:             false,
		GeminiAPIKey:          "test-key",
		GeminiBaseURL:         "https://genai.test/v1beta",
		ModelTextFast:         "gemini-2.5-flash",
		ModelImageFast:        "gemini-2.5-flash-image",
		ModelImageHighQuality: "publishers/google/models/gemini-3-pro-image-preview",
	}
}

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient(context.Background(), testConfig(), zerolog.Nop(), &http.Client{Transport: rt})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return client
}

func jsonResponse(status int, body any) *http.Response {
	data, _ := json.Marshal(body)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(data)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func imageResponse(data []byte) *http.Response {
	return jsonResponse(http.StatusOK, map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"parts": []map[string]any{{
					"inlineData": map[string]any{
						"mimeType": "image/png",
						"data":     base64.StdEncoding.EncodeToString(data),
					},
				}},
			},
		}},
	})
}

func TestGenerateImagesDecodesInlineData(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	var mu sync.Mutex
	var calls int
	var seenURL string
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		mu.Lock()
		calls++
		seenURL = r.URL.String()
		mu.Unlock()
		return imageResponse(payload), nil
	})

	images, err := client.GenerateImages(context.Background(), ImageRequest{Prompt: "a red chair", NumImages: 2})
	if err != nil {
		t.Fatalf("GenerateImages returned error: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}
	if !bytes.Equal(images[0], payload) {
		t.Fatalf("image bytes mismatch: %v", images[0])
	}
	if calls != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", calls)
	}
	if !strings.Contains(seenURL, "models/gemini-2.5-flash-image:generateContent") {
		t.Fatalf("unexpected endpoint: %s", seenURL)
	}
	if !strings.Contains(seenURL, "key=test-key") {
		t.Fatalf("api key missing from request: %s", seenURL)
	}
}

func TestGenerateImagesNoUsableOutput(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, map[string]any{
			"candidates": []map[string]any{{
				"content":      map[string]any{},
				"finishReason": "SAFETY",
			}},
		}), nil
	})

	_, err := client.GenerateImages(context.Background(), ImageRequest{Prompt: "x"})
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
	if !strings.Contains(err.Error(), "SAFETY") {
		t.Fatalf("finish reason missing from error: %v", err)
	}
}

func TestGenerateImagesBatchFailsOnAnyError(t *testing.T) {
	payload := []byte{1, 2, 3}
	var mu sync.Mutex
	var calls int
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		mu.Lock()
		calls++
		failing := calls == 2
		mu.Unlock()
		if failing {
			return jsonResponse(http.StatusInternalServerError, map[string]any{
				"error": map[string]any{"code": 500, "message": "backend blew up"},
			}), nil
		}
		return imageResponse(payload), nil
	})

	images, err := client.GenerateImages(context.Background(), ImageRequest{Prompt: "x", NumImages: 3})
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
	if images != nil {
		t.Fatalf("expected no partial results, got %d images", len(images))
	}
}

func TestEditImageReturnsEditedBytes(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	var calls int
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		calls++
		return imageResponse(payload), nil
	})

	edited, err := client.EditImage(context.Background(), EditRequest{
		Instruction: "remove the background",
		Image:       InlineImage{Data: []byte{1}, MimeType: "image/png"},
	})
	if err != nil {
		t.Fatalf("EditImage returned error: %v", err)
	}
	if !bytes.Equal(edited, payload) {
		t.Fatalf("edited bytes mismatch: %v", edited)
	}
	if calls != 1 {
		t.Fatalf("expected a single upstream call, got %d", calls)
	}
}

func TestHighQualityModelRequiresVertex(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		t.Fatal("no upstream call expected")
		return nil, nil
	})

	_, err := client.GenerateImages(context.Background(), ImageRequest{Prompt: "x", Quality: "quality"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGenerateJSONFallsBackWithoutSchema(t *testing.T) {
	var calls int
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		calls++
		body, _ := io.ReadAll(r.Body)
		if calls == 1 {
			if !strings.Contains(string(body), "responseSchema") {
				t.Fatalf("first call should carry the schema: %s", body)
			}
			return jsonResponse(http.StatusBadRequest, map[string]any{
				"error": map[string]any{"code": 400, "message": "schema not supported"},
			}), nil
		}
		if strings.Contains(string(body), "responseSchema") {
			t.Fatalf("retry should drop the schema: %s", body)
		}
		return jsonResponse(http.StatusOK, map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": "```json\n{\"scenes\": []}\n```"}},
				},
			}},
		}), nil
	})

	raw, err := client.GenerateJSON(context.Background(), "gemini-2.5-flash", "write a script", map[string]any{"type": "OBJECT"})
	if err != nil {
		t.Fatalf("GenerateJSON returned error: %v", err)
	}
	if string(raw) != `{"scenes": []}` {
		t.Fatalf("unexpected JSON: %s", raw)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestOptimizePromptFallsBackToOriginal(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{"parts": []map[string]any{{"text": "   "}}},
			}},
		}), nil
	})

	out, err := client.OptimizePrompt(context.Background(), "a cat")
	if err != nil {
		t.Fatalf("OptimizePrompt returned error: %v", err)
	}
	if out != "a cat" {
		t.Fatalf("expected fallback to original prompt, got %q", out)
	}
}

func TestCleanJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n[1,2]\n```", "[1,2]"},
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := CleanJSON(tc.in); got != tc.want {
			t.Fatalf("CleanJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestQualifyModel(t *testing.T) {
	if got := qualifyModel("veo-3.1-generate-preview"); got != "publishers/google/models/veo-3.1-generate-preview" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := qualifyModel("publishers/google/models/gemini-3-pro-image-preview"); got != "publishers/google/models/gemini-3-pro-image-preview" {
		t.Fatalf("qualified model should pass through, got %q", got)
	}
}
