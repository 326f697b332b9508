// Package tryon runs virtual try-on predictions. The model is only served
// on Vertex AI, and garments are applied one at a time with each result
// feeding the next fitting.
package tryon

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/HenrikWarf/creative-studio/internal/domain"
	"github.com/HenrikWarf/creative-studio/internal/infra"
	"github.com/HenrikWarf/creative-studio/internal/providers/genai"
)

// Input is an image payload handed in by the caller.
type Input struct {
	Data     []byte
	MimeType string
}

// Processor is the surface the try-on handler depends on.
type Processor interface {
	TryOn(ctx context.Context, person Input, garments []Input) ([]byte, error)
}

// Client invokes the try-on model through the shared backend.
type Client struct {
	backend    genai.Backend
	httpClient *http.Client
	cfg        *infra.Config
	logger     zerolog.Logger
}

// NewClient builds the try-on client.
func NewClient(backend genai.Backend, cfg *infra.Config, logger zerolog.Logger, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &Client{backend: backend, httpClient: httpClient, cfg: cfg, logger: logger}
}

type tryOnImage struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded,omitempty"`
}

type tryOnProductImage struct {
	Image tryOnImage `json:"image"`
}

type tryOnInstance struct {
	PersonImage   struct {
		Image tryOnImage `json:"image"`
	} `json:"personImage"`
	ProductImages []tryOnProductImage `json:"productImages"`
}

type tryOnRequest struct {
	Instances []tryOnInstance `json:"instances"`
}

type tryOnResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded,omitempty"`
		MimeType           string `json:"mimeType,omitempty"`
	} `json:"predictions"`
}

// TryOn dresses the person image in each garment sequentially. Garment i+1
// is fitted onto the output of garment i, so layered outfits compose.
func (c *Client) TryOn(ctx context.Context, person Input, garments []Input) ([]byte, error) {
	if !c.backend.Managed() {
		return nil, fmt.Errorf("%w: virtual try-on requires Vertex AI mode", domain.ErrInvalidInput)
	}
	if len(garments) == 0 {
		return nil, fmt.Errorf("%w: at least one clothing image is required", domain.ErrInvalidInput)
	}

	current := person.Data
	for i, garment := range garments {
		c.logger.Debug().Int("garment", i+1).Int("total", len(garments)).Msg("applying garment")
		out, err := c.applyGarment(ctx, current, garment.Data)
		if err != nil {
			return nil, fmt.Errorf("garment %d: %w", i+1, err)
		}
		current = out
	}
	return current, nil
}

func (c *Client) applyGarment(ctx context.Context, person, garment []byte) ([]byte, error) {
	var inst tryOnInstance
	inst.PersonImage.Image = tryOnImage{BytesBase64Encoded: base64.StdEncoding.EncodeToString(person)}
	inst.ProductImages = []tryOnProductImage{{Image: tryOnImage{BytesBase64Encoded: base64.StdEncoding.EncodeToString(garment)}}}

	body, err := json.Marshal(tryOnRequest{Instances: []tryOnInstance{inst}})
	if err != nil {
		return nil, fmt.Errorf("marshal try-on request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.backend.Endpoint(c.cfg.ModelTryOn, "predict"), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create try-on request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.backend.Authorize(req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("invoke try-on: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: try-on status %d: %s", domain.ErrProviderFailure, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out tryOnResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode try-on response: %w", err)
	}
	if len(out.Predictions) == 0 || out.Predictions[0].BytesBase64Encoded == "" {
		return nil, fmt.Errorf("%w: no generated image in response", domain.ErrProviderFailure)
	}
	data, err := base64.StdEncoding.DecodeString(out.Predictions[0].BytesBase64Encoded)
	if err != nil {
		return nil, fmt.Errorf("decode generated image: %w", err)
	}
	return data, nil
}

var _ Processor = (*Client)(nil)
