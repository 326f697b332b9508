package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Backend abstracts the two Google generative API surfaces. The direct Gemini
// API authenticates with an API key; Vertex AI scopes requests to a project
// and location and authenticates with OAuth. The choice is made once at
// startup and every call goes through the selected backend.
type Backend interface {
	// Managed reports whether this is the Vertex AI surface.
	Managed() bool
	// Endpoint builds the URL for a model verb such as generateContent.
	Endpoint(model, verb string) string
	// PollRequest builds the request that fetches a long-running operation.
	PollRequest(ctx context.Context, model, operation string) (*http.Request, error)
	// Authorize attaches credentials to an outgoing request.
	Authorize(req *http.Request) error
}

type directBackend struct {
	baseURL string
	apiKey  string
}

// NewDirectBackend targets generativelanguage.googleapis.com with an API key.
func NewDirectBackend(baseURL, apiKey string) Backend {
	return &directBackend{baseURL: strings.TrimRight(baseURL, "/"), apiKey: strings.TrimSpace(apiKey)}
}

func (b *directBackend) Managed() bool {
	return false
}

func (b *directBackend) Endpoint(model, verb string) string {
	return fmt.Sprintf("%s/models/%s:%s", b.baseURL, url.PathEscape(model), verb)
}

func (b *directBackend) PollRequest(ctx context.Context, model, operation string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/"+operation, nil)
	if err != nil {
		return nil, fmt.Errorf("create poll request: %w", err)
	}
	if err := b.Authorize(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (b *directBackend) Authorize(req *http.Request) error {
	q := req.URL.Query()
	q.Set("key", b.apiKey)
	req.URL.RawQuery = q.Encode()
	return nil
}

type vertexBackend struct {
	project  string
	location string
	tokens   oauth2.TokenSource
}

// NewVertexBackend targets aiplatform.googleapis.com for a project and
// location, authenticating with application default credentials. Location
// "global" uses the locationless host.
func NewVertexBackend(ctx context.Context, project, location string) (Backend, error) {
	tokens, err := google.DefaultTokenSource(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return nil, fmt.Errorf("vertex token source: %w", err)
	}
	return &vertexBackend{project: project, location: location, tokens: tokens}, nil
}

func (b *vertexBackend) Managed() bool {
	return true
}

func (b *vertexBackend) Endpoint(model, verb string) string {
	host := "https://aiplatform.googleapis.com/v1"
	if b.location != "global" {
		host = fmt.Sprintf("https://%s-aiplatform.googleapis.com/v1", b.location)
	}
	return fmt.Sprintf("%s/projects/%s/locations/%s/%s:%s", host, b.project, b.location, qualifyModel(model), verb)
}

func (b *vertexBackend) PollRequest(ctx context.Context, model, operation string) (*http.Request, error) {
	body, err := json.Marshal(map[string]string{"operationName": operation})
	if err != nil {
		return nil, fmt.Errorf("marshal poll request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.Endpoint(model, "fetchPredictOperation"), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create poll request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err := b.Authorize(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (b *vertexBackend) Authorize(req *http.Request) error {
	token, err := b.tokens.Token()
	if err != nil {
		return fmt.Errorf("vertex token: %w", err)
	}
	token.SetAuthHeader(req)
	return nil
}

// qualifyModel expands a bare model id into the Vertex publisher path. Ids
// that already carry a path are used as-is.
func qualifyModel(model string) string {
	if strings.Contains(model, "/") {
		return model
	}
	return "publishers/google/models/" + model
}
