// Package video drives Veo's long-running generation operations: submit,
// poll until done, then hand the result to materialization.
package video

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

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/HenrikWarf/creative-studio/internal/domain"
	"github.com/HenrikWarf/creative-studio/internal/infra"
	"github.com/HenrikWarf/creative-studio/internal/materialize"
	"github.com/HenrikWarf/creative-studio/internal/providers/genai"
	"github.com/HenrikWarf/creative-studio/internal/storage"
)

// Input is a media payload handed in by the caller.
type Input struct {
	Data     []byte
	MimeType string
}

// Result is one finished video, materialized at Key in the asset bucket.
type Result struct {
	Key string
}

// Generator is the surface the video handlers depend on.
type Generator interface {
	TextToVideo(ctx context.Context, req TextToVideoRequest) ([]Result, error)
	ImageToVideo(ctx context.Context, req ImageToVideoRequest) ([]Result, error)
	FirstLast(ctx context.Context, req FirstLastRequest) ([]Result, error)
	Reference(ctx context.Context, req ReferenceRequest) ([]Result, error)
	Extend(ctx context.Context, req ExtendRequest) ([]Result, error)
}

// TextToVideoRequest generates clips from a prompt alone.
type TextToVideoRequest struct {
	Prompt      string
	Context     string
	AspectRatio string
	NumVideos   int
}

// ImageToVideoRequest animates a single still.
type ImageToVideoRequest struct {
	Image       Input
	Prompt      string
	Context     string
	AspectRatio string
	NumVideos   int
}

// FirstLastRequest interpolates between two stills.
type FirstLastRequest struct {
	First     Input
	Last      Input
	Prompt    string
	Context   string
	NumVideos int
}

// ReferenceRequest generates from a prompt with an asset reference image.
type ReferenceRequest struct {
	Image     Input
	Prompt    string
	Context   string
	NumVideos int
}

// ExtendRequest continues an existing clip.
type ExtendRequest struct {
	Video     Input
	Prompt    string
	Context   string
	NumVideos int
}

// Veo talks to the veo model family through the shared backend.
type Veo struct {
	backend    genai.Backend
	store      storage.BlobStore
	mat        *materialize.Materializer
	httpClient *http.Client
	cfg        *infra.Config
	logger     zerolog.Logger
}

// NewVeo builds the video client. The backend decides whether inputs travel
// inline or as staged bucket objects.
func NewVeo(backend genai.Backend, store storage.BlobStore, mat *materialize.Materializer, cfg *infra.Config, logger zerolog.Logger, httpClient *http.Client) *Veo {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &Veo{backend: backend, store: store, mat: mat, httpClient: httpClient, cfg: cfg, logger: logger}
}

// Wire types for predictLongRunning.

type veoImage struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded,omitempty"`
	GcsURI             string `json:"gcsUri,omitempty"`
	MimeType           string `json:"mimeType,omitempty"`
}

type veoVideo struct {
	URI      string `json:"uri,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

type veoReferenceImage struct {
	Image         veoImage `json:"image"`
	ReferenceType string   `json:"referenceType"`
}

type veoInstance struct {
	Prompt          string              `json:"prompt"`
	Image           *veoImage           `json:"image,omitempty"`
	LastFrame       *veoImage           `json:"lastFrame,omitempty"`
	ReferenceImages []veoReferenceImage `json:"referenceImages,omitempty"`
	Video           *veoVideo           `json:"video,omitempty"`
}

type veoParameters struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
	SampleCount int    `json:"sampleCount,omitempty"`
	StorageURI  string `json:"storageUri,omitempty"`
}

type veoRequest struct {
	Instances  []veoInstance  `json:"instances"`
	Parameters *veoParameters `json:"parameters,omitempty"`
}

type operationError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type generatedVideo struct {
	URI                string `json:"uri,omitempty"`
	GcsURI             string `json:"gcsUri,omitempty"`
	BytesBase64Encoded string `json:"bytesBase64Encoded,omitempty"`
	MimeType           string `json:"mimeType,omitempty"`
}

type generatedSample struct {
	Video generatedVideo `json:"video"`
}

type operationResponse struct {
	// Vertex shape.
	Videos []generatedVideo `json:"videos,omitempty"`
	// Direct API shape.
	GenerateVideoResponse *struct {
		GeneratedSamples []generatedSample `json:"generatedSamples,omitempty"`
	} `json:"generateVideoResponse,omitempty"`
}

type operation struct {
	Name     string             `json:"name"`
	Done     bool               `json:"done"`
	Error    *operationError    `json:"error,omitempty"`
	Response *operationResponse `json:"response,omitempty"`
}

// TextToVideo generates req.NumVideos clips from the prompt.
func (v *Veo) TextToVideo(ctx context.Context, req TextToVideoRequest) ([]Result, error) {
	inst := veoInstance{Prompt: withContext(req.Prompt, req.Context)}
	aspect := req.AspectRatio
	if aspect == "" {
		aspect = "16:9"
	}
	return v.fanOut(ctx, req.NumVideos, inst, aspect)
}

// ImageToVideo animates a still image into req.NumVideos clips. The whole
// batch fails if any single generation fails.
func (v *Veo) ImageToVideo(ctx context.Context, req ImageToVideoRequest) ([]Result, error) {
	image, err := v.stageImage(ctx, req.Image, ".png")
	if err != nil {
		return nil, err
	}
	inst := veoInstance{Prompt: withContext(req.Prompt, req.Context), Image: image}
	aspect := req.AspectRatio
	if aspect == "" {
		aspect = "16:9"
	}
	return v.fanOut(ctx, req.NumVideos, inst, aspect)
}

// FirstLast interpolates between a first and last frame.
func (v *Veo) FirstLast(ctx context.Context, req FirstLastRequest) ([]Result, error) {
	first, err := v.stageImage(ctx, req.First, "_first.png")
	if err != nil {
		return nil, err
	}
	last, err := v.stageImage(ctx, req.Last, "_last.png")
	if err != nil {
		return nil, err
	}
	inst := veoInstance{Prompt: withContext(req.Prompt, req.Context), Image: first, LastFrame: last}
	return v.fanOut(ctx, req.NumVideos, inst, "16:9")
}

// Reference generates with the image attached as an asset reference rather
// than a start frame.
func (v *Veo) Reference(ctx context.Context, req ReferenceRequest) ([]Result, error) {
	image, err := v.stageImage(ctx, req.Image, "_ref.png")
	if err != nil {
		return nil, err
	}
	inst := veoInstance{
		Prompt:          withContext(req.Prompt, req.Context),
		ReferenceImages: []veoReferenceImage{{Image: *image, ReferenceType: "asset"}},
	}
	return v.fanOut(ctx, req.NumVideos, inst, "16:9")
}

// Extend continues an existing clip. The source video is always staged to
// the bucket; veo reads it by URI in both modes.
func (v *Veo) Extend(ctx context.Context, req ExtendRequest) ([]Result, error) {
	mime := req.Video.MimeType
	if mime == "" {
		mime = "video/mp4"
	}
	inputKey := "temp_inputs/" + uuid.NewString() + "_extend_input.mp4"
	if _, err := v.store.Upload(ctx, req.Video.Data, inputKey, mime); err != nil {
		return nil, err
	}
	inst := veoInstance{
		Prompt: withContext(req.Prompt, req.Context),
		Video:  &veoVideo{URI: "gs://" + v.store.Bucket() + "/" + inputKey, MimeType: mime},
	}
	return v.fanOut(ctx, req.NumVideos, inst, "")
}

// stageImage prepares an image input for the backend: staged to the bucket
// and passed by URI on Vertex, inline bytes on the direct API.
func (v *Veo) stageImage(ctx context.Context, in Input, suffix string) (*veoImage, error) {
	mime := in.MimeType
	if mime == "" {
		mime = "image/png"
	}
	if !v.backend.Managed() {
		return &veoImage{BytesBase64Encoded: base64.StdEncoding.EncodeToString(in.Data), MimeType: mime}, nil
	}
	key := "temp_inputs/" + uuid.NewString() + suffix
	if _, err := v.store.Upload(ctx, in.Data, key, mime); err != nil {
		return nil, err
	}
	return &veoImage{GcsURI: "gs://" + v.store.Bucket() + "/" + key, MimeType: mime}, nil
}

func (v *Veo) fanOut(ctx context.Context, n int, inst veoInstance, aspect string) ([]Result, error) {
	if n < 1 {
		n = 1
	}
	results := make([]Result, n)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			r, err := v.generateOne(ctx, inst, aspect)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (v *Veo) generateOne(ctx context.Context, inst veoInstance, aspect string) (Result, error) {
	outputKey := "generated_videos/" + uuid.NewString() + ".mp4"
	params := &veoParameters{AspectRatio: aspect, SampleCount: 1}
	if v.backend.Managed() {
		params.StorageURI = "gs://" + v.store.Bucket() + "/" + outputKey
	}

	op, err := v.submit(ctx, veoRequest{Instances: []veoInstance{inst}, Parameters: params})
	if err != nil {
		return Result{}, err
	}
	op, err = v.Await(ctx, op)
	if err != nil {
		return Result{}, err
	}
	if op.Error != nil {
		return Result{}, fmt.Errorf("%w: video generation failed: %s", domain.ErrProviderFailure, op.Error.Message)
	}

	if v.backend.Managed() {
		key, err := v.mat.FromPrefix(ctx, outputKey, ".mp4", "video/mp4")
		if err != nil {
			return Result{}, err
		}
		return Result{Key: key}, nil
	}

	video, err := firstVideo(op)
	if err != nil {
		return Result{}, err
	}
	if video.BytesBase64Encoded != "" {
		data, err := base64.StdEncoding.DecodeString(video.BytesBase64Encoded)
		if err != nil {
			return Result{}, fmt.Errorf("decode video bytes: %w", err)
		}
		key, err := v.mat.FromBytes(ctx, data, outputKey, "video/mp4")
		if err != nil {
			return Result{}, err
		}
		return Result{Key: key}, nil
	}
	uri := video.URI
	if uri == "" {
		uri = video.GcsURI
	}
	if uri == "" {
		return Result{}, fmt.Errorf("%w: generated video has no URI", domain.ErrProviderFailure)
	}
	key, err := v.mat.FromURI(ctx, uri, outputKey, "video/mp4")
	if err != nil {
		return Result{}, err
	}
	return Result{Key: key}, nil
}

func (v *Veo) submit(ctx context.Context, payload veoRequest) (*operation, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal veo request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.backend.Endpoint(v.cfg.ModelVideo, "predictLongRunning"), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create veo request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err := v.backend.Authorize(req); err != nil {
		return nil, err
	}
	op, err := v.doOperation(req)
	if err != nil {
		return nil, err
	}
	v.logger.Info().Str("operation", op.Name).Msg("video generation submitted")
	return op, nil
}

// Await polls the operation at the configured interval until it is done or
// the wait budget is exhausted. A done operation carrying a provider error
// is returned as-is for the caller to surface; there are no retries.
func (v *Veo) Await(ctx context.Context, op *operation) (*operation, error) {
	deadline := time.Now().Add(v.cfg.PollMaxWait)
	for !op.Done {
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: operation %s did not finish within %s", domain.ErrProviderFailure, op.Name, v.cfg.PollMaxWait)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(v.cfg.PollInterval):
		}
		req, err := v.backend.PollRequest(ctx, v.cfg.ModelVideo, op.Name)
		if err != nil {
			return nil, err
		}
		next, err := v.doOperation(req)
		if err != nil {
			return nil, err
		}
		op = next
	}
	return op, nil
}

func (v *Veo) doOperation(req *http.Request) (*operation, error) {
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("invoke veo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: veo status %d: %s", domain.ErrProviderFailure, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	var op operation
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
		return nil, fmt.Errorf("decode operation: %w", err)
	}
	return &op, nil
}

func firstVideo(op *operation) (*generatedVideo, error) {
	if op.Response == nil {
		return nil, fmt.Errorf("%w: no video generated", domain.ErrProviderFailure)
	}
	if len(op.Response.Videos) > 0 {
		return &op.Response.Videos[0], nil
	}
	if op.Response.GenerateVideoResponse != nil && len(op.Response.GenerateVideoResponse.GeneratedSamples) > 0 {
		return &op.Response.GenerateVideoResponse.GeneratedSamples[0].Video, nil
	}
	return nil, fmt.Errorf("%w: no video generated", domain.ErrProviderFailure)
}

func withContext(prompt, contextText string) string {
	if contextText == "" {
		return prompt
	}
	return prompt + "\n\nContext / Brand Guidelines:\n" + contextText + "\n\nPlease ensure the video aligns with these guidelines."
}

var _ Generator = (*Veo)(nil)
