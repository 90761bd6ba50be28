// Package sd is a client for the Stable Diffusion WebUI HTTP API.
package sd

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

	"imageatelier/internal/domain"
	"imageatelier/internal/infra"
)

const (
	// Synthesis is compute bound; a generation on CPU can run for minutes.
	defaultTimeout = 10 * time.Minute
	defaultBaseURL = "http://127.0.0.1:7860"
	defaultSampler = "DPM++ 2M Karras"
)

// Options configures the WebUI client.
type Options struct {
	BaseURL    string
	Checkpoint string
	Sampler    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client performs single-shot, cancellable synthesis calls. No call is
// retried; the caller owns failure handling.
type Client struct {
	baseURL    string
	checkpoint string
	sampler    string
	httpClient *http.Client
	logger     *infra.Logger
}

// Txt2ImgRequest is the payload for a pure text-to-image call.
type Txt2ImgRequest struct {
	Prompt      string `json:"prompt"`
	Steps       int    `json:"steps"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	SamplerName string `json:"sampler_name"`
}

// Img2ImgRequest is the payload for image-to-image and masked inpainting
// calls. Mask and the inpaint_full_res fields are only set for inpainting.
type Img2ImgRequest struct {
	Prompt                string   `json:"prompt"`
	InitImages            []string `json:"init_images"`
	Mask                  string   `json:"mask,omitempty"`
	Steps                 int      `json:"steps"`
	Width                 int      `json:"width"`
	Height                int      `json:"height"`
	SamplerName           string   `json:"sampler_name"`
	DenoisingStrength     float64  `json:"denoising_strength"`
	InpaintingFill        int      `json:"inpainting_fill"`
	InpaintFullRes        bool     `json:"inpaint_full_res,omitempty"`
	InpaintFullResPadding int      `json:"inpaint_full_res_padding,omitempty"`
}

type optionsRequest struct {
	SDModelCheckpoint string `json:"sd_model_checkpoint"`
}

// NewClient constructs a client with sane defaults.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	sampler := strings.TrimSpace(opts.Sampler)
	if sampler == "" {
		sampler = defaultSampler
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		baseURL:    baseURL,
		checkpoint: strings.TrimSpace(opts.Checkpoint),
		sampler:    sampler,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Txt2Img pins the configured checkpoint and runs one text-to-image call.
// Checkpoint selection is fire-and-forget: it is issued before the synthesis
// call but its failure only logs a warning.
func (c *Client) Txt2Img(ctx context.Context, req Txt2ImgRequest) ([]byte, error) {
	if req.SamplerName == "" {
		req.SamplerName = c.sampler
	}
	c.selectCheckpoint(ctx)
	return c.generate(ctx, "/sdapi/v1/txt2img", req)
}

// Img2Img runs one image-to-image (or masked inpainting) call.
func (c *Client) Img2Img(ctx context.Context, req Img2ImgRequest) ([]byte, error) {
	if req.SamplerName == "" {
		req.SamplerName = c.sampler
	}
	return c.generate(ctx, "/sdapi/v1/img2img", req)
}

func (c *Client) selectCheckpoint(ctx context.Context) {
	if c.checkpoint == "" {
		return
	}
	body, err := json.Marshal(optionsRequest{SDModelCheckpoint: c.checkpoint})
	if err != nil {
		return
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sdapi/v1/options", bytes.NewReader(body))
	if err != nil {
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn().Err(err).Str("checkpoint", c.checkpoint).Msg("sd: checkpoint select failed")
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		c.logger.Warn().Int("status", resp.StatusCode).Str("checkpoint", c.checkpoint).Msg("sd: checkpoint select rejected")
	}
}

// generate posts the payload and returns the first image of the response,
// base64-decoded. A response without an image list keeps the raw body in the
// returned error.
func (c *Client) generate(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("sd: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("sd: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: sd: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: sd: read response: %v", domain.ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: sd: status %d: %s", domain.ErrUpstreamRejected, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: sd: decode response: %v", domain.ErrUpstreamRejected, err)
	}
	imagesRaw, ok := decoded["images"]
	if !ok {
		return nil, &domain.SynthesisResponseError{Raw: append(json.RawMessage(nil), raw...)}
	}
	var images []string
	if err := json.Unmarshal(imagesRaw, &images); err != nil || len(images) == 0 {
		return nil, &domain.SynthesisResponseError{Raw: append(json.RawMessage(nil), raw...)}
	}

	data, err := base64.StdEncoding.DecodeString(images[0])
	if err != nil {
		return nil, fmt.Errorf("%w: sd: %v", domain.ErrDecodeFailure, err)
	}
	c.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("sd: generated image")
	return data, nil
}
