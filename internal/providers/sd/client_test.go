package sd

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"imageatelier/internal/domain"
)

type capturedCall struct {
	Path string
	Body map[string]any
}

// captureTransport records every request and replies per path.
type captureTransport struct {
	mu        sync.Mutex
	calls     []capturedCall
	responses map[string]string
	failWith  error
}

func (t *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var body map[string]any
	if req.Body != nil {
		raw, _ := io.ReadAll(req.Body)
		_ = json.Unmarshal(raw, &body)
	}
	t.calls = append(t.calls, capturedCall{Path: req.URL.Path, Body: body})
	if t.failWith != nil {
		return nil, t.failWith
	}
	resp, ok := t.responses[req.URL.Path]
	if !ok {
		resp = `{}`
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(resp)),
	}, nil
}

func (t *captureTransport) pathsCalled() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	paths := make([]string, 0, len(t.calls))
	for _, c := range t.calls {
		paths = append(paths, c.Path)
	}
	return paths
}

func newTestClient(transport *captureTransport) *Client {
	return NewClient(Options{
		Checkpoint: "AnythingXL_xl.safetensors",
		HTTPClient: &http.Client{Transport: transport},
	})
}

func imagesResponse(data []byte) string {
	raw, _ := json.Marshal(map[string]any{
		"images": []string{base64.StdEncoding.EncodeToString(data)},
	})
	return string(raw)
}

func TestTxt2ImgSelectsCheckpointFirst(t *testing.T) {
	pngBytes := []byte{0x89, 'P', 'N', 'G'}
	transport := &captureTransport{responses: map[string]string{
		"/sdapi/v1/txt2img": imagesResponse(pngBytes),
	}}
	client := newTestClient(transport)

	data, err := client.Txt2Img(context.Background(), Txt2ImgRequest{
		Prompt: "1cat, space suit",
		Steps:  20,
		Width:  512,
		Height: 512,
	})
	if err != nil {
		t.Fatalf("txt2img: %v", err)
	}
	if string(data) != string(pngBytes) {
		t.Fatalf("decoded bytes mismatch: %v", data)
	}

	paths := transport.pathsCalled()
	if len(paths) != 2 || paths[0] != "/sdapi/v1/options" || paths[1] != "/sdapi/v1/txt2img" {
		t.Fatalf("calls = %v, want options before txt2img", paths)
	}
	if got := transport.calls[0].Body["sd_model_checkpoint"]; got != "AnythingXL_xl.safetensors" {
		t.Fatalf("checkpoint payload = %v", got)
	}
	body := transport.calls[1].Body
	if body["sampler_name"] != "DPM++ 2M Karras" {
		t.Fatalf("sampler default not applied: %v", body["sampler_name"])
	}
	if body["prompt"] != "1cat, space suit" {
		t.Fatalf("prompt = %v", body["prompt"])
	}
}

func TestTxt2ImgCheckpointFailureDoesNotAbort(t *testing.T) {
	pngBytes := []byte("fake-png")
	primary := &captureTransport{responses: map[string]string{
		"/sdapi/v1/txt2img": imagesResponse(pngBytes),
	}}
	// Reject the options call only.
	transport := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path == "/sdapi/v1/options" {
			return &http.Response{StatusCode: http.StatusInternalServerError, Body: io.NopCloser(strings.NewReader(`{}`))}, nil
		}
		return primary.RoundTrip(req)
	})
	client := NewClient(Options{
		Checkpoint: "AnythingXL_xl.safetensors",
		HTTPClient: &http.Client{Transport: transport},
	})

	data, err := client.Txt2Img(context.Background(), Txt2ImgRequest{Prompt: "p", Steps: 20, Width: 512, Height: 512})
	if err != nil {
		t.Fatalf("txt2img should survive checkpoint failure: %v", err)
	}
	if string(data) != string(pngBytes) {
		t.Fatalf("decoded bytes mismatch")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func TestImg2ImgInpaintPayload(t *testing.T) {
	transport := &captureTransport{responses: map[string]string{
		"/sdapi/v1/img2img": imagesResponse([]byte("img")),
	}}
	client := newTestClient(transport)

	_, err := client.Img2Img(context.Background(), Img2ImgRequest{
		Prompt:                "patched sky",
		InitImages:            []string{"c291cmNl"},
		Mask:                  "bWFzaw==",
		Steps:                 20,
		Width:                 512,
		Height:                512,
		DenoisingStrength:     0.35,
		InpaintingFill:        1,
		InpaintFullRes:        true,
		InpaintFullResPadding: 32,
	})
	if err != nil {
		t.Fatalf("img2img: %v", err)
	}

	paths := transport.pathsCalled()
	if len(paths) != 1 || paths[0] != "/sdapi/v1/img2img" {
		t.Fatalf("calls = %v, img2img must not touch the options endpoint", paths)
	}
	body := transport.calls[0].Body
	if body["mask"] != "bWFzaw==" {
		t.Fatalf("mask = %v", body["mask"])
	}
	if body["denoising_strength"] != 0.35 {
		t.Fatalf("denoising_strength = %v", body["denoising_strength"])
	}
	if body["inpaint_full_res"] != true || body["inpaint_full_res_padding"] != float64(32) {
		t.Fatalf("inpaint fields = %v / %v", body["inpaint_full_res"], body["inpaint_full_res_padding"])
	}
}

func TestGenerateMissingImagesKeepsRawPayload(t *testing.T) {
	transport := &captureTransport{responses: map[string]string{
		"/sdapi/v1/img2img": `{"detail":"out of memory"}`,
	}}
	client := newTestClient(transport)

	_, err := client.Img2Img(context.Background(), Img2ImgRequest{Prompt: "p", InitImages: []string{"c3Jj"}})
	if !errors.Is(err, domain.ErrInvalidSynthesisResponse) {
		t.Fatalf("err = %v, want ErrInvalidSynthesisResponse", err)
	}
	raw := domain.RawUpstreamPayload(err)
	if raw == nil || !strings.Contains(string(raw), "out of memory") {
		t.Fatalf("raw payload not preserved: %s", raw)
	}
}

func TestGenerateEmptyImageList(t *testing.T) {
	transport := &captureTransport{responses: map[string]string{
		"/sdapi/v1/txt2img": `{"images":[]}`,
		"/sdapi/v1/options": `{}`,
	}}
	client := newTestClient(transport)

	_, err := client.Txt2Img(context.Background(), Txt2ImgRequest{Prompt: "p"})
	if !errors.Is(err, domain.ErrInvalidSynthesisResponse) {
		t.Fatalf("err = %v, want ErrInvalidSynthesisResponse", err)
	}
}

func TestGenerateTransportFailure(t *testing.T) {
	transport := &captureTransport{failWith: errors.New("connection refused")}
	client := newTestClient(transport)

	_, err := client.Img2Img(context.Background(), Img2ImgRequest{Prompt: "p", InitImages: []string{"c3Jj"}})
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestGenerateBadBase64(t *testing.T) {
	transport := &captureTransport{responses: map[string]string{
		"/sdapi/v1/img2img": `{"images":["%%%not-base64%%%"]}`,
	}}
	client := newTestClient(transport)

	_, err := client.Img2Img(context.Background(), Img2ImgRequest{Prompt: "p", InitImages: []string{"c3Jj"}})
	if !errors.Is(err, domain.ErrDecodeFailure) {
		t.Fatalf("err = %v, want ErrDecodeFailure", err)
	}
}
