package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"imageatelier/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func geminiBody(texts ...string) io.ReadCloser {
	var cands []map[string]any
	for _, text := range texts {
		cands = append(cands, map[string]any{
			"content": map[string]any{
				"role":  "model",
				"parts": []map[string]any{{"text": text}},
			},
		})
	}
	raw, _ := json.Marshal(map[string]any{"candidates": cands})
	return io.NopCloser(strings.NewReader(string(raw)))
}

func newTestAdjuster(t *testing.T, rt roundTripFunc) *GeminiAdjuster {
	t.Helper()
	g, err := NewGeminiAdjuster(GeminiOptions{
		APIKey:     "test-key",
		HTTPClient: &http.Client{Transport: rt},
	})
	if err != nil {
		t.Fatalf("new adjuster: %v", err)
	}
	return g
}

func TestGeminiAdjustSuccess(t *testing.T) {
	var captured []byte
	g := newTestAdjuster(t, func(req *http.Request) (*http.Response, error) {
		captured, _ = io.ReadAll(req.Body)
		if !strings.Contains(req.URL.Path, "gemini-1.5-flash:generateContent") {
			t.Fatalf("unexpected path %q", req.URL.Path)
		}
		if got := req.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Fatalf("api key header = %q", got)
		}
		return &http.Response{StatusCode: http.StatusOK, Body: geminiBody("  1cat, space suit, anime style\n")}, nil
	})

	adjusted, err := g.Adjust(context.Background(), "猫が宇宙服を着ている", "anime", domain.ModeTextToImage)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if adjusted != "1cat, space suit, anime style" {
		t.Fatalf("adjusted = %q, want trimmed candidate text", adjusted)
	}
	if !strings.Contains(string(captured), "猫が宇宙服を着ている") {
		t.Fatalf("request body missing raw prompt: %s", captured)
	}
	if !strings.Contains(string(captured), "anime") {
		t.Fatalf("request body missing style: %s", captured)
	}
}

func TestGeminiAdjustTransportFailure(t *testing.T) {
	g := newTestAdjuster(t, func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	_, err := g.Adjust(context.Background(), "prompt", "anime", domain.ModeTextToImage)
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestGeminiAdjustErrorStatus(t *testing.T) {
	g := newTestAdjuster(t, func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusTooManyRequests, Body: io.NopCloser(strings.NewReader(`{}`))}, nil
	})
	_, err := g.Adjust(context.Background(), "prompt", "anime", domain.ModeImageToImage)
	if !errors.Is(err, domain.ErrUpstreamRejected) {
		t.Fatalf("err = %v, want ErrUpstreamRejected", err)
	}
}

func TestGeminiAdjustEmptyCandidates(t *testing.T) {
	g := newTestAdjuster(t, func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: geminiBody("   ")}, nil
	})
	_, err := g.Adjust(context.Background(), "prompt", "anime", domain.ModeInpaint)
	if !errors.Is(err, domain.ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestNewGeminiAdjusterRequiresKey(t *testing.T) {
	if _, err := NewGeminiAdjuster(GeminiOptions{}); err == nil {
		t.Fatalf("expected error without api key")
	}
}
