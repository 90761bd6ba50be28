package domain

import (
	"strings"
	"time"
)

// Mode selects which generation flow a request runs through.
type Mode string

const (
	ModeTextToImage  Mode = "txt2img"
	ModeImageToImage Mode = "img2img"
	ModeInpaint      Mode = "inpaint"
)

// ImageRecord is the persisted history entry for one completed generation.
// Records are immutable after creation; created_at is the sole ordering key.
type ImageRecord struct {
	ID        int64
	ImageURL  string
	Prompt    string
	UserID    *int64
	CreatedAt time.Time
}

// GenerateRequest carries the caller-supplied inputs for any generation mode.
// SourceImage and Mask are base64-encoded PNGs; which of them must be present
// depends on the mode.
type GenerateRequest struct {
	Prompt      string
	Style       string
	Steps       int
	Width       int
	Height      int
	SourceImage string
	Mask        string
	UserID      *int64
}

// GenerateResult is returned to the caller on a completed pipeline run.
type GenerateResult struct {
	ImageURL       string `json:"image_url"`
	AdjustedPrompt string `json:"adjusted_prompt"`
}

const (
	DefaultSteps  = 20
	DefaultWidth  = 512
	DefaultHeight = 512
)

// Normalize fills unset dimensions with defaults and trims the prompt fields.
func (r *GenerateRequest) Normalize() {
	r.Prompt = strings.TrimSpace(r.Prompt)
	r.Style = strings.TrimSpace(r.Style)
	if r.Steps <= 0 {
		r.Steps = DefaultSteps
	}
	if r.Width <= 0 {
		r.Width = DefaultWidth
	}
	if r.Height <= 0 {
		r.Height = DefaultHeight
	}
}

// Validate enforces the per-mode input contract.
func (r *GenerateRequest) Validate(mode Mode) error {
	if r.Prompt == "" {
		return ErrInvalidRequest
	}
	switch mode {
	case ModeTextToImage:
		return nil
	case ModeImageToImage:
		if r.SourceImage == "" {
			return ErrInvalidRequest
		}
		return nil
	case ModeInpaint:
		if r.SourceImage == "" || r.Mask == "" {
			return ErrInvalidRequest
		}
		return nil
	default:
		return ErrInvalidRequest
	}
}
