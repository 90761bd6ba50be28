// Package prompt rewrites a user's raw image description into a prompt suited
// to the synthesis backend, via an external text-generation service.
package prompt

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"imageatelier/internal/domain"
)

// Adjuster turns a raw prompt plus a style tag into a synthesis-ready prompt.
// Implementations perform a single attempt; callers treat any failure as fatal
// for the enclosing request.
type Adjuster interface {
	Adjust(ctx context.Context, raw, style string, mode domain.Mode) (string, error)
}

// Instruction returns the mode-specific instruction wrapping the raw prompt.
// Each mode biases the text model toward a different tag density: txt2img
// wants dense SDXL tags, img2img a comma-separated rewrite, inpainting a short
// prompt that only describes the regenerated region.
func Instruction(raw, style string, mode domain.Mode) string {
	switch mode {
	case domain.ModeImageToImage:
		return fmt.Sprintf(
			"Convert the following Japanese image description into a comma-separated high-quality English prompt: %s\nStyle: %s\nRespond with the prompt only.",
			raw, style)
	case domain.ModeInpaint:
		return fmt.Sprintf(
			"Convert the following Japanese image description into a short, high-quality English prompt for img2img generation: %s\nStyle: %s\nRespond with the prompt only.",
			raw, style)
	default:
		return fmt.Sprintf(
			"You are an expert in generating prompts for Stable Diffusion XL.\nConvert the following Japanese description into a prompt: %s\nStyle: %s\nRespond with the prompt only.",
			raw, style)
	}
}

// StaticAdjuster builds a deterministic tag prompt without calling any
// external service. It is wired when no text-generation credentials are
// configured, which keeps local and CI environments operational.
type StaticAdjuster struct{}

func NewStaticAdjuster() *StaticAdjuster {
	return &StaticAdjuster{}
}

func (s *StaticAdjuster) Adjust(ctx context.Context, raw, style string, mode domain.Mode) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.ErrEmptyResponse
	}
	tags := []string{raw, "masterpiece", "best quality"}
	if style = strings.TrimSpace(style); style != "" {
		c := cases.Title(language.Und)
		tags = append(tags, c.String(style)+" style")
	}
	if mode == domain.ModeInpaint {
		tags = append(tags, "detailed, seamless blend")
	}
	return strings.Join(tags, ", "), nil
}

var _ Adjuster = (*StaticAdjuster)(nil)
