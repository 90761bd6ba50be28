package pipeline

import (
	"context"

	"imageatelier/internal/domain"
	"imageatelier/internal/providers/sd"
)

// Mode-specific synthesis defaults. Image-to-image may diverge freely from
// the source; inpainting stays close to it and regenerates at full
// resolution with padding around the masked region.
const (
	img2imgDenoising = 0.6
	inpaintDenoising = 0.35
	inpaintPadding   = 32
	inpaintFillMode  = 1
)

// synthesisStrategy builds the mode-specific payload and invokes the
// synthesizer. All three modes share the control flow in Pipeline.Generate;
// only the payload differs.
type synthesisStrategy interface {
	Synthesize(ctx context.Context, syn Synthesizer, adjusted string, req domain.GenerateRequest) ([]byte, error)
}

func strategyFor(mode domain.Mode) synthesisStrategy {
	switch mode {
	case domain.ModeImageToImage:
		return img2imgStrategy{}
	case domain.ModeInpaint:
		return inpaintStrategy{}
	default:
		return txt2imgStrategy{}
	}
}

type txt2imgStrategy struct{}

func (txt2imgStrategy) Synthesize(ctx context.Context, syn Synthesizer, adjusted string, req domain.GenerateRequest) ([]byte, error) {
	return syn.Txt2Img(ctx, sd.Txt2ImgRequest{
		Prompt: adjusted,
		Steps:  req.Steps,
		Width:  req.Width,
		Height: req.Height,
	})
}

type img2imgStrategy struct{}

func (img2imgStrategy) Synthesize(ctx context.Context, syn Synthesizer, adjusted string, req domain.GenerateRequest) ([]byte, error) {
	return syn.Img2Img(ctx, sd.Img2ImgRequest{
		Prompt:            adjusted,
		InitImages:        []string{req.SourceImage},
		Steps:             req.Steps,
		Width:             req.Width,
		Height:            req.Height,
		DenoisingStrength: img2imgDenoising,
		InpaintingFill:    inpaintFillMode,
	})
}

type inpaintStrategy struct{}

func (inpaintStrategy) Synthesize(ctx context.Context, syn Synthesizer, adjusted string, req domain.GenerateRequest) ([]byte, error) {
	return syn.Img2Img(ctx, sd.Img2ImgRequest{
		Prompt:                adjusted,
		InitImages:            []string{req.SourceImage},
		Mask:                  req.Mask,
		Steps:                 req.Steps,
		Width:                 req.Width,
		Height:                req.Height,
		DenoisingStrength:     inpaintDenoising,
		InpaintingFill:        inpaintFillMode,
		InpaintFullRes:        true,
		InpaintFullResPadding: inpaintPadding,
	})
}
