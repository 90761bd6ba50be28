// Package pipeline sequences one generation request end to end: prompt
// adjustment, image synthesis, artifact upload, history record.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"imageatelier/internal/domain"
	"imageatelier/internal/infra"
	"imageatelier/internal/providers/prompt"
	"imageatelier/internal/providers/sd"
	"imageatelier/internal/storage"
)

const artifactContentType = "image/png"

// Synthesizer is the slice of the sd client the pipeline depends on.
type Synthesizer interface {
	Txt2Img(ctx context.Context, req sd.Txt2ImgRequest) ([]byte, error)
	Img2Img(ctx context.Context, req sd.Img2ImgRequest) ([]byte, error)
}

// Pipeline runs the generation flow. Every dependency is injected; the
// pipeline itself keeps no cross-request state, so one instance serves
// concurrent requests without coordination.
type Pipeline struct {
	adjuster prompt.Adjuster
	synth    Synthesizer
	blobs    storage.BlobStore
	records  domain.ImageRecordRepository
	logger   *infra.Logger
}

// New wires a Pipeline from its collaborators.
func New(adjuster prompt.Adjuster, synth Synthesizer, blobs storage.BlobStore, records domain.ImageRecordRepository, logger *infra.Logger) *Pipeline {
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Pipeline{
		adjuster: adjuster,
		synth:    synth,
		blobs:    blobs,
		records:  records,
		logger:   logger,
	}
}

// Generate runs one linear attempt through the stages for the given mode.
// Any stage failure aborts the request; no stage is retried. The history
// record is written only after the artifact is durably stored, so a stored
// image_url always dereferences an existing artifact. If the record write
// itself fails the artifact stays behind as an accepted orphan.
func (p *Pipeline) Generate(ctx context.Context, mode domain.Mode, req domain.GenerateRequest) (*domain.GenerateResult, error) {
	req.Normalize()
	if err := req.Validate(mode); err != nil {
		return nil, err
	}

	start := time.Now()
	adjusted, err := p.adjuster.Adjust(ctx, req.Prompt, req.Style, mode)
	if err != nil {
		return nil, fmt.Errorf("adjust prompt: %w", err)
	}

	data, err := strategyFor(mode).Synthesize(ctx, p.synth, adjusted, req)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	imageURL, err := p.blobs.Store(ctx, data, artifactContentType)
	if err != nil {
		return nil, fmt.Errorf("store artifact: %w", err)
	}

	// The record keeps the original prompt, not the adjusted one.
	record := &domain.ImageRecord{
		ImageURL: imageURL,
		Prompt:   req.Prompt,
		UserID:   req.UserID,
	}
	if _, err := p.records.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("persist record: %w", err)
	}

	p.logger.Info().
		Str("mode", string(mode)).
		Str("image_url", imageURL).
		Dur("elapsed", time.Since(start)).
		Msg("generation completed")

	return &domain.GenerateResult{
		ImageURL:       imageURL,
		AdjustedPrompt: adjusted,
	}, nil
}
