package handlers

import (
	"encoding/json"
	"net/http"

	"imageatelier/internal/domain"
)

type generateRequest struct {
	Prompt         string `json:"prompt"`
	Style          string `json:"style"`
	Steps          int    `json:"steps"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	OriginalBase64 string `json:"original_base64,omitempty"`
	MaskBase64     string `json:"mask_base64,omitempty"`
	UserID         *int64 `json:"user_id,omitempty"`
}

func (r generateRequest) toDomain() domain.GenerateRequest {
	return domain.GenerateRequest{
		Prompt:      r.Prompt,
		Style:       r.Style,
		Steps:       r.Steps,
		Width:       r.Width,
		Height:      r.Height,
		SourceImage: r.OriginalBase64,
		Mask:        r.MaskBase64,
		UserID:      r.UserID,
	}
}

// FullGenerate handles pure text-to-image generation.
func (a *App) FullGenerate(w http.ResponseWriter, r *http.Request) {
	a.generate(w, r, domain.ModeTextToImage)
}

// Img2ImgFullGenerate handles style transfer on an uploaded source image.
func (a *App) Img2ImgFullGenerate(w http.ResponseWriter, r *http.Request) {
	a.generate(w, r, domain.ModeImageToImage)
}

// MaskedFullGenerate handles localized inpainting with a mask.
func (a *App) MaskedFullGenerate(w http.ResponseWriter, r *http.Request) {
	a.generate(w, r, domain.ModeInpaint)
}

func (a *App) generate(w http.ResponseWriter, r *http.Request, mode domain.Mode) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}

	result, err := a.Pipeline.Generate(r.Context(), mode, req.toDomain())
	if err != nil {
		a.Logger.Error().Err(err).Str("mode", string(mode)).Msg("generation failed")
		a.pipelineError(w, err)
		return
	}
	a.json(w, http.StatusOK, result)
}
