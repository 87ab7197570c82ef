package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"adstudio/internal/domain"
	"adstudio/internal/validate"
)

type generateResponse struct {
	Success          bool              `json:"success"`
	ImageURL         string            `json:"imageUrl"`
	OriginalImageURL string            `json:"originalImageUrl"`
	Prompts          domain.PromptPair `json:"prompts"`
	Meta             generateMeta      `json:"meta"`
	ID               string            `json:"id"`
}

type generateMeta struct {
	Resolution string `json:"resolution"`
	Aspect     string `json:"aspect"`
	Seed       int64  `json:"seed"`
}

// Generate accepts the multipart generation form, runs the pipeline, and
// maps every failure to its status class. Validation failures never reach
// the pipeline, so they carry no audit cost.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	req, err := validate.GenerationForm(r)
	if err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			a.error(w, http.StatusBadRequest, "Validation failed", "Invalid input data", verr.Details()...)
			return
		}
		a.error(w, http.StatusBadRequest, "Validation failed", "Invalid input data")
		return
	}

	result, err := a.Generator.Generate(r.Context(), req)
	if err != nil {
		a.generateError(w, r, err)
		return
	}

	a.json(w, http.StatusOK, generateResponse{
		Success:          true,
		ImageURL:         result.ImageURL,
		OriginalImageURL: result.OriginalImageURL,
		Prompts:          result.Prompts,
		Meta: generateMeta{
			Resolution: result.Resolution,
			Aspect:     result.Aspect,
			Seed:       result.Seed,
		},
		ID: result.ID,
	})
}

func (a *App) generateError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "Account not found", "No account exists for this email")
	case errors.Is(err, domain.ErrInsufficientCredits):
		a.error(w, http.StatusPaymentRequired, "Insufficient credits",
			fmt.Sprintf("You need at least %d credits to generate an image", a.Generator.Cost()))
	case errors.Is(err, domain.ErrUploadFailed):
		a.Logger.Error().Err(err).Msg("artifact upload failed")
		a.error(w, http.StatusInternalServerError, "Upload failed", "Failed to upload image. Please try again.")
	default:
		a.Logger.Error().Err(err).Msg("generation pipeline failed")
		a.error(w, http.StatusInternalServerError, "Internal server error", "An unexpected error occurred. Please try again.")
	}
}
