package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"adstudio/internal/domain"
)

type adDTO struct {
	ID           string             `json:"id"`
	AccountEmail string             `json:"userEmail"`
	Description  string             `json:"description"`
	Resolution   string             `json:"resolution"`
	Status       domain.AdStatus    `json:"status"`
	Aspect       string             `json:"aspect,omitempty"`
	Seed         int64              `json:"seed,omitempty"`
	OriginalURL  string             `json:"productImageUrl,omitempty"`
	FinalURL     string             `json:"finalProductImageUrl,omitempty"`
	Prompts      *domain.PromptPair `json:"prompts,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func toAdDTO(ad domain.Ad) adDTO {
	dto := adDTO{
		ID:           ad.ID,
		AccountEmail: ad.AccountEmail,
		Description:  ad.Description,
		Resolution:   ad.Resolution,
		Status:       ad.Status,
		Aspect:       ad.Aspect,
		Seed:         ad.Seed,
		OriginalURL:  ad.OriginalURL,
		FinalURL:     ad.FinalURL,
		CreatedAt:    ad.CreatedAt,
	}
	if ad.Prompts.TextToImage != "" || ad.Prompts.ImageToVideo != "" {
		prompts := ad.Prompts
		dto.Prompts = &prompts
	}
	return dto
}

// AdStatus returns a single job record, the out-of-band polling surface for
// callers that submitted a generation.
func (a *App) AdStatus(w http.ResponseWriter, r *http.Request) {
	adID := chi.URLParam(r, "ad_id")
	if adID == "" {
		a.error(w, http.StatusBadRequest, "Validation failed", "ad_id required")
		return
	}
	ad, err := a.Ads.GetByID(r.Context(), adID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "Ad not found", "no ad matches this id")
			return
		}
		a.Logger.Error().Err(err).Str("ad_id", adID).Msg("load ad failed")
		a.error(w, http.StatusInternalServerError, "Internal server error", "failed to load ad")
		return
	}
	a.json(w, http.StatusOK, toAdDTO(*ad))
}

// AdList returns the most recent ads submitted by an account.
func (a *App) AdList(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("email")))
	if email == "" {
		a.error(w, http.StatusBadRequest, "Validation failed", "email query parameter required")
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	ads, err := a.Ads.ListByEmail(r.Context(), email, limit)
	if err != nil {
		a.Logger.Error().Err(err).Str("email", email).Msg("list ads failed")
		a.error(w, http.StatusInternalServerError, "Internal server error", "failed to list ads")
		return
	}
	items := make([]adDTO, 0, len(ads))
	for _, ad := range ads {
		items = append(items, toAdDTO(ad))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
