package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"adstudio/internal/domain"
	"adstudio/internal/pipeline"
)

// GenerationService is the slice of the pipeline the HTTP layer depends on.
type GenerationService interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*pipeline.Result, error)
	Cost() int
}

// App bundles the handlers' dependencies.
type App struct {
	Generator GenerationService
	Accounts  domain.AccountRepository
	Ads       domain.AdRepository
	Logger    zerolog.Logger
}

// NewApp creates the handler container.
func NewApp(gen GenerationService, accounts domain.AccountRepository, ads domain.AdRepository, logger zerolog.Logger) *App {
	return &App{Generator: gen, Accounts: accounts, Ads: ads, Logger: logger}
}

type errorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, label, message string, details ...string) {
	a.json(w, code, errorResponse{Error: label, Message: message, Details: details})
}
