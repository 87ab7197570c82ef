package pipeline

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"adstudio/internal/domain"
	"adstudio/internal/providers/image"
	"adstudio/internal/providers/prompt"
	"adstudio/internal/storage"
)

// Result is the success payload of a completed generation run.
type Result struct {
	ID               string
	ImageURL         string
	OriginalImageURL string
	Prompts          domain.PromptPair
	Resolution       string
	Aspect           string
	Seed             int64
}

// Options wires the orchestrator's collaborators.
type Options struct {
	Accounts  domain.AccountRepository
	Ads       domain.AdRepository
	Artifacts storage.Store
	Author    prompt.Author
	Synth     image.Synthesizer
	Cost      int
	Seed      func() int64
	Logger    zerolog.Logger
}

// Orchestrator sequences the generation pipeline for one request at a time.
// It owns the ad record's transition sequence exclusively; the account
// repository owns balance mutation. The orchestrator itself is stateless.
type Orchestrator struct {
	accounts  domain.AccountRepository
	ads       domain.AdRepository
	artifacts storage.Store
	author    prompt.Author
	synth     image.Synthesizer
	cost      int
	seed      func() int64
	logger    zerolog.Logger
}

// New builds an orchestrator; Seed defaults to a positive random integer
// below 1e9.
func New(opts Options) *Orchestrator {
	seed := opts.Seed
	if seed == nil {
		seed = func() int64 { return 1 + rand.Int63n(999_999_999) }
	}
	cost := opts.Cost
	if cost <= 0 {
		cost = 5
	}
	return &Orchestrator{
		accounts:  opts.Accounts,
		ads:       opts.Ads,
		artifacts: opts.Artifacts,
		author:    opts.Author,
		synth:     opts.Synth,
		cost:      cost,
		seed:      seed,
		logger:    opts.Logger,
	}
}

// Cost returns the configured credit cost of one generation.
func (o *Orchestrator) Cost() int {
	return o.cost
}

// Generate runs the full pipeline for a validated request.
//
// Everything before the ad record is created fails fast with no persistent
// side effect. From the moment the pending record exists, every failure is
// compensated by a best-effort failed transition so the attempt never
// silently vanishes; the error that triggered the failure is always the one
// returned. The debit is deliberately last, so an account is only charged
// once a deliverable artifact exists.
func (o *Orchestrator) Generate(ctx context.Context, req domain.GenerationRequest) (*Result, error) {
	aspect, err := domain.AspectFor(req.Resolution)
	if err != nil {
		return nil, err
	}

	account, err := o.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("resolve account: %w", err)
	}
	if !account.CanAfford(o.cost) {
		return nil, domain.ErrInsufficientCredits
	}

	ad := &domain.Ad{
		ID:           uuid.NewString(),
		AccountEmail: req.Email,
		Description:  req.Description,
		Resolution:   req.Resolution,
	}
	if err := o.ads.Create(ctx, ad); err != nil {
		return nil, fmt.Errorf("create ad record: %w", err)
	}

	result, err := o.run(ctx, req, ad, account, aspect)
	if err != nil {
		o.failAd(ctx, ad.ID)
		return nil, err
	}
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, req domain.GenerationRequest, ad *domain.Ad, account *domain.Account, aspect string) (*Result, error) {
	original, err := o.artifacts.UploadFile(ctx, req.Image, "original", req.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload original: %w", err)
	}

	// The seed is assigned exactly once per run and travels with the record.
	seed := o.seed()

	pair, err := o.author.Author(ctx, prompt.Request{
		ImageURL:    original.URL,
		Description: req.Description,
		Resolution:  req.Resolution,
		Aspect:      aspect,
		Seed:        seed,
	})
	if err != nil {
		return nil, fmt.Errorf("author prompts: %w", err)
	}

	encoded, err := o.synth.Synthesize(ctx, pair.TextToImage, original.URL)
	if err != nil {
		return nil, fmt.Errorf("synthesize image: %w", err)
	}

	final, err := o.artifacts.UploadEncodedImage(ctx, encoded, "generated")
	if err != nil {
		return nil, fmt.Errorf("upload generated image: %w", err)
	}

	if err := o.ads.MarkCompleted(ctx, ad.ID, domain.AdCompletion{
		OriginalURL: original.URL,
		FinalURL:    final.URL,
		Aspect:      aspect,
		Seed:        seed,
		Prompts:     pair,
	}); err != nil {
		return nil, fmt.Errorf("complete ad record: %w", err)
	}

	if err := o.accounts.Debit(ctx, account.ID, o.cost); err != nil {
		return nil, fmt.Errorf("debit credits: %w", err)
	}

	o.logger.Info().
		Str("ad_id", ad.ID).
		Str("email", req.Email).
		Str("aspect", aspect).
		Int64("seed", seed).
		Msg("generation completed")

	return &Result{
		ID:               ad.ID,
		ImageURL:         final.URL,
		OriginalImageURL: original.URL,
		Prompts:          pair,
		Resolution:       req.Resolution,
		Aspect:           aspect,
		Seed:             seed,
	}, nil
}

// failAd is the compensating action for any failure after the pending
// record was created. Its own failure is logged and swallowed so that it
// never masks the error that triggered it.
func (o *Orchestrator) failAd(ctx context.Context, adID string) {
	if err := o.ads.MarkFailed(context.WithoutCancel(ctx), adID); err != nil {
		o.logger.Error().Err(err).Str("ad_id", adID).Msg("failed to mark ad as failed")
	}
}
