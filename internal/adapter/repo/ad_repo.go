package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adstudio/internal/domain"
)

// AdRepositoryPG implements domain.AdRepository backed by PostgreSQL.
type AdRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAdRepository creates a new ad repository.
func NewAdRepository(pool *pgxpool.Pool) *AdRepositoryPG {
	return &AdRepositoryPG{pool: pool}
}

// Create inserts a new ad record in pending status.
func (r *AdRepositoryPG) Create(ctx context.Context, ad *domain.Ad) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO ads (id, account_email, description, resolution, status)
VALUES ($1, $2, $3, $4, $5);
`, ad.ID, ad.AccountEmail, ad.Description, ad.Resolution, domain.AdStatusPending)
	if err != nil {
		return fmt.Errorf("create ad: %w", err)
	}
	ad.Status = domain.AdStatusPending
	return nil
}

// MarkCompleted writes every completion field and flips status to completed
// in one statement. The pending guard keeps terminal records immutable: a
// record that already reached completed or failed is never rewritten.
func (r *AdRepositoryPG) MarkCompleted(ctx context.Context, adID string, c domain.AdCompletion) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE ads
SET status = $2,
    original_url = $3,
    final_url = $4,
    aspect = $5,
    seed = $6,
    prompt_text_to_image = $7,
    prompt_image_to_video = $8,
    updated_at = NOW()
WHERE id = $1
  AND status = $9;
`, adID, domain.AdStatusCompleted, c.OriginalURL, c.FinalURL, c.Aspect, c.Seed,
		c.Prompts.TextToImage, c.Prompts.ImageToVideo, domain.AdStatusPending)
	if err != nil {
		return fmt.Errorf("complete ad: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("complete ad %s: %w", adID, domain.ErrInvalidTransition)
	}
	return nil
}

// MarkFailed flips status to failed. No other fields are required; any
// artifacts uploaded before the failure stay referenced only by logs.
func (r *AdRepositoryPG) MarkFailed(ctx context.Context, adID string) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE ads
SET status = $2,
    updated_at = NOW()
WHERE id = $1
  AND status = $3;
`, adID, domain.AdStatusFailed, domain.AdStatusPending)
	if err != nil {
		return fmt.Errorf("fail ad: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("fail ad %s: %w", adID, domain.ErrInvalidTransition)
	}
	return nil
}

// GetByID fetches an ad by its identifier.
func (r *AdRepositoryPG) GetByID(ctx context.Context, adID string) (*domain.Ad, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, account_email, description, resolution, status, aspect, seed,
       original_url, final_url, prompt_text_to_image, prompt_image_to_video,
       created_at, updated_at
FROM ads
WHERE id = $1;
`, adID)
	return scanAd(row)
}

// ListByEmail returns the most recent ads submitted by an account.
func (r *AdRepositoryPG) ListByEmail(ctx context.Context, email string, limit int) ([]domain.Ad, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
SELECT id, account_email, description, resolution, status, aspect, seed,
       original_url, final_url, prompt_text_to_image, prompt_image_to_video,
       created_at, updated_at
FROM ads
WHERE account_email = $1
ORDER BY created_at DESC
LIMIT $2;
`, email, limit)
	if err != nil {
		return nil, fmt.Errorf("list ads: %w", err)
	}
	defer rows.Close()

	var ads []domain.Ad
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, err
		}
		ads = append(ads, *ad)
	}
	return ads, rows.Err()
}

func scanAd(row pgx.Row) (*domain.Ad, error) {
	var (
		ad           domain.Ad
		aspect       *string
		seed         *int64
		originalURL  *string
		finalURL     *string
		textToImage  *string
		imageToVideo *string
	)
	err := row.Scan(&ad.ID, &ad.AccountEmail, &ad.Description, &ad.Resolution, &ad.Status,
		&aspect, &seed, &originalURL, &finalURL, &textToImage, &imageToVideo,
		&ad.CreatedAt, &ad.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if aspect != nil {
		ad.Aspect = *aspect
	}
	if seed != nil {
		ad.Seed = *seed
	}
	if originalURL != nil {
		ad.OriginalURL = *originalURL
	}
	if finalURL != nil {
		ad.FinalURL = *finalURL
	}
	if textToImage != nil {
		ad.Prompts.TextToImage = *textToImage
	}
	if imageToVideo != nil {
		ad.Prompts.ImageToVideo = *imageToVideo
	}
	return &ad, nil
}

var _ domain.AdRepository = (*AdRepositoryPG)(nil)
