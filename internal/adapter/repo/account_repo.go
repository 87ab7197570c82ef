package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adstudio/internal/domain"
)

// AccountRepositoryPG implements domain.AccountRepository backed by PostgreSQL.
type AccountRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepositoryPG.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepositoryPG {
	return &AccountRepositoryPG{pool: pool}
}

// GetByEmail fetches an account by its unique email.
func (r *AccountRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, email, name, credits, created_at, updated_at
FROM accounts
WHERE email = $1;
`, email)
	return scanAccount(row)
}

// LookupOrCreate returns the account matching email, inserting a fresh
// zero-credit account when none exists. The conflict clause is a no-op
// update so the existing balance is never touched.
func (r *AccountRepositoryPG) LookupOrCreate(ctx context.Context, email, name string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO accounts (id, email, name, credits)
VALUES ($1, $2, $3, 0)
ON CONFLICT (email) DO UPDATE
SET email = EXCLUDED.email
RETURNING id, email, name, credits, created_at, updated_at;
`, uuid.NewString(), email, name)
	return scanAccount(row)
}

// Debit decrements credits by amount in a single conditional statement.
// The guard credits >= amount makes the check and the write atomic, so two
// concurrent requests cannot both spend the same credits.
func (r *AccountRepositoryPG) Debit(ctx context.Context, accountID string, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("debit amount must be positive, got %d", amount)
	}
	tag, err := r.pool.Exec(ctx, `
UPDATE accounts
SET credits = credits - $2,
    updated_at = NOW()
WHERE id = $1
  AND credits >= $2;
`, accountID, amount)
	if err != nil {
		return fmt.Errorf("debit account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientCredits
	}
	return nil
}

// Grant adds credits to the account matching email and returns the new
// balance. Used by the operator CLI.
func (r *AccountRepositoryPG) Grant(ctx context.Context, email string, amount int) (int, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE accounts
SET credits = credits + $2,
    updated_at = NOW()
WHERE email = $1
RETURNING credits;
`, email, amount)
	var credits int
	if err := row.Scan(&credits); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return credits, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	if err := row.Scan(&a.ID, &a.Email, &a.Name, &a.Credits, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

var _ domain.AccountRepository = (*AccountRepositoryPG)(nil)
