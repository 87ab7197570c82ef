package domain

import "context"

// AccountRepository defines access and balance mutation for accounts. It is
// the only component that mutates credit balances.
type AccountRepository interface {
	GetByEmail(ctx context.Context, email string) (*Account, error)
	// LookupOrCreate returns the account matching email, creating one with
	// a zero credit balance when none exists.
	LookupOrCreate(ctx context.Context, email, name string) (*Account, error)
	// Debit atomically decrements credits by amount, guarded on
	// credits >= amount. It returns ErrInsufficientCredits when the guard
	// fails, so concurrent requests can never over-spend an account.
	Debit(ctx context.Context, accountID string, amount int) error
}

// AdRepository defines persistence for ad generation jobs.
type AdRepository interface {
	Create(ctx context.Context, ad *Ad) error
	// MarkCompleted writes all completion fields and flips status to
	// completed in one statement. The write is guarded on pending status.
	MarkCompleted(ctx context.Context, adID string, c AdCompletion) error
	// MarkFailed flips status to failed, also guarded on pending status.
	MarkFailed(ctx context.Context, adID string) error
	GetByID(ctx context.Context, adID string) (*Ad, error)
	ListByEmail(ctx context.Context, email string, limit int) ([]Ad, error)
}
