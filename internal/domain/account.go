package domain

import "time"

// Account is a billable identity keyed by email. Credits are consumed by
// the generation pipeline and never go negative: the debit is a single
// conditional decrement at the store level.
type Account struct {
	ID        string
	Email     string
	Name      string
	Credits   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanAfford reports whether the account holds at least cost credits.
func (a Account) CanAfford(cost int) bool {
	return a.Credits >= cost
}
