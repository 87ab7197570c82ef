package handlers

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type accountRequest struct {
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName"`
}

type accountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Credits   int       `json:"credits"`
	CreatedAt time.Time `json:"createdAt"`
}

// AccountLookupOrCreate returns the account matching the email, creating a
// zero-credit account when none exists.
func (a *App) AccountLookupOrCreate(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Validation failed", "invalid payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.UserEmail))
	if email == "" {
		a.error(w, http.StatusBadRequest, "Validation failed", "userEmail is required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		a.error(w, http.StatusBadRequest, "Validation failed", "invalid email address")
		return
	}

	account, err := a.Accounts.LookupOrCreate(r.Context(), email, displayName(req.UserName))
	if err != nil {
		a.Logger.Error().Err(err).Str("email", email).Msg("account lookup-or-create failed")
		a.error(w, http.StatusInternalServerError, "Internal server error", "failed to resolve account")
		return
	}

	a.json(w, http.StatusOK, accountResponse{
		ID:        account.ID,
		Email:     account.Email,
		Name:      account.Name,
		Credits:   account.Credits,
		CreatedAt: account.CreatedAt,
	})
}

// displayName normalizes a free-form user name into title case.
func displayName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	return cases.Title(language.Und).String(strings.ToLower(name))
}
