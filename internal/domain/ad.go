package domain

import "time"

// AdStatus enumerates the ad job lifecycle states.
type AdStatus string

const (
	AdStatusPending   AdStatus = "pending"
	AdStatusCompleted AdStatus = "completed"
	AdStatusFailed    AdStatus = "failed"
)

// Terminal reports whether no further transition is permitted.
func (s AdStatus) Terminal() bool {
	return s == AdStatusCompleted || s == AdStatusFailed
}

// PromptPair holds the two prompts authored for a single ad: the prompt fed
// to the image model and the companion prompt for a follow-up video clip.
type PromptPair struct {
	TextToImage  string `json:"textToImage"`
	ImageToVideo string `json:"imageToVideo"`
}

// Ad is one persisted record of a single image-generation attempt, from
// submission to terminal outcome. It is created in pending status before
// any external generation call so every attempt stays auditable.
type Ad struct {
	ID           string
	AccountEmail string
	Description  string
	Resolution   string
	Status       AdStatus
	Aspect       string
	Seed         int64
	OriginalURL  string
	FinalURL     string
	Prompts      PromptPair
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AdCompletion bundles every field a completed ad requires. A completed
// record can only be written with all of them present; there is no partial
// completion write.
type AdCompletion struct {
	OriginalURL string
	FinalURL    string
	Aspect      string
	Seed        int64
	Prompts     PromptPair
}
