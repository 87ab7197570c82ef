package prompt

import (
	"context"

	"adstudio/internal/domain"
)

// Request carries everything the author needs to derive the prompt pair.
// ImageURL references the already-uploaded original product photo.
type Request struct {
	ImageURL    string
	Description string
	Resolution  string
	Aspect      string
	Seed        int64
}

// Author produces the textToImage/imageToVideo prompt pair for a request.
// Implementations call a completion provider constrained to structured
// JSON output; any backend can be substituted without touching the
// pipeline.
type Author interface {
	Author(ctx context.Context, req Request) (domain.PromptPair, error)
}
