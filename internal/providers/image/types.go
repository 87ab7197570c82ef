package image

import "context"

// Synthesizer renders the final marketing image from an authored prompt and
// the uploaded original product photo. The result is the provider's
// base64-encoded image payload. Any generation backend can be substituted
// without touching the pipeline.
type Synthesizer interface {
	Synthesize(ctx context.Context, textToImage, originalImageURL string) (string, error)
}
