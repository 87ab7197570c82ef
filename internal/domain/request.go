package domain

// GenerationRequest is the trusted, request-scoped input to the generation
// pipeline. Instances are produced only by the validate package: every
// field has already been checked and normalized, all-or-nothing.
type GenerationRequest struct {
	Image       []byte
	ContentType string
	Description string
	Resolution  string
	Email       string
}
