package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrUploadFailed        = errors.New("upload failed")
	ErrGenerationFailed    = errors.New("image generation failed")
	ErrInvalidTransition   = errors.New("invalid status transition")
)
