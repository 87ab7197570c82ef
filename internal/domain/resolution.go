package domain

import "fmt"

// Resolutions supported by the generation pipeline. Anything outside this
// set is rejected by input validation before the pipeline runs.
const (
	ResolutionSquare    = "1024x1024"
	ResolutionLandscape = "1536x1024"
	ResolutionPortrait  = "1024x1536"
)

var aspectByResolution = map[string]string{
	ResolutionSquare:    "1:1",
	ResolutionLandscape: "3:2",
	ResolutionPortrait:  "2:3",
}

// SupportedResolution reports whether the given resolution is one the
// pipeline accepts.
func SupportedResolution(resolution string) bool {
	_, ok := aspectByResolution[resolution]
	return ok
}

// SupportedResolutions returns the closed set of accepted resolutions.
func SupportedResolutions() []string {
	return []string{ResolutionSquare, ResolutionLandscape, ResolutionPortrait}
}

// AspectFor maps a supported resolution to its aspect-ratio label. An
// unknown resolution is a caller error: the validator must have rejected it
// already, so this never falls back to a default.
func AspectFor(resolution string) (string, error) {
	aspect, ok := aspectByResolution[resolution]
	if !ok {
		return "", fmt.Errorf("unsupported resolution: %q", resolution)
	}
	return aspect, nil
}
