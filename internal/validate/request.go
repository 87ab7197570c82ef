package validate

import (
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"adstudio/internal/domain"
)

const (
	// MaxFileSize is the upload ceiling for the product photo.
	MaxFileSize = 10 << 20

	minDescriptionLen = 10
	maxDescriptionLen = 500
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
}

// FieldError describes a single violated input rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries every violated field of a request, not just the first.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Details renders the field errors for a client-facing response body.
func (e *Error) Details() []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return out
}

func (e *Error) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

var entityReplacer = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"&", "&amp;",
)

// SanitizeString trims the input and escapes HTML-sensitive characters in a
// single pass; the replacer never re-scans its own output.
func SanitizeString(input string) string {
	return entityReplacer.Replace(strings.TrimSpace(input))
}

// GenerationForm parses and validates the multipart generation form into a
// trusted request. It is a pure transformation with no side effects: either
// every field is valid and a complete GenerationRequest is returned, or an
// *Error enumerating all violations is returned.
func GenerationForm(r *http.Request) (domain.GenerationRequest, error) {
	verr := &Error{}

	if err := r.ParseMultipartForm(MaxFileSize + (1 << 20)); err != nil {
		verr.add("form", "invalid multipart form data")
		return domain.GenerationRequest{}, verr
	}

	req := domain.GenerationRequest{
		Description: SanitizeString(r.FormValue("description")),
		Resolution:  strings.TrimSpace(r.FormValue("resolution")),
		Email:       strings.ToLower(strings.TrimSpace(r.FormValue("userEmail"))),
	}

	file, header, err := r.FormFile("file")
	switch {
	case err != nil:
		verr.add("file", "file is required")
	case header.Size > MaxFileSize:
		verr.add("file", "file size must be less than 10MB")
	default:
		contentType := header.Header.Get("Content-Type")
		if _, ok := allowedImageTypes[contentType]; !ok {
			verr.add("file", "file must be JPEG, PNG, or WebP")
		} else {
			data, readErr := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
			if readErr != nil {
				verr.add("file", "failed to read file")
			} else if len(data) > MaxFileSize {
				verr.add("file", "file size must be less than 10MB")
			} else {
				req.Image = data
				req.ContentType = contentType
			}
		}
	}
	if file != nil {
		defer file.Close()
	}

	switch n := utf8.RuneCountInString(req.Description); {
	case req.Description == "":
		verr.add("description", "description cannot be empty or whitespace only")
	case n < minDescriptionLen:
		verr.add("description", "description must be at least 10 characters")
	case n > maxDescriptionLen:
		verr.add("description", "description must be less than 500 characters")
	}

	if !domain.SupportedResolution(req.Resolution) {
		verr.add("resolution", "resolution must be one of: "+strings.Join(domain.SupportedResolutions(), ", "))
	}

	if req.Email == "" {
		verr.add("userEmail", "user email is required")
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		verr.add("userEmail", "invalid email address")
	}

	if len(verr.Fields) > 0 {
		return domain.GenerationRequest{}, verr
	}
	return req, nil
}
