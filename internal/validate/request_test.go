package validate

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
)

type formSpec struct {
	description string
	resolution  string
	email       string
	fileName    string
	fileType    string
	fileBody    []byte
	omitFile    bool
}

func buildRequest(t *testing.T, spec formSpec) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if !spec.omitFile {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+spec.fileName+`"`)
		h.Set("Content-Type", spec.fileType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(spec.fileBody); err != nil {
			t.Fatal(err)
		}
	}
	_ = w.WriteField("description", spec.description)
	_ = w.WriteField("resolution", spec.resolution)
	_ = w.WriteField("userEmail", spec.email)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/generate", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func validSpec() formSpec {
	return formSpec{
		description: "A sleek blue soda can on ice",
		resolution:  "1024x1024",
		email:       "a@b.com",
		fileName:    "can.png",
		fileType:    "image/png",
		fileBody:    []byte("not-really-a-png"),
	}
}

func TestGenerationFormValid(t *testing.T) {
	req, err := GenerationForm(buildRequest(t, validSpec()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Description != "A sleek blue soda can on ice" {
		t.Errorf("description = %q", req.Description)
	}
	if req.Resolution != "1024x1024" || req.Email != "a@b.com" {
		t.Errorf("resolution=%q email=%q", req.Resolution, req.Email)
	}
	if req.ContentType != "image/png" || len(req.Image) == 0 {
		t.Errorf("image payload not captured: type=%q len=%d", req.ContentType, len(req.Image))
	}
}

func TestGenerationFormNormalizesEmail(t *testing.T) {
	spec := validSpec()
	spec.email = "  User@Example.COM "
	req, err := GenerationForm(buildRequest(t, spec))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Email != "user@example.com" {
		t.Errorf("email = %q, want lowercased trimmed", req.Email)
	}
}

func TestGenerationFormSanitizesDescription(t *testing.T) {
	spec := validSpec()
	spec.description = `  <b>Crisp & "cold" lime soda</b>  `
	req, err := GenerationForm(buildRequest(t, spec))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "&lt;b&gt;Crisp &amp; &quot;cold&quot; lime soda&lt;/b&gt;"
	if req.Description != want {
		t.Errorf("description = %q, want %q", req.Description, want)
	}
}

func TestGenerationFormFieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*formSpec)
		field  string
	}{
		{"missing file", func(s *formSpec) { s.omitFile = true }, "file"},
		{"disallowed type", func(s *formSpec) { s.fileType = "image/gif" }, "file"},
		{"short description", func(s *formSpec) { s.description = "too short" }, "description"},
		{"long description", func(s *formSpec) { s.description = strings.Repeat("x", 501) }, "description"},
		{"blank description", func(s *formSpec) { s.description = "   " }, "description"},
		{"bad resolution", func(s *formSpec) { s.resolution = "640x480" }, "resolution"},
		{"bad email", func(s *formSpec) { s.email = "not-an-email" }, "userEmail"},
		{"missing email", func(s *formSpec) { s.email = "" }, "userEmail"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(&spec)
			_, err := GenerationForm(buildRequest(t, spec))
			verr, ok := err.(*Error)
			if !ok {
				t.Fatalf("expected *Error, got %T (%v)", err, err)
			}
			found := false
			for _, f := range verr.Fields {
				if f.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected violation on %q, got %v", tt.field, verr.Details())
			}
		})
	}
}

func TestGenerationFormAccumulatesAllViolations(t *testing.T) {
	spec := validSpec()
	spec.omitFile = true
	spec.description = "nope"
	spec.resolution = "8k"
	spec.email = "bogus"
	_, err := GenerationForm(buildRequest(t, spec))
	verr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if len(verr.Fields) != 4 {
		t.Errorf("expected 4 field errors, got %d: %v", len(verr.Fields), verr.Details())
	}
}

func TestSanitizeStringSinglePass(t *testing.T) {
	if got := SanitizeString("&amp;"); got != "&amp;amp;" {
		t.Errorf("SanitizeString(`&amp;`) = %q", got)
	}
	if got := SanitizeString("a < b"); got != "a &lt; b" {
		t.Errorf("SanitizeString(`a < b`) = %q", got)
	}
}
