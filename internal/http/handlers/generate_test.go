package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/rs/zerolog"

	"adstudio/internal/domain"
	"adstudio/internal/pipeline"
)

type stubGenerator struct {
	result *pipeline.Result
	err    error
	calls  int
	last   domain.GenerationRequest
}

func (s *stubGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*pipeline.Result, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubGenerator) Cost() int { return 5 }

func newTestApp(gen GenerationService) *App {
	return NewApp(gen, &stubAccountRepo{accounts: map[string]*domain.Account{}}, &stubAdRepo{}, zerolog.Nop())
}

func generateForm(t *testing.T, withFile bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if withFile {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="file"; filename="can.png"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = part.Write([]byte("png-bytes"))
	}
	_ = w.WriteField("description", "A sleek blue soda can on ice")
	_ = w.WriteField("resolution", "1024x1024")
	_ = w.WriteField("userEmail", "a@b.com")
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/generate", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestGenerateSuccessResponse(t *testing.T) {
	gen := &stubGenerator{result: &pipeline.Result{
		ID:               "ad-1",
		ImageURL:         "https://cdn.test/generated-1.png",
		OriginalImageURL: "https://cdn.test/original-1.png",
		Prompts:          domain.PromptPair{TextToImage: "hero shot of the can", ImageToVideo: "push-in on the can"},
		Resolution:       "1024x1024",
		Aspect:           "1:1",
		Seed:             424242,
	}}
	app := newTestApp(gen)

	rec := httptest.NewRecorder()
	app.Generate(rec, generateForm(t, true))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
		Meta    struct {
			Resolution string `json:"resolution"`
			Aspect     string `json:"aspect"`
			Seed       int64  `json:"seed"`
		} `json:"meta"`
		Prompts  domain.PromptPair `json:"prompts"`
		ImageURL string            `json:"imageUrl"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Success || body.ID != "ad-1" || body.Meta.Aspect != "1:1" || body.Meta.Seed != 424242 {
		t.Errorf("unexpected body: %+v", body)
	}
	if body.ImageURL == "" || body.Prompts.TextToImage == "" {
		t.Errorf("missing payload fields: %+v", body)
	}
	if gen.last.Email != "a@b.com" {
		t.Errorf("generator got email %q", gen.last.Email)
	}
}

func TestGenerateValidationErrorSkipsPipeline(t *testing.T) {
	gen := &stubGenerator{}
	app := newTestApp(gen)

	rec := httptest.NewRecorder()
	app.Generate(rec, generateForm(t, false))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "Validation failed" || len(body.Details) == 0 {
		t.Errorf("unexpected body: %+v", body)
	}
	if gen.calls != 0 {
		t.Error("pipeline ran despite validation failure")
	}
}

func TestGenerateErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantLabel  string
	}{
		{"account missing", domain.ErrNotFound, http.StatusNotFound, "Account not found"},
		{"insufficient", domain.ErrInsufficientCredits, http.StatusPaymentRequired, "Insufficient credits"},
		{"upload", domain.ErrUploadFailed, http.StatusInternalServerError, "Upload failed"},
		{"generation", domain.ErrGenerationFailed, http.StatusInternalServerError, "Internal server error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&stubGenerator{err: tt.err})
			rec := httptest.NewRecorder()
			app.Generate(rec, generateForm(t, true))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Error != tt.wantLabel {
				t.Errorf("error label = %q, want %q", body.Error, tt.wantLabel)
			}
		})
	}
}
