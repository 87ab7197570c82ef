package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"adstudio/internal/domain"
)

type uploadCapture struct {
	path        string
	contentType string
	body        []byte
}

func newStorageServer(t *testing.T, capture *uploadCapture) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capture.path = r.URL.Path
		capture.contentType = r.Header.Get("Content-Type")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read upload body: %v", err)
		}
		capture.body = body
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Key":"ad-artifacts/original-1.png"}`))
	}))
}

func newTestStore(t *testing.T, baseURL string) *SupabaseStore {
	t.Helper()
	// NewSupabaseStore appends /storage/v1 itself, so hand it the bare origin.
	store, err := NewSupabaseStore(baseURL, "service-key", "ad-artifacts")
	if err != nil {
		t.Fatal(err)
	}
	store.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return store
}

func TestUploadFileNamesAndRoutes(t *testing.T) {
	var capture uploadCapture
	srv := newStorageServer(t, &capture)
	defer srv.Close()

	store := newTestStore(t, srv.URL)
	artifact, err := store.UploadFile(context.Background(), []byte("png-bytes"), "original", "image/png")
	if err != nil {
		t.Fatalf("UploadFile returned error: %v", err)
	}

	wantPath := "/storage/v1/object/ad-artifacts/original-1700000000000.png"
	if capture.path != wantPath {
		t.Errorf("upload path = %q, want %q", capture.path, wantPath)
	}
	if !strings.Contains(capture.contentType, "image/png") {
		t.Errorf("content type = %q, want image/png", capture.contentType)
	}
	if artifact.ID != "original-1700000000000.png" {
		t.Errorf("artifact id = %q", artifact.ID)
	}
	if !strings.Contains(artifact.URL, "/object/public/ad-artifacts/original-1700000000000.png") {
		t.Errorf("artifact url = %q, want a public object url", artifact.URL)
	}
}

func TestUploadFileExtensionFollowsContentType(t *testing.T) {
	tests := []struct {
		contentType string
		wantExt     string
	}{
		{"image/png", "png"},
		{"image/webp", "webp"},
		{"image/jpeg", "jpg"},
		{"image/jpg", "jpg"},
	}
	for _, tt := range tests {
		if got := extensionFor(tt.contentType); got != tt.wantExt {
			t.Errorf("extensionFor(%q) = %q, want %q", tt.contentType, got, tt.wantExt)
		}
	}
}

func TestUploadFileRejectsEmptyPayload(t *testing.T) {
	var capture uploadCapture
	srv := newStorageServer(t, &capture)
	defer srv.Close()

	store := newTestStore(t, srv.URL)
	_, err := store.UploadFile(context.Background(), nil, "original", "image/png")
	if !errors.Is(err, domain.ErrUploadFailed) {
		t.Errorf("err = %v, want ErrUploadFailed", err)
	}
}

func TestUploadEncodedImageStripsDataURLPrefix(t *testing.T) {
	var capture uploadCapture
	srv := newStorageServer(t, &capture)
	defer srv.Close()

	store := newTestStore(t, srv.URL)
	payload := []byte("generated-png")
	encoded := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	artifact, err := store.UploadEncodedImage(context.Background(), encoded, "generated")
	if err != nil {
		t.Fatalf("UploadEncodedImage returned error: %v", err)
	}
	if string(capture.body) != string(payload) {
		t.Errorf("uploaded body = %q, want decoded payload", capture.body)
	}
	if !strings.HasSuffix(artifact.ID, ".png") {
		t.Errorf("artifact id = %q, want a .png object", artifact.ID)
	}
}

func TestUploadEncodedImageRejectsBadBase64(t *testing.T) {
	var capture uploadCapture
	srv := newStorageServer(t, &capture)
	defer srv.Close()

	store := newTestStore(t, srv.URL)
	_, err := store.UploadEncodedImage(context.Background(), "%%%not-base64%%%", "generated")
	if !errors.Is(err, domain.ErrUploadFailed) {
		t.Errorf("err = %v, want ErrUploadFailed", err)
	}
	if capture.path != "" {
		t.Error("upload request sent despite decode failure")
	}
}

func TestUploadFailureWrapsUploadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bucket not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	store := newTestStore(t, srv.URL)
	_, err := store.UploadFile(context.Background(), []byte("png-bytes"), "original", "image/png")
	if !errors.Is(err, domain.ErrUploadFailed) {
		t.Errorf("err = %v, want ErrUploadFailed", err)
	}
}

func TestNewSupabaseStoreValidatesInputs(t *testing.T) {
	if _, err := NewSupabaseStore("", "key", "bucket"); err == nil {
		t.Error("accepted empty project url")
	}
	if _, err := NewSupabaseStore("https://proj.supabase.co", "", "bucket"); err == nil {
		t.Error("accepted empty service key")
	}
	if _, err := NewSupabaseStore("https://proj.supabase.co", "key", ""); err == nil {
		t.Error("accepted empty bucket")
	}
}
