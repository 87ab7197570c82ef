package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	storage_go "github.com/supabase-community/storage-go"

	"adstudio/internal/domain"
)

// Artifact references a stored binary image by public URL and object key.
type Artifact struct {
	URL string
	ID  string
}

// Store uploads binary artifacts to object storage.
type Store interface {
	// UploadFile stores raw image bytes under a prefixed, timestamped name.
	UploadFile(ctx context.Context, data []byte, prefix, contentType string) (Artifact, error)
	// UploadEncodedImage stores a base64-encoded PNG payload, as returned
	// by the image generation provider.
	UploadEncodedImage(ctx context.Context, encoded, prefix string) (Artifact, error)
}

// SupabaseStore implements Store on top of Supabase Storage.
type SupabaseStore struct {
	client *storage_go.Client
	bucket string
	now    func() time.Time
}

// NewSupabaseStore builds a store for the given project URL and bucket.
func NewSupabaseStore(projectURL, serviceKey, bucket string) (*SupabaseStore, error) {
	projectURL = strings.TrimRight(strings.TrimSpace(projectURL), "/")
	if projectURL == "" {
		return nil, errors.New("storage: project url is required")
	}
	if strings.TrimSpace(serviceKey) == "" {
		return nil, errors.New("storage: service key is required")
	}
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("storage: bucket is required")
	}
	client := storage_go.NewClient(projectURL+"/storage/v1", serviceKey, nil)
	return &SupabaseStore{client: client, bucket: bucket, now: time.Now}, nil
}

// UploadFile stores the payload and returns its public URL and object key.
// Names carry the upload timestamp so concurrent uploads under the same
// prefix never collide on overwrite semantics.
func (s *SupabaseStore) UploadFile(ctx context.Context, data []byte, prefix, contentType string) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	if len(data) == 0 {
		return Artifact{}, fmt.Errorf("%w: empty payload", domain.ErrUploadFailed)
	}
	path := fmt.Sprintf("%s-%d.%s", prefix, s.now().UnixMilli(), extensionFor(contentType))
	if _, err := s.client.UploadFile(s.bucket, path, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
	}); err != nil {
		return Artifact{}, fmt.Errorf("%w: %s: %v", domain.ErrUploadFailed, path, err)
	}
	return Artifact{
		URL: s.client.GetPublicUrl(s.bucket, path).SignedURL,
		ID:  path,
	}, nil
}

// UploadEncodedImage decodes the base64 payload and stores it as a PNG.
func (s *SupabaseStore) UploadEncodedImage(ctx context.Context, encoded, prefix string) (Artifact, error) {
	trimmed := strings.TrimSpace(encoded)
	if idx := strings.Index(trimmed, "base64,"); idx >= 0 {
		trimmed = trimmed[idx+len("base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: decode base64 payload: %v", domain.ErrUploadFailed, err)
	}
	return s.UploadFile(ctx, data, prefix, "image/png")
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}

var _ Store = (*SupabaseStore)(nil)
