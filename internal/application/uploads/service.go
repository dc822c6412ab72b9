package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"villfinder-backend/internal/domain"
	"villfinder-backend/internal/pkg/apperrors"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// StorageClient signs object uploads against the photo store.
type StorageClient interface {
	CreateSignedUploadURL(ctx context.Context, bucket, objectPath string) (string, error)
}

// Default paths of a Supabase-compatible storage API.
const (
	DefaultSignPath   = "/storage/v1/object/upload/sign"
	DefaultPublicPath = "/storage/v1/object/public"
)

// HTTPClient is a StorageClient for a Supabase-compatible storage REST API.
// SignPath overrides the upload signing endpoint for other gateways.
type HTTPClient struct {
	BaseURL   string
	SecretKey string
	SignPath  string
	Client    *http.Client
}

func joinPath(base, prefix, fallback string, parts ...string) string {
	if prefix == "" {
		prefix = fallback
	}
	return strings.TrimRight(base, "/") + "/" + strings.Trim(prefix, "/") + "/" + path.Join(parts...)
}

type signedUploadResponse struct {
	SignedURL      string `json:"signedUrl"`
	SignedURLSnake string `json:"signed_url"`
	URL            string `json:"url"`
}

func (c *HTTPClient) CreateSignedUploadURL(ctx context.Context, bucket, objectPath string) (string, error) {
	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if c.BaseURL == "" {
		return "", fmt.Errorf("storage: STORAGE_URL is not set")
	}
	if c.SecretKey == "" {
		return "", fmt.Errorf("storage: STORAGE_SECRET_KEY is not set")
	}
	base := strings.TrimRight(c.BaseURL, "/")
	url := joinPath(base, c.SignPath, DefaultSignPath, bucket, objectPath)

	body, _ := json.Marshal(map[string]interface{}{"expiresIn": 3600, "upsert": false})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("apikey", c.SecretKey)
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("storage error: status %d body: %s", resp.StatusCode, string(respBody))
	}

	var data signedUploadResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", fmt.Errorf("storage response decode: %w", err)
	}
	switch {
	case data.SignedURL != "":
		return data.SignedURL, nil
	case data.SignedURLSnake != "":
		return data.SignedURLSnake, nil
	case data.URL != "":
		// relative to the storage host
		return base + "/" + strings.TrimLeft(data.URL, "/"), nil
	}
	return "", fmt.Errorf("storage returned no signed URL, body: %s", string(respBody))
}

type Service struct {
	Client     StorageClient
	BaseURL    string
	Bucket     string
	PublicPath string
}

type UploadResult struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	Path      string `json:"path"`
}

// PhotoPath returns a collision free object path for a listing photo.
func PhotoPath(ref domain.TargetRef, fileName string) (string, error) {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return "", apperrors.Validation("file_name", "file_name is required")
	}
	name = strings.Map(func(r rune) rune {
		if r == ' ' {
			return '-'
		}
		return r
	}, name)
	return fmt.Sprintf("%s/%d/%s-%s", ref.Kind, ref.ID, uuid.NewString(), name), nil
}

// GetSignedUploadURL signs an upload for a new photo of ref and returns where it will be served from.
func (s *Service) GetSignedUploadURL(ctx context.Context, ref domain.TargetRef, fileName string) (*UploadResult, error) {
	objectPath, err := PhotoPath(ref, fileName)
	if err != nil {
		return nil, err
	}
	signedURL, err := s.Client.CreateSignedUploadURL(ctx, s.Bucket, objectPath)
	if err != nil {
		return nil, err
	}
	publicURL := joinPath(s.BaseURL, s.PublicPath, DefaultPublicPath, s.Bucket, objectPath)
	return &UploadResult{
		UploadURL: signedURL,
		PublicURL: publicURL,
		Path:      objectPath,
	}, nil
}
