package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hidetrade/internal/config"
	"hidetrade/pkg/apperr"
)

// Uploader pushes a base64 data-URI image to the media host and returns
// a durable secure URL.
type Uploader interface {
	Upload(ctx context.Context, dataURI string) (string, error)
}

type hostUploader struct {
	cfg        config.MediaConfig
	httpClient *http.Client
}

func NewUploader(cfg config.MediaConfig) Uploader {
	return &hostUploader{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (u *hostUploader) Upload(ctx context.Context, dataURI string) (string, error) {
	if !strings.HasPrefix(dataURI, "data:") {
		return "", apperr.NewValidation("image", "expected a base64 data URI")
	}

	payload, err := json.Marshal(map[string]string{"file": dataURI})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.cfg.UploadURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+u.cfg.APIKey)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: media host unreachable: %v", apperr.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: media host returned status %d", apperr.ErrUnavailable, resp.StatusCode)
	}

	var result struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode media host response: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("%w: media host returned no URL", apperr.ErrUnavailable)
	}
	return result.SecureURL, nil
}
