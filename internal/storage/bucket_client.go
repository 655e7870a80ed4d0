package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/macxnet80/tigube-approval-service/internal/config"
)

// BucketClient talks to a Supabase-style storage REST API. Objects are
// addressed as /storage/v1/object/{bucket}/{key} and readable without
// credentials under /storage/v1/object/public/{bucket}/{key}.
type BucketClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewBucketClient builds a client from storage configuration.
func NewBucketClient(cfg config.StorageConfig, logger *zap.Logger) *BucketClient {
	return &BucketClient{
		baseURL:    cfg.BaseURL,
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		logger:     logger,
	}
}

// Upload stores an object and returns its public URL. An existing
// object under the same key is overwritten, which is what document
// resubmission relies on.
func (c *BucketClient) Upload(ctx context.Context, bucket, key, contentType string, data []byte) (string, error) {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", bucket, key, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return "", fmt.Errorf("upload %s/%s: status %d: %s", bucket, key, res.StatusCode, string(body))
	}

	return c.PublicURL(bucket, key), nil
}

// Delete removes an object. Used to roll back earlier uploads when a
// later upload of the same submission fails.
func (c *BucketClient) Delete(ctx context.Context, bucket, key string) error {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", bucket, key, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete %s/%s: status %d", bucket, key, res.StatusCode)
	}
	return nil
}

// PublicURL returns the unauthenticated read URL for an object.
func (c *BucketClient) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucket, key)
}
