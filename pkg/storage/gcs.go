package storage

import (
	"context"
	"fmt"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type Config struct {
	Bucket          string
	CredentialsJSON string // optional; ADC is used when empty
	PublicBaseURL   string // optional; defaults to storage.googleapis.com
}

type GCSStorage struct {
	client  *gcs.Client
	bucket  string
	baseURL string
}

func NewGCSStorage(ctx context.Context, cfg *Config) (*GCSStorage, error) {
	var client *gcs.Client
	var err error
	if strings.TrimSpace(cfg.CredentialsJSON) != "" {
		client, err = gcs.NewClient(ctx, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	} else {
		client, err = gcs.NewClient(ctx)
	}
	if err != nil {
		return nil, err
	}

	if _, err := client.Bucket(cfg.Bucket).Attrs(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("gcs bucket %q not accessible: %w", cfg.Bucket, err)
	}

	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://storage.googleapis.com/%s", cfg.Bucket)
	}

	return &GCSStorage{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

// Upload writes the object and returns its public URL.
func (s *GCSStorage) Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	wc := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := wc.Write(data); err != nil {
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", s.baseURL, objectName), nil
}

func (s *GCSStorage) Delete(ctx context.Context, objectName string) error {
	err := s.client.Bucket(s.bucket).Object(objectName).Delete(ctx)
	if err == gcs.ErrObjectNotExist {
		return nil
	}
	return err
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}
