package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL overrides the endpoint when building file URLs, e.g. a CDN in front of the bucket.
	PublicURL string
}

type MinIOStore struct {
	client *minio.Client
	cfg    MinIOConfig
}

// NewMinIOStore connects to MinIO and creates the bucket if it is missing.
func NewMinIOStore(ctx context.Context, cfg MinIOConfig) (*MinIOStore, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("minio endpoint and bucket are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	store := &MinIOStore{client: client, cfg: cfg}
	if err := store.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}
	return store, nil
}

func (s *MinIOStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{})
}

func (s *MinIOStore) Name() string { return "minio" }

func (s *MinIOStore) Store(ctx context.Context, data []byte, opts StoreOptions) (MediaObject, error) {
	key, ext, err := ObjectKey(opts.Folder, opts.FileName, opts.ContentType, time.Now())
	if err != nil {
		return MediaObject{}, err
	}

	info, err := s.client.PutObject(ctx, s.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: opts.ContentType,
	})
	if err != nil {
		return MediaObject{}, fmt.Errorf("put object: %w", err)
	}

	return MediaObject{
		URL:      s.FileURL(key),
		PublicID: PublicID(key),
		FileName: key,
		Size:     info.Size,
		Format:   ext,
	}, nil
}

func (s *MinIOStore) FileURL(key string) string {
	if s.cfg.PublicURL != "" {
		return joinURL(s.cfg.PublicURL, s.cfg.Bucket+"/"+key)
	}
	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.Endpoint, s.cfg.Bucket, key)
}
