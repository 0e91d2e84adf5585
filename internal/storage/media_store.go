package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"

	"strmly/config"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultExtension is used when neither the file name nor the content type yields one.
const DefaultExtension = "mp4"

// MediaStore persists uploaded video bytes and returns where they can be fetched.
type MediaStore interface {
	Store(ctx context.Context, data []byte, opts StoreOptions) (MediaObject, error)
	Name() string
}

type StoreOptions struct {
	Folder      string
	FileName    string
	ContentType string
}

// MediaObject describes a stored file. Width, Height and Duration stay nil
// when the backend does not probe media.
type MediaObject struct {
	URL      string
	PublicID string
	FileName string
	Size     int64
	Format   string
	Width    *int
	Height   *int
	Duration *float64
}

// NewMediaStore builds the store selected by MEDIA_DRIVER.
func NewMediaStore(ctx context.Context, cfg *config.Config) (MediaStore, error) {
	var (
		store MediaStore
		err   error
	)
	switch cfg.MediaDriver {
	case config.MediaDriverLocal:
		store, err = NewLocalStore(cfg.MediaLocalDir, cfg.MediaPublicBaseURL)
	case config.MediaDriverS3:
		store, err = NewClient(ctx, S3Config{
			Region:     cfg.S3Region,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Endpoint:   cfg.S3Endpoint,
			PublicBase: cfg.S3PublicBase,
		})
	case config.MediaDriverMinIO:
		store, err = NewMinIOStore(ctx, MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
			PublicURL: cfg.MinIOPublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.MediaDriver)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// ObjectKey returns "<folder>/<unixmillis>_<random>.<ext>" and the bare extension.
func ObjectKey(folder, fileName, contentType string, now time.Time) (string, string, error) {
	suffix, err := randomSuffix(6)
	if err != nil {
		return "", "", err
	}
	ext := Extension(fileName, contentType)
	name := fmt.Sprintf("%d_%s.%s", now.UnixMilli(), suffix, ext)
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name, ext, nil
	}
	return folder + "/" + name, ext, nil
}

// Extension picks the file extension from the client file name, then the content type.
func Extension(fileName, contentType string) string {
	if ext := strings.TrimPrefix(strings.ToLower(path.Ext(fileName)), "."); isSafeExt(ext) {
		return ext
	}
	if contentType != "" {
		if m := mimetype.Lookup(contentType); m != nil {
			if ext := strings.TrimPrefix(m.Extension(), "."); ext != "" {
				return ext
			}
		}
	}
	return DefaultExtension
}

// PublicID is the object key without its extension.
func PublicID(key string) string {
	return strings.TrimSuffix(key, path.Ext(key))
}

func isSafeExt(ext string) bool {
	if ext == "" || len(ext) > 8 {
		return false
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func randomSuffix(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
