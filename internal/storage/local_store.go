package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LocalStore writes videos under a directory that the server exposes on /media.
type LocalStore struct {
	BasePath string
	BaseURL  string
}

func NewLocalStore(basePath, baseURL string) (*LocalStore, error) {
	if basePath == "" {
		return nil, errors.New("local media directory is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}
	return &LocalStore{BasePath: basePath, BaseURL: baseURL}, nil
}

func (l *LocalStore) Name() string { return "local" }

func (l *LocalStore) Store(ctx context.Context, data []byte, opts StoreOptions) (MediaObject, error) {
	if err := ctx.Err(); err != nil {
		return MediaObject{}, err
	}
	key, ext, err := ObjectKey(opts.Folder, opts.FileName, opts.ContentType, time.Now())
	if err != nil {
		return MediaObject{}, err
	}

	fullPath := filepath.Join(l.BasePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return MediaObject{}, fmt.Errorf("create folder: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return MediaObject{}, fmt.Errorf("write file: %w", err)
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		return MediaObject{}, fmt.Errorf("stat file: %w", err)
	}

	return MediaObject{
		URL:      joinURL(l.BaseURL, key),
		PublicID: PublicID(key),
		FileName: key,
		Size:     info.Size(),
		Format:   ext,
	}, nil
}
