package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"strmly/config"
	"strmly/internal/domain/user"
	"strmly/internal/repository"
	"strmly/internal/storage"
	"strmly/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// mp4Header is the start of an ISO BMFF file with an mp42 brand.
var mp4Header = []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom")

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.Config{DatabaseURL: "sqlite://:memory:", DBLogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpiryHours: 1}
}

func createTestUser(t *testing.T, repo repository.UserRepository, name, email string) user.User {
	t.Helper()
	u := &user.User{Name: name, Email: email, PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), u))
	return *u
}

// stubStore records every call and can be told to fail or to misreport the size.
type stubStore struct {
	mu        sync.Mutex
	calls     int
	err       error
	sizeDelta int64
	last      storage.StoreOptions
}

func (s *stubStore) Name() string { return "stub" }

func (s *stubStore) Store(ctx context.Context, data []byte, opts storage.StoreOptions) (storage.MediaObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.last = opts
	if s.err != nil {
		return storage.MediaObject{}, s.err
	}
	key := fmt.Sprintf("%s/%d_stub.mp4", opts.Folder, s.calls)
	return storage.MediaObject{
		URL:      "https://media.example/" + key,
		PublicID: storage.PublicID(key),
		FileName: key,
		Size:     int64(len(data)) + s.sizeDelta,
		Format:   "mp4",
	}, nil
}

func (s *stubStore) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

var errStoreDown = errors.New("store down")
