package repository

import (
	"context"

	"github.com/google/uuid"

	"strmly/internal/domain/user"
	"strmly/internal/domain/video"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (user.User, error)
}

type VideoRepository interface {
	// Create inserts v; it fails with ErrNotFound when v.UploaderID does not resolve to a user.
	Create(ctx context.Context, v *video.Video) error
	GetByID(ctx context.Context, id uuid.UUID) (video.Video, error)
	List(ctx context.Context, offset, limit int) ([]video.Video, error)
	Count(ctx context.Context) (int64, error)
	Sample(ctx context.Context, size int) ([]video.Video, error)
	ListByUploader(ctx context.Context, uploaderID uuid.UUID, offset, limit int) ([]video.Video, error)
	CountByUploader(ctx context.Context, uploaderID uuid.UUID) (int64, error)
}
