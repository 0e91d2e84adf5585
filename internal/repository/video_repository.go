package repository

import (
	"context"
	"errors"
	"fmt"

	"strmly/internal/domain/user"
	"strmly/internal/domain/video"
	strmly_errors "strmly/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresVideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &PostgresVideoRepository{db: db}
}

// newestFirst is the only listing order. id breaks ties between equal timestamps.
var newestFirst = []clause.OrderByColumn{
	{Column: clause.Column{Name: "created_at"}, Desc: true},
	{Column: clause.Column{Name: "id"}, Desc: true},
}

func (r *PostgresVideoRepository) Create(ctx context.Context, v *video.Video) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var uploaders int64
		if err := tx.Model(&user.User{}).Where("id = ?", v.UploaderID).Count(&uploaders).Error; err != nil {
			return err
		}
		if uploaders == 0 {
			return fmt.Errorf("uploader %s: %w", v.UploaderID, strmly_errors.ErrNotFound)
		}

		if err := tx.Omit(clause.Associations).Create(v).Error; err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("uploader %s: %w", v.UploaderID, strmly_errors.ErrNotFound)
			}
			if isUniqueViolation(err) {
				return strmly_errors.ErrAlreadyExists
			}
			return err
		}
		return nil
	})
}

func (r *PostgresVideoRepository) GetByID(ctx context.Context, id uuid.UUID) (video.Video, error) {
	var v video.Video
	err := r.db.WithContext(ctx).
		Preload("Uploader", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		Where("id = ?", id).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return video.Video{}, strmly_errors.ErrNotFound
		}
		return video.Video{}, err
	}
	return v, nil
}

func (r *PostgresVideoRepository) List(ctx context.Context, offset, limit int) ([]video.Video, error) {
	var videos []video.Video
	err := r.db.WithContext(ctx).
		Order(clause.OrderBy{Columns: newestFirst}).
		Offset(offset).
		Limit(limit).
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *PostgresVideoRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&video.Video{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Sample returns up to size distinct rows in uniformly random order.
// RANDOM() is available on both PostgreSQL and SQLite.
func (r *PostgresVideoRepository) Sample(ctx context.Context, size int) ([]video.Video, error) {
	var videos []video.Video
	err := r.db.WithContext(ctx).
		Order("RANDOM()").
		Limit(size).
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *PostgresVideoRepository) ListByUploader(ctx context.Context, uploaderID uuid.UUID, offset, limit int) ([]video.Video, error) {
	var videos []video.Video
	err := r.db.WithContext(ctx).
		Where("uploader_id = ?", uploaderID).
		Order(clause.OrderBy{Columns: newestFirst}).
		Offset(offset).
		Limit(limit).
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *PostgresVideoRepository) CountByUploader(ctx context.Context, uploaderID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&video.Video{}).
		Where("uploader_id = ?", uploaderID).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
