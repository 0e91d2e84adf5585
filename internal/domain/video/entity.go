package video

import (
	"time"

	"strmly/internal/domain/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultFormat is stored when the media store does not report one.
const DefaultFormat = "mp4"

// Video represents the videos table. Rows are never updated after insert.
//
// UploaderName is copied from the uploader at upload time and is not kept in
// sync with later profile changes.
type Video struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Title        string     `gorm:"size:100;not null"`
	Description  string     `gorm:"size:500;not null"`
	VideoURL     string     `gorm:"not null"`
	FileName     string     `gorm:"not null"`
	PublicID     string     `gorm:"not null"`
	Format       string     `gorm:"size:32;default:mp4"`
	Width        *int
	Height       *int
	Duration     *float64
	FileSize     int64      `gorm:"not null"`
	UploaderID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_videos_uploader_id"`
	Uploader     *user.User `gorm:"foreignKey:UploaderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	UploaderName string     `gorm:"size:50;not null"`
	CreatedAt    time.Time  `gorm:"index:idx_videos_created_at,sort:desc"`
	UpdatedAt    time.Time
}

func (Video) TableName() string {
	return "videos"
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.Format == "" {
		v.Format = DefaultFormat
	}
	return nil
}
