package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"strmly/internal/domain/video"
	"strmly/internal/repository"
	"strmly/internal/storage"
	strmly_errors "strmly/pkg/errors"
	"strmly/pkg/events"
	"strmly/pkg/logger"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultMaxUploadBytes int64 = 100 * 1024 * 1024
	DefaultUploadFolder         = "strmly-videos"

	minTitleLength       = 2
	maxTitleLength       = 100
	minDescriptionLength = 2
	maxDescriptionLength = 500
)

const (
	MsgFileRequired       = "Video file is required"
	MsgUnsupportedType    = "Only video files are allowed"
	MsgTitleLength        = "Title must be between 2 and 100 characters"
	MsgDescriptionLength  = "Description must be between 2 and 500 characters"
	MsgStorageUnavailable = "Failed to upload video file. Please try again."
)

// UploadFile is the received multipart part. A nil *UploadFile means no file was sent.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type UploadInput struct {
	File         *UploadFile
	Title        string
	Description  string
	UploaderID   uuid.UUID
	UploaderName string
}

type UploadService struct {
	videos   repository.VideoRepository
	store    storage.MediaStore
	folder   string
	maxBytes int64
	events   events.Publisher
	log      *logger.Logger
}

type UploadOption func(*UploadService)

func WithUploadFolder(folder string) UploadOption {
	return func(s *UploadService) {
		if folder != "" {
			s.folder = folder
		}
	}
}

func WithMaxUploadBytes(n int64) UploadOption {
	return func(s *UploadService) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// WithPublisher announces every stored video on events.VideosChannel.
func WithPublisher(p events.Publisher) UploadOption {
	return func(s *UploadService) {
		s.events = p
	}
}

func NewUploadService(videos repository.VideoRepository, store storage.MediaStore, l *logger.Logger, opts ...UploadOption) *UploadService {
	if l == nil {
		l = logger.NewNop()
	}
	s := &UploadService{
		videos:   videos,
		store:    store,
		folder:   DefaultUploadFolder,
		maxBytes: DefaultMaxUploadBytes,
		log:      l,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxBytes is the largest accepted video payload.
func (s *UploadService) MaxBytes() int64 {
	return s.maxBytes
}

// Submit validates the upload, stores the media, then inserts the Video row.
// Nothing is written when validation fails, and no row is written when the store fails.
func (s *UploadService) Submit(ctx context.Context, in UploadInput) (video.Video, error) {
	title, description, err := s.validate(in)
	if err != nil {
		return video.Video{}, err
	}
	if s.store == nil {
		return video.Video{}, &strmly_errors.StorageError{Op: "store", Err: strmly_errors.ErrStoreMisconfig}
	}

	obj, err := s.store.Store(ctx, in.File.Data, storage.StoreOptions{
		Folder:      s.folder,
		FileName:    in.File.Name,
		ContentType: in.File.ContentType,
	})
	if err != nil {
		s.log.Error(ctx, "media store failed", zap.String("store", s.store.Name()), zap.Error(err))
		return video.Video{}, &strmly_errors.StorageError{Op: "store", Err: err}
	}
	if obj.Size != int64(len(in.File.Data)) {
		err := fmt.Errorf("stored %d bytes, received %d", obj.Size, len(in.File.Data))
		s.log.Error(ctx, "stored size mismatch", zap.String("key", obj.FileName), zap.Error(err))
		return video.Video{}, &strmly_errors.StorageError{Op: "verify size", Err: err}
	}

	v := &video.Video{
		Title:        title,
		Description:  description,
		VideoURL:     obj.URL,
		FileName:     obj.FileName,
		PublicID:     obj.PublicID,
		Format:       obj.Format,
		Width:        obj.Width,
		Height:       obj.Height,
		Duration:     obj.Duration,
		FileSize:     obj.Size,
		UploaderID:   in.UploaderID,
		UploaderName: in.UploaderName,
	}
	if err := s.videos.Create(ctx, v); err != nil {
		s.log.Error(ctx, "video insert failed", zap.String("key", obj.FileName), zap.Error(err))
		return video.Video{}, err
	}

	s.log.Info(ctx, "video uploaded",
		zap.String("video_id", v.ID.String()),
		zap.String("key", obj.FileName),
		zap.Int64("size", v.FileSize),
	)
	s.publishUploaded(ctx, v)
	return *v, nil
}

// publishUploaded is best effort. The video is already committed.
func (s *UploadService) publishUploaded(ctx context.Context, v *video.Video) {
	if s.events == nil {
		return
	}
	event := events.NewEvent(events.TypeVideoUploaded, events.VideoUploaded{
		VideoID:    v.ID.String(),
		UploaderID: v.UploaderID.String(),
		Title:      v.Title,
		VideoURL:   v.VideoURL,
		FileSize:   v.FileSize,
	}, time.Now())
	if err := s.events.Publish(ctx, events.VideosChannel, event); err != nil {
		s.log.Warn(ctx, "failed to publish upload event", zap.String("video_id", v.ID.String()), zap.Error(err))
	}
}

func (s *UploadService) validate(in UploadInput) (string, string, error) {
	if in.File == nil {
		return "", "", strmly_errors.NewValidationError("video", MsgFileRequired)
	}
	if !isVideo(in.File.ContentType, in.File.Data) {
		return "", "", strmly_errors.NewValidationError("video", MsgUnsupportedType)
	}
	if int64(len(in.File.Data)) > s.maxBytes {
		return "", "", strmly_errors.NewValidationError("video", FileTooLargeMessage(s.maxBytes))
	}

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	ve := &strmly_errors.ValidationError{}
	if n := utf8.RuneCountInString(title); n < minTitleLength || n > maxTitleLength {
		ve.Add("title", MsgTitleLength)
	}
	if n := utf8.RuneCountInString(description); n < minDescriptionLength || n > maxDescriptionLength {
		ve.Add("description", MsgDescriptionLength)
	}
	if ve.HasErrors() {
		return "", "", ve
	}
	return title, description, nil
}

func FileTooLargeMessage(maxBytes int64) string {
	return fmt.Sprintf("File size too large. Maximum size is %dMB", maxBytes/(1024*1024))
}

// isVideo requires a declared video/* type. Sniffed content that is recognized
// as something other than video is rejected; unrecognized content is accepted.
func isVideo(declared string, data []byte) bool {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if !strings.HasPrefix(declared, "video/") {
		return false
	}
	if len(data) == 0 {
		return false
	}
	detected := mimetype.Detect(data)
	if detected.Is("application/octet-stream") {
		return true
	}
	for m := detected; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "video/") {
			return true
		}
	}
	return false
}
