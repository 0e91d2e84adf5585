package services

import (
	"context"
	"strconv"
	"strings"

	"strmly/internal/domain/video"
	"strmly/internal/repository"
	strmly_errors "strmly/pkg/errors"

	"github.com/google/uuid"
)

const (
	DefaultPage       = 1
	DefaultPageLimit  = 10
	MaxPageLimit      = 50
	RecommendedSize   = 5
	MsgInvalidPaging  = "Invalid pagination parameters"
	MsgInvalidVideoID = "Invalid video ID"
)

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	TotalVideos int64 `json:"totalVideos"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

type VideoPage struct {
	Videos     []video.Video
	Pagination Pagination
}

type FeedService struct {
	videos repository.VideoRepository
}

func NewFeedService(videos repository.VideoRepository) *FeedService {
	return &FeedService{videos: videos}
}

// ParsePageParams reads page and limit query values. Missing values take the
// defaults; present values must be integers in range.
func ParsePageParams(pageRaw, limitRaw string) (int, int, error) {
	page, err := parsePositive(pageRaw, DefaultPage)
	if err != nil {
		return 0, 0, err
	}
	limit, err := parsePositive(limitRaw, DefaultPageLimit)
	if err != nil {
		return 0, 0, err
	}
	if err := validatePage(page, limit); err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

func parsePositive(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, strmly_errors.NewValidationError("pagination", MsgInvalidPaging)
	}
	return n, nil
}

func validatePage(page, limit int) error {
	if page < 1 || limit < 1 || limit > MaxPageLimit {
		return strmly_errors.NewValidationError("pagination", MsgInvalidPaging)
	}
	return nil
}

// List returns one page of the feed, newest first. Pages past the end are empty, not errors.
func (s *FeedService) List(ctx context.Context, page, limit int) (VideoPage, error) {
	if err := validatePage(page, limit); err != nil {
		return VideoPage{}, err
	}
	total, err := s.videos.Count(ctx)
	if err != nil {
		return VideoPage{}, err
	}
	offset, ok := pageOffset(page, limit, total)
	if !ok {
		return VideoPage{Videos: []video.Video{}, Pagination: paginate(page, limit, total)}, nil
	}
	videos, err := s.videos.List(ctx, offset, limit)
	if err != nil {
		return VideoPage{}, err
	}
	return VideoPage{Videos: videos, Pagination: paginate(page, limit, total)}, nil
}

func (s *FeedService) ListByUploader(ctx context.Context, uploaderID uuid.UUID, page, limit int) (VideoPage, error) {
	if err := validatePage(page, limit); err != nil {
		return VideoPage{}, err
	}
	total, err := s.videos.CountByUploader(ctx, uploaderID)
	if err != nil {
		return VideoPage{}, err
	}
	offset, ok := pageOffset(page, limit, total)
	if !ok {
		return VideoPage{Videos: []video.Video{}, Pagination: paginate(page, limit, total)}, nil
	}
	videos, err := s.videos.ListByUploader(ctx, uploaderID, offset, limit)
	if err != nil {
		return VideoPage{}, err
	}
	return VideoPage{Videos: videos, Pagination: paginate(page, limit, total)}, nil
}

// Get looks a video up by its string id. A malformed id is invalid input, an unknown one is not found.
func (s *FeedService) Get(ctx context.Context, rawID string) (video.Video, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return video.Video{}, strmly_errors.NewValidationError("id", MsgInvalidVideoID)
	}
	return s.videos.GetByID(ctx, id)
}

// Recommend returns up to RecommendedSize distinct videos sampled uniformly.
func (s *FeedService) Recommend(ctx context.Context) ([]video.Video, error) {
	return s.videos.Sample(ctx, RecommendedSize)
}

// pageOffset reports false when page starts past the last row, which also keeps
// (page-1)*limit from overflowing for huge page numbers.
func pageOffset(page, limit int, total int64) (int, bool) {
	if int64(page-1) > total/int64(limit) {
		return 0, false
	}
	return (page - 1) * limit, true
}

func paginate(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		Limit:       limit,
		TotalPages:  totalPages,
		TotalVideos: total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
