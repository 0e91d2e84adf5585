package httpdto

import (
	"time"

	"strmly/internal/domain/video"
	"strmly/internal/services"
)

type UploaderDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// VideoDTO is the shape shared by upload, list, get and recommended responses.
type VideoDTO struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	VideoURL    string      `json:"videoUrl"`
	FileSize    int64       `json:"fileSize"`
	Format      string      `json:"format,omitempty"`
	Width       *int        `json:"width,omitempty"`
	Height      *int        `json:"height,omitempty"`
	Duration    *float64    `json:"duration,omitempty"`
	Uploader    UploaderDTO `json:"uploader"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type VideoResponse struct {
	Video VideoDTO `json:"video"`
}

// VideoListResponse is returned by GET /videos and GET /users/:id/videos
type VideoListResponse struct {
	Videos     []VideoDTO          `json:"videos"`
	Pagination services.Pagination `json:"pagination"`
}

// RecommendedResponse is returned by GET /recommended
type RecommendedResponse struct {
	Videos []VideoDTO `json:"videos"`
	Count  int        `json:"count"`
}

// FromVideo always reports the uploader name stored with the video.
func FromVideo(v video.Video) VideoDTO {
	return VideoDTO{
		ID:          v.ID.String(),
		Title:       v.Title,
		Description: v.Description,
		VideoURL:    v.VideoURL,
		FileSize:    v.FileSize,
		Format:      v.Format,
		Width:       v.Width,
		Height:      v.Height,
		Duration:    v.Duration,
		Uploader: UploaderDTO{
			ID:   v.UploaderID.String(),
			Name: v.UploaderName,
		},
		CreatedAt: v.CreatedAt,
	}
}

func FromVideoSlice(videos []video.Video) []VideoDTO {
	out := make([]VideoDTO, 0, len(videos))
	for _, v := range videos {
		out = append(out, FromVideo(v))
	}
	return out
}

func FromVideoPage(p services.VideoPage) VideoListResponse {
	return VideoListResponse{
		Videos:     FromVideoSlice(p.Videos),
		Pagination: p.Pagination,
	}
}
