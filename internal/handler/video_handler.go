package handler

import (
	"errors"
	"io"
	"net/http"

	"strmly/internal/services"
	"strmly/internal/transport/httpdto"
	strmly_errors "strmly/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// multipartMemory is how much of a multipart body is kept in memory before spilling to disk.
const multipartMemory = 32 << 20

// VideoHandler serves the upload pipeline and the feed queries.
type VideoHandler struct {
	uploads *services.UploadService
	feed    *services.FeedService
}

func NewVideoHandler(uploads *services.UploadService, feed *services.FeedService) *VideoHandler {
	return &VideoHandler{uploads: uploads, feed: feed}
}

// Upload handles POST /upload with multipart fields title, description and video.
func (h *VideoHandler) Upload(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("Access denied. No token provided."))
		return
	}
	userName, _ := services.UserNameFromContext(c.Request.Context())

	file, err := h.readVideoPart(c)
	if err != nil {
		writeError(c, err, "Server error during video upload")
		return
	}

	v, err := h.uploads.Submit(c.Request.Context(), services.UploadInput{
		File:         file,
		Title:        c.Request.FormValue("title"),
		Description:  c.Request.FormValue("description"),
		UploaderID:   userID,
		UploaderName: userName,
	})
	if err != nil {
		writeError(c, err, "Server error during video upload")
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse("Video uploaded successfully", httpdto.VideoResponse{Video: httpdto.FromVideo(v)}))
}

// readVideoPart returns nil without error when the request carries no video part.
// At most MaxBytes+1 bytes are read so the pipeline can still reject oversized files in order.
func (h *VideoHandler) readVideoPart(c *gin.Context) (*services.UploadFile, error) {
	tooLarge := strmly_errors.NewValidationError("video", services.FileTooLargeMessage(h.uploads.MaxBytes()))

	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, tooLarge
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			return nil, nil
		default:
			return nil, strmly_errors.NewValidationError("body", "Invalid multipart body")
		}
	}

	header, err := c.FormFile("video")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.uploads.MaxBytes()+1))
	if err != nil {
		return nil, err
	}
	return &services.UploadFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// List handles GET /videos
func (h *VideoHandler) List(c *gin.Context) {
	page, limit, err := services.ParsePageParams(c.Query("page"), c.Query("limit"))
	if err != nil {
		writeError(c, err, "")
		return
	}

	result, err := h.feed.List(c.Request.Context(), page, limit)
	if err != nil {
		writeError(c, err, "Server error while fetching videos")
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse("Videos retrieved successfully", httpdto.FromVideoPage(result)))
}

// Get handles GET /videos/:id
func (h *VideoHandler) Get(c *gin.Context) {
	v, err := h.feed.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, strmly_errors.ErrNotFound) {
			c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("Video not found"))
			return
		}
		writeError(c, err, "Server error while fetching video")
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse("Video retrieved successfully", httpdto.VideoResponse{Video: httpdto.FromVideo(v)}))
}

// Recommended handles GET /recommended
func (h *VideoHandler) Recommended(c *gin.Context) {
	videos, err := h.feed.Recommend(c.Request.Context())
	if err != nil {
		writeError(c, err, "Server error while fetching recommended videos")
		return
	}

	dtos := httpdto.FromVideoSlice(videos)
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse("Recommended videos retrieved successfully", httpdto.RecommendedResponse{
		Videos: dtos,
		Count:  len(dtos),
	}))
}

// ListByUser handles GET /users/:id/videos
func (h *VideoHandler) ListByUser(c *gin.Context) {
	uploaderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("Invalid user ID"))
		return
	}
	page, limit, err := services.ParsePageParams(c.Query("page"), c.Query("limit"))
	if err != nil {
		writeError(c, err, "")
		return
	}

	result, err := h.feed.ListByUploader(c.Request.Context(), uploaderID, page, limit)
	if err != nil {
		writeError(c, err, "Server error while fetching user videos")
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse("User videos retrieved successfully", httpdto.FromVideoPage(result)))
}
