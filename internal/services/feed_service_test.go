package services

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"strmly/internal/domain/user"
	"strmly/internal/domain/video"
	"strmly/internal/repository"
	strmly_errors "strmly/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedVideos(t *testing.T, repo repository.VideoRepository, u user.User, n int) []video.Video {
	t.Helper()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]video.Video, 0, n)
	for i := 0; i < n; i++ {
		v := &video.Video{
			Title:        fmt.Sprintf("video %d", i),
			Description:  "description",
			VideoURL:     fmt.Sprintf("https://media.example/%d.mp4", i),
			FileName:     fmt.Sprintf("strmly-videos/%d.mp4", i),
			PublicID:     fmt.Sprintf("strmly-videos/%d", i),
			FileSize:     100,
			UploaderID:   u.ID,
			UploaderName: u.Name,
			CreatedAt:    base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Create(context.Background(), v))
		out = append(out, *v)
	}
	return out
}

func TestParsePageParams(t *testing.T) {
	page, limit, err := ParsePageParams("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultPage, page)
	assert.Equal(t, DefaultPageLimit, limit)

	page, limit, err = ParsePageParams("3", "50")
	require.NoError(t, err)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, limit)

	for _, tc := range [][2]string{{"0", "10"}, {"1", "51"}, {"1", "0"}, {"-1", ""}, {"abc", ""}, {"", "ten"}, {"1.5", ""}} {
		_, _, err := ParsePageParams(tc[0], tc[1])
		assert.ErrorIs(t, err, strmly_errors.ErrInvalidInput, "page=%q limit=%q", tc[0], tc[1])
	}
}

func TestFeedService_ListEmpty(t *testing.T) {
	svc := NewFeedService(repository.NewVideoRepository(setupTestDB(t)))

	result, err := svc.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, result.Videos)
	assert.Equal(t, Pagination{CurrentPage: 1, Limit: 10}, result.Pagination)
}

func TestFeedService_List(t *testing.T) {
	db := setupTestDB(t)
	users := repository.NewUserRepository(db)
	videos := repository.NewVideoRepository(db)
	svc := NewFeedService(videos)
	ctx := context.Background()

	u := createTestUser(t, users, "Linus Torvalds", "linus@example.com")
	created := seedVideos(t, videos, u, 12)

	t.Run("Second Page Of Five", func(t *testing.T) {
		result, err := svc.List(ctx, 2, 5)
		require.NoError(t, err)
		require.Len(t, result.Videos, 5)
		for i, v := range result.Videos {
			// rank 6+i in descending order
			assert.Equal(t, created[len(created)-6-i].ID, v.ID)
		}
		assert.Equal(t, 3, result.Pagination.TotalPages)
		assert.Equal(t, int64(12), result.Pagination.TotalVideos)
		assert.True(t, result.Pagination.HasNextPage)
		assert.True(t, result.Pagination.HasPrevPage)
	})

	t.Run("Pages Concatenate To Full Order", func(t *testing.T) {
		first, err := svc.List(ctx, 1, 5)
		require.NoError(t, err)

		var ids []uuid.UUID
		for p := 1; p <= first.Pagination.TotalPages; p++ {
			result, err := svc.List(ctx, p, 5)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(result.Videos), 5)
			for _, v := range result.Videos {
				ids = append(ids, v.ID)
			}
		}
		require.Len(t, ids, len(created))
		for i, id := range ids {
			assert.Equal(t, created[len(created)-1-i].ID, id)
		}
	})

	t.Run("Beyond Last Page", func(t *testing.T) {
		result, err := svc.List(ctx, 9, 5)
		require.NoError(t, err)
		assert.Empty(t, result.Videos)
		assert.Equal(t, 3, result.Pagination.TotalPages)
		assert.False(t, result.Pagination.HasNextPage)
		assert.True(t, result.Pagination.HasPrevPage)
	})

	t.Run("Invalid Parameters", func(t *testing.T) {
		_, err := svc.List(ctx, 0, 10)
		assert.ErrorIs(t, err, strmly_errors.ErrInvalidInput)
		_, err = svc.List(ctx, 1, 51)
		assert.ErrorIs(t, err, strmly_errors.ErrInvalidInput)
	})
}

func TestFeedService_Get(t *testing.T) {
	db := setupTestDB(t)
	users := repository.NewUserRepository(db)
	videos := repository.NewVideoRepository(db)
	svc := NewFeedService(videos)
	ctx := context.Background()

	u := createTestUser(t, users, "Margaret Hamilton", "mh@example.com")
	created := seedVideos(t, videos, u, 1)

	got, err := svc.Get(ctx, created[0].ID.String())
	require.NoError(t, err)
	assert.Equal(t, created[0].Title, got.Title)

	_, err = svc.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, strmly_errors.ErrInvalidInput)
	assert.Contains(t, err.Error(), MsgInvalidVideoID)

	_, err = svc.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, strmly_errors.ErrNotFound)
}

func TestFeedService_Recommend(t *testing.T) {
	db := setupTestDB(t)
	users := repository.NewUserRepository(db)
	videos := repository.NewVideoRepository(db)
	svc := NewFeedService(videos)
	ctx := context.Background()

	u := createTestUser(t, users, "Donald Knuth", "dk@example.com")

	got, err := svc.Recommend(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	seedVideos(t, videos, u, 3)
	got, err = svc.Recommend(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	seedVideos(t, videos, u, 9)
	got, err = svc.Recommend(ctx)
	require.NoError(t, err)
	require.Len(t, got, RecommendedSize)
	seen := map[uuid.UUID]bool{}
	for _, v := range got {
		assert.False(t, seen[v.ID])
		seen[v.ID] = true
	}
}

func TestFeedService_HugePageIsEmpty(t *testing.T) {
	db := setupTestDB(t)
	users := repository.NewUserRepository(db)
	videos := repository.NewVideoRepository(db)
	svc := NewFeedService(videos)
	ctx := context.Background()

	u := createTestUser(t, users, "Dennis Ritchie", "dmr@example.com")
	seedVideos(t, videos, u, 12)

	page, limit, err := ParsePageParams(strconv.Itoa(1<<62), "4")
	require.NoError(t, err)

	result, err := svc.List(ctx, page, limit)
	require.NoError(t, err)
	assert.NotNil(t, result.Videos)
	assert.Empty(t, result.Videos)
	assert.Equal(t, int64(12), result.Pagination.TotalVideos)
	assert.Equal(t, 3, result.Pagination.TotalPages)
	assert.False(t, result.Pagination.HasNextPage)
	assert.True(t, result.Pagination.HasPrevPage)

	byUploader, err := svc.ListByUploader(ctx, u.ID, page, limit)
	require.NoError(t, err)
	assert.Empty(t, byUploader.Videos)
	assert.Equal(t, int64(12), byUploader.Pagination.TotalVideos)

	// the page right after the last one is still a query, and empty
	result, err = svc.List(ctx, 4, 4)
	require.NoError(t, err)
	assert.Empty(t, result.Videos)
}

func TestFeedService_ListByUploader(t *testing.T) {
	db := setupTestDB(t)
	users := repository.NewUserRepository(db)
	videos := repository.NewVideoRepository(db)
	svc := NewFeedService(videos)
	ctx := context.Background()

	a := createTestUser(t, users, "Ken Thompson", "ken@example.com")
	b := createTestUser(t, users, "Rob Pike", "rob@example.com")
	seedVideos(t, videos, a, 3)
	seedVideos(t, videos, b, 7)

	result, err := svc.ListByUploader(ctx, b.ID, 2, 5)
	require.NoError(t, err)
	assert.Len(t, result.Videos, 2)
	assert.Equal(t, int64(7), result.Pagination.TotalVideos)
	assert.Equal(t, 2, result.Pagination.TotalPages)

	result, err = svc.ListByUploader(ctx, uuid.New(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, result.Videos)
	assert.Zero(t, result.Pagination.TotalPages)
}
