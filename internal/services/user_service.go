package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"strmly/internal/domain/user"
	"strmly/internal/repository"
	strmly_errors "strmly/pkg/errors"
	"strmly/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	minNameLength = 2
	maxNameLength = 50
)

type UserService struct {
	repo  repository.UserRepository
	cache UserCache
	log   *logger.Logger
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo, log: logger.NewNop()}
}

func (s *UserService) UseLogger(l *logger.Logger) {
	if l != nil {
		s.log = l
	}
}

func (s *UserService) UseCache(c UserCache) {
	s.cache = c
}

func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (user.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// UpdateName renames the user. Videos already uploaded keep the name they were stored with.
func (s *UserService) UpdateName(ctx context.Context, userID uuid.UUID, name string) (user.User, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < minNameLength || n > maxNameLength {
		return user.User{}, strmly_errors.NewValidationError("name", "Name must be between 2 and 50 characters")
	}
	updated, err := s.repo.UpdateName(ctx, userID, name)
	if err != nil {
		return user.User{}, err
	}
	if s.cache != nil {
		// the rename is committed; a stale entry expires with the cache TTL
		if err := s.cache.InvalidateUser(ctx, userID); err != nil {
			s.log.Warn(ctx, "failed to invalidate cached user", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
	return updated, nil
}
