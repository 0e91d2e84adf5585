package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"strmly/config"
	"strmly/internal/domain/user"
	"strmly/internal/repository"
	strmly_errors "strmly/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo  repository.UserRepository
	cache     UserCache
	jwtSecret []byte
	accessTTL time.Duration
	now       func() time.Time
}

// UserCache is an optional read-through cache of user profiles keyed by id.
type UserCache interface {
	GetUser(ctx context.Context, id uuid.UUID) (user.User, bool, error)
	SetUser(ctx context.Context, u user.User) error
	InvalidateUser(ctx context.Context, id uuid.UUID) error
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(cfg.JWTSecret),
		accessTTL: time.Duration(cfg.JWTExpiryHours) * time.Hour,
		now:       time.Now,
	}
}

// UseCache makes Authenticate consult c before the users table.
func (s *AuthService) UseCache(c UserCache) {
	s.cache = c
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User      user.User
	Token     string
	ExpiresAt time.Time
}

type AccessClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return AuthResult{}, strmly_errors.ErrInvalidInput
	}

	if _, err := s.userRepo.GetUserByEmail(ctx, in.Email); err == nil {
		return AuthResult{}, strmly_errors.ErrAlreadyExists
	} else if !errors.Is(err, strmly_errors.ErrNotFound) {
		return AuthResult{}, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return AuthResult{}, err
	}

	newUser := &user.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return AuthResult{}, err
	}

	return s.issue(*newUser)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return AuthResult{}, strmly_errors.ErrInvalidInput
	}

	u, err := s.userRepo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, strmly_errors.ErrNotFound) {
			return AuthResult{}, strmly_errors.ErrUnauthorized
		}
		return AuthResult{}, err
	}

	if err := comparePassword(u.PasswordHash, in.Password); err != nil {
		return AuthResult{}, strmly_errors.ErrUnauthorized
	}

	return s.issue(u)
}

func (s *AuthService) ParseAccessToken(tokenString string) (AccessClaims, error) {
	if tokenString == "" {
		return AccessClaims{}, strmly_errors.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, strmly_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return AccessClaims{}, strmly_errors.ErrTokenExpired
		}
		return AccessClaims{}, strmly_errors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return AccessClaims{}, strmly_errors.ErrUnauthorized
	}

	return *claims, nil
}

// Authenticate resolves a bearer token to the user it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (user.User, error) {
	claims, err := s.ParseAccessToken(tokenString)
	if err != nil {
		return user.User{}, err
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return user.User{}, strmly_errors.ErrUnauthorized
	}
	if s.cache != nil {
		if u, ok, err := s.cache.GetUser(ctx, userID); err == nil && ok {
			return u, nil
		}
	}
	u, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, strmly_errors.ErrNotFound) {
			return user.User{}, strmly_errors.ErrUnauthorized
		}
		return user.User{}, err
	}
	if s.cache != nil {
		_ = s.cache.SetUser(ctx, u)
	}
	return u, nil
}

func (s *AuthService) issue(u user.User) (AuthResult, error) {
	token, expiresAt, err := s.newAccessToken(u.ID)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: u, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) newAccessToken(userID uuid.UUID) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.accessTTL)

	claims := AccessClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, strmly_errors.ErrInvalidInput), errors.Is(err, strmly_errors.ErrTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, strmly_errors.ErrUnauthorized), errors.Is(err, strmly_errors.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, strmly_errors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, strmly_errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, strmly_errors.ErrAlreadyExists), errors.Is(err, strmly_errors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, strmly_errors.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

type ctxKey string

var userIDKey ctxKey = "user_id"
var userNameKey ctxKey = "user_name"

// WithUserContext attaches the caller identity used by the upload pipeline.
func WithUserContext(ctx context.Context, userID uuid.UUID, name string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, userNameKey, name)
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	value := ctx.Value(userIDKey)
	if value == nil {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

func UserNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(userNameKey).(string)
	return name, ok
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
