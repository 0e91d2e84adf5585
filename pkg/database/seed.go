package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"strmly/internal/domain/user"
	"strmly/internal/domain/video"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedConfig holds configuration for seeding the database
type SeedConfig struct {
	UserCount      int
	VideosPerUser  int
	Password       string
	SampleVideoURL string
}

// DefaultSeedConfig returns default seed configuration
func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		UserCount:      3,
		VideosPerUser:  4,
		Password:       "Password1",
		SampleVideoURL: "https://samples.strmly.dev/videos/sample.mp4",
	}
}

// SeedResult holds the result of the seeding operation
type SeedResult struct {
	Users  []*user.User
	Videos []*video.Video
}

var seedNames = []string{"Ada Lovelace", "Grace Hopper", "Alan Turing", "Katherine Johnson", "Edsger Dijkstra"}

// Seed inserts demo users and videos. Existing users with the same email are reused.
func Seed(ctx context.Context, db *gorm.DB, cfg *SeedConfig) (*SeedResult, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	result := &SeedResult{}
	base := time.Now().UTC().Add(-time.Duration(cfg.UserCount*cfg.VideosPerUser) * time.Hour)

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < cfg.UserCount; i++ {
			name := seedNames[i%len(seedNames)]
			u := &user.User{
				Name:         name,
				Email:        fmt.Sprintf("user%d@strmly.dev", i+1),
				PasswordHash: string(hash),
			}
			if err := tx.Where(user.User{Email: u.Email}).FirstOrCreate(u).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
			result.Users = append(result.Users, u)

			for j := 0; j < cfg.VideosPerUser; j++ {
				n := i*cfg.VideosPerUser + j
				publicID := fmt.Sprintf("strmly-videos/seed_%s", uuid.NewString()[:8])
				v := &video.Video{
					Title:        fmt.Sprintf("%s clip #%d", name, j+1),
					Description:  fmt.Sprintf("Seeded clip %d uploaded by %s", j+1, name),
					VideoURL:     cfg.SampleVideoURL,
					FileName:     publicID,
					PublicID:     publicID,
					Format:       video.DefaultFormat,
					FileSize:     1024 * 1024,
					UploaderID:   u.ID,
					UploaderName: u.Name,
					CreatedAt:    base.Add(time.Duration(n) * time.Hour),
				}
				if err := tx.Omit("Uploader").Create(v).Error; err != nil {
					return fmt.Errorf("seed video: %w", err)
				}
				result.Videos = append(result.Videos, v)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Seeded %d users and %d videos", len(result.Users), len(result.Videos))
	return result, nil
}

func SeedDevelopment(ctx context.Context) (*SeedResult, error) {
	return Seed(ctx, DB, DefaultSeedConfig())
}
