package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"strmly/config"
	"strmly/pkg/database"
)

const usage = `
strmly - Database CLI Tool

Usage:
  migrate [flags] [command]

Commands:
  up          Create or update all tables (GORM AutoMigrate)
  status      Show database connection status and table sizes
  seed-dev    Seed with development users and videos
  truncate    Delete every row from every table (DANGEROUS)

Flags:
  -users int          Users created by seed-dev (default 3)
  -videos int         Videos per user created by seed-dev (default 4)
  -password string    Password for seeded users (default "Password1")

Examples:
  go run ./cmd/migrate up
  go run ./cmd/migrate -users 5 seed-dev
  go run ./cmd/migrate status
`

func main() {
	defaults := database.DefaultSeedConfig()
	users := flag.Int("users", defaults.UserCount, "Users created by seed-dev")
	videos := flag.Int("videos", defaults.VideosPerUser, "Videos per user created by seed-dev")
	password := flag.String("password", defaults.Password, "Password for seeded users")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg := config.LoadConfig()
	database.Connect(cfg)
	defer database.Close()

	switch command {
	case "up":
		runMigrationsUp()
	case "status":
		showStatus()
	case "seed-dev":
		seedCfg := *defaults
		seedCfg.UserCount = *users
		seedCfg.VideosPerUser = *videos
		seedCfg.Password = *password
		runSeedDevelopment(&seedCfg)
	case "truncate":
		runTruncate()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp() {
	log.Println("🚀 Running migrations UP...")

	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	log.Println("✅ Migrations completed successfully!")
}

func showStatus() {
	log.Println("🔍 Checking database status...")

	if err := database.Ping(); err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	log.Println("✅ Database connection: OK")

	for _, table := range []string{"users", "videos"} {
		exists, err := database.TableExists(table)
		if err != nil {
			log.Printf("⚠️  Error checking table %s: %v", table, err)
			continue
		}
		if exists {
			count, _ := database.GetTableCount(table)
			log.Printf("✅ Table %-10s exists (%d rows)", table, count)
		} else {
			log.Printf("❌ Table %-10s does not exist", table)
		}
	}

	if err := database.HealthCheck(); err != nil {
		log.Printf("⚠️  Health check warning: %v", err)
	} else {
		log.Println("✅ Health check: PASSED")
	}
}

func runSeedDevelopment(cfg *database.SeedConfig) {
	log.Println("🌱 Seeding database (development mode)...")

	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	result, err := database.Seed(context.Background(), database.DB, cfg)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("📊 Seed Summary:")
	log.Printf("   - Users: %d", len(result.Users))
	log.Printf("   - Videos: %d", len(result.Videos))
	log.Println("✅ Development seeding completed!")
}

func runTruncate() {
	log.Println("⚠️  WARNING: This will delete every row in every table!")

	if err := database.TruncateAllTables(); err != nil {
		log.Fatalf("❌ Truncate failed: %v", err)
	}

	log.Println("✅ All tables truncated!")
}
