package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/solomon244/Code-Academy/model"
	"github.com/solomon244/Code-Academy/seed/seeders"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, courses, achievements")
		driver   = flag.String("driver", "", "Database driver: sqlite or postgres (overrides DB_DRIVER)")
		dsn      = flag.String("db", "", "Sqlite path or postgres DSN (overrides DB_DATABASE / DATABASE_URL)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	db, err := open(*driver, *dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		log.Println("Running complete database seeding...")
		err = mainSeeder.SeedAll()
	case "courses":
		log.Println("Seeding courses only...")
		err = mainSeeder.SeedCoursesOnly()
	case "achievements":
		log.Println("Seeding achievements only...")
		err = mainSeeder.SeedAchievementsOnly()
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'courses', or 'achievements'", *seedType)
	}
	if err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Println("Seeding operation completed successfully!")
}

func open(driver, dsn string) (*gorm.DB, error) {
	if driver == "" {
		driver = os.Getenv("DB_DRIVER")
	}

	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Info)}

	switch driver {
	case "postgres":
		if dsn == "" {
			dsn = os.Getenv("DATABASE_URL")
		}
		log.Println("Connecting to postgres")
		return gorm.Open(postgres.Open(dsn), cfg)
	default:
		if dsn == "" {
			dsn = os.Getenv("DB_DATABASE")
		}
		if dsn == "" {
			dsn = "code_academy.db"
		}
		log.Printf("Connecting to sqlite database: %s", dsn)
		return gorm.Open(sqlite.Open(dsn), cfg)
	}
}

func showHelp() {
	log.Print(`
Database Seeding Tool for Code Academy

Usage: go run ./seed [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, courses, achievements
  -driver string
        sqlite or postgres (default: DB_DRIVER, then sqlite)
  -db string
        Sqlite path or postgres DSN
  -help
        Show this help message

Environment Variables:
  DB_DRIVER    - sqlite or postgres
  DB_DATABASE  - Default sqlite path (default: code_academy.db)
  DATABASE_URL - Postgres DSN
`)
}
