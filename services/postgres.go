package services

import (
	"context"
	"fmt"
	"os"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"github.com/solomon244/Code-Academy/model"
	"github.com/solomon244/Code-Academy/seed/seeders"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PostgresService struct {
	appContext.DefaultService
	db *gorm.DB

	database     string
	storeTimeout time.Duration
}

func (ds PostgresService) Id() string {
	return DATABASE_SVC
}

func (ds PostgresService) Db() *gorm.DB {
	return ds.db
}

func (ds *PostgresService) Configure(ctx *appContext.Context) error {
	ds.database = os.Getenv("DATABASE_URL")
	if ds.database == "" {
		ds.database = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "code_academy"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_SSLMODE", "disable"),
			getEnv("DB_TIMEZONE", "UTC"),
		)
	}
	ds.storeTimeout = storeTimeoutFromEnv()

	return ds.DefaultService.Configure(ctx)
}

func (ds *PostgresService) Start() (err error) {
	maxRetries := 10
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Printf("Attempting to connect to database (attempt %d/%d)...", attempt, maxRetries)

		ds.db, err = gorm.Open(postgres.Open(ds.database), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Error),
			TranslateError: true,
		})

		if err == nil {
			sqlDB, dbErr := ds.db.DB()
			if dbErr == nil {
				pingErr := sqlDB.Ping()
				if pingErr == nil {
					log.Println("Successfully connected to database")
					break
				}
				err = pingErr
			} else {
				err = dbErr
			}
		}

		if attempt == maxRetries {
			log.Printf("Failed to connect to database after %d attempts: %v", maxRetries, err)
			return err
		}

		log.Printf("Database connection failed: %v. Retrying in %v...", err, retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	if err = ds.db.AutoMigrate(model.AllModels()...); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	if err = seeders.NewMainSeeder(ds.db).SeedIfEmpty(); err != nil {
		log.Printf("Failed to seed initial data: %v", err)
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *PostgresService) Shutdown() {
	if ds.db == nil {
		return
	}
	sqlDB, err := ds.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func (ds *PostgresService) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return withStoreTimeout(ctx, ds.storeTimeout)
}

func (ds *PostgresService) HandleError(err error) error {
	return translateStoreError(err)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
