package services

import (
	"context"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"github.com/solomon244/Code-Academy/model"
	"github.com/solomon244/Code-Academy/seed/seeders"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SqliteService is the single-file database used for local development.
type SqliteService struct {
	appContext.DefaultService
	db *gorm.DB

	database     string
	storeTimeout time.Duration
}

// Id returns Service ID
func (ds SqliteService) Id() string {
	return DATABASE_SVC
}

// Db Access to raw SqliteService db
func (ds SqliteService) Db() *gorm.DB {
	return ds.db
}

// Configure the service
func (ds *SqliteService) Configure(ctx *appContext.Context) error {
	ds.database = getEnv("DB_DATABASE", "code_academy.db")
	ds.storeTimeout = storeTimeoutFromEnv()

	return ds.DefaultService.Configure(ctx)
}

// Start the service and open connection to the database
// Migrate any tables that have changed since last runtime
func (ds *SqliteService) Start() (err error) {
	ds.db, err = gorm.Open(sqlite.Open(ds.database+"?_foreign_keys=on&_busy_timeout=5000"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	})
	if err != nil {
		return err
	}

	sqlDB, err := ds.db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)

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

func (ds *SqliteService) Shutdown() {
	if ds.db == nil {
		return
	}
	if sqlDB, err := ds.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func (ds *SqliteService) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return withStoreTimeout(ctx, ds.storeTimeout)
}

func (ds *SqliteService) HandleError(err error) error {
	return translateStoreError(err)
}

// NewSqliteServiceFromDB wraps an already migrated connection.
func NewSqliteServiceFromDB(db *gorm.DB, storeTimeout time.Duration) *SqliteService {
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	return &SqliteService{db: db, storeTimeout: storeTimeout}
}
