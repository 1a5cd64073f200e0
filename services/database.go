package services

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/solomon244/Code-Academy/services/repositories"
	"github.com/solomon244/Code-Academy/shared"
	"gorm.io/gorm"
)

const DATABASE_SVC = "database_svc"

const defaultStoreTimeout = 5 * time.Second

// Database is implemented by PostgresService and SqliteService.
type Database interface {
	Db() *gorm.DB
	HandleError(err error) error
	WithTimeout(ctx context.Context) (context.Context, context.CancelFunc)
}

func storeTimeoutFromEnv() time.Duration {
	if v := os.Getenv("STORE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		log.WithField("value", v).Warn("Invalid STORE_TIMEOUT, using default")
	}
	return defaultStoreTimeout
}

func withStoreTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

// translateStoreError maps driver and gorm errors onto the AppError taxonomy.
func translateStoreError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := shared.GetAppError(err); ok {
		return err
	}

	var appErr *shared.AppError
	var errorType string

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		errorType = "TIMEOUT"
		appErr = shared.NewInternalError(err, "Store operation timed out")
	case errors.Is(err, gorm.ErrRecordNotFound):
		errorType = "NOT_FOUND"
		appErr = shared.NewNotFoundError(err, "Record not found")
	case repositories.IsDuplicateKey(err):
		errorType = "UNIQUE_CONSTRAINT"
		appErr = shared.NewConflictError(err, "Record already exists")
	case repositories.IsForeignKeyViolation(err):
		errorType = "FOREIGN_KEY_VIOLATION"
		appErr = shared.NewBadRequestError(err, "Referenced record does not exist")
	case errors.Is(err, gorm.ErrInvalidTransaction):
		errorType = "TRANSACTION_ERROR"
		appErr = shared.NewInternalError(err, "Internal Server Error")
	case strings.Contains(err.Error(), "connection refused"):
		errorType = "DATABASE_CONNECTION_ERROR"
		appErr = shared.NewUnavailableError(err, "Database unavailable")
	default:
		errorType = "INTERNAL_ERROR"
		appErr = shared.NewInternalError(err, "Internal Server Error")
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": appErr.StatusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if appErr.StatusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return appErr
}
