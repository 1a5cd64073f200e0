package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/solomon244/Code-Academy/model"
	"github.com/solomon244/Code-Academy/services/repositories/testutil"
	"github.com/solomon244/Code-Academy/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslateStoreError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "not found", err: gorm.ErrRecordNotFound, status: 404, code: shared.ErrCodeNotFound},
		{name: "wrapped not found", err: fmt.Errorf("get: %w", gorm.ErrRecordNotFound), status: 404, code: shared.ErrCodeNotFound},
		{name: "deadline", err: context.DeadlineExceeded, status: 500, code: shared.ErrCodeInternal},
		{name: "duplicate", err: gorm.ErrDuplicatedKey, status: 409, code: shared.ErrCodeConflict},
		{name: "connection refused", err: errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), status: 503, code: shared.ErrCodeUnavailable},
		{name: "other", err: errors.New("boom"), status: 500, code: shared.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr, ok := shared.GetAppError(translateStoreError(tt.err))
			require.True(t, ok)
			assert.Equal(t, tt.status, appErr.StatusCode)
			assert.Equal(t, tt.code, appErr.Code)
			assert.ErrorIs(t, appErr, tt.err)
		})
	}

	assert.NoError(t, translateStoreError(nil))

	forbidden := shared.NewForbiddenError(nil, "nope")
	assert.Same(t, forbidden, translateStoreError(forbidden))
}

func TestUniqueViolationFromSqliteIsConflict(t *testing.T) {
	database, db := newTestDatabase(t)
	course, _ := testutil.SeedCourse(t, db, "Go", 1, 1)
	enrollment := testutil.SeedEnrollment(t, db, "learner-1", course.ID)

	dup := &model.Enrollment{ID: "other-id", UserID: enrollment.UserID, CourseID: enrollment.CourseID}
	err := database.HandleError(db.Create(dup).Error)
	assert.True(t, shared.IsErrorCode(err, shared.ErrCodeConflict))
}

func TestWithTimeoutAppliesDeadline(t *testing.T) {
	database, _ := newTestDatabase(t)

	ctx, cancel := database.WithTimeout(context.Background())
	defer cancel()

	_, ok := ctx.Deadline()
	assert.True(t, ok)
}
