package services

import (
	"context"
	"testing"

	"github.com/solomon244/Code-Academy/dto"
	"github.com/solomon244/Code-Academy/model"
	"github.com/solomon244/Code-Academy/services/repositories"
	"github.com/solomon244/Code-Academy/services/repositories/testutil"
	"github.com/solomon244/Code-Academy/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService(db Database) *UserService {
	return &UserService{
		db:    db,
		users: repositories.NewUserRepository(db.Db()),
	}
}

func TestProfileIsOwnerOnly(t *testing.T) {
	database, _ := newTestDatabase(t)
	svc := newTestUserService(database)
	identity := dto.Identity{UserID: "learner-1", Email: "ada@example.com"}

	_, err := svc.GetProfile(context.Background(), "learner-1", "learner-1")
	assert.True(t, shared.IsErrorCode(err, shared.ErrCodeNotFound))

	profile, err := svc.UpsertProfile(context.Background(), identity, dto.UpdateProfileRequest{Name: "Ada", Bio: "Engineer"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.Name)
	assert.Equal(t, shared.RoleStudent, profile.Role)

	profile, err = svc.GetProfile(context.Background(), "learner-1", "learner-1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.Equal(t, "Engineer", profile.Bio)

	_, err = svc.GetProfile(context.Background(), "learner-2", "learner-1")
	assert.True(t, shared.IsErrorCode(err, shared.ErrCodeForbidden))

	_, err = svc.GetProfile(context.Background(), "", "learner-1")
	assert.True(t, shared.IsErrorCode(err, shared.ErrCodeUnauthorized))

	_, err = svc.UpsertProfile(context.Background(), identity, dto.UpdateProfileRequest{AvatarURL: "not a url"})
	assert.True(t, shared.IsErrorCode(err, shared.ErrCodeValidation))
}

func TestAssignRoleRequiresAdmin(t *testing.T) {
	database, db := newTestDatabase(t)
	svc := newTestUserService(database)

	testutil.SeedUser(t, db, "learner-1", "learner@example.com", "Ada")
	testutil.SeedUser(t, db, "admin-1", "admin@example.com", "Grace")
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", "admin-1").Update("role", shared.RoleAdmin).Error)

	_, err := svc.AssignRole(context.Background(), "learner-1", "learner-1", dto.AssignRoleRequest{Role: shared.RoleAdmin})
	assert.True(t, shared.IsErrorCode(err, shared.ErrCodeForbidden))

	_, err = svc.AssignRole(context.Background(), "admin-1", "missing", dto.AssignRoleRequest{Role: shared.RoleInstructor})
	assert.True(t, shared.IsErrorCode(err, shared.ErrCodeNotFound))

	_, err = svc.AssignRole(context.Background(), "admin-1", "learner-1", dto.AssignRoleRequest{Role: "WIZARD"})
	assert.True(t, shared.IsErrorCode(err, shared.ErrCodeValidation))

	profile, err := svc.AssignRole(context.Background(), "admin-1", "learner-1", dto.AssignRoleRequest{Role: shared.RoleInstructor})
	require.NoError(t, err)
	assert.Equal(t, shared.RoleInstructor, profile.Role)
}
