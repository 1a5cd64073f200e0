package services

import (
	"context"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"github.com/solomon244/Code-Academy/dto"
	"github.com/solomon244/Code-Academy/model"
	"github.com/solomon244/Code-Academy/services/repositories"
	"github.com/solomon244/Code-Academy/shared"
)

const USER_SVC = "user_svc"

type UserService struct {
	appContext.DefaultService

	db    Database
	users *repositories.UserRepository
}

func (svc UserService) Id() string {
	return USER_SVC
}

func (svc *UserService) Start() error {
	svc.db = svc.Service(DATABASE_SVC).(Database)
	svc.users = repositories.NewUserRepository(svc.db.Db())
	return nil
}

// GetProfile returns a learner's own profile.
func (svc *UserService) GetProfile(ctx context.Context, requesterID, id string) (*dto.ProfileResponse, error) {
	if requesterID == "" {
		return nil, shared.NewUnauthorizedError(nil, "Unauthorized")
	}
	if id != requesterID {
		return nil, shared.NewForbiddenError(nil, "Cannot view another user's profile")
	}

	ctx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	user, err := svc.users.GetUser(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, shared.NewNotFoundError(nil, "Profile not found")
		}
		return nil, svc.db.HandleError(err)
	}
	return toProfileResponse(user), nil
}

func (svc *UserService) UpsertProfile(ctx context.Context, identity dto.Identity, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if identity.UserID == "" {
		return nil, shared.NewUnauthorizedError(nil, "Unauthorized")
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	ctx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	user, err := svc.users.UpsertProfile(ctx, &model.User{
		ID:        identity.UserID,
		Email:     identity.Email,
		Name:      req.Name,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
		Role:      shared.RoleStudent,
	})
	if err != nil {
		return nil, svc.db.HandleError(err)
	}
	return toProfileResponse(user), nil
}

// AssignRole changes another learner's role. Only admins may do this.
func (svc *UserService) AssignRole(ctx context.Context, requesterID, id string, req dto.AssignRoleRequest) (*dto.ProfileResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	ctx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	requester, err := svc.users.GetUser(ctx, requesterID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, shared.NewForbiddenError(nil, "Admin role required")
		}
		return nil, svc.db.HandleError(err)
	}
	if requester.Role != shared.RoleAdmin {
		return nil, shared.NewForbiddenError(nil, "Admin role required")
	}

	if _, err := svc.users.GetUser(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return nil, shared.NewNotFoundError(nil, "Profile not found")
		}
		return nil, svc.db.HandleError(err)
	}

	if err := svc.users.SetRole(ctx, id, req.Role); err != nil {
		return nil, svc.db.HandleError(err)
	}

	user, err := svc.users.GetUser(ctx, id)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	log.WithFields(log.Fields{"admin_id": requesterID, "user_id": id, "role": req.Role}).Info("Role assigned")
	return toProfileResponse(user), nil
}

func toProfileResponse(u *model.User) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
