package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/solomon244/Code-Academy/dto"
	"github.com/solomon244/Code-Academy/shared"
)

type ProgressServiceInterface interface {
	UpdateProgress(ctx context.Context, userID string, req dto.UpdateProgressRequest) (*dto.UpdateProgressResponse, error)
}

type AchievementServiceInterface interface {
	ListUserAchievements(ctx context.Context, userID string) ([]dto.AchievementResponse, error)
	EvaluateAndGrant(ctx context.Context, userID string) ([]dto.AchievementResponse, error)
}

type CertificateServiceInterface interface {
	IssueCertificate(ctx context.Context, identity dto.Identity, courseID string) (*dto.CertificateResponse, bool, error)
	ListCertificates(ctx context.Context, userID string) ([]dto.CertificateResponse, error)
	VerifyCertificate(ctx context.Context, number string) (*dto.VerifyCertificateResponse, error)
	CertificateDocument(ctx context.Context, userID, certificateID string) (*dto.CertificateDocument, error)
}

type CourseServiceInterface interface {
	ListCourses(ctx context.Context) ([]dto.CourseResponse, error)
	GetCourse(ctx context.Context, id string) (*dto.CourseResponse, error)
	Enroll(ctx context.Context, userID, courseID string) (*dto.EnrollmentResponse, bool, error)
	ListEnrolled(ctx context.Context, userID string) ([]dto.EnrolledCourseResponse, error)
	GetLesson(ctx context.Context, userID, lessonID string) (*dto.LessonDetailResponse, error)
}

type CartServiceInterface interface {
	GetCart(ctx context.Context, userID string) (*dto.CartResponse, error)
	AddItem(ctx context.Context, userID string, req dto.AddCartItemRequest) (*dto.CartResponse, error)
	RemoveItem(ctx context.Context, userID, itemID string) (*dto.CartResponse, error)
	Checkout(ctx context.Context, userID string) (*dto.CheckoutResponse, error)
}

type UserServiceInterface interface {
	GetProfile(ctx context.Context, requesterID, id string) (*dto.ProfileResponse, error)
	UpsertProfile(ctx context.Context, identity dto.Identity, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	AssignRole(ctx context.Context, requesterID, id string, req dto.AssignRoleRequest) (*dto.ProfileResponse, error)
}

// identityFrom reads the identity stored by the auth middleware.
func identityFrom(c *fiber.Ctx) (dto.Identity, error) {
	userID, _ := c.Locals(shared.UserID).(string)
	if userID == "" {
		return dto.Identity{}, shared.NewUnauthorizedError(nil, "Unauthorized")
	}
	email, _ := c.Locals(shared.UserEmail).(string)
	return dto.Identity{UserID: userID, Email: email}, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	return nil
}
