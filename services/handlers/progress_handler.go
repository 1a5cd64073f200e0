package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/solomon244/Code-Academy/dto"
	"github.com/solomon244/Code-Academy/shared"
)

type ProgressHandler struct {
	progressSvc ProgressServiceInterface
}

func NewProgressHandler(progressSvc ProgressServiceInterface) *ProgressHandler {
	return &ProgressHandler{progressSvc: progressSvc}
}

// @Summary Update lesson progress
// @Description Record a lesson's completion state for one of the learner's enrollments
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param request body dto.UpdateProgressRequest true "Progress update"
// @Success 200 {object} shared.Response{data=dto.UpdateProgressResponse}
// @Failure 400 {object} shared.Response
// @Failure 401 {object} shared.Response
// @Failure 404 {object} shared.Response
// @Router /api/v1/progress [post]
func (h *ProgressHandler) UpdateProgress(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	var req dto.UpdateProgressRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	res, err := h.progressSvc.UpdateProgress(c.UserContext(), identity.UserID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Progress updated", res)
}
