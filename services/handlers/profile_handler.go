package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/solomon244/Code-Academy/dto"
	"github.com/solomon244/Code-Academy/shared"
)

type ProfileHandler struct {
	userSvc UserServiceInterface
}

func NewProfileHandler(userSvc UserServiceInterface) *ProfileHandler {
	return &ProfileHandler{userSvc: userSvc}
}

// @Summary Get profile
// @Tags profile
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "User ID"
// @Success 200 {object} shared.Response{data=dto.ProfileResponse}
// @Failure 403 {object} shared.Response
// @Failure 404 {object} shared.Response
// @Router /api/v1/profile/{id} [get]
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	res, err := h.userSvc.GetProfile(c.UserContext(), identity.UserID, c.Params("id"))
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", res)
}

// @Summary Update profile
// @Description Create or update the learner's profile
// @Tags profile
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param request body dto.UpdateProfileRequest true "Profile"
// @Success 200 {object} shared.Response{data=dto.ProfileResponse}
// @Router /api/v1/profile [put]
func (h *ProfileHandler) UpsertProfile(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	res, err := h.userSvc.UpsertProfile(c.UserContext(), identity, req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Profile updated", res)
}

// @Summary Assign role
// @Description Admin only
// @Tags profile
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "User ID"
// @Param request body dto.AssignRoleRequest true "Role"
// @Success 200 {object} shared.Response{data=dto.ProfileResponse}
// @Failure 403 {object} shared.Response
// @Router /api/v1/profile/{id}/role [put]
func (h *ProfileHandler) AssignRole(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	var req dto.AssignRoleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	res, err := h.userSvc.AssignRole(c.UserContext(), identity.UserID, c.Params("id"), req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Role updated", res)
}
