package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/solomon244/Code-Academy/dto"
	"github.com/solomon244/Code-Academy/shared"
)

type AchievementHandler struct {
	achievementSvc AchievementServiceInterface
}

func NewAchievementHandler(achievementSvc AchievementServiceInterface) *AchievementHandler {
	return &AchievementHandler{achievementSvc: achievementSvc}
}

// @Summary List achievements
// @Description List the achievements the learner has earned
// @Tags achievements
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=[]dto.AchievementResponse}
// @Router /api/v1/achievements [get]
func (h *AchievementHandler) ListAchievements(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	res, err := h.achievementSvc.ListUserAchievements(c.UserContext(), identity.UserID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", res)
}

// @Summary Award achievements
// @Description Evaluate achievement rules for the learner and grant any newly earned ones
// @Tags achievements
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.AwardAchievementsResponse}
// @Router /api/v1/achievements/award [post]
func (h *AchievementHandler) AwardAchievements(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	awarded, err := h.achievementSvc.EvaluateAndGrant(c.UserContext(), identity.UserID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", dto.AwardAchievementsResponse{Awarded: awarded})
}
