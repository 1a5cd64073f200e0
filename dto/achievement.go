package dto

import "time"

type AchievementResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name" example:"First Steps"`
	Description string     `json:"description"`
	Badge       string     `json:"badge"`
	Points      int        `json:"points" example:"10"`
	Criteria    string     `json:"criteria"`
	AwardedAt   *time.Time `json:"awardedAt,omitempty"`
}

type AwardAchievementsResponse struct {
	Awarded []AchievementResponse `json:"awarded"`
}
