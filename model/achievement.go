package model

import "time"

type Achievement struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;uniqueIndex;size:100"`
	Description string    `json:"description"`
	BadgeURL    string    `json:"badge"`
	Points      int       `json:"points" gorm:"not null;default:0"`
	Criteria    string    `json:"criteria"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserAchievement grants an Achievement to a learner, at most once.
type UserAchievement struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"userId" gorm:"not null;uniqueIndex:idx_user_achievement;size:255"`
	AchievementID string    `json:"achievementId" gorm:"not null;uniqueIndex:idx_user_achievement"`
	AwardedAt     time.Time `json:"awardedAt" gorm:"not null"`

	Achievement Achievement `json:"achievement" gorm:"foreignKey:AchievementID"`
}

const (
	AchievementFirstSteps     = "First Steps"
	AchievementQuickLearner   = "Quick Learner"
	AchievementCourseExplorer = "Course Explorer"
)

// AchievementDefinitions are the badges the platform can grant.
func AchievementDefinitions() []Achievement {
	return []Achievement{
		{
			Name:        AchievementFirstSteps,
			Description: "Completed your first programming lesson",
			BadgeURL:    "/images/badges/first-steps.png",
			Points:      10,
			Criteria:    "Complete first lesson",
		},
		{
			Name:        AchievementQuickLearner,
			Description: "Completed 5 programming lessons",
			BadgeURL:    "/images/badges/quick-learner.png",
			Points:      25,
			Criteria:    "Complete 5 lessons",
		},
		{
			Name:        AchievementCourseExplorer,
			Description: "Enrolled in your first course",
			BadgeURL:    "/images/badges/course-explorer.png",
			Points:      15,
			Criteria:    "Enroll in first course",
		},
	}
}
