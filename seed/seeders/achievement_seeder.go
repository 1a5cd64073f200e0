package seeders

import (
	"log"

	"github.com/google/uuid"
	"github.com/solomon244/Code-Academy/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementSeeder struct {
	db *gorm.DB
}

func NewAchievementSeeder(db *gorm.DB) *AchievementSeeder {
	return &AchievementSeeder{db: db}
}

func (s *AchievementSeeder) SeedAchievements() error {
	for _, def := range model.AchievementDefinitions() {
		def.ID = uuid.Must(uuid.NewV7()).String()
		res := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&def)
		if res.Error != nil {
			log.Printf("Error creating achievement %s: %v", def.Name, res.Error)
			return res.Error
		}
		if res.RowsAffected == 0 {
			log.Printf("Achievement %s already exists, skipping", def.Name)
			continue
		}
		log.Printf("Created achievement: %s", def.Name)
	}
	return nil
}
