package seeders

import (
	"log"

	"github.com/solomon244/Code-Academy/model"
	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

// NewMainSeeder creates a new main seeder
func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders in the correct order
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := s.SeedCoursesOnly(); err != nil {
		log.Printf("Course seeding failed: %v", err)
		return err
	}

	if err := s.SeedAchievementsOnly(); err != nil {
		log.Printf("Achievement seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedIfEmpty seeds the catalog only when no course exists yet.
func (s *MainSeeder) SeedIfEmpty() error {
	var count int64
	if err := s.db.Model(&model.Course{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.SeedAll()
}

func (s *MainSeeder) SeedCoursesOnly() error {
	return NewCourseSeeder(s.db).SeedCourses()
}

func (s *MainSeeder) SeedAchievementsOnly() error {
	return NewAchievementSeeder(s.db).SeedAchievements()
}
