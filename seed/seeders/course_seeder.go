package seeders

import (
	"log"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/solomon244/Code-Academy/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseSeeder creates the sample course catalog
type CourseSeeder struct {
	db *gorm.DB
}

func NewCourseSeeder(db *gorm.DB) *CourseSeeder {
	return &CourseSeeder{db: db}
}

func (s *CourseSeeder) SeedCourses() error {
	for _, course := range s.getSampleCourses() {
		var existing model.Course
		err := s.db.Where("title = ?", course.Title).First(&existing).Error
		if err == nil {
			log.Printf("Course %s already exists, skipping", course.Title)
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Printf("Error checking course %s: %v", course.Title, err)
			return err
		}

		assignIDs(&course)
		if err := s.db.Create(&course).Error; err != nil {
			log.Printf("Error creating course %s: %v", course.Title, err)
			return err
		}
		log.Printf("Created course: %s", course.Title)
	}

	log.Println("Course seeding completed successfully")
	return nil
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func assignIDs(course *model.Course) {
	course.ID = newID()
	for i := range course.Modules {
		course.Modules[i].ID = newID()
		for j := range course.Modules[i].Lessons {
			course.Modules[i].Lessons[j].ID = newID()
		}
	}
}

func jsonList(items ...string) datatypes.JSON {
	b, _ := sonic.Marshal(items)
	return datatypes.JSON(b)
}

func (s *CourseSeeder) getSampleCourses() []model.Course {
	return []model.Course{
		{
			Title:       "Introduction to Python Programming",
			Description: "Learn the basics of Python programming with practical examples relevant to Ethiopian context.",
			Price:       29.99,
			ImageURL:    "/images/python.jpg",
			Level:       "beginner",
			Duration:    1200,
			Language:    "English",
			Prerequisites: jsonList(
				"Basic computer skills",
				"No prior programming experience needed",
			),
			Objectives: jsonList(
				"Understand Python fundamentals",
				"Write basic Python programs",
				"Work with data structures",
				"Create simple applications",
			),
			Modules: []model.Module{
				{
					Title:       "Getting Started with Python",
					Description: "Learn the basics of Python programming language",
					Order:       1,
					Lessons: []model.Lesson{
						{
							Title:    "Introduction to Programming",
							Content:  "Programming is the process of creating a set of instructions that tell a computer how to perform a task...",
							Order:    1,
							Duration: 30,
						},
						{
							Title:    "Setting Up Python Environment",
							Content:  "In this lesson, we'll learn how to install Python and set up our development environment...",
							Order:    2,
							Duration: 45,
						},
					},
				},
				{
					Title:       "Python Basics",
					Description: "Understanding variables, data types, and basic operations",
					Order:       2,
					Lessons: []model.Lesson{
						{
							Title:    "Variables and Data Types",
							Content:  "Learn about different data types in Python and how to use variables...",
							Order:    1,
							Duration: 60,
						},
						{
							Title:    "Basic Operations",
							Content:  "Explore arithmetic operations, string operations, and basic input/output in Python...",
							Order:    2,
							Duration: 45,
						},
					},
				},
			},
		},
		{
			Title:       "Web Development Fundamentals",
			Description: "Master HTML, CSS, and JavaScript basics with hands-on projects focused on local business cases.",
			Price:       39.99,
			ImageURL:    "/images/rect.png",
		},
		{
			Title:       "Mobile App Development",
			Description: "Create mobile applications using React Native with examples from Ethiopian mobile services.",
			Price:       49.99,
			ImageURL:    "/images/rect.png",
		},
		{
			Title:       "Data Science Essentials",
			Description: "Learn data analysis and visualization using Python with datasets from Ethiopian sectors.",
			Price:       44.99,
			ImageURL:    "/images/rect.png",
		},
		{
			Title:       "Database Design and SQL",
			Description: "Master database concepts and SQL queries with practical examples from local businesses.",
			Price:       34.99,
			ImageURL:    "/images/rect.png",
		},
		{
			Title:       "Advanced JavaScript",
			Description: "Deep dive into modern JavaScript features and frameworks with Ethiopian tech industry focus.",
			Price:       54.99,
			ImageURL:    "/images/rect.png",
		},
	}
}
