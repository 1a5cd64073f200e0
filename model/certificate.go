package model

import "time"

type Certificate struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	UserID            string    `json:"userId" gorm:"not null;uniqueIndex:idx_certificate_user_course;size:255"`
	CourseID          string    `json:"courseId" gorm:"not null;uniqueIndex:idx_certificate_user_course"`
	CertificateNumber string    `json:"certificateNumber" gorm:"not null;uniqueIndex;size:64"`
	VerificationHash  string    `json:"verificationHash" gorm:"not null;size:64"`
	IssueDate         time.Time `json:"issueDate" gorm:"not null"`
	CompletionDate    time.Time `json:"completionDate" gorm:"not null"`
	DocumentKey       string    `json:"-"`
	CreatedAt         time.Time `json:"createdAt"`

	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
