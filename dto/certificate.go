package dto

import "time"

type IssueCertificateRequest struct {
	CourseID string `json:"courseId" validate:"required" example:"0190f0b2-7c1e-7a51-9f1b-8f3e2d1c0b9a"`
}

type CertificateCourse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type CertificateResponse struct {
	ID                string             `json:"id"`
	CertificateNumber string             `json:"certificateNumber" example:"EC-1718000000000-k3j9x0a1b"`
	CourseID          string             `json:"courseId"`
	UserID            string             `json:"userId"`
	IssueDate         time.Time          `json:"issueDate"`
	CompletionDate    time.Time          `json:"completionDate"`
	VerificationHash  string             `json:"verificationHash"`
	Course            *CertificateCourse `json:"course,omitempty"`
}

// CertificateProgress is returned when a certificate is requested before completion.
type CertificateProgress struct {
	Progress int `json:"progress" example:"75"`
}

type VerifyCertificateResponse struct {
	Valid             bool      `json:"valid"`
	CertificateNumber string    `json:"certificateNumber"`
	CourseTitle       string    `json:"courseTitle"`
	LearnerName       string    `json:"learnerName,omitempty"`
	IssueDate         time.Time `json:"issueDate"`
	CompletionDate    time.Time `json:"completionDate"`
	VerificationHash  string    `json:"verificationHash"`
}

type CertificateDocumentResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CertificateDocument is either a stored object URL or the rendered bytes.
type CertificateDocument struct {
	Link        *CertificateDocumentResponse
	Content     []byte
	ContentType string
	FileName    string
}
