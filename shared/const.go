package shared

const (
	UserID    = "user_id"
	UserEmail = "user_email"

	RoleStudent    = "STUDENT"
	RoleInstructor = "INSTRUCTOR"
	RoleAdmin      = "ADMIN"

	CertificatePrefix = "EC"
)
