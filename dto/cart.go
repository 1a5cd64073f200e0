package dto

type AddCartItemRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

type CartItemResponse struct {
	ID     string          `json:"id"`
	Course *CourseResponse `json:"course,omitempty"`
}

type CartResponse struct {
	ID    string             `json:"id"`
	Items []CartItemResponse `json:"items"`
	Total float64            `json:"total"`
}

type CheckoutResponse struct {
	Enrollments []EnrollmentResponse `json:"enrollments"`
}
