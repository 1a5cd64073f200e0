package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/solomon244/Code-Academy/dto"
	"github.com/solomon244/Code-Academy/shared"
)

type CourseHandler struct {
	courseSvc CourseServiceInterface
}

func NewCourseHandler(courseSvc CourseServiceInterface) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// @Summary List courses
// @Description Course catalog with modules and lesson outlines
// @Tags courses
// @Produce json
// @Success 200 {object} shared.Response{data=[]dto.CourseResponse}
// @Router /api/v1/courses [get]
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	res, err := h.courseSvc.ListCourses(c.UserContext())
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", res)
}

// @Summary Get course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} shared.Response{data=dto.CourseResponse}
// @Failure 404 {object} shared.Response
// @Router /api/v1/courses/{id} [get]
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	res, err := h.courseSvc.GetCourse(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", res)
}

// @Summary Enroll in a course
// @Tags enrollments
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param request body dto.EnrollRequest true "Course"
// @Success 200 {object} shared.Response{data=dto.EnrollmentResponse}
// @Success 201 {object} shared.Response{data=dto.EnrollmentResponse}
// @Failure 404 {object} shared.Response
// @Router /api/v1/enrollments [post]
func (h *CourseHandler) Enroll(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	var req dto.EnrollRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	res, created, err := h.courseSvc.Enroll(c.UserContext(), identity.UserID, req.CourseID)
	if err != nil {
		return err
	}

	if created {
		return shared.ResponseJSON(c, fiber.StatusCreated, "Enrolled", res)
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Already enrolled", res)
}

// @Summary List enrolled courses
// @Tags enrollments
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=[]dto.EnrolledCourseResponse}
// @Router /api/v1/enrollments [get]
func (h *CourseHandler) ListEnrolled(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	res, err := h.courseSvc.ListEnrolled(c.UserContext(), identity.UserID)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", res)
}

// @Summary Get lesson
// @Description Lesson content for an enrolled learner
// @Tags lessons
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.LessonDetailResponse}
// @Failure 403 {object} shared.Response
// @Failure 404 {object} shared.Response
// @Router /api/v1/lessons/{id} [get]
func (h *CourseHandler) GetLesson(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	res, err := h.courseSvc.GetLesson(c.UserContext(), identity.UserID, c.Params("id"))
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", res)
}
