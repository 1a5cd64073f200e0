package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/solomon244/Code-Academy/dto"
	"github.com/solomon244/Code-Academy/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// newTestApp mounts a stand-in for the auth middleware that trusts X-Test-User.
func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: shared.HandleError})
	app.Use(func(c *fiber.Ctx) error {
		if user := c.Get("X-Test-User"); user != "" {
			c.Locals(shared.UserID, user)
			c.Locals(shared.UserEmail, user+"@example.com")
		}
		return c.Next()
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, user, body string) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, sonic.Unmarshal(raw, &env))
	}
	return resp, env
}

type fakeProgressService struct {
	userID string
	req    dto.UpdateProgressRequest
	err    error
}

func (f *fakeProgressService) UpdateProgress(ctx context.Context, userID string, req dto.UpdateProgressRequest) (*dto.UpdateProgressResponse, error) {
	f.userID, f.req = userID, req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.UpdateProgressResponse{
		Progress:        dto.ProgressResponse{EnrollmentID: req.EnrollmentID, LessonID: req.LessonID, Completed: req.Completed, Percentage: 100},
		OverallProgress: 75,
	}, nil
}

func TestUpdateProgressHandler(t *testing.T) {
	svc := &fakeProgressService{}
	app := newTestApp()
	app.Post("/progress", NewProgressHandler(svc).UpdateProgress)

	resp, env := doRequest(t, app, "POST", "/progress", "learner-1", `{"enrollmentId":"e1","lessonId":"l1","completed":true}`)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "Progress updated", env.Message)
	assert.Equal(t, "learner-1", svc.userID)
	assert.True(t, svc.req.Completed)

	var data dto.UpdateProgressResponse
	require.NoError(t, sonic.Unmarshal(env.Data, &data))
	assert.Equal(t, 75, data.OverallProgress)
	assert.Equal(t, "l1", data.Progress.LessonID)

	resp, env = doRequest(t, app, "POST", "/progress", "", `{"enrollmentId":"e1","lessonId":"l1"}`)
	assert.Equal(t, 401, resp.StatusCode)
	assert.Equal(t, 401, env.Code)

	resp, _ = doRequest(t, app, "POST", "/progress", "learner-1", `{not json`)
	assert.Equal(t, 400, resp.StatusCode)

	svc.err = shared.NewNotFoundError(nil, "Enrollment not found")
	resp, env = doRequest(t, app, "POST", "/progress", "learner-1", `{"enrollmentId":"e1","lessonId":"l1"}`)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "Enrollment not found", env.Message)
}

type fakeCertificateService struct {
	issued   map[string]*dto.CertificateResponse
	progress int
	doc      *dto.CertificateDocument
}

func (f *fakeCertificateService) IssueCertificate(ctx context.Context, identity dto.Identity, courseID string) (*dto.CertificateResponse, bool, error) {
	if courseID == "" {
		return nil, false, shared.NewBadRequestError(nil, "Course ID is required")
	}
	if f.progress < 100 {
		return nil, false, shared.NewPreconditionFailedError("Course not completed yet", dto.CertificateProgress{Progress: f.progress})
	}
	if cert, ok := f.issued[courseID]; ok {
		return cert, false, nil
	}
	cert := &dto.CertificateResponse{ID: "c1", CertificateNumber: "EC-1718000000000-k3j9x0a1b", CourseID: courseID, UserID: identity.UserID}
	f.issued[courseID] = cert
	return cert, true, nil
}

func (f *fakeCertificateService) ListCertificates(ctx context.Context, userID string) ([]dto.CertificateResponse, error) {
	res := []dto.CertificateResponse{}
	for _, cert := range f.issued {
		res = append(res, *cert)
	}
	return res, nil
}

func (f *fakeCertificateService) VerifyCertificate(ctx context.Context, number string) (*dto.VerifyCertificateResponse, error) {
	for _, cert := range f.issued {
		if cert.CertificateNumber == number {
			return &dto.VerifyCertificateResponse{Valid: true, CertificateNumber: number, CourseTitle: "Go"}, nil
		}
	}
	return nil, shared.NewNotFoundError(nil, "Certificate not found")
}

func (f *fakeCertificateService) CertificateDocument(ctx context.Context, userID, certificateID string) (*dto.CertificateDocument, error) {
	return f.doc, nil
}

func newCertificateApp(svc *fakeCertificateService) *fiber.App {
	h := NewCertificateHandler(svc)
	app := newTestApp()
	app.Get("/certificates/verify/:number", h.VerifyCertificate)
	app.Get("/certificates", h.ListCertificates)
	app.Post("/certificates", h.IssueCertificate)
	app.Get("/certificates/:id/document", h.CertificateDocument)
	return app
}

func TestIssueCertificateHandler(t *testing.T) {
	svc := &fakeCertificateService{issued: map[string]*dto.CertificateResponse{}, progress: 75}
	app := newCertificateApp(svc)

	resp, env := doRequest(t, app, "POST", "/certificates", "learner-1", `{"courseId":"course-1"}`)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "Course not completed yet", env.Message)
	assert.JSONEq(t, `{"progress":75}`, string(env.Data))

	svc.progress = 100
	resp, env = doRequest(t, app, "POST", "/certificates", "learner-1", `{"courseId":"course-1"}`)
	assert.Equal(t, 201, resp.StatusCode)
	var cert dto.CertificateResponse
	require.NoError(t, sonic.Unmarshal(env.Data, &cert))
	assert.Equal(t, "EC-1718000000000-k3j9x0a1b", cert.CertificateNumber)

	resp, env = doRequest(t, app, "POST", "/certificates", "learner-1", `{"courseId":"course-1"}`)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "Certificate already issued", env.Message)

	resp, _ = doRequest(t, app, "POST", "/certificates", "learner-1", `{}`)
	assert.Equal(t, 400, resp.StatusCode)

	resp, _ = doRequest(t, app, "POST", "/certificates", "", `{"courseId":"course-1"}`)
	assert.Equal(t, 401, resp.StatusCode)

	resp, env = doRequest(t, app, "GET", "/certificates", "learner-1", "")
	assert.Equal(t, 200, resp.StatusCode)
	var list []dto.CertificateResponse
	require.NoError(t, sonic.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)
}

func TestVerifyCertificateHandlerIsPublic(t *testing.T) {
	svc := &fakeCertificateService{issued: map[string]*dto.CertificateResponse{
		"course-1": {ID: "c1", CertificateNumber: "EC-1718000000000-k3j9x0a1b"},
	}}
	app := newCertificateApp(svc)

	resp, env := doRequest(t, app, "GET", "/certificates/verify/EC-1718000000000-k3j9x0a1b", "", "")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "max-age=60", resp.Header.Get("Cache-Control"))
	var verified dto.VerifyCertificateResponse
	require.NoError(t, sonic.Unmarshal(env.Data, &verified))
	assert.True(t, verified.Valid)

	resp, _ = doRequest(t, app, "GET", "/certificates/verify/EC-1-aaaaaaaaa", "", "")
	assert.Equal(t, 404, resp.StatusCode)
}

func TestCertificateDocumentHandler(t *testing.T) {
	svc := &fakeCertificateService{issued: map[string]*dto.CertificateResponse{}}
	app := newCertificateApp(svc)

	expires := time.Now().Add(15 * time.Minute).UTC().Truncate(time.Second)
	svc.doc = &dto.CertificateDocument{
		Link:     &dto.CertificateDocumentResponse{URL: "https://storage.test/c.png", ExpiresAt: expires},
		FileName: "c.png",
	}
	resp, env := doRequest(t, app, "GET", "/certificates/c1/document", "learner-1", "")
	assert.Equal(t, 200, resp.StatusCode)
	var link dto.CertificateDocumentResponse
	require.NoError(t, sonic.Unmarshal(env.Data, &link))
	assert.Equal(t, "https://storage.test/c.png", link.URL)

	svc.doc = &dto.CertificateDocument{Content: []byte("\x89PNG"), ContentType: "image/png", FileName: "EC-1-abc.png"}
	req := httptest.NewRequest("GET", "/certificates/c1/document", nil)
	req.Header.Set("X-Test-User", "learner-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, `inline; filename="EC-1-abc.png"`, resp.Header.Get("Content-Disposition"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), body)
}

type fakeCourseService struct {
	enrolled map[string]bool
}

func (f *fakeCourseService) ListCourses(ctx context.Context) ([]dto.CourseResponse, error) {
	return []dto.CourseResponse{{ID: "course-1", Title: "Go"}}, nil
}

func (f *fakeCourseService) GetCourse(ctx context.Context, id string) (*dto.CourseResponse, error) {
	if id != "course-1" {
		return nil, shared.NewNotFoundError(nil, "Course not found")
	}
	return &dto.CourseResponse{ID: id, Title: "Go"}, nil
}

func (f *fakeCourseService) Enroll(ctx context.Context, userID, courseID string) (*dto.EnrollmentResponse, bool, error) {
	key := userID + ":" + courseID
	created := !f.enrolled[key]
	f.enrolled[key] = true
	return &dto.EnrollmentResponse{ID: "e1", UserID: userID, CourseID: courseID}, created, nil
}

func (f *fakeCourseService) ListEnrolled(ctx context.Context, userID string) ([]dto.EnrolledCourseResponse, error) {
	return []dto.EnrolledCourseResponse{}, nil
}

func (f *fakeCourseService) GetLesson(ctx context.Context, userID, lessonID string) (*dto.LessonDetailResponse, error) {
	return nil, shared.NewForbiddenError(nil, "Not enrolled in this course")
}

func TestCourseHandlers(t *testing.T) {
	h := NewCourseHandler(&fakeCourseService{enrolled: map[string]bool{}})
	app := newTestApp()
	app.Get("/courses", h.ListCourses)
	app.Get("/courses/:id", h.GetCourse)
	app.Post("/enrollments", h.Enroll)
	app.Get("/lessons/:id", h.GetLesson)

	resp, _ := doRequest(t, app, "GET", "/courses", "", "")
	assert.Equal(t, 200, resp.StatusCode)

	resp, _ = doRequest(t, app, "GET", "/courses/missing", "", "")
	assert.Equal(t, 404, resp.StatusCode)

	resp, env := doRequest(t, app, "POST", "/enrollments", "learner-1", `{"courseId":"course-1"}`)
	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, "Enrolled", env.Message)

	resp, env = doRequest(t, app, "POST", "/enrollments", "learner-1", `{"courseId":"course-1"}`)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "Already enrolled", env.Message)

	resp, _ = doRequest(t, app, "GET", "/lessons/l1", "learner-1", "")
	assert.Equal(t, 403, resp.StatusCode)
}
