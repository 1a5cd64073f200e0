package services

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
	"github.com/solomon244/Code-Academy/services/repositories"
	"github.com/solomon244/Code-Academy/services/repositories/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestHttpService(t *testing.T) (*HttpService, *JWTService, Database) {
	t.Helper()
	database, _ := newTestDatabase(t)

	achievementSvc := newTestAchievementService(t, database, nil)
	jwtSvc := NewJWTService("test-secret", "CodeAcademy", time.Hour)

	svc := &HttpService{
		jwtSvc:         jwtSvc,
		rateLimitSvc:   NewRateLimitService(database, &RedisService{}),
		progressSvc:    newTestProgressService(database, achievementSvc),
		achievementSvc: achievementSvc,
		certificateSvc: newTestCertificateService(t, database, newFakeStore(false), nil),
		courseSvc:      newTestCourseService(database, nil),
		cartSvc:        newTestCartService(database),
		userSvc:        newTestUserService(database),
	}
	return svc, jwtSvc, database
}

func call(t *testing.T, app *fiber.App, method, path, token, body string) (int, testResponse) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out testResponse
	require.NoError(t, sonic.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func TestCertificatePipelineOverHTTP(t *testing.T) {
	svc, jwtSvc, database := newTestHttpService(t)
	app := svc.NewApp()

	course, lessons := testutil.SeedCourse(t, database.Db(), "Go", 2, 2)
	token, err := jwtSvc.ToJWT("learner-1", "learner@example.com")
	require.NoError(t, err)

	status, res := call(t, app, "POST", "/api/v1/enrollments", token, `{"courseId":"`+course.ID+`"}`)
	require.Equal(t, http.StatusCreated, status, res.Message)
	var enrollment dto.EnrollmentResponse
	require.NoError(t, sonic.Unmarshal(res.Data, &enrollment))

	for i, lesson := range lessons[:3] {
		status, res = call(t, app, "POST", "/api/v1/progress", token,
			`{"enrollmentId":"`+enrollment.ID+`","lessonId":"`+lesson.ID+`","completed":true}`)
		require.Equal(t, http.StatusOK, status, res.Message)

		var progress dto.UpdateProgressResponse
		require.NoError(t, sonic.Unmarshal(res.Data, &progress))
		assert.Equal(t, []int{25, 50, 75}[i], progress.OverallProgress)
	}

	status, res = call(t, app, "POST", "/api/v1/certificates", token, `{"courseId":"`+course.ID+`"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Course not completed yet", res.Message)
	assert.JSONEq(t, `{"progress":75}`, string(res.Data))

	status, _ = call(t, app, "POST", "/api/v1/progress", token,
		`{"enrollmentId":"`+enrollment.ID+`","lessonId":"`+lessons[3].ID+`","completed":true}`)
	require.Equal(t, http.StatusOK, status)

	status, res = call(t, app, "POST", "/api/v1/certificates", token, `{"courseId":"`+course.ID+`"}`)
	require.Equal(t, http.StatusCreated, status, res.Message)
	var cert dto.CertificateResponse
	require.NoError(t, sonic.Unmarshal(res.Data, &cert))
	assert.Regexp(t, certificateNumberPattern, cert.CertificateNumber)

	status, res = call(t, app, "POST", "/api/v1/certificates", token, `{"courseId":"`+course.ID+`"}`)
	require.Equal(t, http.StatusOK, status)
	var again dto.CertificateResponse
	require.NoError(t, sonic.Unmarshal(res.Data, &again))
	assert.Equal(t, cert.CertificateNumber, again.CertificateNumber)

	status, res = call(t, app, "GET", "/api/v1/certificates/verify/"+cert.CertificateNumber, "", "")
	require.Equal(t, http.StatusOK, status)
	var verified dto.VerifyCertificateResponse
	require.NoError(t, sonic.Unmarshal(res.Data, &verified))
	assert.True(t, verified.Valid)

	// the background worker grants these after the first completed lesson
	require.Eventually(t, func() bool {
		granted, err := repositories.NewAchievementRepository(database.Db()).ListByUser(context.Background(), "learner-1")
		return err == nil && len(granted) == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	svc, _, _ := newTestHttpService(t)
	app := svc.NewApp()

	status, res := call(t, app, "POST", "/api/v1/progress", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	status, _ = call(t, app, "GET", "/api/v1/certificates", "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, res = call(t, app, "GET", "/ping", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `"pong"`, string(res.Data))

	status, res = call(t, app, "GET", "/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Page not found", res.Message)
}
