package services

import (
	"fmt"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	"github.com/solomon244/Code-Academy/docs"
	"github.com/solomon244/Code-Academy/middleware"
	"github.com/solomon244/Code-Academy/services/handlers"
	"github.com/solomon244/Code-Academy/shared"
)

type HttpService struct {
	appContext.DefaultService

	jwtSvc         *JWTService
	rateLimitSvc   *RateLimitService
	monitoringSvc  *MonitoringService
	reporter       *ErrorReporterService
	progressSvc    *ProgressService
	achievementSvc *AchievementService
	certificateSvc *CertificateService
	courseSvc      *CourseService
	cartSvc        *CartService
	userSvc        *UserService

	port int
	app  *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *appContext.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	svc.reporter = svc.Service(ERROR_REPORTER_SVC).(*ErrorReporterService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	svc.achievementSvc = svc.Service(ACHIEVEMENT_SVC).(*AchievementService)
	svc.certificateSvc = svc.Service(CERTIFICATE_SVC).(*CertificateService)
	svc.courseSvc = svc.Service(COURSE_SVC).(*CourseService)
	svc.cartSvc = svc.Service(CART_SVC).(*CartService)
	svc.userSvc = svc.Service(USER_SVC).(*UserService)

	svc.app = svc.NewApp()
	return svc.app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.ShutdownWithTimeout(10 * time.Second)
	}
}

// NewApp builds the fiber application with every route registered.
func (svc *HttpService) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Code Academy",
		DisableStartupMessage: true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          svc.HandleError,
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			if svc.reporter != nil {
				svc.reporter.ReportPanic(e, map[string]interface{}{
					"method": c.Method(),
					"path":   c.Path(),
				})
			}
		},
	}))

	if level := os.Getenv("LOG_LEVEL"); level == "TRACE" || level == "DEBUG" {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	if svc.monitoringSvc != nil {
		app.Use(MonitoringMiddleware(svc.monitoringSvc))
	}

	docs.SwaggerInfo.BasePath = "/"
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/ping", svc.ping)

	svc.registerRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return shared.NewNotFoundError(nil, "Page not found")
	})

	return app
}

func (svc *HttpService) registerRoutes(app *fiber.App) {
	progressHandler := handlers.NewProgressHandler(svc.progressSvc)
	achievementHandler := handlers.NewAchievementHandler(svc.achievementSvc)
	certificateHandler := handlers.NewCertificateHandler(svc.certificateSvc)
	courseHandler := handlers.NewCourseHandler(svc.courseSvc)
	cartHandler := handlers.NewCartHandler(svc.cartSvc)
	profileHandler := handlers.NewProfileHandler(svc.userSvc)

	auth := middleware.RequiredAuth(svc.jwtSvc)
	limit := func(endpointType string) fiber.Handler {
		return middleware.RateLimit(svc.rateLimitSvc, endpointType)
	}

	v1 := app.Group("/api/v1", limit(RateLimitAPIGeneral))
	v1.Get("/ping", svc.ping)

	v1.Get("/courses", courseHandler.ListCourses)
	v1.Get("/courses/:id", courseHandler.GetCourse)
	v1.Get("/certificates/verify/:number", certificateHandler.VerifyCertificate)

	v1.Get("/enrollments", auth, courseHandler.ListEnrolled)
	v1.Post("/enrollments", auth, courseHandler.Enroll)
	v1.Get("/lessons/:id", auth, courseHandler.GetLesson)

	v1.Post("/progress", auth, limit(RateLimitProgressUpdate), progressHandler.UpdateProgress)

	v1.Get("/achievements", auth, achievementHandler.ListAchievements)
	v1.Post("/achievements/award", auth, limit(RateLimitAchievementAward), achievementHandler.AwardAchievements)

	v1.Get("/certificates", auth, certificateHandler.ListCertificates)
	v1.Post("/certificates", auth, limit(RateLimitCertificateIssue), certificateHandler.IssueCertificate)
	v1.Get("/certificates/:id/document", auth, certificateHandler.CertificateDocument)

	v1.Get("/cart", auth, cartHandler.GetCart)
	v1.Post("/cart/items", auth, cartHandler.AddItem)
	v1.Delete("/cart/items/:itemId", auth, cartHandler.RemoveItem)
	v1.Post("/cart/checkout", auth, cartHandler.Checkout)

	v1.Get("/profile/:id", auth, profileHandler.GetProfile)
	v1.Put("/profile", auth, profileHandler.UpsertProfile)
	v1.Put("/profile/:id/role", auth, profileHandler.AssignRole)
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "max-age=10")
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

// HandleError renders handler errors and reports unexpected server failures.
func (svc *HttpService) HandleError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if appErr, ok := shared.GetAppError(err); ok {
		status = appErr.StatusCode
	} else if fiberErr, ok := err.(*fiber.Error); ok {
		status = fiberErr.Code
	}

	if status >= fiber.StatusInternalServerError {
		fields := map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
			"status": status,
		}
		if userID, ok := c.Locals(shared.UserID).(string); ok {
			fields["user_id"] = userID
		}
		if svc.reporter != nil {
			svc.reporter.ReportError(err, fields)
		} else {
			log.WithError(err).WithFields(fields).Error("Request failed")
		}
	}

	return shared.HandleError(c, err)
}
