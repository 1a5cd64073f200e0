package main

import (
	"os"
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sirupsen/logrus"

	"github.com/solomon244/Code-Academy/services"
)

// @title Code Academy API
// @version 1.0
// @description Course catalog, lesson progress, achievements and certificates.
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded, using process environment")
	}

	configureLogging(os.Getenv("LOG_LEVEL"))

	ctx, err := context.NewCtx(
		&services.ErrorReporterService{},
		database(os.Getenv("DB_DRIVER")),
		&services.RedisService{},
		&services.MinIOService{},
		&services.NotificationService{},
		&services.JWTService{},
		&services.RateLimitService{},
		&services.MonitoringService{},

		&services.AchievementService{},
		&services.ProgressService{},
		&services.CourseService{},
		&services.CartService{},
		&services.UserService{},
		&services.CertificateService{},
		&services.SchedulerService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build service context")
		return
	}

	if err := ctx.Run(); err != nil {
		log.Fatal().Err(err).Msg("Service context stopped")
	}
}

func database(driver string) context.Service {
	if strings.EqualFold(driver, "postgres") {
		return &services.PostgresService{}
	}
	return &services.SqliteService{}
}

func configureLogging(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	switch strings.ToUpper(level) {
	case "TRACE":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
		logrus.SetLevel(logrus.TraceLevel)
	case "DEBUG":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logrus.SetLevel(logrus.DebugLevel)
	case "WARN":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
		logrus.SetLevel(logrus.WarnLevel)
	case "ERROR":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logrus.SetLevel(logrus.InfoLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})
}
