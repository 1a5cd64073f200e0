package services

import (
	appContext "github.com/alphabatem/common/context"
	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	log "github.com/sirupsen/logrus"
)

const ERROR_REPORTER_SVC = "error_reporter_svc"

// ErrorReporterService forwards unexpected failures to Rollbar when ROLLBAR_TOKEN
// is set. Reports are always logged.
type ErrorReporterService struct {
	appContext.DefaultService

	enabled bool
}

func (svc ErrorReporterService) Id() string {
	return ERROR_REPORTER_SVC
}

func (svc *ErrorReporterService) Configure(ctx *appContext.Context) error {
	token := getEnv("ROLLBAR_TOKEN", "")
	svc.enabled = token != ""

	rollbar.SetToken(token)
	rollbar.SetEnvironment(getEnv("ROLLBAR_ENV", "development"))
	rollbar.SetCodeVersion(getEnv("APP_VERSION", "dev"))
	rollbar.SetServerRoot("github.com/solomon244/Code-Academy")
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(svc.enabled)

	return svc.DefaultService.Configure(ctx)
}

func (svc *ErrorReporterService) Start() error {
	return nil
}

func (svc *ErrorReporterService) Shutdown() {
	if svc.enabled {
		rollbar.Close()
	}
}

func (svc *ErrorReporterService) ReportError(err error, fields map[string]interface{}) {
	if err == nil {
		return
	}
	log.WithError(err).WithFields(fields).Error("Reported error")
	if svc.enabled {
		rollbar.Error(err, fields)
	}
}

func (svc *ErrorReporterService) ReportPanic(recovered interface{}, fields map[string]interface{}) {
	log.WithField("panic", recovered).WithFields(fields).Error("Recovered panic")
	if svc.enabled {
		rollbar.Critical(recovered, fields)
	}
}
