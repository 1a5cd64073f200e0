package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	log "github.com/sirupsen/logrus"
)

const (
	NOTIFICATION_SVC = "notification_svc"

	notificationTimeout = 15 * time.Second
)

const certificateIssuedHTML = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Your certificate - {{.AppName}}</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #1e3a8a;">Congratulations{{if .Name}}, {{.Name}}{{end}}!</h2>
        <p>You completed <strong>{{.CourseTitle}}</strong> and earned a certificate.</p>
        <p>Certificate number: <code>{{.CertificateNumber}}</code></p>
        <p>Anyone can verify it at <a href="{{.VerifyURL}}">{{.VerifyURL}}</a>.</p>
        <p style="color: #666; font-size: 12px;">{{.AppName}}</p>
    </div>
</body>
</html>
`

type certificateEmailData struct {
	AppName           string
	Name              string
	CourseTitle       string
	CertificateNumber string
	VerifyURL         string
}

// NotificationService emails learners through SendGrid. Without SENDGRID_API_KEY
// messages are only logged.
type NotificationService struct {
	appContext.DefaultService

	apiKey    string
	fromEmail string
	fromName  string
	baseURL   string

	client    *sendgrid.Client
	templates map[string]*template.Template
	wg        sync.WaitGroup
}

func (svc NotificationService) Id() string {
	return NOTIFICATION_SVC
}

func (svc *NotificationService) Configure(ctx *appContext.Context) error {
	svc.apiKey = getEnv("SENDGRID_API_KEY", "")
	svc.fromEmail = getEnv("SENDGRID_FROM_EMAIL", "no-reply@codeacademy.local")
	svc.fromName = getEnv("SENDGRID_FROM_NAME", "Code Academy")
	svc.baseURL = getEnv("BASE_URL", "http://localhost:8000")

	return svc.DefaultService.Configure(ctx)
}

func (svc *NotificationService) Start() error {
	if err := svc.loadTemplates(); err != nil {
		return err
	}
	if svc.apiKey != "" {
		svc.client = sendgrid.NewSendClient(svc.apiKey)
	}
	return nil
}

func (svc *NotificationService) Shutdown() {
	svc.wg.Wait()
}

func (svc *NotificationService) loadTemplates() error {
	tmpl, err := template.New("certificate_issued").Parse(certificateIssuedHTML)
	if err != nil {
		return fmt.Errorf("failed to parse certificate email template: %w", err)
	}
	svc.templates = map[string]*template.Template{"certificate_issued": tmpl}
	return nil
}

// NotifyCertificateIssued sends the certificate email in the background.
func (svc *NotificationService) NotifyCertificateIssued(to, name, courseTitle, certificateNumber string) {
	data := certificateEmailData{
		AppName:           svc.fromName,
		Name:              name,
		CourseTitle:       courseTitle,
		CertificateNumber: certificateNumber,
		VerifyURL:         fmt.Sprintf("%s/api/v1/certificates/verify/%s", svc.baseURL, certificateNumber),
	}

	svc.wg.Add(1)
	go func() {
		defer svc.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
		defer cancel()

		subject := fmt.Sprintf("Your certificate for %s", courseTitle)
		if err := svc.send(ctx, to, name, subject, "certificate_issued", data); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"to":                 to,
				"certificate_number": certificateNumber,
			}).Error("Failed to send certificate email")
		}
	}()
}

func (svc *NotificationService) render(name string, data interface{}) (string, error) {
	tmpl, ok := svc.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (svc *NotificationService) send(ctx context.Context, to, toName, subject, templateName string, data interface{}) error {
	body, err := svc.render(templateName, data)
	if err != nil {
		return err
	}

	if svc.client == nil {
		log.WithFields(log.Fields{"to": to, "subject": subject}).Info("SendGrid not configured, email skipped")
		return nil
	}

	msg := sgmail.NewSingleEmail(
		sgmail.NewEmail(svc.fromName, svc.fromEmail),
		subject,
		sgmail.NewEmail(toName, to),
		subject,
		body,
	)

	res, err := svc.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid returned %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
