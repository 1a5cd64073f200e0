package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"github.com/solomon244/Code-Academy/dto"
	"github.com/solomon244/Code-Academy/model"
	"github.com/solomon244/Code-Academy/services/repositories"
	"github.com/solomon244/Code-Academy/shared"
	"golang.org/x/crypto/blake2b"
)

const (
	CERTIFICATE_SVC = "certificate_svc"

	certificateSuffixLength = 9
	certificateURLExpiry    = 15 * time.Minute
	base36Alphabet          = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// DocumentStore keeps rendered certificate documents.
type DocumentStore interface {
	Enabled() bool
	Exists(ctx context.Context, key string) (bool, error)
	Upload(ctx context.Context, key string, content []byte, contentType string) error
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// CertificateNotifier tells a learner about a newly issued certificate.
type CertificateNotifier interface {
	NotifyCertificateIssued(to, name, courseTitle, certificateNumber string)
}

type CertificateService struct {
	appContext.DefaultService

	db           Database
	courses      *repositories.CourseRepository
	enrollments  *repositories.EnrollmentRepository
	certificates *repositories.CertificateRepository
	users        *repositories.UserRepository

	store    DocumentStore
	notifier CertificateNotifier
	renderer *CertificateRenderer
	fontPath string
	now      func() time.Time
}

func (svc CertificateService) Id() string {
	return CERTIFICATE_SVC
}

func (svc *CertificateService) Configure(ctx *appContext.Context) error {
	svc.fontPath = getEnv("CERTIFICATE_FONT_PATH", "")
	return svc.DefaultService.Configure(ctx)
}

func (svc *CertificateService) Start() (err error) {
	svc.db = svc.Service(DATABASE_SVC).(Database)
	svc.store = svc.Service(MINIO_SVC).(*MinIOService)
	svc.notifier = svc.Service(NOTIFICATION_SVC).(*NotificationService)
	svc.init()

	svc.renderer, err = NewCertificateRenderer(svc.fontPath)
	return err
}

func (svc *CertificateService) init() {
	db := svc.db.Db()
	svc.courses = repositories.NewCourseRepository(db)
	svc.enrollments = repositories.NewEnrollmentRepository(db)
	svc.certificates = repositories.NewCertificateRepository(db)
	svc.users = repositories.NewUserRepository(db)
	if svc.now == nil {
		svc.now = func() time.Time { return time.Now().UTC() }
	}
}

// IssueCertificate returns the learner's certificate for the course, minting it on the
// first request after every lesson is complete. The bool reports whether it was created.
func (svc *CertificateService) IssueCertificate(ctx context.Context, identity dto.Identity, courseID string) (*dto.CertificateResponse, bool, error) {
	if identity.UserID == "" {
		return nil, false, shared.NewUnauthorizedError(nil, "Unauthorized")
	}
	if strings.TrimSpace(courseID) == "" {
		return nil, false, shared.NewBadRequestError(nil, "Course ID is required")
	}

	ctx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	enrollment, err := svc.enrollments.GetByUserAndCourse(ctx, identity.UserID, courseID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, false, shared.NewNotFoundError(nil, "Enrollment not found")
		}
		return nil, false, svc.db.HandleError(err)
	}

	existing, err := svc.certificates.GetByUserAndCourse(ctx, identity.UserID, courseID)
	if err == nil {
		res := toCertificateResponse(existing)
		return &res, false, nil
	}
	if !repositories.IsNotFound(err) {
		return nil, false, svc.db.HandleError(err)
	}

	completion, err := courseCompletion(ctx, svc.courses, svc.enrollments, enrollment)
	if err != nil {
		return nil, false, svc.db.HandleError(err)
	}
	if completion.Total == 0 || completion.Completed < completion.Total {
		return nil, false, shared.NewPreconditionFailedError("Course not completed yet", dto.CertificateProgress{
			Progress: completion.Percentage,
		})
	}

	now := svc.now()
	number, err := newCertificateNumber(now)
	if err != nil {
		return nil, false, shared.NewInternalError(err, "Failed to generate certificate number")
	}

	cert := &model.Certificate{
		UserID:            identity.UserID,
		CourseID:          courseID,
		CertificateNumber: number,
		IssueDate:         now,
		CompletionDate:    now,
	}
	cert.VerificationHash = verificationHash(cert)

	if err := svc.certificates.Create(ctx, cert); err != nil {
		if repositories.IsDuplicateKey(err) {
			winner, getErr := svc.certificates.GetByUserAndCourse(ctx, identity.UserID, courseID)
			if getErr == nil {
				res := toCertificateResponse(winner)
				return &res, false, nil
			}
		}
		return nil, false, svc.db.HandleError(err)
	}

	stored, err := svc.certificates.GetByUserAndCourse(ctx, identity.UserID, courseID)
	if err != nil {
		return nil, false, svc.db.HandleError(err)
	}

	certificatesIssuedTotal.Inc()
	log.WithFields(log.Fields{
		"user_id":            identity.UserID,
		"course_id":          courseID,
		"certificate_number": stored.CertificateNumber,
	}).Info("Certificate issued")

	svc.notify(ctx, identity, stored)

	res := toCertificateResponse(stored)
	return &res, true, nil
}

func (svc *CertificateService) notify(ctx context.Context, identity dto.Identity, cert *model.Certificate) {
	if svc.notifier == nil {
		return
	}

	email, name := identity.Email, ""
	if user, err := svc.users.GetUser(ctx, identity.UserID); err == nil {
		if user.Email != "" {
			email = user.Email
		}
		name = user.Name
	}
	if email == "" {
		return
	}

	title := ""
	if cert.Course != nil {
		title = cert.Course.Title
	}
	svc.notifier.NotifyCertificateIssued(email, name, title, cert.CertificateNumber)
}

func (svc *CertificateService) ListCertificates(ctx context.Context, userID string) ([]dto.CertificateResponse, error) {
	ctx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	certs, err := svc.certificates.ListByUser(ctx, userID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	res := make([]dto.CertificateResponse, 0, len(certs))
	for i := range certs {
		res = append(res, toCertificateResponse(&certs[i]))
	}
	return res, nil
}

// VerifyCertificate looks a certificate up by its public number.
func (svc *CertificateService) VerifyCertificate(ctx context.Context, number string) (*dto.VerifyCertificateResponse, error) {
	if !dto.IsCertificateNumber(number) {
		return nil, shared.NewBadRequestError(nil, "Invalid certificate number")
	}

	ctx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	cert, err := svc.certificates.GetByNumber(ctx, number)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, shared.NewNotFoundError(nil, "Certificate not found")
		}
		return nil, svc.db.HandleError(err)
	}

	res := &dto.VerifyCertificateResponse{
		Valid:             cert.VerificationHash == verificationHash(cert),
		CertificateNumber: cert.CertificateNumber,
		IssueDate:         cert.IssueDate,
		CompletionDate:    cert.CompletionDate,
		VerificationHash:  cert.VerificationHash,
	}
	if cert.Course != nil {
		res.CourseTitle = cert.Course.Title
	}
	if user, err := svc.users.GetUser(ctx, cert.UserID); err == nil {
		res.LearnerName = user.Name
	}
	return res, nil
}

// CertificateDocument renders the certificate image. With object storage enabled the
// image is stored once and a presigned link is returned.
func (svc *CertificateService) CertificateDocument(ctx context.Context, userID, certificateID string) (*dto.CertificateDocument, error) {
	ctx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	cert, err := svc.certificates.GetByID(ctx, certificateID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, shared.NewNotFoundError(nil, "Certificate not found")
		}
		return nil, svc.db.HandleError(err)
	}
	if cert.UserID != userID {
		return nil, shared.NewNotFoundError(nil, "Certificate not found")
	}

	fileName := cert.CertificateNumber + ".png"

	if svc.store == nil || !svc.store.Enabled() {
		content, err := svc.render(ctx, cert)
		if err != nil {
			return nil, err
		}
		return &dto.CertificateDocument{Content: content, ContentType: "image/png", FileName: fileName}, nil
	}

	key := fmt.Sprintf("certificates/%s/%s", cert.UserID, fileName)
	exists := false
	if cert.DocumentKey == key {
		exists, err = svc.store.Exists(ctx, key)
		if err != nil {
			return nil, shared.NewInternalError(err, "Failed to check certificate document")
		}
	}

	if !exists {
		content, err := svc.render(ctx, cert)
		if err != nil {
			return nil, err
		}
		if err := svc.store.Upload(ctx, key, content, "image/png"); err != nil {
			return nil, shared.NewInternalError(err, "Failed to store certificate document")
		}
		if err := svc.certificates.SetDocumentKey(ctx, cert.ID, key); err != nil {
			return nil, svc.db.HandleError(err)
		}
	}

	url, err := svc.store.PresignedURL(ctx, key, certificateURLExpiry)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to sign certificate document URL")
	}
	return &dto.CertificateDocument{
		Link: &dto.CertificateDocumentResponse{
			URL:       url,
			ExpiresAt: svc.now().Add(certificateURLExpiry),
		},
		FileName: fileName,
	}, nil
}

func (svc *CertificateService) render(ctx context.Context, cert *model.Certificate) ([]byte, error) {
	art := CertificateArtwork{
		CertificateNumber: cert.CertificateNumber,
		VerificationHash:  cert.VerificationHash,
		IssueDate:         cert.IssueDate,
		CompletionDate:    cert.CompletionDate,
	}
	if cert.Course != nil {
		art.CourseTitle = cert.Course.Title
	}
	if user, err := svc.users.GetUser(ctx, cert.UserID); err == nil {
		art.LearnerName = user.Name
	}

	content, err := svc.renderer.Render(art)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to render certificate")
	}
	return content, nil
}

// newCertificateNumber returns EC-<unix millis>-<9 random base36 characters>.
func newCertificateNumber(now time.Time) (string, error) {
	suffix := make([]byte, 0, certificateSuffixLength)
	buf := make([]byte, 16)
	for len(suffix) < certificateSuffixLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			// 252 is the largest multiple of 36 below 256
			if b >= 252 {
				continue
			}
			suffix = append(suffix, base36Alphabet[int(b)%36])
			if len(suffix) == certificateSuffixLength {
				break
			}
		}
	}
	return fmt.Sprintf("%s-%d-%s", shared.CertificatePrefix, now.UnixMilli(), suffix), nil
}

func verificationHash(cert *model.Certificate) string {
	var b bytes.Buffer
	b.WriteString(cert.CertificateNumber)
	b.WriteByte('|')
	b.WriteString(cert.UserID)
	b.WriteByte('|')
	b.WriteString(cert.CourseID)
	b.WriteByte('|')
	b.WriteString(cert.CompletionDate.UTC().Format(time.RFC3339))
	sum := blake2b.Sum256(b.Bytes())
	return hex.EncodeToString(sum[:])
}

func toCertificateResponse(cert *model.Certificate) dto.CertificateResponse {
	res := dto.CertificateResponse{
		ID:                cert.ID,
		CertificateNumber: cert.CertificateNumber,
		CourseID:          cert.CourseID,
		UserID:            cert.UserID,
		IssueDate:         cert.IssueDate,
		CompletionDate:    cert.CompletionDate,
		VerificationHash:  cert.VerificationHash,
	}
	if cert.Course != nil {
		res.Course = &dto.CertificateCourse{
			ID:          cert.Course.ID,
			Title:       cert.Course.Title,
			Description: cert.Course.Description,
		}
	}
	return res
}
