package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/solomon244/Code-Academy/services/repositories"
	"github.com/solomon244/Code-Academy/services/repositories/testutil"
	"gorm.io/gorm"
)

type fakeTrigger struct {
	mu    sync.Mutex
	users []string
}

func (f *fakeTrigger) Trigger(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, userID)
}

func (f *fakeTrigger) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.users...)
}

type fakeReporter struct {
	mu   sync.Mutex
	errs []error
}

func (f *fakeReporter) ReportError(err error, fields map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, err)
}

func (f *fakeReporter) reported() []error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]error(nil), f.errs...)
}

type fakeStore struct {
	mu      sync.Mutex
	enabled bool
	objects map[string][]byte
	uploads int
}

func newFakeStore(enabled bool) *fakeStore {
	return &fakeStore{enabled: enabled, objects: map[string][]byte{}}
}

func (f *fakeStore) Enabled() bool { return f.enabled }

func (f *fakeStore) Exists(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeStore) Upload(ctx context.Context, key string, content []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = content
	f.uploads++
	return nil
}

func (f *fakeStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://storage.test/" + key, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	numbers []string
}

func (f *fakeNotifier) NotifyCertificateIssued(to, name, courseTitle, certificateNumber string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.numbers = append(f.numbers, certificateNumber)
}

func (f *fakeNotifier) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.numbers...)
}

func newTestDatabase(t *testing.T) (*SqliteService, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	return NewSqliteServiceFromDB(db, 5*time.Second), db
}

func newTestProgressService(db Database, trigger AchievementTrigger) *ProgressService {
	return &ProgressService{
		db:          db,
		courses:     repositories.NewCourseRepository(db.Db()),
		enrollments: repositories.NewEnrollmentRepository(db.Db()),
		trigger:     trigger,
	}
}

func newTestAchievementService(t *testing.T, db Database, reporter ErrorReporter) *AchievementService {
	t.Helper()
	svc := &AchievementService{
		db:           db,
		enrollments:  repositories.NewEnrollmentRepository(db.Db()),
		achievements: repositories.NewAchievementRepository(db.Db()),
		reporter:     reporter,
		queueSize:    8,
	}
	svc.startWorker()
	t.Cleanup(svc.Shutdown)
	return svc
}

func newTestCertificateService(t *testing.T, db Database, store DocumentStore, notifier CertificateNotifier) *CertificateService {
	t.Helper()
	svc := &CertificateService{db: db, store: store, notifier: notifier}
	svc.init()

	renderer, err := NewCertificateRenderer("")
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	svc.renderer = renderer
	return svc
}

func intPtr(v int) *int { return &v }
