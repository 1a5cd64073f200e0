package services

import (
	"context"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const (
	SCHEDULER_SVC = "scheduler_svc"

	defaultSweepSchedule = "@every 15m"
	initialSweepLookback = 24 * time.Hour
	sweepTimeout         = 10 * time.Minute
)

// Reconciler re-evaluates achievements for learners active since a point in time.
type Reconciler interface {
	Reconcile(ctx context.Context, since time.Time) (int, error)
}

// SchedulerService runs the periodic achievement sweep that picks up learners whose
// evaluation trigger was dropped.
type SchedulerService struct {
	appContext.DefaultService

	schedule   string
	reconciler Reconciler
	cron       *cron.Cron

	mu        sync.Mutex
	lastSweep time.Time
}

func (svc SchedulerService) Id() string {
	return SCHEDULER_SVC
}

func (svc *SchedulerService) Configure(ctx *appContext.Context) error {
	svc.schedule = getEnv("ACHIEVEMENT_SWEEP_SCHEDULE", defaultSweepSchedule)
	return svc.DefaultService.Configure(ctx)
}

func (svc *SchedulerService) Start() error {
	svc.reconciler = svc.Service(ACHIEVEMENT_SVC).(*AchievementService)
	svc.lastSweep = time.Now().UTC().Add(-initialSweepLookback)

	svc.cron = cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))
	if _, err := svc.cron.AddFunc(svc.schedule, svc.Sweep); err != nil {
		return err
	}
	svc.cron.Start()

	log.WithField("schedule", svc.schedule).Info("Achievement sweep scheduled")
	return nil
}

func (svc *SchedulerService) Shutdown() {
	if svc.cron != nil {
		<-svc.cron.Stop().Done()
	}
}

// Sweep reconciles every learner with activity since the previous sweep.
func (svc *SchedulerService) Sweep() {
	svc.mu.Lock()
	since := svc.lastSweep
	svc.mu.Unlock()

	started := time.Now().UTC()
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	evaluated, err := svc.reconciler.Reconcile(ctx, since)
	if err != nil {
		log.WithError(err).WithField("since", since).Error("Achievement sweep failed")
		return
	}

	svc.mu.Lock()
	svc.lastSweep = started
	svc.mu.Unlock()

	log.WithFields(log.Fields{"since": since, "learners": evaluated}).Info("Achievement sweep finished")
}
