package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"github.com/solomon244/Code-Academy/dto"
	"github.com/solomon244/Code-Academy/model"
	"github.com/solomon244/Code-Academy/services/repositories"
	"github.com/solomon244/Code-Academy/shared"
)

const (
	ACHIEVEMENT_SVC = "achievement_svc"

	defaultAchievementQueueSize = 256
	backgroundEvaluationTimeout = 30 * time.Second
)

type achievementRule struct {
	Name      string
	Qualifies func(activity dto.LearnerActivity) bool
}

// achievementRules are evaluated independently; a learner may satisfy several in one pass.
var achievementRules = []achievementRule{
	{
		Name:      model.AchievementFirstSteps,
		Qualifies: func(a dto.LearnerActivity) bool { return a.CompletedLessons >= 1 },
	},
	{
		Name:      model.AchievementQuickLearner,
		Qualifies: func(a dto.LearnerActivity) bool { return a.CompletedLessons >= 5 },
	},
	{
		Name:      model.AchievementCourseExplorer,
		Qualifies: func(a dto.LearnerActivity) bool { return a.CoursesStarted >= 1 },
	},
}

// ErrorReporter receives failures that are not returned to a caller.
type ErrorReporter interface {
	ReportError(err error, fields map[string]interface{})
}

type AchievementService struct {
	appContext.DefaultService

	db           Database
	enrollments  *repositories.EnrollmentRepository
	achievements *repositories.AchievementRepository
	reporter     ErrorReporter
	definitions  map[string]model.Achievement

	queueSize int
	queue     chan string
	done      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

func (svc AchievementService) Id() string {
	return ACHIEVEMENT_SVC
}

func (svc *AchievementService) Configure(ctx *appContext.Context) error {
	svc.queueSize = defaultAchievementQueueSize
	if v := getEnv("ACHIEVEMENT_QUEUE_SIZE", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			svc.queueSize = n
		}
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *AchievementService) Start() error {
	svc.db = svc.Service(DATABASE_SVC).(Database)
	svc.enrollments = repositories.NewEnrollmentRepository(svc.db.Db())
	svc.achievements = repositories.NewAchievementRepository(svc.db.Db())
	svc.reporter = svc.Service(ERROR_REPORTER_SVC).(*ErrorReporterService)
	svc.startWorker()
	return nil
}

func (svc *AchievementService) Shutdown() {
	svc.stopOnce.Do(func() {
		if svc.done != nil {
			close(svc.done)
		}
	})
	svc.wg.Wait()
}

func (svc *AchievementService) startWorker() {
	if svc.definitions == nil {
		svc.definitions = make(map[string]model.Achievement)
		for _, def := range model.AchievementDefinitions() {
			svc.definitions[def.Name] = def
		}
	}
	if svc.queueSize <= 0 {
		svc.queueSize = defaultAchievementQueueSize
	}
	svc.queue = make(chan string, svc.queueSize)
	svc.done = make(chan struct{})

	svc.wg.Add(1)
	go func() {
		defer svc.wg.Done()
		for {
			select {
			case userID := <-svc.queue:
				svc.evaluateInBackground(userID)
			case <-svc.done:
				return
			}
		}
	}()
}

// Trigger queues an evaluation for the learner without blocking. A full queue drops
// the event; the reconciliation sweep picks the learner up later.
func (svc *AchievementService) Trigger(userID string) {
	if svc.queue == nil {
		return
	}
	select {
	case <-svc.done:
		return
	default:
	}

	select {
	case svc.queue <- userID:
	default:
		achievementEvaluationsTotal.WithLabelValues("dropped").Inc()
		log.WithField("user_id", userID).Warn("Achievement queue full, evaluation dropped")
	}
}

func (svc *AchievementService) evaluateInBackground(userID string) {
	defer func() {
		if r := recover(); r != nil {
			svc.report(fmt.Errorf("achievement evaluation panic: %v", r), userID)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), backgroundEvaluationTimeout)
	defer cancel()

	if _, err := svc.EvaluateAndGrant(ctx, userID); err != nil {
		svc.report(err, userID)
	}
}

func (svc *AchievementService) report(err error, userID string) {
	log.WithFields(log.Fields{
		"user_id": userID,
		"error":   err.Error(),
	}).Error("Achievement evaluation failed")

	if svc.reporter != nil {
		svc.reporter.ReportError(err, map[string]interface{}{
			"user_id":   userID,
			"operation": "achievement_evaluation",
		})
	}
}

// EvaluateAndGrant grants every achievement the learner currently qualifies for and
// returns the ones granted by this call. Re-running it converges to the same grant set.
func (svc *AchievementService) EvaluateAndGrant(ctx context.Context, userID string) ([]dto.AchievementResponse, error) {
	if userID == "" {
		return nil, shared.NewUnauthorizedError(nil, "Unauthorized")
	}

	ctx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	activity, err := svc.learnerActivity(ctx, userID)
	if err != nil {
		achievementEvaluationsTotal.WithLabelValues("error").Inc()
		return nil, svc.db.HandleError(err)
	}

	granted := make([]dto.AchievementResponse, 0)
	for _, rule := range achievementRules {
		if !rule.Qualifies(activity) {
			continue
		}

		achievement, err := svc.achievements.FindOrCreate(ctx, svc.definition(rule.Name))
		if err != nil {
			achievementEvaluationsTotal.WithLabelValues("error").Inc()
			return granted, svc.db.HandleError(err)
		}

		grant, isNew, err := svc.achievements.Grant(ctx, userID, achievement.ID)
		if err != nil {
			achievementEvaluationsTotal.WithLabelValues("error").Inc()
			return granted, svc.db.HandleError(err)
		}
		if !isNew {
			continue
		}

		achievementsGrantedTotal.WithLabelValues(achievement.Name).Inc()
		log.WithFields(log.Fields{
			"user_id":     userID,
			"achievement": achievement.Name,
		}).Info("Achievement granted")

		awardedAt := grant.AwardedAt
		granted = append(granted, toAchievementResponse(*achievement, &awardedAt))
	}

	achievementEvaluationsTotal.WithLabelValues("ok").Inc()
	return granted, nil
}

func (svc *AchievementService) learnerActivity(ctx context.Context, userID string) (dto.LearnerActivity, error) {
	completed, err := svc.enrollments.CountCompletedByUser(ctx, userID)
	if err != nil {
		return dto.LearnerActivity{}, err
	}
	started, err := svc.enrollments.CountCoursesStarted(ctx, userID)
	if err != nil {
		return dto.LearnerActivity{}, err
	}
	return dto.LearnerActivity{CompletedLessons: completed, CoursesStarted: started}, nil
}

func (svc *AchievementService) definition(name string) model.Achievement {
	if def, ok := svc.definitions[name]; ok {
		return def
	}
	return model.Achievement{Name: name}
}

func (svc *AchievementService) ListUserAchievements(ctx context.Context, userID string) ([]dto.AchievementResponse, error) {
	ctx, cancel := svc.db.WithTimeout(ctx)
	defer cancel()

	grants, err := svc.achievements.ListByUser(ctx, userID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	res := make([]dto.AchievementResponse, 0, len(grants))
	for _, g := range grants {
		awardedAt := g.AwardedAt
		res = append(res, toAchievementResponse(g.Achievement, &awardedAt))
	}
	return res, nil
}

// Reconcile re-evaluates every learner with progress activity since the given time.
func (svc *AchievementService) Reconcile(ctx context.Context, since time.Time) (int, error) {
	listCtx, cancel := svc.db.WithTimeout(ctx)
	learners, err := svc.enrollments.LearnersWithActivitySince(listCtx, since)
	cancel()
	if err != nil {
		return 0, svc.db.HandleError(err)
	}

	evaluated := 0
	for _, userID := range learners {
		if ctx.Err() != nil {
			return evaluated, ctx.Err()
		}
		if _, err := svc.EvaluateAndGrant(ctx, userID); err != nil {
			svc.report(err, userID)
			continue
		}
		evaluated++
	}
	return evaluated, nil
}

func toAchievementResponse(a model.Achievement, awardedAt *time.Time) dto.AchievementResponse {
	return dto.AchievementResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Badge:       a.BadgeURL,
		Points:      a.Points,
		Criteria:    a.Criteria,
		AwardedAt:   awardedAt,
	}
}
