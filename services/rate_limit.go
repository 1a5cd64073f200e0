package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"github.com/solomon244/Code-Academy/dto"
	"github.com/solomon244/Code-Academy/model"
	"github.com/solomon244/Code-Academy/services/repositories"
)

const (
	RATE_LIMIT_SVC = "rate_limit_svc"

	RateLimitProgressUpdate    = "progress_update"
	RateLimitCertificateIssue  = "certificate_issue"
	RateLimitAchievementAward  = "achievement_award"
	RateLimitAPIGeneral        = "api_general"
	rateLimitConfigRefreshRate = 5 * time.Minute
)

// defaultRateLimitConfigs are inserted when missing; operators may edit the rows.
var defaultRateLimitConfigs = []model.RateLimitConfig{
	{
		EndpointType: RateLimitProgressUpdate,
		Limit:        120,
		WindowSize:   60,
		Description:  "Lesson progress updates per learner",
		IsActive:     true,
	},
	{
		EndpointType: RateLimitCertificateIssue,
		Limit:        10,
		WindowSize:   60,
		Description:  "Certificate requests per learner",
		IsActive:     true,
	},
	{
		EndpointType: RateLimitAchievementAward,
		Limit:        30,
		WindowSize:   60,
		Description:  "Explicit achievement evaluations per learner",
		IsActive:     true,
	},
	{
		EndpointType: RateLimitAPIGeneral,
		Limit:        1000,
		WindowSize:   3600,
		Description:  "General API rate limit per IP",
		IsActive:     true,
	},
}

// RateLimitService enforces fixed-window limits stored in the database and counted
// in redis. Any counter failure lets the request through.
type RateLimitService struct {
	appContext.DefaultService

	db      Database
	redis   *RedisService
	repo    *repositories.RateLimitRepository
	configs map[string]model.RateLimitConfig
	loaded  time.Time
	mutex   sync.RWMutex
}

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Start() error {
	svc.db = svc.Service(DATABASE_SVC).(Database)
	svc.redis = svc.Service(REDIS_SVC).(*RedisService)
	svc.repo = repositories.NewRateLimitRepository(svc.db.Db())

	ctx, cancel := svc.db.WithTimeout(context.Background())
	defer cancel()
	return svc.loadConfigs(ctx)
}

// NewRateLimitService builds the limiter outside the service container.
func NewRateLimitService(db Database, redis *RedisService) *RateLimitService {
	return &RateLimitService{
		db:    db,
		redis: redis,
		repo:  repositories.NewRateLimitRepository(db.Db()),
	}
}

func (svc *RateLimitService) loadConfigs(ctx context.Context) error {
	if err := svc.repo.EnsureConfigs(ctx, defaultRateLimitConfigs); err != nil {
		return fmt.Errorf("failed to seed rate limit configs: %w", err)
	}

	rows, err := svc.repo.ListActiveConfigs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load rate limit configs: %w", err)
	}

	configs := make(map[string]model.RateLimitConfig, len(rows))
	for _, row := range rows {
		configs[row.EndpointType] = row
	}

	svc.mutex.Lock()
	svc.configs = configs
	svc.loaded = time.Now()
	svc.mutex.Unlock()
	return nil
}

func (svc *RateLimitService) config(ctx context.Context, endpointType string) (model.RateLimitConfig, bool) {
	svc.mutex.RLock()
	stale := svc.configs == nil || time.Since(svc.loaded) > rateLimitConfigRefreshRate
	svc.mutex.RUnlock()

	if stale {
		if err := svc.loadConfigs(ctx); err != nil {
			log.WithError(err).Warn("Using cached rate limit configs")
		}
	}

	svc.mutex.RLock()
	defer svc.mutex.RUnlock()
	cfg, ok := svc.configs[endpointType]
	return cfg, ok
}

// IsAllowed counts one request for identifier against the endpoint's window.
func (svc *RateLimitService) IsAllowed(ctx context.Context, identifier, endpointType string) (bool, *dto.RateLimitInfo, error) {
	cfg, ok := svc.config(ctx, endpointType)
	if !ok || !cfg.IsActive || svc.redis == nil || !svc.redis.Enabled() {
		return true, &dto.RateLimitInfo{Allowed: true, Remaining: -1}, nil
	}

	window := time.Duration(cfg.WindowSize) * time.Second
	key := fmt.Sprintf("ratelimit:%s:%s", endpointType, identifier)

	count, ttl, err := svc.redis.IncrWindow(ctx, key, window)
	if err != nil {
		return true, &dto.RateLimitInfo{Allowed: true, Remaining: -1}, err
	}

	reset := time.Now().Add(ttl)
	remaining := cfg.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return int(count) <= cfg.Limit, &dto.RateLimitInfo{
		Allowed:   int(count) <= cfg.Limit,
		Limit:     cfg.Limit,
		Remaining: remaining,
		ResetTime: &reset,
	}, nil
}
