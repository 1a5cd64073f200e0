package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

var ErrRedisDisabled = errors.New("redis client not initialized")

// RedisService backs the catalog cache and rate limit counters. REDIS_DISABLED=true
// turns it off; callers treat a disabled cache as a miss.
type RedisService struct {
	appContext.DefaultService
	redis *redis.Client
}

const REDIS_SVC = "redis_svc"

func (svc RedisService) Id() string {
	return REDIS_SVC
}

func (svc *RedisService) Configure(ctx *appContext.Context) error {
	svc.initRedisClient()
	return svc.DefaultService.Configure(ctx)
}

func (svc *RedisService) Start() error {
	if svc.redis == nil {
		log.Info("Redis not configured, cache and rate limiting disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := svc.redis.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

func (svc *RedisService) Shutdown() {
	if svc.redis != nil {
		_ = svc.redis.Close()
	}
}

func (svc *RedisService) initRedisClient() {
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	if redisAddr == "" || getEnv("REDIS_DISABLED", "false") == "true" {
		return
	}

	redisDB := 0
	if db, err := strconv.Atoi(getEnv("REDIS_DB", "0")); err == nil {
		redisDB = db
	}

	svc.redis = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	})
}

// NewRedisServiceFromClient wraps an existing client, used by tests.
func NewRedisServiceFromClient(client *redis.Client) *RedisService {
	return &RedisService{redis: client}
}

func (svc *RedisService) Enabled() bool {
	return svc.redis != nil
}

func (svc *RedisService) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if svc.redis == nil {
		return ErrRedisDisabled
	}

	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return svc.redis.Set(ctx, key, data, expiration).Err()
}

// GetJSON decodes the cached value into dest and reports whether the key existed.
func (svc *RedisService) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if svc.redis == nil {
		return false, ErrRedisDisabled
	}

	result, err := svc.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := sonic.Unmarshal(result, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (svc *RedisService) Delete(ctx context.Context, keys ...string) error {
	if svc.redis == nil {
		return ErrRedisDisabled
	}
	return svc.redis.Del(ctx, keys...).Err()
}

// IncrWindow increments a fixed-window counter, setting its expiry on first use,
// and returns the new count and remaining TTL.
func (svc *RedisService) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if svc.redis == nil {
		return 0, 0, ErrRedisDisabled
	}

	pipe := svc.redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	ttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}

	remaining := ttl.Val()
	if remaining < 0 {
		remaining = window
	}
	return incr.Val(), remaining, nil
}
