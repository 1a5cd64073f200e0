package middleware

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/solomon244/Code-Academy/dto"
	"github.com/solomon244/Code-Academy/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLimiter struct {
	mu     sync.Mutex
	limit  int
	counts map[string]int
	keys   []string
	err    error
}

func (l *countingLimiter) IsAllowed(ctx context.Context, identifier, endpointType string) (bool, *dto.RateLimitInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return true, &dto.RateLimitInfo{Allowed: true, Remaining: -1}, l.err
	}

	key := endpointType + ":" + identifier
	l.keys = append(l.keys, key)
	l.counts[key]++
	count := l.counts[key]

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	reset := time.Now().Add(30 * time.Second)
	return count <= l.limit, &dto.RateLimitInfo{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetTime: &reset,
	}, nil
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	limiter := &countingLimiter{limit: 2, counts: map[string]int{}}

	app := newTestApp()
	app.Post("/certificates", func(c *fiber.Ctx) error {
		c.Locals(shared.UserID, "learner-1")
		return c.Next()
	}, RateLimit(limiter, "certificate_issue"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/certificates", nil))
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
		assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
		assert.Equal(t, strconv.Itoa(1-i), resp.Header.Get("X-RateLimit-Remaining"))
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/certificates", nil))
	require.NoError(t, err)
	assert.Equal(t, 429, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))

	retry, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	require.NoError(t, err)
	assert.InDelta(t, 30, retry, 2)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"message":"Rate limit exceeded"`)
	assert.Equal(t, "certificate_issue:learner-1", limiter.keys[0])
}

func TestRateLimitUsesClientIPBeforeAuth(t *testing.T) {
	limiter := &countingLimiter{limit: 10, counts: map[string]int{}}

	app := newTestApp()
	app.Get("/courses", RateLimit(limiter, "api_general"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/courses", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	_, err := app.Test(req)
	require.NoError(t, err)

	req = httptest.NewRequest("GET", "/courses", nil)
	req.Header.Set("X-Real-IP", "198.51.100.2")
	_, err = app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, []string{"api_general:203.0.113.7", "api_general:198.51.100.2"}, limiter.keys)
}

func TestRateLimitFailsOpen(t *testing.T) {
	limiter := &countingLimiter{limit: 0, counts: map[string]int{}, err: errors.New("redis down")}

	app := newTestApp()
	app.Get("/courses", RateLimit(limiter, "api_general"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/courses", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("X-RateLimit-Limit"))
}
