package middleware

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"github.com/solomon244/Code-Academy/dto"
	"github.com/solomon244/Code-Academy/shared"
)

type RateLimiter interface {
	IsAllowed(ctx context.Context, identifier, endpointType string) (bool, *dto.RateLimitInfo, error)
}

// RateLimit counts requests per learner, or per client IP before authentication.
// Limiter errors let the request through.
func RateLimit(limiter RateLimiter, endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier, _ := c.Locals(shared.UserID).(string)
		if identifier == "" {
			identifier = clientIP(c)
		}

		allowed, info, err := limiter.IsAllowed(c.UserContext(), identifier, endpointType)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"identifier":    identifier,
				"endpoint_type": endpointType,
			}).Warn("Rate limit check failed")
			return c.Next()
		}

		if info != nil && info.Remaining >= 0 {
			c.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			if info.ResetTime != nil {
				c.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
			}
		}

		if !allowed {
			if info != nil && info.ResetTime != nil {
				retry := int64(math.Ceil(time.Until(*info.ResetTime).Seconds()))
				if retry < 1 {
					retry = 1
				}
				c.Set(fiber.HeaderRetryAfter, strconv.FormatInt(retry, 10))
			}
			return shared.NewTooManyRequestsError("Rate limit exceeded", info)
		}
		return c.Next()
	}
}

func clientIP(c *fiber.Ctx) string {
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(ips[0]); ip != "" {
			return ip
		}
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}
