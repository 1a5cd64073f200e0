package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/solomon244/Code-Academy/dto"
	"github.com/solomon244/Code-Academy/shared"
)

type TokenVerifier interface {
	ExtractTokenFromHeader(authHeader string) (string, error)
	VerifyJWTToken(token string) (*dto.Identity, error)
}

// RequiredAuth rejects requests without a valid bearer token and stores the
// caller's identity in the request locals.
func RequiredAuth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := verifier.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return shared.NewUnauthorizedError(err, "Unauthorized")
		}

		identity, err := verifier.VerifyJWTToken(token)
		if err != nil {
			return shared.NewUnauthorizedError(err, "Invalid JWT token")
		}
		if identity == nil || identity.UserID == "" {
			return shared.NewUnauthorizedError(nil, "Invalid user ID in token")
		}

		c.Locals(shared.UserID, identity.UserID)
		c.Locals(shared.UserEmail, identity.Email)
		return c.Next()
	}
}
