package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/golang-jwt/jwt/v5"
	"github.com/solomon244/Code-Academy/dto"
)

// JWTService verifies bearer tokens issued by the identity provider. Tokens carry
// the learner id in "sub" and an optional "email" claim.
type JWTService struct {
	appContext.DefaultService

	AccessTokenDuration time.Duration
	jwtSecretKey        string
	issuer              string
}

type CustomClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

const JWT_SVC = "jwt_svc"

func (svc JWTService) Id() string {
	return JWT_SVC
}

func (svc *JWTService) Configure(ctx *appContext.Context) error {
	svc.AccessTokenDuration = 24 * time.Hour
	svc.jwtSecretKey = getEnv("JWT_SECRET", "")
	svc.issuer = getEnv("JWT_ISSUER", "CodeAcademy")
	return svc.DefaultService.Configure(ctx)
}

func (svc *JWTService) Start() error {
	if svc.jwtSecretKey == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

// NewJWTService builds a verifier outside the service container.
func NewJWTService(secret, issuer string, ttl time.Duration) *JWTService {
	return &JWTService{
		AccessTokenDuration: ttl,
		jwtSecretKey:        secret,
		issuer:              issuer,
	}
}

func (svc *JWTService) VerifyJWTToken(jwtToken string) (*dto.Identity, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(jwtToken, claims, svc.getJWTKey,
		jwt.WithIssuer(svc.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, errors.New("token has no subject")
	}

	return &dto.Identity{UserID: subject, Email: claims.Email}, nil
}

func (svc *JWTService) getJWTKey(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return []byte(svc.jwtSecretKey), nil
}

func (svc *JWTService) GenerateTokenPair(userID, email string) (*dto.TokenPair, error) {
	accessToken, err := svc.ToJWT(userID, email)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPair{
		AccessToken: accessToken,
		ExpiresIn:   int64(svc.AccessTokenDuration.Seconds()),
	}, nil
}

func (svc *JWTService) ToJWT(userID, email string) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(svc.AccessTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    svc.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(svc.jwtSecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (svc *JWTService) ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("authorization header is missing")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errors.New("invalid authorization header format")
	}
	token := strings.TrimSpace(authHeader[len("Bearer "):])
	if token == "" {
		return "", errors.New("authorization token is empty")
	}
	return token, nil
}
