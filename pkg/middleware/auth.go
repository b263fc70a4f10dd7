// Package middleware holds fiber middleware shared by the HTTP handlers.
package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amirasaad/fintrack/pkg/config"
	"github.com/amirasaad/fintrack/pkg/domain"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserContextKey is the fiber Locals key holding the verified *jwt.Token.
const UserContextKey = "user"

// JwtProtected verifies HS256 bearer tokens signed with cfg.Secret. Token
// issuance belongs to the external auth service.
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	secret := ""
	if cfg != nil {
		secret = cfg.Secret
	}
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(secret)},
		ContextKey:   UserContextKey,
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	status := fiber.StatusUnauthorized
	title := "Invalid or expired JWT"
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) ||
		strings.EqualFold(err.Error(), jwtware.ErrJWTMissingOrMalformed.Error()) {
		status = fiber.StatusBadRequest
		title = "Missing or malformed JWT"
	}
	return c.Status(status).JSON(fiber.Map{
		"type":     "about:blank",
		"title":    title,
		"status":   status,
		"instance": c.OriginalURL(),
	}, "application/problem+json")
}

// OwnerID returns the ledger owner named by the verified token: the "sub"
// claim, or "user_id" for tokens minted by older issuers.
func OwnerID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals(UserContextKey).(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, fmt.Errorf("%w: missing user context", domain.ErrUnauthorized)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: unexpected claims type", domain.ErrUnauthorized)
	}
	subject, _ := claims.GetSubject()
	if subject == "" {
		subject, _ = claims["user_id"].(string)
	}
	owner, err := uuid.Parse(subject)
	if err != nil || owner == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: token subject is not a valid owner id", domain.ErrUnauthorized)
	}
	return owner, nil
}
