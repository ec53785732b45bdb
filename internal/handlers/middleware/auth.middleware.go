package middleware

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"trackforge/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthContextKey is used to store auth info in context
type AuthContextKey string

const (
	CallerKey      AuthContextKey = "caller"
	CallerKeyFiber string         = "Caller" // Fiber context key (string)
)

// RequireAuth validates a Bearer HS256 token signed with AUTH_SECRET and
// stores the resulting Caller in the request context. Claims: "sub" carries
// the artist id, "admin" the admin flag.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.UserContext()).Function("RequireAuth")

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			log.Info("missing authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			log.Info("invalid authorization header format")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		caller, err := m.parseCaller(tokenParts[1])
		if err != nil {
			log.Info("token validation failed", "error", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals(CallerKeyFiber, caller)

		// Preserve the trace ID set by the TraceID middleware
		ctx := context.WithValue(c.UserContext(), CallerKey, caller)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

func (m *Middleware) parseCaller(tokenString string) (*models.Caller, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.Config.AuthSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	var callerID int64
	switch sub := claims["sub"].(type) {
	case string:
		callerID, err = strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid sub claim: %w", err)
		}
	case float64:
		callerID = int64(sub)
	default:
		return nil, fmt.Errorf("missing sub claim")
	}

	isAdmin, _ := claims["admin"].(bool)

	return &models.Caller{ID: callerID, IsAdmin: isAdmin}, nil
}

// GetCaller extracts the authenticated caller from Fiber context
func GetCaller(c *fiber.Ctx) *models.Caller {
	caller, ok := c.Locals(CallerKeyFiber).(*models.Caller)
	if !ok {
		return nil
	}
	return caller
}
