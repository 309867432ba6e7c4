package server

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
)

// requireAuth validates a Bearer JWT signed with the configured secret.
// The health endpoint stays open for container probes.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	if c.Path() == "/health" {
		return c.Next()
	}

	header := c.Get(fiber.HeaderAuthorization)
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == "" || tokenString == header {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.AuthSecret), nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	return c.Next()
}

// rateLimit enforces the per-client request budget keyed by client IP.
func (s *Server) rateLimit(c *fiber.Ctx) error {
	if c.Path() == "/health" {
		return c.Next()
	}
	if !s.limiter.Allow(c.IP()) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
	}
	return c.Next()
}
