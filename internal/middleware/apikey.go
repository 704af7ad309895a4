package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	apiKeyHeader = "X-API-Key"
	localClient  = "api_client"
)

// APIKey admits requests whose X-API-Key (or bearer token) matches the
// bcrypt hash. An empty hash disables the check. Accepted keys are
// remembered by digest so bcrypt runs once per key.
func APIKey(hash string) fiber.Handler {
	if hash == "" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	var accepted sync.Map
	return func(c *fiber.Ctx) error {
		key := c.Get(apiKeyHeader)
		if key == "" {
			authz := c.Get(fiber.HeaderAuthorization)
			if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				key = strings.TrimSpace(authz[len("Bearer "):])
			}
		}
		if key == "" {
			return fiber.NewError(http.StatusUnauthorized, "missing api key")
		}

		sum := sha256.Sum256([]byte(key))
		digest := hex.EncodeToString(sum[:])
		if _, ok := accepted.Load(digest); !ok {
			if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
				return fiber.NewError(http.StatusUnauthorized, "invalid api key")
			}
			accepted.Store(digest, struct{}{})
		}

		c.Locals(localClient, digest[:12])
		return c.Next()
	}
}

// ClientFrom returns the short key digest APIKey stored, or the caller IP.
func ClientFrom(c *fiber.Ctx) string {
	if id, ok := c.Locals(localClient).(string); ok {
		return id
	}
	return c.IP()
}
