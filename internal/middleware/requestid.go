package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/congo-pay/lemonway/lemonway"
)

const (
	requestIDHeader = "X-Request-ID"

	// LocalOperation is set by handlers to the DirectKit operation they ran.
	LocalOperation = "lemonway_operation"
)

// RequestID ensures each request has a stable request identifier for tracing
// and logging. The identifier is echoed back and stored in the user context
// so outbound DirectKit calls log it too.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := c.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(requestIDHeader, reqID)
		c.Locals(requestIDHeader, reqID)
		c.SetUserContext(lemonway.WithRequestID(c.UserContext(), reqID))

		return c.Next()
	}
}

// RequestIDFrom returns the identifier assigned by RequestID.
func RequestIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDHeader).(string)
	return id
}
