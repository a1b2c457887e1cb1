package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Identity headers set by the authenticating reverse proxy. The service
// never verifies credentials itself; it only decides whether the already
// authenticated identity may mutate the ledger.
const (
	headerAuthEmail         = "X-Auth-Email"
	headerAuthEmailVerified = "X-Auth-Email-Verified"
)

// AccessGate returns a middleware that rejects every request whose
// verified e-mail is not on the allow-list. A missing or unverified
// e-mail is treated as denial.
func AccessGate(allowedEmails []string) fiber.Handler {
	allowed := make(map[string]struct{}, len(allowedEmails))
	for _, email := range allowedEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			allowed[email] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		email := strings.ToLower(strings.TrimSpace(c.Get(headerAuthEmail)))
		verified := c.Get(headerAuthEmailVerified) == "true"

		if email == "" || !verified {
			return writeError(c, status.Error(codes.PermissionDenied, "Access denied"))
		}
		if _, ok := allowed[email]; !ok {
			logrus.WithField("email", email).Warn("rejected caller not on allow-list")
			return writeError(c, status.Error(codes.PermissionDenied, "Access denied"))
		}

		c.Locals("caller_email", email)
		return c.Next()
	}
}
