package middleware

import (
	"encoding/hex"
	"net/http"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/blake2b"
)

const clientFingerprintKey = "client_fingerprint"

// ClientToken requires "Authorization: Bearer <token>" whose bcrypt hash is
// tokenHash. An empty tokenHash disables the check. Tokens that verified
// once are remembered by digest so bcrypt runs once per distinct token.
func ClientToken(tokenHash string) fiber.Handler {
	hash := []byte(strings.TrimSpace(tokenHash))
	var verified sync.Map

	return func(c *fiber.Ctx) error {
		if len(hash) == 0 {
			return c.Next()
		}

		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		token := strings.TrimSpace(authz[len("Bearer "):])
		if token == "" {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}

		sum := blake2b.Sum256([]byte(token))
		fingerprint := hex.EncodeToString(sum[:8])
		if _, ok := verified.Load(sum); !ok {
			if err := bcrypt.CompareHashAndPassword(hash, []byte(token)); err != nil {
				return fiber.NewError(http.StatusUnauthorized, "invalid token")
			}
			verified.Store(sum, struct{}{})
		}

		c.Locals(clientFingerprintKey, fingerprint)
		return c.Next()
	}
}
