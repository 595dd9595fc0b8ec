package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/juju/errors"

	"github.com/diewo77/sms-api/httpx"
	"github.com/diewo77/sms-api/internal/logging"
)

// HeaderName carries the shared API key.
const HeaderName = "x-api-key"

// ErrInvalidKey is returned for a missing or wrong API key.
var ErrInvalidKey = errors.Unauthorizedf("invalid API key")

// KeyChecker validates the shared secret sent by clients.
type KeyChecker struct {
	key []byte
}

// NewKeyChecker returns a checker for key. An empty key rejects every request.
func NewKeyChecker(key string) *KeyChecker {
	return &KeyChecker{key: []byte(key)}
}

// Check compares the presented key against the configured one in constant time.
func (c *KeyChecker) Check(presented string) error {
	if len(c.key) == 0 || presented == "" {
		return ErrInvalidKey
	}
	if subtle.ConstantTimeCompare([]byte(presented), c.key) != 1 {
		return ErrInvalidKey
	}
	return nil
}

// RequireKey rejects requests without a valid x-api-key header with 401 JSON.
func (c *KeyChecker) RequireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := c.Check(r.Header.Get(HeaderName)); err != nil {
			logging.WithFields(map[string]any{
				"path":   r.URL.Path,
				"remote": r.RemoteAddr,
			}).Warn("rejected request with invalid API key")
			httpx.WriteError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
