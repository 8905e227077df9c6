package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"gameboxd/internal/ttlcache"
)

// sessionTable maps opaque bearer tokens to user IDs. Sessions expire with
// the configured TTL and are never refreshed; a client re-authenticates when
// its token lapses.
type sessionTable struct {
	tokens *ttlcache.Cache[int64]
}

func newSessionTable(ttl time.Duration) *sessionTable {
	return &sessionTable{tokens: ttlcache.New[int64](ttl)}
}

func (t *sessionTable) create(userID int64) string {
	token := uuid.NewString()
	t.tokens.Put(token, userID)
	return token
}

func (t *sessionTable) resolve(token string) (int64, bool) {
	return t.tokens.Get(token)
}

func (t *sessionTable) revoke(token string) {
	t.tokens.Delete(token)
}

// requireAuth wraps a handler, resolving the bearer token into a user ID
// before invoking it.
func (s *Server) requireAuth(next func(http.ResponseWriter, *http.Request, int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			s.writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		userID, ok := s.sessions.resolve(strings.TrimSpace(token))
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}
		next(w, r, userID)
	}
}
