package httpapi

import (
	"context"
	"net/http"
	"strings"
)

type contextKey int

const authKey contextKey = iota

// authInfo is what the middleware learns from a verified bearer token.
type authInfo struct {
	UserID  int64
	TokenID string
}

// requireAuth verifies the Authorization header and stashes the account and
// token IDs in the request context. Anything short of a live, unrevoked
// token gets 401 with the message the clients key off of.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			s.writeJSON(w, http.StatusUnauthorized, errorPayload{Message: "Unauthenticated."})
			return
		}

		userID, tokenID, err := s.users.Authenticate(r.Context(), token)
		if err != nil {
			s.writeError(r, w, err)
			return
		}

		ctx := context.WithValue(r.Context(), authKey, authInfo{UserID: userID, TokenID: tokenID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// authFromContext returns the identity placed by requireAuth. The zero
// value only escapes if a handler is reachable without the middleware,
// which the route table does not allow.
func authFromContext(ctx context.Context) authInfo {
	info, _ := ctx.Value(authKey).(authInfo)
	return info
}
