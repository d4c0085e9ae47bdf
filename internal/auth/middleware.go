package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey struct{}

const (
	MsgNoToken     = "Not authorized, no token"
	MsgTokenFailed = "Not authorized, token failed"
)

// Verifier is satisfied by *TokenManager.
type Verifier interface {
	Verify(token string) (string, error)
}

// ErrorWriter renders a 401 with the given message.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, message string)

// Middleware rejects requests without a valid bearer token and stores the
// authenticated user ID in the request context.
func Middleware(v Verifier, onError ErrorWriter) func(http.Handler) http.Handler {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, message string) {
			http.Error(w, message, http.StatusUnauthorized)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				onError(w, r, MsgNoToken)
				return
			}
			userID, err := v.Verify(token)
			if err != nil {
				onError(w, r, MsgTokenFailed)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
