package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mediatube/backend/internal/auth"
	"github.com/mediatube/backend/internal/logging"
)

type actorKey struct{}

// AccessTokenParser validates an access token and returns its claims.
type AccessTokenParser interface {
	ParseAccess(token string) (auth.Claims, error)
}

// WithActor stores the authenticated actor identifier on the context.
func WithActor(ctx context.Context, actorID string) context.Context {
	if actorID == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, actorID)
}

// ActorID returns the authenticated actor identifier, or empty when the
// request carried no valid credentials.
func ActorID(ctx context.Context) string {
	if actorID, ok := ctx.Value(actorKey{}).(string); ok {
		return actorID
	}
	return ""
}

// Authenticate resolves the Bearer access token into an actor identity.
// When required is false the request proceeds anonymously on a missing or
// invalid token; when true it is rejected with 401.
func Authenticate(parser AccessTokenParser, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := bearerToken(r)
			if token == "" {
				if required {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			claims, err := parser.ParseAccess(token)
			if err != nil {
				logging.FromContext(ctx).Warn("access token rejected", "error", err)
				if required {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(ctx, claims.Subject)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
