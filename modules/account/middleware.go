package account

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/handler"
	"github.com/dmitrymomot/authkit/pkg/jwt"
)

type principalKey struct{}

// requireAuth verifies the bearer token and stores the principal ID in the
// request context. Every rejection answers the same 401.
func (u *Users) requireAuth(next http.Handler) http.Handler {
	resolve := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, _ := jwt.GetSubject(r.Context())
		id, err := uuid.Parse(subject)
		if err != nil {
			unauthorized(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, id)))
	})

	return jwt.MiddlewareWithConfig(jwt.MiddlewareConfig{
		Service:   u.tokens,
		Extractor: jwt.BearerTokenExtractor,
		OnError:   unauthorized,
	})(resolve)
}

func unauthorized(w http.ResponseWriter, r *http.Request, _ error) {
	_ = handler.JSONError(errNotAuthorized).Render(w, r)
}

func principalID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(principalKey{}).(uuid.UUID)
	return id
}
