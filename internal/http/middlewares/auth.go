package middlewares

import (
	"context"
	"errors"
	"net/http"

	"github.com/dropDatabas3/waggle/internal/domain/repository"
	httperrors "github.com/dropDatabas3/waggle/internal/http/errors"
	"github.com/dropDatabas3/waggle/internal/observability/logger"
	"github.com/dropDatabas3/waggle/internal/user"
)

// CurrentUserResolver resuelve el header Authorization a un usuario.
type CurrentUserResolver interface {
	ResolveCurrentUser(ctx context.Context, authHeader string) (*repository.User, error)
}

// RequireUser valida Authorization: Bearer <JWT>, carga el usuario y lo deja
// en el contexto. Token inválido => 401; falla del repositorio => 5xx.
func RequireUser(res CurrentUserResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := res.ResolveCurrentUser(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				if errors.Is(err, user.ErrInvalidAccessToken) {
					w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				}
				httperrors.Write(w, r, err)
				return
			}

			ctx := WithUser(r.Context(), u)
			ctx = logger.With(ctx, logger.UserID(u.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
