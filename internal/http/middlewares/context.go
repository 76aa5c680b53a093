package middlewares

import (
	"context"

	"github.com/dropDatabas3/waggle/internal/domain/repository"
)

type ctxKey string

const (
	ctxUserKey      ctxKey = "user"
	ctxRequestIDKey ctxKey = "request_id"
)

// WithUser inyecta el usuario autenticado en el contexto.
func WithUser(ctx context.Context, u *repository.User) context.Context {
	return context.WithValue(ctx, ctxUserKey, u)
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetUser devuelve el usuario que dejó RequireUser, o nil.
func GetUser(ctx context.Context) *repository.User {
	if u, ok := ctx.Value(ctxUserKey).(*repository.User); ok {
		return u
	}
	return nil
}

// MustGetUser hace panic si no hay usuario.
// Usar solo en rutas montadas detrás de RequireUser.
func MustGetUser(ctx context.Context) *repository.User {
	u := GetUser(ctx)
	if u == nil {
		panic("middlewares: no user in context")
	}
	return u
}

// GetRequestID obtiene el request ID del contexto.
func GetRequestID(ctx context.Context) string {
	if s, ok := ctx.Value(ctxRequestIDKey).(string); ok {
		return s
	}
	return ""
}
