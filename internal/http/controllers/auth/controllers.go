// Package auth contiene los controllers de token: canje del temporary token,
// reissue del access token y logout.
package auth

import (
	"context"
	"net/http"
)

// Service es la parte del orquestador de sesión que usan estos controllers.
type Service interface {
	ExchangeTemporaryToken(ctx context.Context, handle string) (string, error)
	ReissueAccessToken(ctx context.Context, refresh string) (string, error)
	Logout(ctx context.Context, refresh string) error
	DeletionCookie() *http.Cookie
}

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Token   *TokenController
	Reissue *ReissueController
	Logout  *LogoutController
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(s Service) *Controllers {
	return &Controllers{
		Token:   NewTokenController(s),
		Reissue: NewReissueController(s),
		Logout:  NewLogoutController(s),
	}
}
