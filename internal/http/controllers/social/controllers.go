// Package social contiene los controllers del handshake OAuth2: start
// (redirect al proveedor) y callback (login completo + redirect al front).
package social

import (
	"context"
	"time"

	"github.com/dropDatabas3/waggle/internal/auth"
	"github.com/dropDatabas3/waggle/internal/cache"
	"github.com/dropDatabas3/waggle/internal/social/oauth"
)

// DefaultStateTTL es la vida del state entre start y callback.
const DefaultStateTTL = 10 * time.Minute

// Clients resuelve el cliente OAuth2 de un proveedor habilitado.
type Clients interface {
	Get(tag string) (*oauth.Client, error)
}

// LoginCompleter es la parte del orquestador que usa el callback.
type LoginCompleter interface {
	CompleteLogin(ctx context.Context, providerTag string, raw []byte) (*auth.LoginResult, error)
}

// Deps dependencias de los controllers social.
type Deps struct {
	Clients  Clients
	Sessions cache.Store
	Login    LoginCompleter
	StateTTL time.Duration

	// NewState genera el state. Default: 32 bytes base64url.
	NewState func() (string, error)
}

// Controllers agrupa start y callback.
type Controllers struct {
	Start    *StartController
	Callback *CallbackController
}

func NewControllers(d Deps) *Controllers {
	return &Controllers{
		Start:    NewStartController(d),
		Callback: NewCallbackController(d),
	}
}
