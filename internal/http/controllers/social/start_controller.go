package social

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/waggle/internal/cache"
	httperrors "github.com/dropDatabas3/waggle/internal/http/errors"
	"github.com/dropDatabas3/waggle/internal/observability/logger"
	tokens "github.com/dropDatabas3/waggle/internal/security/token"
)

// StartController handles GET /oauth2/authorization/{provider}
type StartController struct {
	clients  Clients
	sessions cache.Store
	ttl      time.Duration
	newState func() (string, error)
}

func NewStartController(d Deps) *StartController {
	c := &StartController{
		clients:  d.Clients,
		sessions: d.Sessions,
		ttl:      d.StateTTL,
		newState: d.NewState,
	}
	if c.ttl <= 0 {
		c.ttl = DefaultStateTTL
	}
	if c.newState == nil {
		c.newState = tokens.NewHandle
	}
	return c
}

// Start guarda state:{h} -> provider y redirige al consentimiento del proveedor.
func (c *StartController) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider := chi.URLParam(r, "provider")
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("StartController.Start"),
		logger.Provider(provider),
	)

	client, err := c.clients.Get(provider)
	if err != nil {
		log.Debug("provider rejected", logger.Err(err))
		httperrors.Write(w, r, err)
		return
	}

	state, err := c.newState()
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	if err := c.sessions.Put(ctx, cache.StateKey(state), string(client.Provider()), c.ttl); err != nil {
		log.Warn("state not stored", logger.Err(err))
		httperrors.Write(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, client.AuthCodeURL(state), http.StatusFound)
}
