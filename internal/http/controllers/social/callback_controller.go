package social

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/waggle/internal/cache"
	httperrors "github.com/dropDatabas3/waggle/internal/http/errors"
	"github.com/dropDatabas3/waggle/internal/observability/logger"
)

// CallbackController handles GET /login/oauth2/code/{provider}
type CallbackController struct {
	clients  Clients
	sessions cache.Store
	login    LoginCompleter
}

func NewCallbackController(d Deps) *CallbackController {
	return &CallbackController{clients: d.Clients, sessions: d.Sessions, login: d.Login}
}

// Callback consume el state (single-use), canjea el code, completa el login,
// setea la cookie del refresh y redirige al front con el temporary token.
func (c *CallbackController) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider := chi.URLParam(r, "provider")
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("CallbackController.Callback"),
		logger.Provider(provider),
	)

	client, err := c.clients.Get(provider)
	if err != nil {
		log.Debug("provider rejected", logger.Err(err))
		httperrors.Write(w, r, err)
		return
	}

	q := r.URL.Query()
	if idpError := strings.TrimSpace(q.Get("error")); idpError != "" {
		log.Warn("IDP error", logger.String("error", idpError))
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("idp_error: "+idpError))
		return
	}

	state := strings.TrimSpace(q.Get("state"))
	code := strings.TrimSpace(q.Get("code"))
	if state == "" {
		httperrors.WriteError(w, httperrors.ErrInvalidState.WithDetail("state required"))
		return
	}
	if code == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("code required"))
		return
	}

	stored, err := c.sessions.GetAndDelete(ctx, cache.StateKey(state))
	switch {
	case errors.Is(err, cache.ErrNotFound):
		log.Warn("unknown or replayed state")
		httperrors.WriteError(w, httperrors.ErrInvalidState)
		return
	case err != nil:
		httperrors.Write(w, r, err)
		return
	}
	if stored != string(client.Provider()) {
		log.Warn("state issued for another provider", logger.String("state_provider", stored))
		httperrors.WriteError(w, httperrors.ErrInvalidState.WithDetail("provider mismatch"))
		return
	}

	raw, err := client.FetchUserInfo(ctx, code)
	if err != nil {
		log.Warn("user-info fetch failed", logger.Err(err))
		httperrors.Write(w, r, err)
		return
	}

	res, err := c.login.CompleteLogin(ctx, provider, raw)
	if err != nil {
		log.Warn("login failed", logger.Err(err))
		httperrors.Write(w, r, err)
		return
	}

	http.SetCookie(w, res.RefreshCookie)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	http.Redirect(w, r, res.RedirectURL, http.StatusFound)
}
