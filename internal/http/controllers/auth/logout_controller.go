package auth

import (
	"net/http"

	"github.com/dropDatabas3/waggle/internal/auth"
	httperrors "github.com/dropDatabas3/waggle/internal/http/errors"
	"github.com/dropDatabas3/waggle/internal/http/helpers"
	"github.com/dropDatabas3/waggle/internal/observability/logger"
)

// LogoutController handles POST /auth/logout
type LogoutController struct {
	service Service
}

func NewLogoutController(service Service) *LogoutController {
	return &LogoutController{service: service}
}

// Logout revoca el refresh de la cookie y la borra en el browser.
func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	log := logger.From(r.Context()).With(logger.Layer("controller"), logger.Op("LogoutController.Logout"))

	refresh := helpers.Cookie(r, auth.RefreshCookieName)
	if err := c.service.Logout(r.Context(), refresh); err != nil {
		log.Debug("logout failed", logger.Err(err))
		httperrors.Write(w, r, err)
		return
	}

	http.SetCookie(w, c.service.DeletionCookie())
	helpers.NoContent(w)
}
