package auth

import (
	"net/http"

	"github.com/dropDatabas3/waggle/internal/auth"
	dto "github.com/dropDatabas3/waggle/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/waggle/internal/http/errors"
	"github.com/dropDatabas3/waggle/internal/http/helpers"
	"github.com/dropDatabas3/waggle/internal/observability/logger"
)

// ReissueController handles POST /auth/reissue
type ReissueController struct {
	service Service
}

func NewReissueController(service Service) *ReissueController {
	return &ReissueController{service: service}
}

// Reissue emite un access token nuevo a partir de la cookie refresh_token.
// El refresh no rota.
func (c *ReissueController) Reissue(w http.ResponseWriter, r *http.Request) {
	log := logger.From(r.Context()).With(logger.Layer("controller"), logger.Op("ReissueController.Reissue"))

	refresh := helpers.Cookie(r, auth.RefreshCookieName)
	access, err := c.service.ReissueAccessToken(r.Context(), refresh)
	if err != nil {
		log.Debug("reissue failed", logger.Err(err))
		httperrors.Write(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.TokenResponse{AccessToken: access})
}
