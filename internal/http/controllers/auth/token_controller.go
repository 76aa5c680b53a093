package auth

import (
	"net/http"
	"strings"

	dto "github.com/dropDatabas3/waggle/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/waggle/internal/http/errors"
	"github.com/dropDatabas3/waggle/internal/http/helpers"
	"github.com/dropDatabas3/waggle/internal/observability/logger"
)

// TokenController handles POST /auth/token
type TokenController struct {
	service Service
}

func NewTokenController(service Service) *TokenController {
	return &TokenController{service: service}
}

// Token canjea el temporary token (single-use) por un access token.
func (c *TokenController) Token(w http.ResponseWriter, r *http.Request) {
	log := logger.From(r.Context()).With(logger.Layer("controller"), logger.Op("TokenController.Token"))

	var req dto.TokenRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	access, err := c.service.ExchangeTemporaryToken(r.Context(), strings.TrimSpace(req.TemporaryToken))
	if err != nil {
		log.Debug("temporary token exchange failed", logger.Err(err))
		httperrors.Write(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.TokenResponse{AccessToken: access})
}
