// Package user contiene el controller del perfil del usuario autenticado.
package user

import (
	"net/http"
	"strings"

	dto "github.com/dropDatabas3/waggle/internal/http/dto/user"
	httperrors "github.com/dropDatabas3/waggle/internal/http/errors"
	"github.com/dropDatabas3/waggle/internal/http/helpers"
	mw "github.com/dropDatabas3/waggle/internal/http/middlewares"
	"github.com/dropDatabas3/waggle/internal/observability/logger"
	usersvc "github.com/dropDatabas3/waggle/internal/user"
)

// ProfileController handles GET/PUT/DELETE /user. Montar detrás de RequireUser.
type ProfileController struct {
	service        usersvc.ProfileService
	deletionCookie func() *http.Cookie
}

// NewProfileController; deletionCookie puede ser nil (no se limpia la cookie del refresh).
func NewProfileController(service usersvc.ProfileService, deletionCookie func() *http.Cookie) *ProfileController {
	return &ProfileController{service: service, deletionCookie: deletionCookie}
}

// Get devuelve el usuario que resolvió el middleware.
func (c *ProfileController) Get(w http.ResponseWriter, r *http.Request) {
	u := mw.MustGetUser(r.Context())
	helpers.WriteJSON(w, http.StatusOK, dto.From(u))
}

// Update reemplaza nombre y perfil completos.
func (c *ProfileController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	u := mw.MustGetUser(ctx)
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ProfileController.Update"))

	var req dto.UpdateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	updated, err := c.service.Update(ctx, u.ID, usersvc.UpdateProfileInput{
		Name:    strings.TrimSpace(req.Name),
		Profile: req.ToProfile(),
	})
	if err != nil {
		log.Debug("profile update rejected", logger.Err(err))
		httperrors.Write(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.From(updated))
}

// Delete borra la cuenta y revoca el refresh vigente.
func (c *ProfileController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	u := mw.MustGetUser(ctx)

	if err := c.service.Delete(ctx, u.ID); err != nil {
		httperrors.Write(w, r, err)
		return
	}
	if c.deletionCookie != nil {
		http.SetCookie(w, c.deletionCookie())
	}
	helpers.NoContent(w)
}
