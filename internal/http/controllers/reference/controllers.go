// Package reference expone los catálogos (jobs, skills, week-days, ...).
package reference

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/waggle/internal/domain/repository"
	dto "github.com/dropDatabas3/waggle/internal/http/dto/reference"
	httperrors "github.com/dropDatabas3/waggle/internal/http/errors"
	"github.com/dropDatabas3/waggle/internal/http/helpers"
	refsvc "github.com/dropDatabas3/waggle/internal/reference"
)

// ReferenceController handles GET /reference/{kind}[/{id}]
type ReferenceController struct {
	service refsvc.Service
}

func NewReferenceController(service refsvc.Service) *ReferenceController {
	return &ReferenceController{service: service}
}

func (c *ReferenceController) List(w http.ResponseWriter, r *http.Request) {
	kind := repository.ReferenceKind(chi.URLParam(r, "kind"))
	items, err := c.service.List(r.Context(), kind)
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	helpers.WriteJSON(w, http.StatusOK, dto.FromItems(items))
}

func (c *ReferenceController) Get(w http.ResponseWriter, r *http.Request) {
	kind := repository.ReferenceKind(chi.URLParam(r, "kind"))
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("id must be a positive integer"))
		return
	}
	item, err := c.service.Get(r.Context(), kind, id)
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.Item{ID: item.ID, Name: item.Name, FullName: item.FullName})
}
