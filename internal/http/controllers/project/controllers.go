// Package project contiene los controllers de proyectos y postulaciones.
package project

import (
	"context"
	"net/http"
	"strings"

	"github.com/dropDatabas3/waggle/internal/domain/repository"
	dto "github.com/dropDatabas3/waggle/internal/http/dto/project"
	httperrors "github.com/dropDatabas3/waggle/internal/http/errors"
	"github.com/dropDatabas3/waggle/internal/http/helpers"
	mw "github.com/dropDatabas3/waggle/internal/http/middlewares"
	"github.com/dropDatabas3/waggle/internal/observability/logger"
	projectsvc "github.com/dropDatabas3/waggle/internal/project"
)

// ProjectController handles /project y /project/apply.
type ProjectController struct {
	service projectsvc.Service
}

func NewProjectController(service projectsvc.Service) *ProjectController {
	return &ProjectController{service: service}
}

// Create POST /project (bearer)
func (c *ProjectController) Create(w http.ResponseWriter, r *http.Request) {
	u := mw.MustGetUser(r.Context())

	var req dto.CreateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	p, err := c.service.Create(r.Context(), u.ID, projectsvc.CreateInput{
		Title:  strings.TrimSpace(req.Title),
		Detail: req.Detail,
	})
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	w.Header().Set("Location", "/project/"+p.ID)
	helpers.WriteJSON(w, http.StatusCreated, dto.From(p))
}

// List GET /project?limit=&offset=
func (c *ProjectController) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := helpers.QueryInt(w, r, "limit", projectsvc.DefaultPageSize)
	if !ok {
		return
	}
	offset, ok := helpers.QueryInt(w, r, "offset", 0)
	if !ok {
		return
	}
	ps, err := c.service.List(r.Context(), limit, offset)
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromList(ps))
}

// Get GET /project/{projectId}
func (c *ProjectController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.UUIDParam(w, r, "projectId")
	if !ok {
		return
	}
	p, err := c.service.Get(r.Context(), id)
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.From(p))
}

// Delete DELETE /project/{projectId} (bearer, sólo el dueño)
func (c *ProjectController) Delete(w http.ResponseWriter, r *http.Request) {
	u := mw.MustGetUser(r.Context())
	id, ok := helpers.UUIDParam(w, r, "projectId")
	if !ok {
		return
	}
	if err := c.service.Delete(r.Context(), id, u.ID); err != nil {
		httperrors.Write(w, r, err)
		return
	}
	helpers.NoContent(w)
}

// Applicants GET /project/apply/{projectId}
func (c *ProjectController) Applicants(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.UUIDParam(w, r, "projectId")
	if !ok {
		return
	}
	as, err := c.service.Applicants(r.Context(), id)
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromApplicants(as))
}

// Apply POST /project/apply/{projectId} (bearer)
func (c *ProjectController) Apply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	u := mw.MustGetUser(ctx)
	id, ok := helpers.UUIDParam(w, r, "projectId")
	if !ok {
		return
	}
	if err := c.service.Apply(ctx, id, u.ID); err != nil {
		logger.From(ctx).Debug("apply rejected", logger.ProjectID(id), logger.Err(err))
		httperrors.Write(w, r, err)
		return
	}
	helpers.NoContent(w)
}

// CancelApply DELETE /project/apply/{projectId} (bearer)
func (c *ProjectController) CancelApply(w http.ResponseWriter, r *http.Request) {
	u := mw.MustGetUser(r.Context())
	id, ok := helpers.UUIDParam(w, r, "projectId")
	if !ok {
		return
	}
	if err := c.service.CancelApply(r.Context(), id, u.ID); err != nil {
		httperrors.Write(w, r, err)
		return
	}
	helpers.NoContent(w)
}

// Approve PUT /project/apply/{projectId}/approve/{userId} (bearer, sólo el dueño)
func (c *ProjectController) Approve(w http.ResponseWriter, r *http.Request) {
	c.decide(w, r, c.service.Approve)
}

// Reject PUT /project/apply/{projectId}/reject/{userId} (bearer, sólo el dueño)
func (c *ProjectController) Reject(w http.ResponseWriter, r *http.Request) {
	c.decide(w, r, c.service.Reject)
}

// AppliedProjects GET /project/apply/who/me (bearer)
func (c *ProjectController) AppliedProjects(w http.ResponseWriter, r *http.Request) {
	u := mw.MustGetUser(r.Context())
	ps, err := c.service.AppliedProjects(r.Context(), u.ID)
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromList(ps))
}

type decision func(ctx context.Context, projectID, actorID, userID string) ([]repository.Applicant, error)

func (c *ProjectController) decide(w http.ResponseWriter, r *http.Request, fn decision) {
	actor := mw.MustGetUser(r.Context())
	projectID, ok := helpers.UUIDParam(w, r, "projectId")
	if !ok {
		return
	}
	userID, ok := helpers.UUIDParam(w, r, "userId")
	if !ok {
		return
	}
	as, err := fn(r.Context(), projectID, actor.ID, userID)
	if err != nil {
		httperrors.Write(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromApplicants(as))
}
