// Package project contiene los DTOs de proyectos y postulaciones.
package project

import (
	"time"

	"github.com/dropDatabas3/waggle/internal/domain/repository"
	userdto "github.com/dropDatabas3/waggle/internal/http/dto/user"
)

// CreateRequest body de POST /project.
type CreateRequest struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type Response struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Title     string    `json:"title"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ApplicantResponse usuario postulado con su estado.
type ApplicantResponse struct {
	User      userdto.Response `json:"user"`
	Status    string           `json:"status"`
	AppliedAt time.Time        `json:"appliedAt"`
}

func From(p *repository.Project) Response {
	return Response{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Title:     p.Title,
		Detail:    p.Detail,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func FromList(ps []repository.Project) []Response {
	out := make([]Response, 0, len(ps))
	for i := range ps {
		out = append(out, From(&ps[i]))
	}
	return out
}

func FromApplicants(as []repository.Applicant) []ApplicantResponse {
	out := make([]ApplicantResponse, 0, len(as))
	for i := range as {
		out = append(out, ApplicantResponse{
			User:      userdto.From(&as[i].User),
			Status:    string(as[i].Status),
			AppliedAt: as[i].AppliedAt,
		})
	}
	return out
}
