package repository

import (
	"context"
	"time"
)

// Project es un aviso de búsqueda de colaboradores.
type Project struct {
	ID        string
	OwnerID   string
	Title     string
	Detail    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApplicationStatus estado de una postulación.
type ApplicationStatus string

const (
	StatusApplied  ApplicationStatus = "applied"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

// Applicant es un usuario postulado con su estado.
type Applicant struct {
	User      User
	Status    ApplicationStatus
	AppliedAt time.Time
}

// CreateProjectInput datos de alta.
type CreateProjectInput struct {
	ID      string
	OwnerID string
	Title   string
	Detail  string
}

// ProjectRepository persiste proyectos y postulaciones.
type ProjectRepository interface {
	Create(ctx context.Context, in CreateProjectInput) (*Project, error)
	Get(ctx context.Context, id string) (*Project, error)
	// List devuelve los más nuevos primero.
	List(ctx context.Context, limit, offset int) ([]Project, error)
	Delete(ctx context.Context, id string) error

	// Apply crea la postulación en estado applied; ErrConflict si ya existe.
	Apply(ctx context.Context, projectID, userID string) error
	// CancelApply borra la postulación; ErrNotFound si no existe.
	CancelApply(ctx context.Context, projectID, userID string) error
	// SetStatus cambia el estado; ErrNotFound si no hay postulación.
	SetStatus(ctx context.Context, projectID, userID string, status ApplicationStatus) error
	Applicants(ctx context.Context, projectID string) ([]Applicant, error)
	AppliedProjects(ctx context.Context, userID string) ([]Project, error)
}
