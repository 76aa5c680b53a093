// Package project maneja proyectos y postulaciones.
package project

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dropDatabas3/waggle/internal/domain/repository"
	"github.com/dropDatabas3/waggle/internal/observability/logger"
)

var (
	ErrNotFound       = errors.New("project not found")
	ErrForbidden      = errors.New("only the project owner can do this")
	ErrSelfApply      = errors.New("owner cannot apply to own project")
	ErrAlreadyApplied = errors.New("already applied")
	ErrNotApplied     = errors.New("application not found")
	ErrInvalidInput   = errors.New("invalid project input")
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// CreateInput datos de alta.
type CreateInput struct {
	Title  string
	Detail string
}

// Service operaciones de proyectos.
type Service interface {
	Create(ctx context.Context, ownerID string, in CreateInput) (*repository.Project, error)
	Get(ctx context.Context, id string) (*repository.Project, error)
	List(ctx context.Context, limit, offset int) ([]repository.Project, error)
	Delete(ctx context.Context, id, actorID string) error

	Apply(ctx context.Context, projectID, userID string) error
	CancelApply(ctx context.Context, projectID, userID string) error
	Applicants(ctx context.Context, projectID string) ([]repository.Applicant, error)
	Approve(ctx context.Context, projectID, actorID, userID string) ([]repository.Applicant, error)
	Reject(ctx context.Context, projectID, actorID, userID string) ([]repository.Applicant, error)
	AppliedProjects(ctx context.Context, userID string) ([]repository.Project, error)
}

// Deps dependencias del servicio.
type Deps struct {
	Projects repository.ProjectRepository
}

type service struct {
	repo  repository.ProjectRepository
	newID func() string
}

// NewService crea el servicio.
func NewService(d Deps) Service {
	return &service{repo: d.Projects, newID: uuid.NewString}
}

func (s *service) Create(ctx context.Context, ownerID string, in CreateInput) (*repository.Project, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	p, err := s.repo.Create(ctx, repository.CreateProjectInput{
		ID:      s.newID(),
		OwnerID: ownerID,
		Title:   title,
		Detail:  strings.TrimSpace(in.Detail),
	})
	if err != nil {
		return nil, err
	}
	logger.From(ctx).Info("project created",
		logger.Layer("service"), logger.Component("project"),
		logger.ProjectID(p.ID), logger.UserID(ownerID))
	return p, nil
}

func (s *service) Get(ctx context.Context, id string) (*repository.Project, error) {
	p, err := s.repo.Get(ctx, id)
	return p, notFound(err, ErrNotFound)
}

func (s *service) List(ctx context.Context, limit, offset int) ([]repository.Project, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *service) Delete(ctx context.Context, id, actorID string) error {
	if _, err := s.owned(ctx, id, actorID); err != nil {
		return err
	}
	return notFound(s.repo.Delete(ctx, id), ErrNotFound)
}

func (s *service) Apply(ctx context.Context, projectID, userID string) error {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if p.OwnerID == userID {
		return ErrSelfApply
	}
	err = s.repo.Apply(ctx, projectID, userID)
	if repository.IsConflict(err) {
		return ErrAlreadyApplied
	}
	return notFound(err, ErrNotFound)
}

func (s *service) CancelApply(ctx context.Context, projectID, userID string) error {
	return notFound(s.repo.CancelApply(ctx, projectID, userID), ErrNotApplied)
}

func (s *service) Applicants(ctx context.Context, projectID string) ([]repository.Applicant, error) {
	apps, err := s.repo.Applicants(ctx, projectID)
	return apps, notFound(err, ErrNotFound)
}

func (s *service) Approve(ctx context.Context, projectID, actorID, userID string) ([]repository.Applicant, error) {
	return s.setStatus(ctx, projectID, actorID, userID, repository.StatusApproved)
}

func (s *service) Reject(ctx context.Context, projectID, actorID, userID string) ([]repository.Applicant, error) {
	return s.setStatus(ctx, projectID, actorID, userID, repository.StatusRejected)
}

func (s *service) AppliedProjects(ctx context.Context, userID string) ([]repository.Project, error) {
	return s.repo.AppliedProjects(ctx, userID)
}

func (s *service) setStatus(ctx context.Context, projectID, actorID, userID string, st repository.ApplicationStatus) ([]repository.Applicant, error) {
	if _, err := s.owned(ctx, projectID, actorID); err != nil {
		return nil, err
	}
	if err := s.repo.SetStatus(ctx, projectID, userID, st); err != nil {
		return nil, notFound(err, ErrNotApplied)
	}
	logger.From(ctx).Info("application status changed",
		logger.Layer("service"), logger.Component("project"),
		logger.ProjectID(projectID), logger.UserID(userID), logger.String("status", string(st)))
	return s.Applicants(ctx, projectID)
}

// owned carga el proyecto y verifica que actorID sea el dueño.
func (s *service) owned(ctx context.Context, projectID, actorID string) (*repository.Project, error) {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return p, nil
}

// notFound traduce el ErrNotFound del repositorio al sentinel del caso de uso.
func notFound(err, sentinel error) error {
	if err != nil && repository.IsNotFound(err) {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}
