package pg

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/waggle/internal/domain/repository"
)

type projectRepo struct{ s *Store }

const projectColumns = `id::text, owner_id::text, title, detail, created_at, updated_at`

func collectProjects(rows pgx.Rows) ([]repository.Project, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.Project, error) {
		var p repository.Project
		err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Detail, &p.CreatedAt, &p.UpdatedAt)
		return p, err
	})
}

func (r *projectRepo) Create(ctx context.Context, in repository.CreateProjectInput) (*repository.Project, error) {
	const op = "pg.projects.Create"
	ctx, cancel := r.s.bound(ctx)
	defer cancel()

	var p repository.Project
	err := r.s.pool.QueryRow(ctx, `
		INSERT INTO project (id, owner_id, title, detail) VALUES ($1, $2, $3, $4)
		RETURNING `+projectColumns,
		in.ID, in.OwnerID, in.Title, in.Detail,
	).Scan(&p.ID, &p.OwnerID, &p.Title, &p.Detail, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, wrap(op, err)
	}
	return &p, nil
}

func (r *projectRepo) Get(ctx context.Context, id string) (*repository.Project, error) {
	const op = "pg.projects.Get"
	ctx, cancel := r.s.bound(ctx)
	defer cancel()

	var p repository.Project
	err := r.s.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM project WHERE id = $1`, id).
		Scan(&p.ID, &p.OwnerID, &p.Title, &p.Detail, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, wrap(op, err)
	}
	return &p, nil
}

func (r *projectRepo) List(ctx context.Context, limit, offset int) ([]repository.Project, error) {
	const op = "pg.projects.List"
	ctx, cancel := r.s.bound(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}
	rows, err := r.s.pool.Query(ctx, `
		SELECT `+projectColumns+` FROM project
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, wrap(op, err)
	}
	out, err := collectProjects(rows)
	return out, wrap(op, err)
}

func (r *projectRepo) Delete(ctx context.Context, id string) error {
	const op = "pg.projects.Delete"
	ctx, cancel := r.s.bound(ctx)
	defer cancel()

	tag, err := r.s.pool.Exec(ctx, `DELETE FROM project WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrap(op, repository.ErrNotFound)
	}
	return nil
}

func (r *projectRepo) Apply(ctx context.Context, projectID, userID string) error {
	const op = "pg.projects.Apply"
	ctx, cancel := r.s.bound(ctx)
	defer cancel()

	_, err := r.s.pool.Exec(ctx,
		`INSERT INTO project_apply (project_id, user_id, status) VALUES ($1, $2, $3)`,
		projectID, userID, string(repository.StatusApplied))
	return wrap(op, err)
}

func (r *projectRepo) CancelApply(ctx context.Context, projectID, userID string) error {
	const op = "pg.projects.CancelApply"
	ctx, cancel := r.s.bound(ctx)
	defer cancel()

	tag, err := r.s.pool.Exec(ctx, `DELETE FROM project_apply WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return wrap(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrap(op, repository.ErrNotFound)
	}
	return nil
}

func (r *projectRepo) SetStatus(ctx context.Context, projectID, userID string, status repository.ApplicationStatus) error {
	const op = "pg.projects.SetStatus"
	ctx, cancel := r.s.bound(ctx)
	defer cancel()

	tag, err := r.s.pool.Exec(ctx,
		`UPDATE project_apply SET status = $3 WHERE project_id = $1 AND user_id = $2`,
		projectID, userID, string(status))
	if err != nil {
		return wrap(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrap(op, repository.ErrNotFound)
	}
	return nil
}

func (r *projectRepo) Applicants(ctx context.Context, projectID string) ([]repository.Applicant, error) {
	const op = "pg.projects.Applicants"
	ctx, cancel := r.s.bound(ctx)
	defer cancel()

	var exists bool
	if err := r.s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM project WHERE id = $1)`, projectID).Scan(&exists); err != nil {
		return nil, wrap(op, err)
	}
	if !exists {
		return nil, wrap(op, repository.ErrNotFound)
	}

	rows, err := r.s.pool.Query(ctx, `
		SELECT u.id::text, u.name, u.email, u.avatar_url, u.provider, u.provider_id, u.detail,
		       u.prefer_tow_id, u.prefer_wow_id, u.prefer_sido_id, u.created_at, u.updated_at,
		       a.status, a.created_at
		FROM project_apply a
		JOIN app_user u ON u.id = a.user_id
		WHERE a.project_id = $1
		ORDER BY a.created_at, u.id`, projectID)
	if err != nil {
		return nil, wrap(op, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.Applicant, error) {
		var a repository.Applicant
		var status string
		u := &a.User
		err := row.Scan(
			&u.ID, &u.Name, &u.Email, &u.AvatarURL, &u.Provider, &u.ProviderID, &u.Profile.Detail,
			&u.Profile.PreferTowID, &u.Profile.PreferWowID, &u.Profile.PreferSidoID,
			&u.CreatedAt, &u.UpdatedAt, &status, &a.AppliedAt,
		)
		a.Status = repository.ApplicationStatus(status)
		return a, err
	})
	return out, wrap(op, err)
}

func (r *projectRepo) AppliedProjects(ctx context.Context, userID string) ([]repository.Project, error) {
	const op = "pg.projects.AppliedProjects"
	ctx, cancel := r.s.bound(ctx)
	defer cancel()

	rows, err := r.s.pool.Query(ctx, `
		SELECT p.id::text, p.owner_id::text, p.title, p.detail, p.created_at, p.updated_at
		FROM project p
		JOIN project_apply a ON a.project_id = p.id
		WHERE a.user_id = $1
		ORDER BY p.created_at DESC, p.id DESC`, userID)
	if err != nil {
		return nil, wrap(op, err)
	}
	out, err := collectProjects(rows)
	return out, wrap(op, err)
}
