package memory

import (
	"context"
	"sort"

	"github.com/dropDatabas3/waggle/internal/domain/repository"
)

type projectRepo Store

func (r *projectRepo) Create(ctx context.Context, in repository.CreateProjectInput) (*repository.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.projects[in.ID]; dup {
		return nil, repository.ErrConflict
	}
	if _, ok := r.users[in.OwnerID]; !ok {
		return nil, repository.ErrNotFound
	}
	now := r.now()
	p := &repository.Project{
		ID:        in.ID,
		OwnerID:   in.OwnerID,
		Title:     in.Title,
		Detail:    in.Detail,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.projects[p.ID] = p
	cp := *p
	return &cp, nil
}

func (r *projectRepo) Get(ctx context.Context, id string) (*repository.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *projectRepo) List(ctx context.Context, limit, offset int) ([]repository.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	all := make([]repository.Project, 0, len(r.projects))
	for _, p := range r.projects {
		all = append(all, *p)
	}
	r.mu.RUnlock()

	sortNewestFirst(all)
	if offset >= len(all) {
		return []repository.Project{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *projectRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.projects, id)
	delete(r.applies, id)
	return nil
}

func (r *projectRepo) Apply(ctx context.Context, projectID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[projectID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.users[userID]; !ok {
		return repository.ErrNotFound
	}
	apps := r.applies[projectID]
	if apps == nil {
		apps = make(map[string]*application)
		r.applies[projectID] = apps
	}
	if _, dup := apps[userID]; dup {
		return repository.ErrConflict
	}
	apps[userID] = &application{status: repository.StatusApplied, appliedAt: r.now()}
	return nil
}

func (r *projectRepo) CancelApply(ctx context.Context, projectID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	apps := r.applies[projectID]
	if _, ok := apps[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(apps, userID)
	return nil
}

func (r *projectRepo) SetStatus(ctx context.Context, projectID, userID string, status repository.ApplicationStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.applies[projectID][userID]
	if !ok {
		return repository.ErrNotFound
	}
	app.status = status
	return nil
}

func (r *projectRepo) Applicants(ctx context.Context, projectID string) ([]repository.Applicant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.projects[projectID]; !ok {
		return nil, repository.ErrNotFound
	}
	out := make([]repository.Applicant, 0, len(r.applies[projectID]))
	for uid, app := range r.applies[projectID] {
		u, ok := r.users[uid]
		if !ok {
			continue
		}
		out = append(out, repository.Applicant{User: *cloneUser(u), Status: app.status, AppliedAt: app.appliedAt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppliedAt.Equal(out[j].AppliedAt) {
			return out[i].User.ID < out[j].User.ID
		}
		return out[i].AppliedAt.Before(out[j].AppliedAt)
	})
	return out, nil
}

func (r *projectRepo) AppliedProjects(ctx context.Context, userID string) ([]repository.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []repository.Project
	for pid, apps := range r.applies {
		if _, ok := apps[userID]; ok {
			if p, ok := r.projects[pid]; ok {
				out = append(out, *p)
			}
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(ps []repository.Project) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].ID > ps[j].ID
		}
		return ps[i].CreatedAt.After(ps[j].CreatedAt)
	})
}
