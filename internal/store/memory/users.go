package memory

import (
	"context"

	"github.com/dropDatabas3/waggle/internal/domain/repository"
)

type userRepo Store

func (r *userRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *userRepo) GetByProvider(ctx context.Context, provider, providerID string) (*repository.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byProvider[providerKey(provider, providerID)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(r.users[id]), nil
}

func (r *userRepo) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	pk := providerKey(in.Provider, in.ProviderID)
	if _, dup := r.byProvider[pk]; dup {
		return nil, repository.ErrConflict
	}
	if _, dup := r.users[in.ID]; dup {
		return nil, repository.ErrConflict
	}
	now := r.now()
	u := &repository.User{
		ID:         in.ID,
		Name:       in.Name,
		Email:      in.Email,
		AvatarURL:  in.AvatarURL,
		Provider:   in.Provider,
		ProviderID: in.ProviderID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.users[u.ID] = u
	r.byProvider[pk] = u.ID
	return cloneUser(u), nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, id, name string, p repository.Profile) (*repository.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Name = name
	u.Profile = cloneProfile(p)
	u.UpdatedAt = r.now()
	return cloneUser(u), nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.byProvider, providerKey(u.Provider, u.ProviderID))
	delete(r.users, id)

	// mismo efecto que ON DELETE CASCADE en pg
	for pid, p := range r.projects {
		if p.OwnerID == id {
			delete(r.projects, pid)
			delete(r.applies, pid)
		}
	}
	for _, apps := range r.applies {
		delete(apps, id)
	}
	return nil
}

func cloneUser(u *repository.User) *repository.User {
	cp := *u
	cp.Profile = cloneProfile(u.Profile)
	return &cp
}

func cloneProfile(p repository.Profile) repository.Profile {
	cp := p
	cp.Jobs = append([]repository.UserJob(nil), p.Jobs...)
	cp.IndustryIDs = append([]int64(nil), p.IndustryIDs...)
	cp.SkillIDs = append([]int64(nil), p.SkillIDs...)
	cp.WeekDayIDs = append([]int64(nil), p.WeekDayIDs...)
	cp.PortfolioURLs = append([]repository.PortfolioURL(nil), p.PortfolioURLs...)
	cp.PreferTowID = cloneID(p.PreferTowID)
	cp.PreferWowID = cloneID(p.PreferWowID)
	cp.PreferSidoID = cloneID(p.PreferSidoID)
	return cp
}

func cloneID(v *int64) *int64 {
	if v == nil {
		return nil
	}
	x := *v
	return &x
}
