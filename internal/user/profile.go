package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/waggle/internal/cache"
	"github.com/dropDatabas3/waggle/internal/domain/repository"
	"github.com/dropDatabas3/waggle/internal/observability/logger"
	"github.com/dropDatabas3/waggle/internal/reference"
	"github.com/dropDatabas3/waggle/internal/validation"
)

// ErrInvalidProfile indica datos de perfil inválidos (400).
var ErrInvalidProfile = errors.New("invalid profile")

// UpdateProfileInput reemplaza el perfil completo.
type UpdateProfileInput struct {
	Name    string
	Profile repository.Profile
}

// ProfileService administra el perfil del usuario autenticado.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*repository.User, error)
	Update(ctx context.Context, userID string, in UpdateProfileInput) (*repository.User, error)
	Delete(ctx context.Context, userID string) error
}

// ProfileDeps dependencias del servicio de perfil.
type ProfileDeps struct {
	Users      repository.UserRepository
	References reference.Service
	Sessions   cache.Store
}

type profileService struct {
	deps ProfileDeps
}

// NewProfileService crea el servicio.
func NewProfileService(d ProfileDeps) ProfileService {
	return &profileService{deps: d}
}

func (s *profileService) Get(ctx context.Context, userID string) (*repository.User, error) {
	return s.deps.Users.GetByID(ctx, userID)
}

func (s *profileService) Update(ctx context.Context, userID string, in UpdateProfileInput) (*repository.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	p, err := normalize(in.Profile)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, p); err != nil {
		return nil, err
	}

	u, err := s.deps.Users.UpdateProfile(ctx, userID, name, p)
	if err != nil {
		return nil, err
	}
	logger.From(ctx).Debug("profile updated",
		logger.Layer("service"), logger.Component("user.profile"), logger.UserID(userID))
	return u, nil
}

// Delete borra al usuario y su refresh token. Si el session store falla el
// usuario ya no existe y los access tokens vigentes dejan de resolver, así
// que sólo se registra.
func (s *profileService) Delete(ctx context.Context, userID string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("user.profile"),
		logger.Op("Delete"),
		logger.UserID(userID),
	)
	if err := s.deps.Users.Delete(ctx, userID); err != nil {
		return err
	}
	if s.deps.Sessions != nil {
		if err := s.deps.Sessions.Delete(ctx, cache.RefreshKey(userID)); err != nil {
			log.Warn("refresh token cleanup failed", logger.Err(err))
		}
	}
	log.Info("user deleted")
	return nil
}

func (s *profileService) checkReferences(ctx context.Context, p repository.Profile) error {
	refs := s.deps.References
	jobIDs := make([]int64, len(p.Jobs))
	for i, j := range p.Jobs {
		jobIDs[i] = j.JobID
	}
	urlIDs := make([]int64, len(p.PortfolioURLs))
	for i, u := range p.PortfolioURLs {
		urlIDs[i] = u.PortfolioURLID
	}

	checks := []struct {
		kind repository.ReferenceKind
		ids  []int64
	}{
		{repository.KindJobs, jobIDs},
		{repository.KindIndustries, p.IndustryIDs},
		{repository.KindSkills, p.SkillIDs},
		{repository.KindWeekDays, p.WeekDayIDs},
		{repository.KindTimesOfWorking, optional(p.PreferTowID)},
		{repository.KindWaysOfWorking, optional(p.PreferWowID)},
		{repository.KindSidoes, optional(p.PreferSidoID)},
		{repository.KindPortfolioURLs, urlIDs},
	}
	for _, c := range checks {
		if err := refs.Check(ctx, c.kind, c.ids...); err != nil {
			return err
		}
	}
	return nil
}

// normalize descarta duplicados y valida campos libres.
func normalize(p repository.Profile) (repository.Profile, error) {
	out := p
	out.Detail = strings.TrimSpace(p.Detail)

	out.Jobs = nil
	seenJob := map[int64]bool{}
	for _, j := range p.Jobs {
		if j.YearCnt < 0 {
			return out, fmt.Errorf("%w: negative years for job %d", ErrInvalidProfile, j.JobID)
		}
		if seenJob[j.JobID] {
			continue
		}
		seenJob[j.JobID] = true
		out.Jobs = append(out.Jobs, j)
	}

	out.IndustryIDs = dedupe(p.IndustryIDs)
	out.SkillIDs = dedupe(p.SkillIDs)
	out.WeekDayIDs = dedupe(p.WeekDayIDs)

	out.PortfolioURLs = nil
	seenURL := map[repository.PortfolioURL]bool{}
	for _, u := range p.PortfolioURLs {
		u.URL = strings.TrimSpace(u.URL)
		if u.URL == "" {
			return out, fmt.Errorf("%w: empty portfolio url", ErrInvalidProfile)
		}
		if !validation.ValidPublicURL(u.URL) {
			return out, fmt.Errorf("%w: portfolio url must be http(s)", ErrInvalidProfile)
		}
		if seenURL[u] {
			continue
		}
		seenURL[u] = true
		out.PortfolioURLs = append(out.PortfolioURLs, u)
	}
	return out, nil
}

func dedupe(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func optional(id *int64) []int64 {
	if id == nil {
		return nil
	}
	return []int64{*id}
}
