package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/waggle/internal/domain/repository"
)

func newUser(t *testing.T, s *Store, id, providerID string) *repository.User {
	t.Helper()
	u, err := s.Users().Create(context.Background(), repository.CreateUserInput{
		ID: id, Name: "n-" + id, Provider: "google", ProviderID: providerID,
	})
	require.NoError(t, err)
	return u
}

func TestUsers_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := newUser(t, s, "u1", "g-1")
	require.Equal(t, "google", u.Provider)

	got, err := s.Users().GetByProvider(ctx, "google", "g-1")
	require.NoError(t, err)
	require.Equal(t, "u1", got.ID)

	_, err = s.Users().GetByProvider(ctx, "kakao", "g-1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = s.Users().Create(ctx, repository.CreateUserInput{ID: "u2", Provider: "google", ProviderID: "g-1"})
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestUsers_UpdateProfileIsCopied(t *testing.T) {
	ctx := context.Background()
	s := New()
	newUser(t, s, "u1", "g-1")

	sido := int64(3)
	p := repository.Profile{
		Detail:       "hola",
		Jobs:         []repository.UserJob{{JobID: 1, YearCnt: 2}},
		SkillIDs:     []int64{1, 2},
		PreferSidoID: &sido,
	}
	_, err := s.Users().UpdateProfile(ctx, "u1", "nuevo", p)
	require.NoError(t, err)

	// mutar el input no afecta lo guardado
	p.SkillIDs[0] = 99
	sido = 7

	got, err := s.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "nuevo", got.Name)
	require.Equal(t, []int64{1, 2}, got.Profile.SkillIDs)
	require.Equal(t, int64(3), *got.Profile.PreferSidoID)

	_, err = s.Users().UpdateProfile(ctx, "nope", "x", p)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUsers_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := New()
	newUser(t, s, "owner", "g-1")
	newUser(t, s, "other", "g-2")

	_, err := s.Projects().Create(ctx, repository.CreateProjectInput{ID: "p1", OwnerID: "owner", Title: "t"})
	require.NoError(t, err)
	require.NoError(t, s.Projects().Apply(ctx, "p1", "other"))

	require.NoError(t, s.Users().Delete(ctx, "owner"))
	_, err = s.Projects().Get(ctx, "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	// el provider queda libre
	newUser(t, s, "again", "g-1")
	require.ErrorIs(t, s.Users().Delete(ctx, "owner"), repository.ErrNotFound)
}

func TestReferences(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, k := range repository.ReferenceKinds {
		items, err := s.References().List(ctx, k)
		require.NoError(t, err)
		require.NotEmpty(t, items, k)
	}

	wd, err := s.References().Get(ctx, repository.KindWeekDays, 1)
	require.NoError(t, err)
	require.Equal(t, "월요일", wd.FullName)

	_, err = s.References().Get(ctx, repository.KindSkills, 9999)
	require.ErrorIs(t, err, repository.ErrNotFound)

	s.SeedReferences(repository.KindSkills, []repository.ReferenceItem{{ID: 5, Name: "Go"}})
	items, err := s.References().List(ctx, repository.KindSkills)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, repository.KindSkills, items[0].Kind)
}

func TestProjects_ApplyFlow(t *testing.T) {
	ctx := context.Background()
	s := New()
	newUser(t, s, "owner", "g-1")
	newUser(t, s, "a", "g-2")

	_, err := s.Projects().Create(ctx, repository.CreateProjectInput{ID: "p1", OwnerID: "owner", Title: "t"})
	require.NoError(t, err)

	require.NoError(t, s.Projects().Apply(ctx, "p1", "a"))
	require.ErrorIs(t, s.Projects().Apply(ctx, "p1", "a"), repository.ErrConflict)
	require.ErrorIs(t, s.Projects().Apply(ctx, "missing", "a"), repository.ErrNotFound)

	require.NoError(t, s.Projects().SetStatus(ctx, "p1", "a", repository.StatusApproved))
	apps, err := s.Projects().Applicants(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.Equal(t, repository.StatusApproved, apps[0].Status)

	mine, err := s.Projects().AppliedProjects(ctx, "a")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	require.NoError(t, s.Projects().CancelApply(ctx, "p1", "a"))
	require.ErrorIs(t, s.Projects().CancelApply(ctx, "p1", "a"), repository.ErrNotFound)
	require.ErrorIs(t, s.Projects().SetStatus(ctx, "p1", "a", repository.StatusRejected), repository.ErrNotFound)
}

func TestProjects_ListPaging(t *testing.T) {
	ctx := context.Background()
	s := New()
	newUser(t, s, "owner", "g-1")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"p1", "p2", "p3"} {
		at := base.Add(time.Duration(i) * time.Hour)
		s.now = func() time.Time { return at }
		_, err := s.Projects().Create(ctx, repository.CreateProjectInput{ID: id, OwnerID: "owner", Title: id})
		require.NoError(t, err)
	}

	page, err := s.Projects().List(ctx, 2, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"p3", "p2"}, ids(page))

	page, err = s.Projects().List(ctx, 2, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"p1"}, ids(page))

	page, err = s.Projects().List(ctx, 2, 10)
	require.NoError(t, err)
	require.Empty(t, page)
}

func ids(ps []repository.Project) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}
