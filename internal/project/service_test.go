package project

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/waggle/internal/domain/repository"
	"github.com/dropDatabas3/waggle/internal/store/memory"
)

type fixture struct {
	svc   Service
	owner string
	alice string
	bob   string
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := memory.New()
	ctx := context.Background()
	for i, id := range []string{"owner", "alice", "bob"} {
		_, err := store.Users().Create(ctx, repository.CreateUserInput{
			ID: id, Name: id, Provider: "google", ProviderID: string(rune('a' + i)),
		})
		require.NoError(t, err)
	}
	return fixture{svc: NewService(Deps{Projects: store.Projects()}), owner: "owner", alice: "alice", bob: "bob"}
}

func TestCreateAndGet(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.owner, CreateInput{Title: "   "})
	require.ErrorIs(t, err, ErrInvalidInput)

	p, err := f.svc.Create(ctx, f.owner, CreateInput{Title: " Waggle ", Detail: "side project"})
	require.NoError(t, err)
	require.Equal(t, "Waggle", p.Title)

	got, err := f.svc.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, f.owner, got.OwnerID)

	_, err = f.svc.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, repository.ErrNotFound)

	list, err := f.svc.List(ctx, 0, -5)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestDelete_OnlyOwner(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p, err := f.svc.Create(ctx, f.owner, CreateInput{Title: "t"})
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.Delete(ctx, p.ID, f.alice), ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, p.ID, f.owner))
	require.ErrorIs(t, f.svc.Delete(ctx, p.ID, f.owner), ErrNotFound)
}

func TestApplyRules(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p, err := f.svc.Create(ctx, f.owner, CreateInput{Title: "t"})
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.Apply(ctx, "missing", f.alice), ErrNotFound)
	require.ErrorIs(t, f.svc.Apply(ctx, p.ID, f.owner), ErrSelfApply)
	require.NoError(t, f.svc.Apply(ctx, p.ID, f.alice))
	require.ErrorIs(t, f.svc.Apply(ctx, p.ID, f.alice), ErrAlreadyApplied)

	mine, err := f.svc.AppliedProjects(ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	require.NoError(t, f.svc.CancelApply(ctx, p.ID, f.alice))
	require.ErrorIs(t, f.svc.CancelApply(ctx, p.ID, f.alice), ErrNotApplied)
}

func TestApproveReject(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p, err := f.svc.Create(ctx, f.owner, CreateInput{Title: "t"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Apply(ctx, p.ID, f.alice))

	_, err = f.svc.Approve(ctx, p.ID, f.alice, f.alice)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Approve(ctx, p.ID, f.owner, f.bob)
	require.ErrorIs(t, err, ErrNotApplied)

	apps, err := f.svc.Approve(ctx, p.ID, f.owner, f.alice)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.Equal(t, repository.StatusApproved, apps[0].Status)

	apps, err = f.svc.Reject(ctx, p.ID, f.owner, f.alice)
	require.NoError(t, err)
	require.Equal(t, repository.StatusRejected, apps[0].Status)

	_, err = f.svc.Applicants(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
