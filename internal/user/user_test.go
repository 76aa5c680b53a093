package user

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/waggle/internal/cache"
	"github.com/dropDatabas3/waggle/internal/domain/repository"
	jwtx "github.com/dropDatabas3/waggle/internal/jwt"
	"github.com/dropDatabas3/waggle/internal/reference"
	"github.com/dropDatabas3/waggle/internal/social"
	"github.com/dropDatabas3/waggle/internal/store/memory"
)

func newCodec(t *testing.T) *jwtx.Codec {
	t.Helper()
	c, err := jwtx.NewCodec(jwtx.Config{Secret: base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))})
	require.NoError(t, err)
	return c
}

func googleIdentity(id string) social.Identity {
	return social.Identity{Provider: social.Google, ProviderID: id, DisplayName: "Lee", Email: "lee@example.com"}
}

// racingUsers simula que otro login insertó al usuario entre el lookup y el Create.
type racingUsers struct {
	repository.UserRepository
	raced bool
}

func (r *racingUsers) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	if !r.raced {
		r.raced = true
		winner := in
		winner.ID = uuid.NewString()
		if _, err := r.UserRepository.Create(ctx, winner); err != nil {
			return nil, err
		}
	}
	return r.UserRepository.Create(ctx, in)
}

type brokenUsers struct {
	repository.UserRepository
	err error
}

func (b brokenUsers) GetByID(context.Context, string) (*repository.User, error) { return nil, b.err }
func (b brokenUsers) GetByProvider(context.Context, string, string) (*repository.User, error) {
	return nil, b.err
}

func TestResolveOrCreate_FirstAndSecondLogin(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := NewResolver(newCodec(t), store.Users())

	u1, isNew, err := r.ResolveOrCreate(ctx, social.Google, googleIdentity("g-1"))
	require.NoError(t, err)
	require.True(t, isNew)
	require.Equal(t, "Lee", u1.Name)
	_, err = uuid.Parse(u1.ID)
	require.NoError(t, err)

	u2, isNew, err := r.ResolveOrCreate(ctx, social.Google, googleIdentity("g-1"))
	require.NoError(t, err)
	require.False(t, isNew)
	require.Equal(t, u1.ID, u2.ID)

	// mismo providerId en otro proveedor es otra cuenta
	u3, isNew, err := r.ResolveOrCreate(ctx, social.Kakao, googleIdentity("g-1"))
	require.NoError(t, err)
	require.True(t, isNew)
	require.NotEqual(t, u1.ID, u3.ID)
}

func TestResolveOrCreate_ConflictRereads(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	users := &racingUsers{UserRepository: store.Users()}
	r := NewResolver(newCodec(t), users)

	u, isNew, err := r.ResolveOrCreate(ctx, social.Google, googleIdentity("g-race"))
	require.NoError(t, err)
	require.False(t, isNew)

	stored, err := store.Users().GetByProvider(ctx, "google", "g-race")
	require.NoError(t, err)
	require.Equal(t, stored.ID, u.ID)
}

func TestResolveOrCreate_InfraErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	r := NewResolver(newCodec(t), brokenUsers{err: boom})

	_, _, err := r.ResolveOrCreate(context.Background(), social.Google, googleIdentity("g-1"))
	require.ErrorIs(t, err, boom)
}

func TestResolveCurrentUser(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	codec := newCodec(t)
	r := NewResolver(codec, store.Users())

	u, _, err := r.ResolveOrCreate(ctx, social.Google, googleIdentity("g-1"))
	require.NoError(t, err)

	access, err := codec.Issue(u.ID, time.Minute)
	require.NoError(t, err)

	got, err := r.ResolveCurrentUser(ctx, "Bearer "+access)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	expired, err := codec.Issue(u.ID, -time.Second)
	require.NoError(t, err)
	ghost, err := codec.Issue(uuid.NewString(), time.Minute)
	require.NoError(t, err)
	notUUID, err := codec.Issue("12345", time.Minute)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"empty":      "",
		"no prefix":  access,
		"basic":      "Basic " + access,
		"blank":      "Bearer   ",
		"garbage":    "Bearer abc.def.ghi",
		"expired":    "Bearer " + expired,
		"ghost user": "Bearer " + ghost,
		"not uuid":   "Bearer " + notUUID,
	} {
		_, err := r.ResolveCurrentUser(ctx, header)
		require.ErrorIs(t, err, ErrInvalidAccessToken, name)
	}
}

func TestResolveCurrentUser_InfraErrorIsNotAuthError(t *testing.T) {
	codec := newCodec(t)
	boom := errors.New("db down")
	r := NewResolver(codec, brokenUsers{err: boom})

	access, err := codec.Issue(uuid.NewString(), time.Minute)
	require.NoError(t, err)

	_, err = r.ResolveCurrentUser(context.Background(), "Bearer "+access)
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrInvalidAccessToken)
}

func newProfileService(t *testing.T) (ProfileService, *memory.Store, cache.Store, *repository.User) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	sessions := cache.NewMemory(cache.Config{})
	t.Cleanup(func() { _ = sessions.Close() })

	u, err := store.Users().Create(ctx, repository.CreateUserInput{
		ID: uuid.NewString(), Name: "Park", Provider: "naver", ProviderID: "n-1",
	})
	require.NoError(t, err)

	svc := NewProfileService(ProfileDeps{
		Users:      store.Users(),
		References: reference.NewService(reference.Deps{Repo: store.References()}),
		Sessions:   sessions,
	})
	return svc, store, sessions, u
}

func TestProfile_Update(t *testing.T) {
	ctx := context.Background()
	svc, _, _, u := newProfileService(t)

	tow := int64(2)
	got, err := svc.Update(ctx, u.ID, UpdateProfileInput{
		Name: "  Park J  ",
		Profile: repository.Profile{
			Detail:        "designer",
			Jobs:          []repository.UserJob{{JobID: 3, YearCnt: 4}, {JobID: 3, YearCnt: 9}},
			SkillIDs:      []int64{6, 6, 1},
			PreferTowID:   &tow,
			PortfolioURLs: []repository.PortfolioURL{{PortfolioURLID: 5, URL: " https://behance.net/park "}},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "Park J", got.Name)
	require.Equal(t, []repository.UserJob{{JobID: 3, YearCnt: 4}}, got.Profile.Jobs)
	require.Equal(t, []int64{6, 1}, got.Profile.SkillIDs)
	require.Equal(t, "https://behance.net/park", got.Profile.PortfolioURLs[0].URL)

	again, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, got.Profile, again.Profile)
}

func TestProfile_UpdateUnknownReferenceLeavesProfile(t *testing.T) {
	ctx := context.Background()
	svc, _, _, u := newProfileService(t)

	_, err := svc.Update(ctx, u.ID, UpdateProfileInput{Name: "Park", Profile: repository.Profile{SkillIDs: []int64{1}}})
	require.NoError(t, err)

	sido := int64(999)
	_, err = svc.Update(ctx, u.ID, UpdateProfileInput{Name: "Other", Profile: repository.Profile{PreferSidoID: &sido}})
	require.ErrorIs(t, err, reference.ErrNotFound)

	cur, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Park", cur.Name)
	require.Equal(t, []int64{1}, cur.Profile.SkillIDs)
}

func TestProfile_UpdateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _, u := newProfileService(t)

	_, err := svc.Update(ctx, u.ID, UpdateProfileInput{Name: "  "})
	require.ErrorIs(t, err, ErrInvalidProfile)

	_, err = svc.Update(ctx, u.ID, UpdateProfileInput{Name: "x", Profile: repository.Profile{
		Jobs: []repository.UserJob{{JobID: 1, YearCnt: -1}},
	}})
	require.ErrorIs(t, err, ErrInvalidProfile)

	_, err = svc.Update(ctx, u.ID, UpdateProfileInput{Name: "x", Profile: repository.Profile{
		PortfolioURLs: []repository.PortfolioURL{{PortfolioURLID: 1, URL: ""}},
	}})
	require.ErrorIs(t, err, ErrInvalidProfile)

	_, err = svc.Update(ctx, u.ID, UpdateProfileInput{Name: "x", Profile: repository.Profile{
		PortfolioURLs: []repository.PortfolioURL{{PortfolioURLID: 1, URL: "javascript:alert(1)"}},
	}})
	require.ErrorIs(t, err, ErrInvalidProfile)
}

func TestProfile_DeleteDropsRefreshToken(t *testing.T) {
	ctx := context.Background()
	svc, store, sessions, u := newProfileService(t)

	require.NoError(t, sessions.Put(ctx, cache.RefreshKey(u.ID), "refresh", time.Hour))
	require.NoError(t, svc.Delete(ctx, u.ID))

	_, err := sessions.Get(ctx, cache.RefreshKey(u.ID))
	require.ErrorIs(t, err, cache.ErrNotFound)
	_, err = store.Users().GetByID(ctx, u.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, svc.Delete(ctx, u.ID), repository.ErrNotFound)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc")
	require.True(t, ok)
	require.Equal(t, "abc", tok)

	_, ok = BearerToken("bearer abc")
	require.False(t, ok)
}
