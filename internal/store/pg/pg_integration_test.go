package pg

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dropDatabas3/waggle/internal/domain/repository"
	migrations "github.com/dropDatabas3/waggle/migrations/postgres"
)

// GO_TEST_INTEGRATION=1 go test ./internal/store/pg -run Integration -v
func startPostgres(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "waggle",
				"POSTGRES_PASSWORD": "waggle",
				"POSTGRES_DB":       "waggle",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://waggle:waggle@%s:%s/waggle?sslmode=disable", host, port.Port())
	s, err := Connect(ctx, Config{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	res, err := s.Migrate(ctx, migrations.FS, migrations.Dir)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, res.Applied)

	// idempotente
	res, err = s.Migrate(ctx, migrations.FS, migrations.Dir)
	require.NoError(t, err)
	require.Empty(t, res.Applied)
	return s
}

func TestIntegration_Postgres(t *testing.T) {
	s := startPostgres(t)
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		id := uuid.NewString()
		u, err := s.Users().Create(ctx, repository.CreateUserInput{
			ID: id, Name: "Kim", Email: "kim@example.com", Provider: "kakao", ProviderID: "12345",
		})
		require.NoError(t, err)
		require.Equal(t, id, u.ID)

		_, err = s.Users().Create(ctx, repository.CreateUserInput{
			ID: uuid.NewString(), Provider: "kakao", ProviderID: "12345",
		})
		require.ErrorIs(t, err, repository.ErrConflict)

		got, err := s.Users().GetByProvider(ctx, "kakao", "12345")
		require.NoError(t, err)
		require.Equal(t, id, got.ID)

		_, err = s.Users().GetByID(ctx, "not-a-uuid")
		require.ErrorIs(t, err, repository.ErrNotFound)

		sido := int64(1)
		updated, err := s.Users().UpdateProfile(ctx, id, "Kim J", repository.Profile{
			Detail:        "backend dev",
			Jobs:          []repository.UserJob{{JobID: 2, YearCnt: 3}},
			SkillIDs:      []int64{1, 3},
			WeekDayIDs:    []int64{6, 7},
			PreferSidoID:  &sido,
			PortfolioURLs: []repository.PortfolioURL{{PortfolioURLID: 1, URL: "https://github.com/kim"}},
		})
		require.NoError(t, err)
		require.Equal(t, "Kim J", updated.Name)
		require.Equal(t, []int64{1, 3}, updated.Profile.SkillIDs)
		require.Len(t, updated.Profile.PortfolioURLs, 1)

		// referencia inexistente: la transacción no deja rastros
		_, err = s.Users().UpdateProfile(ctx, id, "Kim J", repository.Profile{SkillIDs: []int64{9999}})
		require.ErrorIs(t, err, repository.ErrNotFound)
		again, err := s.Users().GetByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, []int64{1, 3}, again.Profile.SkillIDs)

		require.NoError(t, s.Users().Delete(ctx, id))
		require.ErrorIs(t, s.Users().Delete(ctx, id), repository.ErrNotFound)
	})

	t.Run("references", func(t *testing.T) {
		items, err := s.References().List(ctx, repository.KindWeekDays)
		require.NoError(t, err)
		require.Len(t, items, 7)
		require.Equal(t, "월요일", items[0].FullName)

		_, err = s.References().Get(ctx, repository.KindSidoes, 9999)
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("projects", func(t *testing.T) {
		owner := uuid.NewString()
		member := uuid.NewString()
		for i, id := range []string{owner, member} {
			_, err := s.Users().Create(ctx, repository.CreateUserInput{ID: id, Provider: "google", ProviderID: fmt.Sprintf("p-%d", i)})
			require.NoError(t, err)
		}

		pid := uuid.NewString()
		_, err := s.Projects().Create(ctx, repository.CreateProjectInput{ID: pid, OwnerID: owner, Title: "Waggle"})
		require.NoError(t, err)

		require.NoError(t, s.Projects().Apply(ctx, pid, member))
		require.ErrorIs(t, s.Projects().Apply(ctx, pid, member), repository.ErrConflict)
		require.NoError(t, s.Projects().SetStatus(ctx, pid, member, repository.StatusApproved))

		apps, err := s.Projects().Applicants(ctx, pid)
		require.NoError(t, err)
		require.Len(t, apps, 1)
		require.Equal(t, member, apps[0].User.ID)
		require.Equal(t, repository.StatusApproved, apps[0].Status)

		mine, err := s.Projects().AppliedProjects(ctx, member)
		require.NoError(t, err)
		require.Len(t, mine, 1)

		list, err := s.Projects().List(ctx, 10, 0)
		require.NoError(t, err)
		require.NotEmpty(t, list)

		require.NoError(t, s.Projects().CancelApply(ctx, pid, member))
		require.NoError(t, s.Projects().Delete(ctx, pid))
		_, err = s.Projects().Get(ctx, pid)
		require.ErrorIs(t, err, repository.ErrNotFound)
	})
}
