package rate

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	rdb "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// GO_TEST_INTEGRATION=1 go test ./internal/rate -run Integration -v
func TestIntegration_RedisLimiter(t *testing.T) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}
	ctx := context.Background()
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client := rdb.NewClient(&rdb.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLimiter(client, "", 2, time.Minute)
	fixed := time.Now()
	l.now = func() time.Time { return fixed }

	for i := 0; i < 2; i++ {
		res, err := l.Allow(ctx, "ip|/auth/reissue")
		require.NoError(t, err)
		require.True(t, res.Allowed)
		require.Greater(t, res.WindowTTL, time.Duration(0))
	}
	res, err := l.Allow(ctx, "ip|/auth/reissue")
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.EqualValues(t, 3, res.CurrentHits)
	require.Greater(t, res.RetryAfter, time.Duration(0))
}
