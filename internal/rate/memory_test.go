package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_BurstThenDeny(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	fixed := time.Now()
	l.now = func() time.Time { return fixed }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "1.2.3.4|/auth/token")
		require.NoError(t, err)
		require.True(t, res.Allowed, "hit %d", i)
	}

	res, err := l.Allow(ctx, "1.2.3.4|/auth/token")
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.Zero(t, res.Remaining)
	require.Greater(t, res.RetryAfter, time.Duration(0))
	require.LessOrEqual(t, res.RetryAfter, 20*time.Second)

	// otra clave tiene su propio bucket
	res, err = l.Allow(ctx, "5.6.7.8|/auth/token")
	require.NoError(t, err)
	require.True(t, res.Allowed)
}

func TestMemoryLimiter_Refills(t *testing.T) {
	l := NewMemoryLimiter(2, time.Second)
	now := time.Now()
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := l.Allow(ctx, "k")
		require.NoError(t, err)
		require.True(t, res.Allowed)
	}
	res, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	require.False(t, res.Allowed)

	now = now.Add(time.Second)
	res, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	require.True(t, res.Allowed)
}

func TestResult(t *testing.T) {
	r := result(5, 3, -1, 90*time.Second)
	require.False(t, r.Allowed)
	require.Equal(t, 90*time.Second, r.RetryAfter)

	r = result(2, 3, 30*time.Second, time.Minute)
	require.True(t, r.Allowed)
	require.EqualValues(t, 1, r.Remaining)
}

func TestNew(t *testing.T) {
	l, err := New(Config{Kind: "memory", Max: 5, Window: time.Minute}, nil)
	require.NoError(t, err)
	require.IsType(t, &MemoryLimiter{}, l)

	_, err = New(Config{Kind: "redis", Max: 5, Window: time.Minute}, nil)
	require.Error(t, err)

	_, err = New(Config{Kind: "memory"}, nil)
	require.Error(t, err)
}
