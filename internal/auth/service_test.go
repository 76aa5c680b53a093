package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/waggle/internal/cache"
	jwtx "github.com/dropDatabas3/waggle/internal/jwt"
	"github.com/dropDatabas3/waggle/internal/social"
	"github.com/dropDatabas3/waggle/internal/store/memory"
	"github.com/dropDatabas3/waggle/internal/user"
)

// countingStore envuelve el store en memoria, cuenta llamadas y puede simular caídas.
type countingStore struct {
	*cache.MemoryStore
	calls atomic.Int32
	down  atomic.Bool
}

func (c *countingStore) hit() error {
	c.calls.Add(1)
	if c.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func (c *countingStore) Put(ctx context.Context, k, v string, ttl time.Duration) error {
	if err := c.hit(); err != nil {
		return err
	}
	return c.MemoryStore.Put(ctx, k, v, ttl)
}

func (c *countingStore) Get(ctx context.Context, k string) (string, error) {
	if err := c.hit(); err != nil {
		return "", err
	}
	return c.MemoryStore.Get(ctx, k)
}

func (c *countingStore) Delete(ctx context.Context, k string) error {
	if err := c.hit(); err != nil {
		return err
	}
	return c.MemoryStore.Delete(ctx, k)
}

func (c *countingStore) GetAndDelete(ctx context.Context, k string) (string, error) {
	if err := c.hit(); err != nil {
		return "", err
	}
	return c.MemoryStore.GetAndDelete(ctx, k)
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type recorder struct {
	mu     sync.Mutex
	logins []string
	ops    []string
}

func (r *recorder) Login(provider, result string) {
	r.mu.Lock()
	r.logins = append(r.logins, provider+":"+result)
	r.mu.Unlock()
}

func (r *recorder) TokenOp(op, result string) {
	r.mu.Lock()
	r.ops = append(r.ops, op+":"+result)
	r.mu.Unlock()
}

type harness struct {
	svc      *Service
	codec    *jwtx.Codec
	sessions *countingStore
	db       *memory.Store
	clock    *clock
	metrics  *recorder
}

func newHarness(t *testing.T, mutate ...func(*Config)) *harness {
	t.Helper()
	clk := &clock{t: time.Now()}
	codec, err := jwtx.NewCodec(jwtx.Config{
		Secret: base64.StdEncoding.EncodeToString([]byte(strings.Repeat("s", 32))),
		Now:    clk.Now,
	})
	require.NoError(t, err)

	sessions := &countingStore{MemoryStore: cache.NewMemory(cache.Config{})}
	t.Cleanup(func() { _ = sessions.Close() })

	db := memory.New()
	cfg := Config{
		AccessTTL:      30 * time.Minute,
		RefreshTTL:     14 * 24 * time.Hour,
		Profile:        ProfileLocal,
		LocalBaseURL:   "http://localhost:3000",
		LocalLoginPath: "/login/process",
		ProdBaseURL:    "https://waggle.example.com",
		ProdLoginPath:  "/auth/callback",
	}
	for _, m := range mutate {
		m(&cfg)
	}
	rec := &recorder{}
	svc, err := NewService(Deps{
		Config:   cfg,
		Codec:    codec,
		Sessions: sessions,
		Users:    user.NewResolver(codec, db.Users()),
		Metrics:  rec,
	})
	require.NoError(t, err)
	return &harness{svc: svc, codec: codec, sessions: sessions, db: db, clock: clk, metrics: rec}
}

const googlePayload = `{"sub":"g-100","name":"Lee","email":"lee@example.com","picture":"https://img/lee.png"}`

func parseRedirect(t *testing.T, raw string) (*url.URL, url.Values) {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u, u.Query()
}

func TestCompleteLogin_GoogleFirstThenSecond(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.svc.CompleteLogin(ctx, "google", []byte(googlePayload))
	require.NoError(t, err)
	require.False(t, first.IsExistingUser)

	u, q := parseRedirect(t, first.RedirectURL)
	require.Equal(t, "localhost:3000", u.Host)
	require.Equal(t, "/login/process", u.Path)
	require.Equal(t, "false", q.Get("is_exist_user"))
	require.NotEmpty(t, q.Get("temporary_token"))

	stored, err := h.sessions.MemoryStore.Get(ctx, cache.RefreshKey(first.UserID))
	require.NoError(t, err)
	require.Equal(t, first.RefreshCookie.Value, stored)

	h.clock.Advance(2 * time.Second)

	second, err := h.svc.CompleteLogin(ctx, "GOOGLE", []byte(googlePayload))
	require.NoError(t, err)
	require.True(t, second.IsExistingUser)
	require.Equal(t, first.UserID, second.UserID)
	_, q2 := parseRedirect(t, second.RedirectURL)
	require.Equal(t, "true", q2.Get("is_exist_user"))
	require.NotEqual(t, q.Get("temporary_token"), q2.Get("temporary_token"))

	stored, err = h.sessions.MemoryStore.Get(ctx, cache.RefreshKey(first.UserID))
	require.NoError(t, err)
	require.Equal(t, second.RefreshCookie.Value, stored)
	require.NotEqual(t, first.RefreshCookie.Value, stored)

	require.Equal(t, []string{"google:ok", "google:ok"}, h.metrics.logins)
}

func TestCompleteLogin_UnsupportedProviderTouchesNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.svc.CompleteLogin(ctx, "facebook", []byte(`{"id":"1"}`))
	require.ErrorIs(t, err, social.ErrUnsupportedProvider)
	require.Nil(t, res)
	require.Zero(t, h.sessions.calls.Load())
	require.Zero(t, h.sessions.Len())

	_, err = h.db.Users().GetByProvider(ctx, "facebook", "1")
	require.Error(t, err)
}

func TestCompleteLogin_MalformedPayload(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.CompleteLogin(context.Background(), "kakao", []byte(`{"properties":{}}`))
	require.ErrorIs(t, err, social.ErrIdentityIncomplete)
	require.Zero(t, h.sessions.calls.Load())
	require.Equal(t, []string{"kakao:invalid"}, h.metrics.logins)
}

func TestCompleteLogin_StoreDown(t *testing.T) {
	h := newHarness(t)
	h.sessions.down.Store(true)

	res, err := h.svc.CompleteLogin(context.Background(), "google", []byte(googlePayload))
	require.ErrorIs(t, err, ErrSessionStoreUnavailable)
	require.Nil(t, res)
	require.Equal(t, []string{"google:unavailable"}, h.metrics.logins)
}

func TestCompleteLogin_ProdProfileRedirect(t *testing.T) {
	h := newHarness(t, func(c *Config) { c.Profile = ProfileProd })

	res, err := h.svc.CompleteLogin(context.Background(), "google", []byte(googlePayload))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(res.RedirectURL, "https://waggle.example.com/auth/callback?is_exist_user=false&temporary_token="))
}

func TestExchangeTemporaryToken_SingleUse(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.svc.CompleteLogin(ctx, "google", []byte(googlePayload))
	require.NoError(t, err)
	_, q := parseRedirect(t, res.RedirectURL)
	handle := q.Get("temporary_token")

	access, err := h.svc.ExchangeTemporaryToken(ctx, handle)
	require.NoError(t, err)
	sub, err := h.codec.VerifySubject(access)
	require.NoError(t, err)
	require.Equal(t, res.UserID, sub)

	_, err = h.svc.ExchangeTemporaryToken(ctx, handle)
	require.ErrorIs(t, err, ErrInvalidTemporaryToken)

	_, err = h.svc.ExchangeTemporaryToken(ctx, "   ")
	require.ErrorIs(t, err, ErrInvalidTemporaryToken)
}

func TestExchangeTemporaryToken_Concurrent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.svc.CompleteLogin(ctx, "google", []byte(googlePayload))
	require.NoError(t, err)
	_, q := parseRedirect(t, res.RedirectURL)
	handle := q.Get("temporary_token")

	const n = 16
	var ok, invalid atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.svc.ExchangeTemporaryToken(ctx, handle)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, ErrInvalidTemporaryToken):
				invalid.Add(1)
			}
		}()
	}
	wg.Wait()
	require.EqualValues(t, 1, ok.Load())
	require.EqualValues(t, n-1, invalid.Load())
}

func TestExchangeTemporaryToken_StoreDown(t *testing.T) {
	h := newHarness(t)
	h.sessions.down.Store(true)

	_, err := h.svc.ExchangeTemporaryToken(context.Background(), "handle")
	require.ErrorIs(t, err, ErrSessionStoreUnavailable)
	require.NotErrorIs(t, err, ErrInvalidTemporaryToken)
}

func TestReissueAccessToken(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.svc.CompleteLogin(ctx, "google", []byte(googlePayload))
	require.NoError(t, err)

	access, err := h.svc.ReissueAccessToken(ctx, res.RefreshCookie.Value)
	require.NoError(t, err)
	sub, err := h.codec.VerifySubject(access)
	require.NoError(t, err)
	require.Equal(t, res.UserID, sub)

	// sin rotación: el mismo refresh sigue sirviendo
	_, err = h.svc.ReissueAccessToken(ctx, res.RefreshCookie.Value)
	require.NoError(t, err)
}

func TestReissueAccessToken_NeverStored(t *testing.T) {
	h := newHarness(t)

	never, err := h.codec.Issue("5b0e6f8e-1f0c-4d59-9c59-1c8d2d0a7e11", time.Hour)
	require.NoError(t, err)

	_, err = h.svc.ReissueAccessToken(context.Background(), never)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestReissueAccessToken_Stale(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.svc.CompleteLogin(ctx, "google", []byte(googlePayload))
	require.NoError(t, err)
	h.clock.Advance(2 * time.Second)
	_, err = h.svc.CompleteLogin(ctx, "google", []byte(googlePayload))
	require.NoError(t, err)

	_, err = h.svc.ReissueAccessToken(ctx, first.RefreshCookie.Value)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestReissueAccessToken_BadTokens(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.ReissueAccessToken(ctx, "")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = h.svc.ReissueAccessToken(ctx, "not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)

	res, err := h.svc.CompleteLogin(ctx, "google", []byte(googlePayload))
	require.NoError(t, err)
	h.clock.Advance(15 * 24 * time.Hour)
	_, err = h.svc.ReissueAccessToken(ctx, res.RefreshCookie.Value)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.ErrorIs(t, h.svc.Logout(ctx, ""), ErrRefreshTokenNotFound)
	require.Zero(t, h.sessions.calls.Load())

	require.ErrorIs(t, h.svc.Logout(ctx, "garbage"), ErrInvalidRefreshToken)
	require.Zero(t, h.sessions.calls.Load())

	res, err := h.svc.CompleteLogin(ctx, "google", []byte(googlePayload))
	require.NoError(t, err)

	require.NoError(t, h.svc.Logout(ctx, res.RefreshCookie.Value))
	_, err = h.svc.ReissueAccessToken(ctx, res.RefreshCookie.Value)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	// idempotente
	require.NoError(t, h.svc.Logout(ctx, res.RefreshCookie.Value))
}

func TestCookies(t *testing.T) {
	h := newHarness(t, func(c *Config) { c.CookieDomain = "waggle.example.com" })

	c := h.svc.RefreshCookie("tok")
	require.Equal(t, RefreshCookieName, c.Name)
	require.Equal(t, "tok", c.Value)
	require.True(t, c.HttpOnly)
	require.True(t, c.Secure)
	require.Equal(t, http.SameSiteNoneMode, c.SameSite)
	require.Equal(t, "/", c.Path)
	require.Equal(t, int((14 * 24 * time.Hour).Seconds()), c.MaxAge)
	require.Equal(t, "waggle.example.com", c.Domain)

	d := h.svc.DeletionCookie()
	require.Equal(t, RefreshCookieName, d.Name)
	require.Empty(t, d.Value)
	require.Equal(t, -1, d.MaxAge)
	require.Equal(t, http.SameSiteNoneMode, d.SameSite)
}

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(Deps{Config: Config{AccessTTL: time.Minute}})
	require.Error(t, err)

	h := newHarness(t)
	require.Equal(t, 60*time.Second, h.svc.Config().TempTTL)
}
