package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/waggle/internal/config"
	"github.com/dropDatabas3/waggle/internal/jwt"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	secret, err := jwt.NewSecret(32)
	require.NoError(t, err)

	var cfg config.Config
	cfg.App.Profile = "local"
	cfg.JWT.SecretKey = secret
	cfg.JWT.AccessTTL = 30 * time.Minute
	cfg.JWT.RefreshTTL = time.Hour
	cfg.Login.LocalBaseURL = "http://localhost:3000"
	cfg.Storage.Driver = "memory"
	cfg.Cache.Kind = "memory"
	cfg.Rate.Enabled = true
	cfg.Rate.AuthLimit = 5
	cfg.Rate.AuthWindow = time.Minute
	cfg.Providers.Google = config.ProviderConfig{Enabled: true, ClientID: "id", ClientSecret: "s", RedirectURL: "http://localhost:8080/login/oauth2/code/google"}
	return &cfg
}

func TestBuild_Memory(t *testing.T) {
	c, err := Build(context.Background(), memoryConfig(t), Options{Registry: prometheus.NewRegistry()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NotNil(t, c.Limiter)
	require.Len(t, c.OAuth.Providers(), 1)

	h := c.Handler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth2/authorization/google", nil))
	require.Equal(t, http.StatusFound, rec.Code)
}

func TestBuild_BadSecret(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.JWT.SecretKey = "c2hvcnQ=" // "short"
	_, err := Build(context.Background(), cfg, Options{Registry: prometheus.NewRegistry()})
	require.Error(t, err)
}
