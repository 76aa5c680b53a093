// Package app arma el contenedor de dependencias a partir de la config:
// store, session store, codec, services, limiter y el handler HTTP.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dropDatabas3/waggle/internal/auth"
	"github.com/dropDatabas3/waggle/internal/cache"
	"github.com/dropDatabas3/waggle/internal/config"
	authctrl "github.com/dropDatabas3/waggle/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/waggle/internal/http/controllers/health"
	projectctrl "github.com/dropDatabas3/waggle/internal/http/controllers/project"
	refctrl "github.com/dropDatabas3/waggle/internal/http/controllers/reference"
	socialctrl "github.com/dropDatabas3/waggle/internal/http/controllers/social"
	userctrl "github.com/dropDatabas3/waggle/internal/http/controllers/user"
	"github.com/dropDatabas3/waggle/internal/http/router"
	"github.com/dropDatabas3/waggle/internal/jwt"
	"github.com/dropDatabas3/waggle/internal/metrics"
	"github.com/dropDatabas3/waggle/internal/observability/logger"
	"github.com/dropDatabas3/waggle/internal/project"
	"github.com/dropDatabas3/waggle/internal/rate"
	"github.com/dropDatabas3/waggle/internal/reference"
	"github.com/dropDatabas3/waggle/internal/social"
	"github.com/dropDatabas3/waggle/internal/social/oauth"
	"github.com/dropDatabas3/waggle/internal/store"
	"github.com/dropDatabas3/waggle/internal/user"
)

// Container tiene todas las dependencias vivas del proceso.
type Container struct {
	Config *config.Config

	Store    store.Store
	Sessions cache.Store
	Codec    *jwt.Codec
	Metrics  *metrics.Metrics
	Limiter  rate.Limiter // nil si rate.enabled=false
	OAuth    *oauth.Registry

	Resolver   *user.Resolver
	Auth       *auth.Service
	Profiles   user.ProfileService
	References reference.Service
	Projects   project.Service
}

// Options permite inyectar piezas ya construidas (tests).
type Options struct {
	Registry *prometheus.Registry
}

// Build conecta todo en orden. Cualquier falla de infraestructura al arrancar
// es fatal: se cierran los recursos abiertos y se devuelve el error.
func Build(ctx context.Context, cfg *config.Config, opts Options) (_ *Container, err error) {
	log := logger.L().With(logger.Component("app"))
	c := &Container{Config: cfg}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	if c.Metrics, err = metrics.New(opts.Registry); err != nil {
		return nil, fmt.Errorf("app: metrics: %w", err)
	}

	if c.Codec, err = jwt.NewCodec(jwt.Config{Secret: cfg.JWT.SecretKey}); err != nil {
		return nil, fmt.Errorf("app: jwt: %w", err)
	}

	c.Store, err = store.Open(ctx, store.Config{
		Driver:       cfg.Storage.Driver,
		DSN:          cfg.Storage.DSN,
		MaxConns:     int32(cfg.Storage.MaxConns),
		MinConns:     int32(cfg.Storage.MinConns),
		QueryTimeout: cfg.Storage.QueryTimeout,
		AutoMigrate:  cfg.Storage.AutoMigrate,
	})
	if err != nil {
		return nil, fmt.Errorf("app: store: %w", err)
	}

	c.Sessions, err = cache.New(ctx, cache.Config{
		Kind:          cfg.Cache.Kind,
		Addr:          cfg.Cache.Redis.Addr,
		Password:      cfg.Cache.Redis.Password,
		DB:            cfg.Cache.Redis.DB,
		Prefix:        cfg.Cache.Redis.Prefix,
		OpTimeout:     cfg.Cache.OpTimeout,
		OnUnavailable: c.Metrics.SessionStoreError,
	})
	if err != nil {
		return nil, fmt.Errorf("app: session store: %w", err)
	}

	if cfg.Rate.Enabled {
		// el limiter comparte la conexión redis del session store
		var rs *cache.RedisStore
		if r, ok := c.Sessions.(*cache.RedisStore); ok {
			rs = r
		}
		rcfg := rate.Config{Kind: cfg.Cache.Kind, Max: cfg.Rate.AuthLimit, Window: cfg.Rate.AuthWindow}
		if rs != nil {
			c.Limiter, err = rate.New(rcfg, rs.Client())
		} else {
			c.Limiter, err = rate.New(rcfg, nil)
		}
		if err != nil {
			return nil, fmt.Errorf("app: rate: %w", err)
		}
	}

	c.OAuth, err = oauth.NewRegistry(providerConfigs(cfg))
	if err != nil {
		return nil, fmt.Errorf("app: oauth: %w", err)
	}

	c.Resolver = user.NewResolver(c.Codec, c.Store.Users())
	c.Auth, err = auth.NewService(auth.Deps{
		Config: auth.Config{
			AccessTTL:      cfg.JWT.AccessTTL,
			RefreshTTL:     cfg.JWT.RefreshTTL,
			TempTTL:        cfg.JWT.TempTTL,
			Profile:        cfg.App.Profile,
			LocalBaseURL:   cfg.Login.LocalBaseURL,
			ProdBaseURL:    cfg.Login.ProdBaseURL,
			LocalLoginPath: cfg.Login.LocalLoginPath,
			ProdLoginPath:  cfg.Login.ProdLoginPath,
			CookieDomain:   cfg.Login.CookieDomain,
		},
		Codec:    c.Codec,
		Sessions: c.Sessions,
		Users:    c.Resolver,
		Metrics:  c.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("app: auth: %w", err)
	}

	c.References = reference.NewService(reference.Deps{Repo: c.Store.References()})
	c.Profiles = user.NewProfileService(user.ProfileDeps{
		Users:      c.Store.Users(),
		References: c.References,
		Sessions:   c.Sessions,
	})
	c.Projects = project.NewService(project.Deps{Projects: c.Store.Projects()})

	log.Info("dependencies ready",
		logger.String("storage", cfg.Storage.Driver),
		logger.String("cache", cfg.Cache.Kind),
		logger.Bool("rate_limit", c.Limiter != nil),
		logger.Int("providers", len(c.OAuth.Providers())),
	)
	return c, nil
}

// Handler arma el router HTTP sobre el contenedor.
func (c *Container) Handler() http.Handler {
	return router.New(router.Deps{
		CORSOrigins:    c.Config.Server.CORSAllowedOrigins,
		Metrics:        c.Metrics,
		MetricsHandler: c.Metrics.Handler(),
		RateLimiter:    c.Limiter,
		Users:          c.Resolver,

		TrustProxyHeaders: c.Config.Server.TrustProxyHeaders,

		Health: healthctrl.NewHealthController(c.Config.App.Version, map[string]healthctrl.Pinger{
			"store":    c.Store,
			"sessions": c.Sessions,
		}),
		Auth: authctrl.NewControllers(c.Auth),
		Social: socialctrl.NewControllers(socialctrl.Deps{
			Clients:  c.OAuth,
			Sessions: c.Sessions,
			Login:    c.Auth,
		}),
		Profile:   userctrl.NewProfileController(c.Profiles, c.Auth.DeletionCookie),
		Reference: refctrl.NewReferenceController(c.References),
		Project:   projectctrl.NewProjectController(c.Projects),
	})
}

// Close libera store y session store. Es seguro llamarlo con un contenedor a medio armar.
func (c *Container) Close() error {
	var errs []error
	if c.Sessions != nil {
		errs = append(errs, c.Sessions.Close())
	}
	if c.Store != nil {
		errs = append(errs, c.Store.Close())
	}
	return errors.Join(errs...)
}

func providerConfigs(cfg *config.Config) map[social.Provider]oauth.ProviderConfig {
	out := map[social.Provider]oauth.ProviderConfig{}
	for tag, p := range cfg.EnabledProviders() {
		out[social.Provider(tag)] = oauth.ProviderConfig{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			RedirectURL:  p.RedirectURL,
			Scopes:       p.Scopes,
		}
	}
	return out
}
