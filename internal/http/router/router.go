// Package router arma el árbol de rutas chi con la cadena de middlewares.
//
// Orden global: recover → request id → security headers → CORS → metrics → logging.
// Las rutas de auth/oauth2 suman no-store y rate limit; las de usuario,
// RequireUser.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authctrl "github.com/dropDatabas3/waggle/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/waggle/internal/http/controllers/health"
	projectctrl "github.com/dropDatabas3/waggle/internal/http/controllers/project"
	refctrl "github.com/dropDatabas3/waggle/internal/http/controllers/reference"
	socialctrl "github.com/dropDatabas3/waggle/internal/http/controllers/social"
	userctrl "github.com/dropDatabas3/waggle/internal/http/controllers/user"
	httperrors "github.com/dropDatabas3/waggle/internal/http/errors"
	mw "github.com/dropDatabas3/waggle/internal/http/middlewares"
	"github.com/dropDatabas3/waggle/internal/rate"
)

// Deps contiene todo lo que el router necesita. Los controllers nil no se montan.
type Deps struct {
	CORSOrigins    []string
	Metrics        mw.RequestObserver
	MetricsHandler http.Handler
	RateLimiter    rate.Limiter // nil => sin rate limit
	Users          mw.CurrentUserResolver

	// TrustProxyHeaders usa X-Forwarded-For para la clave del rate limit.
	TrustProxyHeaders bool

	Health    *healthctrl.HealthController
	Auth      *authctrl.Controllers
	Social    *socialctrl.Controllers
	Profile   *userctrl.ProfileController
	Reference *refctrl.ReferenceController
	Project   *projectctrl.ProjectController
}

// New devuelve el handler raíz.
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(mw.Std(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithSecurityHeaders(),
		mw.WithCORS(d.CORSOrigins),
		mw.WithMetrics(d.Metrics),
		mw.WithLogging(),
	)...)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	registerHealthRoutes(r, d)
	registerAuthRoutes(r, d)
	registerUserRoutes(r, d)
	registerReferenceRoutes(r, d)
	registerProjectRoutes(r, d)
	return r
}

func registerHealthRoutes(r chi.Router, d Deps) {
	if d.Health != nil {
		r.Get("/healthz", d.Health.Healthz)
		r.Get("/readyz", d.Health.Readyz)
	}
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}
}

func registerAuthRoutes(r chi.Router, d Deps) {
	key := mw.IPPathRateKey
	if d.TrustProxyHeaders {
		key = mw.ForwardedIPPathRateKey
	}
	authChain := mw.Std(mw.WithNoStore(), mw.WithRateLimit(d.RateLimiter, key))

	r.Group(func(r chi.Router) {
		r.Use(authChain...)

		if d.Social != nil {
			r.Get("/oauth2/authorization/{provider}", d.Social.Start.Start)
			r.Get("/login/oauth2/code/{provider}", d.Social.Callback.Callback)
		}
		if d.Auth != nil {
			r.Post("/auth/token", d.Auth.Token.Token)
			r.Post("/auth/reissue", d.Auth.Reissue.Reissue)
			r.Post("/auth/logout", d.Auth.Logout.Logout)
		}
	})
}

func registerUserRoutes(r chi.Router, d Deps) {
	if d.Profile == nil || d.Users == nil {
		return
	}
	r.Route("/user", func(r chi.Router) {
		r.Use(mw.RequireUser(d.Users), mw.WithNoStore())
		r.Get("/", d.Profile.Get)
		r.Put("/", d.Profile.Update)
		r.Delete("/", d.Profile.Delete)
	})
}

func registerReferenceRoutes(r chi.Router, d Deps) {
	if d.Reference == nil {
		return
	}
	r.Get("/reference/{kind}", d.Reference.List)
	r.Get("/reference/{kind}/{id}", d.Reference.Get)
}

func registerProjectRoutes(r chi.Router, d Deps) {
	if d.Project == nil || d.Users == nil {
		return
	}
	c := d.Project
	requireUser := mw.RequireUser(d.Users)

	r.Route("/project", func(r chi.Router) {
		// públicas
		r.Get("/", c.List)
		r.Get("/{projectId}", c.Get)
		r.Get("/apply/{projectId}", c.Applicants)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Post("/", c.Create)
			r.Delete("/{projectId}", c.Delete)
			r.Get("/apply/who/me", c.AppliedProjects)
			r.Post("/apply/{projectId}", c.Apply)
			r.Delete("/apply/{projectId}", c.CancelApply)
			r.Put("/apply/{projectId}/approve/{userId}", c.Approve)
			r.Put("/apply/{projectId}/reject/{userId}", c.Reject)
		})
	})
}
