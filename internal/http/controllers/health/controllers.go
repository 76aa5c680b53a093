// Package health contiene los controllers de liveness y readiness.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/waggle/internal/http/helpers"
	"github.com/dropDatabas3/waggle/internal/observability/logger"
)

const checkTimeout = 2 * time.Second

// Pinger es cualquier dependencia que sepa reportar si está viva.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Response de /readyz.
type Response struct {
	Status     string            `json:"status"`
	Version    string            `json:"version,omitempty"`
	Components map[string]string `json:"components,omitempty"`
}

// HealthController maneja las rutas de health check.
type HealthController struct {
	version    string
	components map[string]Pinger
}

// NewHealthController recibe las dependencias a chequear indexadas por nombre
// ("store", "sessions").
func NewHealthController(version string, components map[string]Pinger) *HealthController {
	return &HealthController{version: version, components: components}
}

// Healthz: el proceso responde.
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, Response{Status: "ok", Version: c.version})
}

// Readyz pinga cada componente; si alguno falla responde 503.
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("HealthController.Readyz"))

	resp := Response{Status: "ready", Version: c.version, Components: map[string]string{}}
	status := http.StatusOK
	for name, p := range c.components {
		if err := p.Ping(ctx); err != nil {
			log.Warn("component not ready", logger.Component(name), logger.Err(err))
			resp.Components[name] = "unavailable"
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Components[name] = "ok"
	}

	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, status, resp)
}
