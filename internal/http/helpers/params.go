package helpers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	httperrors "github.com/dropDatabas3/waggle/internal/http/errors"
)

// UUIDParam lee un path param de chi que debe ser un uuid. Devuelve false si
// ya escribió el 400.
func UUIDParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail(name+" must be a uuid"))
		return "", false
	}
	return id.String(), true
}

// QueryInt lee un entero opcional de la query. Ausente => def.
func QueryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail(name+" must be a non-negative integer"))
		return 0, false
	}
	return n, true
}

// Cookie devuelve el valor de la cookie o "" si no vino.
func Cookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
