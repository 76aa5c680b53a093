package validation

import (
	"net/url"
	"strings"
)

// MaxURLLen es el largo máximo aceptado para URLs guardadas por el usuario.
const MaxURLLen = 2048

// ValidPublicURL reporta si s es una URL absoluta http(s) con host.
// No resuelve DNS ni verifica que responda.
func ValidPublicURL(s string) bool {
	if s == "" || len(s) > MaxURLLen || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != "" && u.Hostname() != "" && u.User == nil
}
