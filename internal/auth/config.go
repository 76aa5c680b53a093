package auth

import (
	"errors"
	"time"
)

const (
	ProfileLocal = "local"
	ProfileProd  = "prod"

	// RefreshCookieName es el nombre de la cookie que transporta el refresh token.
	RefreshCookieName = "refresh_token"

	defaultTempTTL = 60 * time.Second
)

// Config es inmutable; se arma una vez en main.
type Config struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	TempTTL    time.Duration // default 60s

	// Profile elige las URLs de redirección: "prod" usa las Prod*, el resto las Local*.
	Profile        string
	LocalBaseURL   string
	ProdBaseURL    string
	LocalLoginPath string
	ProdLoginPath  string

	CookieDomain string
}

func (c Config) withDefaults() Config {
	if c.TempTTL <= 0 {
		c.TempTTL = defaultTempTTL
	}
	return c
}

func (c Config) validate() error {
	if c.AccessTTL <= 0 {
		return errors.New("auth: access ttl must be positive")
	}
	if c.RefreshTTL <= 0 {
		return errors.New("auth: refresh ttl must be positive")
	}
	return nil
}

// loginRedirectBase devuelve base+path según el perfil activo.
func (c Config) loginRedirectBase() string {
	if c.Profile == ProfileProd {
		return c.ProdBaseURL + c.ProdLoginPath
	}
	return c.LocalBaseURL + c.LocalLoginPath
}
