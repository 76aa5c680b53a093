// Package oauth hace el handshake authorization-code contra Google, Kakao y
// Naver y devuelve el user-info crudo para que social lo normalice.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/kakao"

	"github.com/dropDatabas3/waggle/internal/social"
)

const maxUserInfoBytes = 1 << 20

var (
	ErrUserInfo     = errors.New("oauth: user-info request failed")
	ErrCodeExchange = errors.New("oauth: code exchange failed")
)

var naverEndpoint = oauth2.Endpoint{
	AuthURL:   "https://nid.naver.com/oauth2.0/authorize",
	TokenURL:  "https://nid.naver.com/oauth2.0/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

type defaults struct {
	endpoint    oauth2.Endpoint
	scopes      []string
	userInfoURL string
}

var providerDefaults = map[social.Provider]defaults{
	social.Google: {
		endpoint:    google.Endpoint,
		scopes:      []string{"openid", "profile", "email"},
		userInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
	},
	social.Kakao: {
		endpoint:    kakao.Endpoint,
		scopes:      []string{"profile_nickname", "profile_image", "account_email"},
		userInfoURL: "https://kapi.kakao.com/v2/user/me",
	},
	social.Naver: {
		endpoint:    naverEndpoint,
		userInfoURL: "https://openapi.naver.com/v1/nid/me",
	},
}

// ProviderConfig credenciales de un proveedor. Los campos de URL vacíos toman
// el valor por defecto del proveedor.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string

	AuthURL     string
	TokenURL    string
	UserInfoURL string

	// HTTPClient opcional (timeouts, tests). Default: 10s timeout.
	HTTPClient *http.Client
}

// Client es el cliente OAuth2 de un proveedor.
type Client struct {
	provider    social.Provider
	conf        *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewClient arma el cliente de p con sus defaults.
func NewClient(p social.Provider, pc ProviderConfig) (*Client, error) {
	d, ok := providerDefaults[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", social.ErrUnsupportedProvider, string(p))
	}
	if strings.TrimSpace(pc.ClientID) == "" || strings.TrimSpace(pc.ClientSecret) == "" {
		return nil, fmt.Errorf("oauth: %s: client id and secret are required", p)
	}

	ep := d.endpoint
	if pc.AuthURL != "" {
		ep.AuthURL = pc.AuthURL
	}
	if pc.TokenURL != "" {
		ep.TokenURL = pc.TokenURL
	}
	scopes := pc.Scopes
	if len(scopes) == 0 {
		scopes = d.scopes
	}
	userInfo := d.userInfoURL
	if pc.UserInfoURL != "" {
		userInfo = pc.UserInfoURL
	}
	hc := pc.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		provider: p,
		conf: &oauth2.Config{
			ClientID:     pc.ClientID,
			ClientSecret: pc.ClientSecret,
			RedirectURL:  pc.RedirectURL,
			Endpoint:     ep,
			Scopes:       scopes,
		},
		userInfoURL: userInfo,
		httpClient:  hc,
	}, nil
}

func (c *Client) Provider() social.Provider { return c.provider }

// AuthCodeURL devuelve la URL de consentimiento con state.
func (c *Client) AuthCodeURL(state string) string {
	return c.conf.AuthCodeURL(state)
}

// FetchUserInfo canjea code y trae el user-info con el token obtenido.
func (c *Client) FetchUserInfo(ctx context.Context, code string) ([]byte, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCodeExchange, c.provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUserInfo, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.conf.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUserInfo, c.provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUserInfoBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %w", ErrUserInfo, c.provider, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: status %d", ErrUserInfo, c.provider, resp.StatusCode)
	}
	return body, nil
}

// Registry indexa los clientes habilitados.
type Registry struct {
	clients map[social.Provider]*Client
}

// NewRegistry construye un cliente por proveedor configurado.
func NewRegistry(cfgs map[social.Provider]ProviderConfig) (*Registry, error) {
	r := &Registry{clients: make(map[social.Provider]*Client, len(cfgs))}
	for p, pc := range cfgs {
		c, err := NewClient(p, pc)
		if err != nil {
			return nil, err
		}
		r.clients[p] = c
	}
	return r, nil
}

// Get valida el tag y devuelve el cliente; un proveedor conocido pero
// deshabilitado también es ErrUnsupportedProvider.
func (r *Registry) Get(tag string) (*Client, error) {
	p, err := social.ParseProvider(tag)
	if err != nil {
		return nil, err
	}
	c, ok := r.clients[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not enabled", social.ErrUnsupportedProvider, tag)
	}
	return c, nil
}

// Providers lista los proveedores habilitados en orden estable.
func (r *Registry) Providers() []social.Provider {
	out := make([]social.Provider, 0, len(r.clients))
	for p := range r.clients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
