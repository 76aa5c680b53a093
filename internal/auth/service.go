// Package auth orquesta el ciclo de sesión: login social, canje del token
// temporal, reemisión del access token y logout.
//
//	callback ──► CompleteLogin ──► refresh:{userId}, temp:{handle} ──► 302 al front
//	front    ──► ExchangeTemporaryToken(handle) ──► access token (single-use)
//	front    ──► ReissueAccessToken(cookie) ──► access token
//	front    ──► Logout(cookie) ──► borra refresh:{userId}
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dropDatabas3/waggle/internal/cache"
	"github.com/dropDatabas3/waggle/internal/domain/repository"
	"github.com/dropDatabas3/waggle/internal/observability/logger"
	tokens "github.com/dropDatabas3/waggle/internal/security/token"
	"github.com/dropDatabas3/waggle/internal/social"
)

// TokenCodec es la parte del codec JWT que usa el orquestador.
type TokenCodec interface {
	Issue(subject string, ttl time.Duration) (string, error)
	VerifySubject(token string) (string, error)
	IsExpired(token string) (bool, error)
}

// IdentityResolver mapea una identidad social a un usuario local.
type IdentityResolver interface {
	ResolveOrCreate(ctx context.Context, provider social.Provider, id social.Identity) (*repository.User, bool, error)
}

// Recorder recibe los resultados para métricas. Puede ser nil.
type Recorder interface {
	Login(provider, result string)
	TokenOp(op, result string)
}

// LoginResult es lo que el callback necesita para responder.
type LoginResult struct {
	RedirectURL    string
	RefreshCookie  *http.Cookie
	UserID         string
	IsExistingUser bool
}

// Deps dependencias del orquestador.
type Deps struct {
	Config   Config
	Codec    TokenCodec
	Sessions cache.Store
	Users    IdentityResolver
	Metrics  Recorder

	// NewHandle genera el handle del token temporal. Default: 32 bytes base64url.
	NewHandle func() (string, error)
}

// Service es seguro para uso concurrente; el único estado compartido es el session store.
type Service struct {
	cfg       Config
	codec     TokenCodec
	sessions  cache.Store
	users     IdentityResolver
	metrics   Recorder
	newHandle func() (string, error)
}

// NewService valida la configuración y arma el orquestador.
func NewService(d Deps) (*Service, error) {
	cfg := d.Config.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if d.Codec == nil || d.Sessions == nil || d.Users == nil {
		return nil, errors.New("auth: codec, sessions and users are required")
	}
	s := &Service{
		cfg:       cfg,
		codec:     d.Codec,
		sessions:  d.Sessions,
		users:     d.Users,
		metrics:   d.Metrics,
		newHandle: d.NewHandle,
	}
	if s.newHandle == nil {
		s.newHandle = tokens.NewHandle
	}
	return s, nil
}

// Config devuelve la configuración efectiva (con defaults aplicados).
func (s *Service) Config() Config { return s.cfg }

// CompleteLogin procesa el user-info ya obtenido del proveedor: resuelve o
// crea al usuario, guarda el refresh token (sobrescribe el anterior), deja el
// access token detrás de un handle temporal y arma la URL de redirección.
func (s *Service) CompleteLogin(ctx context.Context, providerTag string, raw []byte) (*LoginResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("CompleteLogin"),
	)

	provider, err := social.ParseProvider(providerTag)
	if err != nil {
		s.recordLogin("unsupported", "unsupported")
		return nil, err
	}
	log = log.With(logger.Provider(provider.String()))

	res, err := s.completeLogin(ctx, provider, raw)
	if err != nil {
		s.recordLogin(provider.String(), resultOf(err))
		log.Warn("login failed", logger.Err(err))
		return nil, err
	}
	s.recordLogin(provider.String(), "ok")
	log.Info("login completed", logger.UserID(res.UserID), logger.IsNewUser(!res.IsExistingUser))
	return res, nil
}

func (s *Service) completeLogin(ctx context.Context, provider social.Provider, raw []byte) (*LoginResult, error) {
	ex, err := social.ExtractorFor(provider)
	if err != nil {
		return nil, err
	}
	identity, err := ex.ExtractIdentity(raw)
	if err != nil {
		return nil, err
	}

	u, isNew, err := s.users.ResolveOrCreate(ctx, provider, identity)
	if err != nil {
		return nil, fmt.Errorf("auth: resolve user: %w", err)
	}

	refresh, err := s.codec.Issue(u.ID, s.cfg.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("auth: issue refresh: %w", err)
	}
	// un solo Put: el último login gana y nunca queda un hueco sin refresh
	if err := s.sessions.Put(ctx, cache.RefreshKey(u.ID), refresh, s.cfg.RefreshTTL); err != nil {
		return nil, storeErr(err)
	}

	access, err := s.codec.Issue(u.ID, s.cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("auth: issue access: %w", err)
	}
	handle, err := s.newHandle()
	if err != nil {
		return nil, fmt.Errorf("auth: temporary handle: %w", err)
	}
	if err := s.sessions.Put(ctx, cache.TempKey(handle), access, s.cfg.TempTTL); err != nil {
		return nil, storeErr(err)
	}

	redirect := s.cfg.loginRedirectBase() +
		"?is_exist_user=" + strconv.FormatBool(!isNew) +
		"&temporary_token=" + handle

	return &LoginResult{
		RedirectURL:    redirect,
		RefreshCookie:  s.RefreshCookie(refresh),
		UserID:         u.ID,
		IsExistingUser: !isNew,
	}, nil
}

// ExchangeTemporaryToken consume el handle y devuelve el access token guardado.
// Un handle sirve una sola vez.
func (s *Service) ExchangeTemporaryToken(ctx context.Context, handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		s.recordToken("exchange", "invalid")
		return "", ErrInvalidTemporaryToken
	}

	access, err := s.sessions.GetAndDelete(ctx, cache.TempKey(handle))
	if err != nil {
		if cache.IsNotFound(err) {
			s.recordToken("exchange", "invalid")
			logger.From(ctx).Debug("temporary token not found",
				logger.Layer("service"), logger.Component("auth"),
				logger.Fingerprint("handle_fp", handle))
			return "", ErrInvalidTemporaryToken
		}
		s.recordToken("exchange", "unavailable")
		return "", storeErr(err)
	}
	s.recordToken("exchange", "ok")
	return access, nil
}

// ReissueAccessToken emite un access token nuevo si el refresh presentado es
// exactamente el vigente para su usuario. No rota el refresh.
func (s *Service) ReissueAccessToken(ctx context.Context, refresh string) (string, error) {
	access, err := s.reissue(ctx, refresh)
	s.recordToken("reissue", resultOf(err))
	if err != nil && !errors.Is(err, ErrInvalidRefreshToken) {
		logger.From(ctx).Warn("reissue failed",
			logger.Layer("service"), logger.Component("auth"), logger.Err(err))
	}
	return access, err
}

func (s *Service) reissue(ctx context.Context, refresh string) (string, error) {
	refresh = strings.TrimSpace(refresh)
	if refresh == "" {
		return "", ErrInvalidRefreshToken
	}
	sub, err := s.codec.VerifySubject(refresh)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}

	stored, err := s.sessions.Get(ctx, cache.RefreshKey(sub))
	if err != nil {
		if cache.IsNotFound(err) {
			return "", fmt.Errorf("%w: not stored", ErrInvalidRefreshToken)
		}
		return "", storeErr(err)
	}
	if stored != refresh {
		return "", fmt.Errorf("%w: superseded", ErrInvalidRefreshToken)
	}
	expired, err := s.codec.IsExpired(stored)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}
	if expired {
		return "", fmt.Errorf("%w: expired", ErrInvalidRefreshToken)
	}

	access, err := s.codec.Issue(sub, s.cfg.AccessTTL)
	if err != nil {
		return "", fmt.Errorf("auth: issue access: %w", err)
	}
	return access, nil
}

// Logout invalida el refresh del usuario. Token vacío no toca el store.
func (s *Service) Logout(ctx context.Context, refresh string) error {
	err := s.logout(ctx, refresh)
	s.recordToken("logout", resultOf(err))
	return err
}

func (s *Service) logout(ctx context.Context, refresh string) error {
	refresh = strings.TrimSpace(refresh)
	if refresh == "" {
		return ErrRefreshTokenNotFound
	}
	sub, err := s.codec.VerifySubject(refresh)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}
	if err := s.sessions.Delete(ctx, cache.RefreshKey(sub)); err != nil {
		return storeErr(err)
	}
	logger.From(ctx).Info("logout",
		logger.Layer("service"), logger.Component("auth"), logger.UserID(sub))
	return nil
}

// RefreshCookie arma la cookie del refresh token.
func (s *Service) RefreshCookie(refresh string) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    refresh,
		Path:     "/",
		Domain:   s.cfg.CookieDomain,
		MaxAge:   int(s.cfg.RefreshTTL / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

// DeletionCookie borra la cookie del refresh en el navegador.
func (s *Service) DeletionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		Domain:   s.cfg.CookieDomain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

func (s *Service) recordLogin(provider, result string) {
	if s.metrics != nil {
		s.metrics.Login(provider, result)
	}
}

func (s *Service) recordToken(op, result string) {
	if s.metrics != nil {
		s.metrics.TokenOp(op, result)
	}
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrSessionStoreUnavailable):
		return "unavailable"
	case errors.Is(err, ErrInvalidRefreshToken),
		errors.Is(err, ErrInvalidTemporaryToken),
		errors.Is(err, ErrRefreshTokenNotFound),
		errors.Is(err, social.ErrPayloadMalformed),
		errors.Is(err, social.ErrIdentityIncomplete):
		return "invalid"
	default:
		return "error"
	}
}
