// Package user resuelve la identidad del caller y administra su perfil.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dropDatabas3/waggle/internal/domain/repository"
	"github.com/dropDatabas3/waggle/internal/observability/logger"
	"github.com/dropDatabas3/waggle/internal/social"
)

// ErrInvalidAccessToken cubre header ausente o mal formado, token inválido
// y usuario inexistente. Para el cliente es siempre un 401.
var ErrInvalidAccessToken = errors.New("invalid access token")

const bearerPrefix = "Bearer "

// SubjectVerifier es la parte del codec que necesita el resolver.
type SubjectVerifier interface {
	VerifySubject(token string) (string, error)
}

// Resolver mapea tokens e identidades sociales a usuarios locales.
type Resolver struct {
	tokens SubjectVerifier
	users  repository.UserRepository
	newID  func() string
}

// NewResolver crea el resolver.
func NewResolver(tokens SubjectVerifier, users repository.UserRepository) *Resolver {
	return &Resolver{tokens: tokens, users: users, newID: uuid.NewString}
}

// BearerToken extrae el token de un header "Authorization: Bearer <t>".
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(bearerPrefix):])
	return tok, tok != ""
}

// ResolveCurrentUser valida el access token del header y carga al usuario.
// Errores de infraestructura del repositorio se propagan tal cual.
func (r *Resolver) ResolveCurrentUser(ctx context.Context, authHeader string) (*repository.User, error) {
	tok, ok := BearerToken(authHeader)
	if !ok {
		return nil, fmt.Errorf("%w: missing bearer", ErrInvalidAccessToken)
	}
	sub, err := r.tokens.VerifySubject(tok)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAccessToken, err)
	}
	if _, err := uuid.Parse(sub); err != nil {
		return nil, fmt.Errorf("%w: malformed subject", ErrInvalidAccessToken)
	}

	u, err := r.users.GetByID(ctx, sub)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: unknown user", ErrInvalidAccessToken)
		}
		return nil, err
	}
	return u, nil
}

// ResolveOrCreate busca al usuario por (provider, providerId) y lo crea en el
// primer login. isNew es true sólo si esta llamada lo insertó.
func (r *Resolver) ResolveOrCreate(ctx context.Context, provider social.Provider, id social.Identity) (*repository.User, bool, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("user.resolver"),
		logger.Provider(provider.String()),
	)

	u, err := r.users.GetByProvider(ctx, provider.String(), id.ProviderID)
	if err == nil {
		return u, false, nil
	}
	if !repository.IsNotFound(err) {
		return nil, false, err
	}

	u, err = r.users.Create(ctx, repository.CreateUserInput{
		ID:         r.newID(),
		Name:       id.DisplayName,
		Email:      id.Email,
		AvatarURL:  id.AvatarURL,
		Provider:   provider.String(),
		ProviderID: id.ProviderID,
	})
	if err == nil {
		log.Info("user created", logger.UserID(u.ID))
		return u, true, nil
	}
	if !repository.IsConflict(err) {
		return nil, false, err
	}

	// otro primer login concurrente ganó la carrera
	log.Debug("create raced, re-reading")
	u, err = r.users.GetByProvider(ctx, provider.String(), id.ProviderID)
	if err != nil {
		return nil, false, err
	}
	return u, false, nil
}
