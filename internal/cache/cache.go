// Package cache implementa el Session Store: un key-value con TTL por clave
// que guarda refresh tokens (refresh:{userId}), temporary tokens (temp:{handle})
// y el state del handshake OAuth2 (state:{handle}).
//
// Drivers:
//   - redis: producción (go-redis, GETDEL para consumo atómico)
//   - memory: desarrollo y tests (go-cache)
//
// Toda operación corre con un timeout propio. Cualquier falla del backend
// distinta de "no existe" se reporta como ErrUnavailable: quien llama debe
// abortar la operación de auth, nunca seguir sin registrar el token.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Store es el contrato del Session Store.
type Store interface {
	// Put guarda value con TTL. ttl <= 0 => sin expiración.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Get devuelve ErrNotFound si la clave no existe o expiró.
	Get(ctx context.Context, key string) (string, error)

	// Delete es idempotente: borrar una clave ausente no es error.
	Delete(ctx context.Context, key string) error

	// GetAndDelete lee y borra en un solo paso atómico (consumo single-use).
	// De dos llamadas concurrentes sobre la misma clave, sólo una obtiene el valor.
	GetAndDelete(ctx context.Context, key string) (string, error)

	Ping(ctx context.Context) error
	Close() error
}

// Config para construir un Store.
type Config struct {
	Kind     string // "redis" | "memory"
	Addr     string // host:port (redis)
	Password string
	DB       int
	Prefix   string // prefijo global opcional, se une con ":"

	// OpTimeout acota cada operación. Default 2s.
	OpTimeout time.Duration

	// OnUnavailable se invoca ante cada falla de infraestructura (métricas).
	OnUnavailable func(op string, err error)
}

const defaultOpTimeout = 2 * time.Second

var (
	ErrNotFound = errors.New("cache: key not found")

	// ErrUnavailable es el SessionStoreUnavailable de la taxonomía de auth.
	ErrUnavailable = errors.New("session store unavailable")
)

// IsNotFound reporta si err indica clave ausente.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// New construye el Store según cfg.Kind. Para redis hace ping y falla si no responde.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "redis":
		return NewRedis(ctx, cfg)
	case "memory", "":
		return NewMemory(cfg), nil
	default:
		return nil, fmt.Errorf("cache: unknown kind %q", cfg.Kind)
	}
}

func (c Config) timeout() time.Duration {
	if c.OpTimeout > 0 {
		return c.OpTimeout
	}
	return defaultOpTimeout
}

func (c Config) key(k string) string {
	if c.Prefix == "" {
		return k
	}
	return c.Prefix + ":" + k
}

// unavailable envuelve err como ErrUnavailable y dispara el hook.
func (c Config) unavailable(op string, err error) error {
	if c.OnUnavailable != nil {
		c.OnUnavailable(op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
