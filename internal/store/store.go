// Package store abre la capa de persistencia según el driver configurado.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/waggle/internal/domain/repository"
	"github.com/dropDatabas3/waggle/internal/store/memory"
	"github.com/dropDatabas3/waggle/internal/store/pg"
	migrations "github.com/dropDatabas3/waggle/migrations/postgres"
)

// Store agrupa los repositorios de una conexión.
type Store interface {
	Users() repository.UserRepository
	References() repository.ReferenceRepository
	Projects() repository.ProjectRepository

	Ping(ctx context.Context) error
	Close() error
}

// Config de la capa de persistencia.
type Config struct {
	Driver       string // "postgres" | "memory"
	DSN          string
	MaxConns     int32
	MinConns     int32
	QueryTimeout time.Duration
	AutoMigrate  bool // aplica migrations/postgres al abrir
}

// Open conecta con el driver elegido. postgres hace ping antes de devolver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "postgres", "pg", "postgresql":
		s, err := pg.Connect(ctx, pg.Config{
			DSN:          cfg.DSN,
			MaxConns:     cfg.MaxConns,
			MinConns:     cfg.MinConns,
			QueryTimeout: cfg.QueryTimeout,
		})
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if _, err := s.Migrate(ctx, migrations.FS, migrations.Dir); err != nil {
				s.Close()
				return nil, fmt.Errorf("store: migrate: %w", err)
			}
		}
		return s, nil
	case "memory", "":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
