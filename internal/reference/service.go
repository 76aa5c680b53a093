// Package reference sirve los catálogos (jobs, skills, sidoes...) con cache
// en proceso. Los catálogos cambian fuera de banda y son chicos, así que se
// cargan completos y Get busca sobre la lista cacheada.
package reference

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/waggle/internal/domain/repository"
	"github.com/dropDatabas3/waggle/internal/observability/logger"
)

var (
	ErrUnknownKind = errors.New("unknown reference kind")
	ErrNotFound    = errors.New("reference not found")
)

const defaultTTL = 10 * time.Minute

// Service expone los catálogos.
type Service interface {
	List(ctx context.Context, kind repository.ReferenceKind) ([]repository.ReferenceItem, error)
	Get(ctx context.Context, kind repository.ReferenceKind, id int64) (*repository.ReferenceItem, error)
	// Check falla con ErrNotFound ante el primer id inexistente.
	Check(ctx context.Context, kind repository.ReferenceKind, ids ...int64) error
	// Invalidate descarta la copia cacheada de kind.
	Invalidate(kind repository.ReferenceKind)
}

// Deps del servicio.
type Deps struct {
	Repo repository.ReferenceRepository
	TTL  time.Duration // default 10m
}

type service struct {
	repo  repository.ReferenceRepository
	cache *gocache.Cache
	group singleflight.Group
}

// NewService crea el servicio con su cache.
func NewService(d Deps) Service {
	ttl := d.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &service{
		repo:  d.Repo,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (s *service) List(ctx context.Context, kind repository.ReferenceKind) ([]repository.ReferenceItem, error) {
	items, err := s.load(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]repository.ReferenceItem, len(items))
	copy(out, items)
	return out, nil
}

func (s *service) Get(ctx context.Context, kind repository.ReferenceKind, id int64) (*repository.ReferenceItem, error) {
	items, err := s.load(ctx, kind)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.ID == id {
			cp := it
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%d", ErrNotFound, kind, id)
}

func (s *service) Check(ctx context.Context, kind repository.ReferenceKind, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	items, err := s.load(ctx, kind)
	if err != nil {
		return err
	}
	known := make(map[int64]struct{}, len(items))
	for _, it := range items {
		known[it.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: %s/%d", ErrNotFound, kind, id)
		}
	}
	return nil
}

func (s *service) Invalidate(kind repository.ReferenceKind) {
	s.cache.Delete(string(kind))
}

// load devuelve la lista cacheada o la trae del repo; cargas concurrentes
// del mismo kind comparten una sola query.
func (s *service) load(ctx context.Context, kind repository.ReferenceKind) ([]repository.ReferenceItem, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if v, ok := s.cache.Get(string(kind)); ok {
		return v.([]repository.ReferenceItem), nil
	}

	v, err, _ := s.group.Do(string(kind), func() (any, error) {
		items, err := s.repo.List(ctx, kind)
		if err != nil {
			return nil, err
		}
		s.cache.SetDefault(string(kind), items)
		return items, nil
	})
	if err != nil {
		logger.From(ctx).Warn("reference load failed",
			logger.Layer("service"), logger.Component("reference"),
			logger.String("kind", string(kind)), logger.Err(err))
		return nil, err
	}
	return v.([]repository.ReferenceItem), nil
}
