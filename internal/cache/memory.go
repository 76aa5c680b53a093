package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

var errClosed = errors.New("memory store closed")

// MemoryStore implementa Store en proceso. Sólo para dev/tests: no se comparte
// entre réplicas.
type MemoryStore struct {
	mu     sync.Mutex
	c      *gocache.Cache
	cfg    Config
	closed bool
}

// NewMemory crea un store en memoria con janitor de 1 minuto.
func NewMemory(cfg Config) *MemoryStore {
	return &MemoryStore{c: gocache.New(gocache.NoExpiration, time.Minute), cfg: cfg}
}

func (m *MemoryStore) check(ctx context.Context, op string) error {
	if m.closed {
		return m.cfg.unavailable(op, errClosed)
	}
	if err := ctx.Err(); err != nil {
		return m.cfg.unavailable(op, err)
	}
	return nil
}

func (m *MemoryStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ctx, "put"); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.c.Set(m.cfg.key(key), value, ttl)
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ctx, "get"); err != nil {
		return "", err
	}
	return m.lookup(key)
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ctx, "delete"); err != nil {
		return err
	}
	m.c.Delete(m.cfg.key(key))
	return nil
}

func (m *MemoryStore) GetAndDelete(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ctx, "getdel"); err != nil {
		return "", err
	}
	v, err := m.lookup(key)
	if err != nil {
		return "", err
	}
	m.c.Delete(m.cfg.key(key))
	return v, nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.check(ctx, "ping")
}

// Close marca el store como cerrado; las operaciones siguientes fallan con ErrUnavailable.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.c.Flush()
	return nil
}

// Len devuelve la cantidad de claves vivas (tests).
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.c.ItemCount()
}

func (m *MemoryStore) lookup(key string) (string, error) {
	v, ok := m.c.Get(m.cfg.key(key))
	if !ok {
		return "", ErrNotFound
	}
	s, _ := v.(string)
	return s, nil
}
