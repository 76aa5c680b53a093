// Package memory implementa los repositorios en proceso. Pensado para
// desarrollo local (storage.driver=memory) y tests; no persiste nada.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dropDatabas3/waggle/internal/domain/repository"
)

// Store guarda todo en mapas protegidos por un único RWMutex.
type Store struct {
	mu sync.RWMutex

	users      map[string]*repository.User
	byProvider map[string]string // provider|providerId -> userID

	refs map[repository.ReferenceKind][]repository.ReferenceItem

	projects map[string]*repository.Project
	applies  map[string]map[string]*application // projectID -> userID -> app

	now func() time.Time
}

type application struct {
	status    repository.ApplicationStatus
	appliedAt time.Time
}

// New crea un store vacío con el catálogo de referencia por defecto.
func New() *Store {
	return &Store{
		users:      make(map[string]*repository.User),
		byProvider: make(map[string]string),
		refs:       defaultCatalogue(),
		projects:   make(map[string]*repository.Project),
		applies:    make(map[string]map[string]*application),
		now:        time.Now,
	}
}

func (s *Store) Users() repository.UserRepository           { return (*userRepo)(s) }
func (s *Store) References() repository.ReferenceRepository { return (*referenceRepo)(s) }
func (s *Store) Projects() repository.ProjectRepository     { return (*projectRepo)(s) }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }
func (s *Store) Close() error                   { return nil }

// SeedReferences reemplaza el catálogo de un tipo (tests).
func (s *Store) SeedReferences(kind repository.ReferenceKind, items []repository.ReferenceItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]repository.ReferenceItem, len(items))
	copy(cp, items)
	for i := range cp {
		cp[i].Kind = kind
	}
	sort.Slice(cp, func(i, j int) bool { return cp[i].ID < cp[j].ID })
	s.refs[kind] = cp
}

func providerKey(provider, providerID string) string { return provider + "|" + providerID }
