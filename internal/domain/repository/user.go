package repository

import (
	"context"
	"time"
)

// User es la cuenta local creada en el primer login social.
// (Provider, ProviderID) es único e inmutable; ID nunca cambia.
type User struct {
	ID         string
	Name       string
	Email      string
	AvatarURL  string
	Provider   string
	ProviderID string

	Profile Profile

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile agrupa los datos editables por el usuario. Los IDs apuntan a
// tablas de referencia (ver ReferenceRepository).
type Profile struct {
	Detail        string
	Jobs          []UserJob
	IndustryIDs   []int64
	SkillIDs      []int64
	WeekDayIDs    []int64
	PreferTowID   *int64
	PreferWowID   *int64
	PreferSidoID  *int64
	PortfolioURLs []PortfolioURL
}

// UserJob es un puesto con años de experiencia.
type UserJob struct {
	JobID   int64
	YearCnt int
}

// PortfolioURL es un link del usuario tipado por PortfolioURLID (github, blog, ...).
type PortfolioURL struct {
	PortfolioURLID int64
	URL            string
}

// CreateUserInput datos del primer login.
type CreateUserInput struct {
	ID         string
	Name       string
	Email      string
	AvatarURL  string
	Provider   string
	ProviderID string
}

// UserRepository persiste usuarios.
type UserRepository interface {
	// GetByID devuelve ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByProvider busca por el par (provider, providerId).
	GetByProvider(ctx context.Context, provider, providerID string) (*User, error)

	// Create inserta; ErrConflict si (provider, providerId) ya existe.
	Create(ctx context.Context, in CreateUserInput) (*User, error)

	// UpdateProfile reemplaza nombre y perfil completos.
	UpdateProfile(ctx context.Context, id, name string, p Profile) (*User, error)

	// Delete borra el usuario y sus vínculos. ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
}
