// Package reference contiene los DTOs de los catálogos.
package reference

import "github.com/dropDatabas3/waggle/internal/domain/repository"

// Item es una fila de catálogo. FullName sólo viene en week-days.
type Item struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"fullName,omitempty"`
}

// FromItems mapea el catálogo; nunca devuelve nil (la API responde [] y no null).
func FromItems(items []repository.ReferenceItem) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		out = append(out, Item{ID: it.ID, Name: it.Name, FullName: it.FullName})
	}
	return out
}
