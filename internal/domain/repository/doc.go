// Package repository define los contratos de persistencia del dominio.
//
// Las implementaciones viven en internal/store/pg (PostgreSQL) e
// internal/store/memory (en proceso, dev/tests). El subsistema de auth sólo
// usa UserRepository; el resto lo consumen los services de perfil,
// referencia y proyectos.
//
//	┌────────────────────────────────────────────┐
//	│   auth / user / reference / project        │
//	└────────────────────────────────────────────┘
//	                     │
//	                     ▼
//	┌────────────────────────────────────────────┐
//	│  domain/repository (interfaces)            │
//	│  Users, References, Projects               │
//	└────────────────────────────────────────────┘
//	           │                     │
//	           ▼                     ▼
//	    ┌─────────────┐       ┌─────────────┐
//	    │  store/pg   │       │ store/memory│
//	    └─────────────┘       └─────────────┘
//
// Convenciones:
//   - Context siempre es el primer parámetro.
//   - Ausencia => ErrNotFound; unicidad violada => ErrConflict.
package repository
