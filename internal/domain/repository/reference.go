package repository

import (
	"context"
	"time"
)

// ReferenceKind identifica una tabla de referencia.
type ReferenceKind string

const (
	KindJobs           ReferenceKind = "jobs"
	KindIndustries     ReferenceKind = "industries"
	KindSkills         ReferenceKind = "skills"
	KindWeekDays       ReferenceKind = "week-days"
	KindTimesOfWorking ReferenceKind = "times-of-working"
	KindWaysOfWorking  ReferenceKind = "ways-of-working"
	KindSidoes         ReferenceKind = "sidoes"
	KindPortfolioURLs  ReferenceKind = "portfolio-urls"
)

// ReferenceKinds en orden estable.
var ReferenceKinds = []ReferenceKind{
	KindJobs, KindIndustries, KindSkills, KindWeekDays,
	KindTimesOfWorking, KindWaysOfWorking, KindSidoes, KindPortfolioURLs,
}

// Valid reporta si k es un tipo conocido.
func (k ReferenceKind) Valid() bool {
	for _, v := range ReferenceKinds {
		if v == k {
			return true
		}
	}
	return false
}

// ReferenceItem es una fila de catálogo. FullName sólo aplica a week-days
// (Name es la abreviatura: "월", FullName "월요일").
type ReferenceItem struct {
	ID        int64
	Kind      ReferenceKind
	Name      string
	FullName  string
	CreatedAt time.Time
}

// ReferenceRepository es de sólo lectura: los catálogos se cargan fuera de banda.
type ReferenceRepository interface {
	List(ctx context.Context, kind ReferenceKind) ([]ReferenceItem, error)
	Get(ctx context.Context, kind ReferenceKind, id int64) (*ReferenceItem, error)
}
