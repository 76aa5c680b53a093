package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/waggle/internal/domain/repository"
)

type referenceRepo struct{ s *Store }

// referenceQuery devuelve el SELECT base de cada catálogo. week_days_type es
// la única tabla con nombre corto y largo.
func referenceQuery(kind repository.ReferenceKind) (string, error) {
	var table string
	switch kind {
	case repository.KindJobs:
		table = "job"
	case repository.KindIndustries:
		table = "industry"
	case repository.KindSkills:
		table = "skill"
	case repository.KindWeekDays:
		return `SELECT id, short_name, full_name, created_at FROM week_days_type`, nil
	case repository.KindTimesOfWorking:
		table = "tow_type"
	case repository.KindWaysOfWorking:
		table = "wow_type"
	case repository.KindSidoes:
		table = "sido"
	case repository.KindPortfolioURLs:
		table = "portfolio_url"
	default:
		return "", fmt.Errorf("pg: unknown reference kind %q", kind)
	}
	return `SELECT id, name, '' AS full_name, created_at FROM ` + table, nil
}

func (r *referenceRepo) List(ctx context.Context, kind repository.ReferenceKind) ([]repository.ReferenceItem, error) {
	const op = "pg.references.List"
	base, err := referenceQuery(kind)
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.s.bound(ctx)
	defer cancel()

	rows, err := r.s.pool.Query(ctx, base+` ORDER BY id`)
	if err != nil {
		return nil, wrap(op, err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.ReferenceItem, error) {
		it := repository.ReferenceItem{Kind: kind}
		err := row.Scan(&it.ID, &it.Name, &it.FullName, &it.CreatedAt)
		return it, err
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	return items, nil
}

func (r *referenceRepo) Get(ctx context.Context, kind repository.ReferenceKind, id int64) (*repository.ReferenceItem, error) {
	const op = "pg.references.Get"
	base, err := referenceQuery(kind)
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.s.bound(ctx)
	defer cancel()

	it := repository.ReferenceItem{Kind: kind}
	err = r.s.pool.QueryRow(ctx, base+` WHERE id = $1`, id).Scan(&it.ID, &it.Name, &it.FullName, &it.CreatedAt)
	if err != nil {
		return nil, wrap(op, err)
	}
	return &it, nil
}
