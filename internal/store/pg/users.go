package pg

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/waggle/internal/domain/repository"
)

type userRepo struct{ s *Store }

const userColumns = `id::text, name, email, avatar_url, provider, provider_id, detail,
	prefer_tow_id, prefer_wow_id, prefer_sido_id, created_at, updated_at`

func scanUser(row pgx.Row) (*repository.User, error) {
	var u repository.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.AvatarURL, &u.Provider, &u.ProviderID, &u.Profile.Detail,
		&u.Profile.PreferTowID, &u.Profile.PreferWowID, &u.Profile.PreferSidoID,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	const op = "pg.users.GetByID"
	ctx, cancel := r.s.bound(ctx)
	defer cancel()

	u, err := scanUser(r.s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM app_user WHERE id = $1`, id))
	if err != nil {
		return nil, wrap(op, err)
	}
	if err := loadLinks(ctx, r.s.pool, u); err != nil {
		return nil, wrap(op, err)
	}
	return u, nil
}

func (r *userRepo) GetByProvider(ctx context.Context, provider, providerID string) (*repository.User, error) {
	const op = "pg.users.GetByProvider"
	ctx, cancel := r.s.bound(ctx)
	defer cancel()

	u, err := scanUser(r.s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM app_user WHERE provider = $1 AND provider_id = $2`,
		provider, providerID))
	if err != nil {
		return nil, wrap(op, err)
	}
	if err := loadLinks(ctx, r.s.pool, u); err != nil {
		return nil, wrap(op, err)
	}
	return u, nil
}

func (r *userRepo) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	const op = "pg.users.Create"
	ctx, cancel := r.s.bound(ctx)
	defer cancel()

	u, err := scanUser(r.s.pool.QueryRow(ctx, `
		INSERT INTO app_user (id, name, email, avatar_url, provider, provider_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		in.ID, in.Name, in.Email, in.AvatarURL, in.Provider, in.ProviderID))
	if err != nil {
		return nil, wrap(op, err)
	}
	return u, nil
}

// UpdateProfile reemplaza columnas y tablas de vínculo en una sola transacción.
func (r *userRepo) UpdateProfile(ctx context.Context, id, name string, p repository.Profile) (*repository.User, error) {
	const op = "pg.users.UpdateProfile"
	ctx, cancel := r.s.bound(ctx)
	defer cancel()

	tx, err := r.s.pool.Begin(ctx)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer tx.Rollback(ctx)

	u, err := scanUser(tx.QueryRow(ctx, `
		UPDATE app_user
		SET name = $2, detail = $3, prefer_tow_id = $4, prefer_wow_id = $5, prefer_sido_id = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, name, p.Detail, p.PreferTowID, p.PreferWowID, p.PreferSidoID))
	if err != nil {
		return nil, wrap(op, err)
	}

	for _, table := range []string{"user_job", "user_industry", "user_skill", "user_week_days", "user_portfolio_url"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE user_id = $1`, id); err != nil {
			return nil, wrap(op, err)
		}
	}

	batch := &pgx.Batch{}
	for _, j := range p.Jobs {
		batch.Queue(`INSERT INTO user_job (user_id, job_id, year_cnt) VALUES ($1, $2, $3)`, id, j.JobID, j.YearCnt)
	}
	for _, v := range p.IndustryIDs {
		batch.Queue(`INSERT INTO user_industry (user_id, industry_id) VALUES ($1, $2)`, id, v)
	}
	for _, v := range p.SkillIDs {
		batch.Queue(`INSERT INTO user_skill (user_id, skill_id) VALUES ($1, $2)`, id, v)
	}
	for _, v := range p.WeekDayIDs {
		batch.Queue(`INSERT INTO user_week_days (user_id, week_days_id) VALUES ($1, $2)`, id, v)
	}
	for _, pu := range p.PortfolioURLs {
		batch.Queue(`INSERT INTO user_portfolio_url (user_id, portfolio_url_id, url) VALUES ($1, $2, $3)`, id, pu.PortfolioURLID, pu.URL)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return nil, wrap(op, err)
		}
	}

	if err := loadLinks(ctx, tx, u); err != nil {
		return nil, wrap(op, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, wrap(op, err)
	}
	return u, nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	const op = "pg.users.Delete"
	ctx, cancel := r.s.bound(ctx)
	defer cancel()

	tag, err := r.s.pool.Exec(ctx, `DELETE FROM app_user WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrap(op, repository.ErrNotFound)
	}
	return nil
}

// loadLinks completa las listas del perfil desde las tablas de vínculo.
func loadLinks(ctx context.Context, q querier, u *repository.User) error {
	rows, err := q.Query(ctx, `SELECT job_id, year_cnt FROM user_job WHERE user_id = $1 ORDER BY job_id`, u.ID)
	if err != nil {
		return err
	}
	jobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.UserJob, error) {
		var j repository.UserJob
		err := row.Scan(&j.JobID, &j.YearCnt)
		return j, err
	})
	if err != nil {
		return err
	}
	u.Profile.Jobs = jobs

	ids := func(sql string) ([]int64, error) {
		rows, err := q.Query(ctx, sql, u.ID)
		if err != nil {
			return nil, err
		}
		return pgx.CollectRows(rows, pgx.RowTo[int64])
	}
	if u.Profile.IndustryIDs, err = ids(`SELECT industry_id FROM user_industry WHERE user_id = $1 ORDER BY industry_id`); err != nil {
		return err
	}
	if u.Profile.SkillIDs, err = ids(`SELECT skill_id FROM user_skill WHERE user_id = $1 ORDER BY skill_id`); err != nil {
		return err
	}
	if u.Profile.WeekDayIDs, err = ids(`SELECT week_days_id FROM user_week_days WHERE user_id = $1 ORDER BY week_days_id`); err != nil {
		return err
	}

	rows, err = q.Query(ctx, `SELECT portfolio_url_id, url FROM user_portfolio_url WHERE user_id = $1 ORDER BY portfolio_url_id, url`, u.ID)
	if err != nil {
		return err
	}
	u.Profile.PortfolioURLs, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.PortfolioURL, error) {
		var p repository.PortfolioURL
		err := row.Scan(&p.PortfolioURLID, &p.URL)
		return p, err
	})
	return err
}
