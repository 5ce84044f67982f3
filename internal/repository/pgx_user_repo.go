package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkaryagin/taskboard/internal/db"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
)

type Member struct {
	ID       string `db:"id"`
	Username string `db:"username"`
}

type UserRepository interface {
	ListMembers(ctx context.Context, teamIDs []string) ([]*Member, error)
}

type pgxUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgxUserRepository(pool *pgxpool.Pool) UserRepository {
	return &pgxUserRepository{pool: pool}
}

// ListMembers returns every distinct user holding a membership in any of the
// given teams, ordered by username.
func (p *pgxUserRepository) ListMembers(ctx context.Context, teamIDs []string) ([]*Member, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Distinct(),
		sm.Columns("u.id", "u.username"),
		sm.From("users").As("u"),
		sm.InnerJoin("team_members").As("tm").On(psql.Quote("tm", "user_id").EQ(psql.Quote("u", "id"))),
		sm.Where(psql.Quote("tm", "team_id").In(psql.Arg(anyArgs(teamIDs)...))),
		sm.OrderBy("u.username"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Member, error) {
		m := &Member{}
		if err = row.Scan(&m.ID, &m.Username); err != nil {
			return nil, err
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}

	return members, nil
}
