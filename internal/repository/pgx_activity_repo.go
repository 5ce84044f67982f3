package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkaryagin/taskboard/internal/db"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
)

type Activity struct {
	Action    string    `db:"action"`
	Details   string    `db:"details"`
	CreatedAt time.Time `db:"created_at"`
	TeamName  string    `db:"team_name"`
}

type ActivityRepository interface {
	ListRecent(ctx context.Context, teamIDs []string, since time.Time, limit int) ([]*Activity, error)
}

type pgxActivityRepository struct {
	pool *pgxpool.Pool
}

func NewPgxActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &pgxActivityRepository{pool: pool}
}

// ListRecent returns the newest log entries in the window, annotated with the
// team name.
func (p *pgxActivityRepository) ListRecent(ctx context.Context, teamIDs []string, since time.Time, limit int) ([]*Activity, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("a.action", "a.details", "a.created_at", "t.name"),
		sm.From("activity_log").As("a"),
		sm.LeftJoin("teams").As("t").On(psql.Quote("a", "team_id").EQ(psql.Quote("t", "id"))),
		sm.Where(psql.Quote("a", "team_id").In(psql.Arg(anyArgs(teamIDs)...))),
		sm.Where(psql.Quote("a", "created_at").GTE(psql.Arg(since))),
		sm.OrderBy("a.created_at").Desc(),
		sm.Limit(limit),
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

	activities, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Activity, error) {
		a := &Activity{}
		if err = row.Scan(&a.Action, &a.Details, &a.CreatedAt, &a.TeamName); err != nil {
			return nil, err
		}
		return a, nil
	})
	if err != nil {
		return nil, err
	}

	return activities, nil
}
