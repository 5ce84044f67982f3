package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkaryagin/taskboard/internal/db"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
)

type Team struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

// TeamCount is a per-team counter row (members, created tasks, ...).
type TeamCount struct {
	TeamID string `db:"team_id"`
	Count  int    `db:"count"`
}

type TeamRepository interface {
	ListUserTeamIDs(ctx context.Context, userID string) ([]string, error)
	List(ctx context.Context, teamIDs []string) ([]*Team, error)
	CountByIDs(ctx context.Context, teamIDs []string) (int, error)
	CountMembers(ctx context.Context, teamIDs []string) (int, error)
	CountMembersByTeam(ctx context.Context, teamIDs []string) ([]*TeamCount, error)
}

type pgxTeamRepository struct {
	pool *pgxpool.Pool
}

func NewPgxTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &pgxTeamRepository{pool: pool}
}

func (p *pgxTeamRepository) ListUserTeamIDs(ctx context.Context, userID string) ([]string, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("team_id"),
		sm.From("team_members"),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
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

	ids, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var id string
		err = row.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (p *pgxTeamRepository) List(ctx context.Context, teamIDs []string) ([]*Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "name"),
		sm.From("teams"),
		sm.Where(psql.Quote("id").In(psql.Arg(anyArgs(teamIDs)...))),
		sm.OrderBy("name"),
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

	teams, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Team, error) {
		team := &Team{}
		if err = row.Scan(&team.ID, &team.Name); err != nil {
			return nil, err
		}
		return team, nil
	})
	if err != nil {
		return nil, err
	}

	return teams, nil
}

func (p *pgxTeamRepository) CountByIDs(ctx context.Context, teamIDs []string) (int, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("count(*)"),
		sm.From("teams"),
		sm.Where(psql.Quote("id").In(psql.Arg(anyArgs(teamIDs)...))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return 0, err
	}

	var count int
	if err = e.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountMembers counts memberships, not distinct users: a user on two scoped
// teams contributes two.
func (p *pgxTeamRepository) CountMembers(ctx context.Context, teamIDs []string) (int, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("count(*)"),
		sm.From("team_members"),
		sm.Where(psql.Quote("team_id").In(psql.Arg(anyArgs(teamIDs)...))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return 0, err
	}

	var count int
	if err = e.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (p *pgxTeamRepository) CountMembersByTeam(ctx context.Context, teamIDs []string) ([]*TeamCount, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("team_id", "count(*)"),
		sm.From("team_members"),
		sm.Where(psql.Quote("team_id").In(psql.Arg(anyArgs(teamIDs)...))),
		sm.GroupBy("team_id"),
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

	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*TeamCount, error) {
		tc := &TeamCount{}
		if err = row.Scan(&tc.TeamID, &tc.Count); err != nil {
			return nil, err
		}
		return tc, nil
	})
	if err != nil {
		return nil, err
	}

	return counts, nil
}
