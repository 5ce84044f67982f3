package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkaryagin/taskboard/internal/db"
	"github.com/mkaryagin/taskboard/internal/model"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
)

// TaskFacts is the per-row fact set the dashboard derives its numbers from.
type TaskFacts struct {
	TeamID      string             `db:"team_id"`
	Status      model.TaskStatus   `db:"status"`
	Priority    model.TaskPriority `db:"priority"`
	DueDate     *time.Time         `db:"due_date"`
	CreatedAt   time.Time          `db:"created_at"`
	CompletedAt *time.Time         `db:"completed_at"`
	AssignedTo  *string            `db:"assigned_to"`
}

// TaskFilter narrows ListFacts. TeamIDs is mandatory; the rest are optional.
type TaskFilter struct {
	TeamIDs        []string
	AssignedTo     string
	CreatedSince   *time.Time
	CompletedSince *time.Time
}

// TeamTaskStats carries per-team aggregates for the team stats section.
type TeamTaskStats struct {
	TeamID    string `db:"team_id"`
	Total     int    `db:"total"`
	Completed int    `db:"completed"`
	Overdue   int    `db:"overdue"`
}

type TaskRepository interface {
	ListFacts(ctx context.Context, filter TaskFilter) ([]*TaskFacts, error)
	CountCreatedSince(ctx context.Context, teamIDs []string, since time.Time) (int, error)
	CountCompletedSince(ctx context.Context, teamIDs []string, since time.Time) (int, error)
	CountCreatedSinceByTeam(ctx context.Context, teamIDs []string, since time.Time) ([]*TeamCount, error)
	StatsByTeam(ctx context.Context, teamIDs []string, now time.Time) ([]*TeamTaskStats, error)
}

type pgxTaskRepository struct {
	pool *pgxpool.Pool
}

func NewPgxTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &pgxTaskRepository{pool: pool}
}

func (p *pgxTaskRepository) ListFacts(ctx context.Context, filter TaskFilter) ([]*TaskFacts, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	mods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns("team_id", "status", "priority", "due_date", "created_at", "completed_at", "assigned_to"),
		sm.From("tasks"),
		sm.Where(psql.Quote("team_id").In(psql.Arg(anyArgs(filter.TeamIDs)...))),
	}

	if filter.AssignedTo != "" {
		mods = append(mods, sm.Where(psql.Quote("assigned_to").EQ(psql.Arg(filter.AssignedTo))))
	}
	if filter.CreatedSince != nil {
		mods = append(mods, sm.Where(psql.Quote("created_at").GTE(psql.Arg(*filter.CreatedSince))))
	}
	if filter.CompletedSince != nil {
		mods = append(mods, sm.Where(psql.Quote("completed_at").GTE(psql.Arg(*filter.CompletedSince))))
	}

	q := psql.Select(mods...)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	facts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*TaskFacts, error) {
		t := &TaskFacts{}
		if err = row.Scan(&t.TeamID, &t.Status, &t.Priority, &t.DueDate, &t.CreatedAt, &t.CompletedAt, &t.AssignedTo); err != nil {
			return nil, err
		}
		return t, nil
	})
	if err != nil {
		return nil, err
	}

	return facts, nil
}

func (p *pgxTaskRepository) CountCreatedSince(ctx context.Context, teamIDs []string, since time.Time) (int, error) {
	return p.countSince(ctx, "created_at", teamIDs, since)
}

func (p *pgxTaskRepository) CountCompletedSince(ctx context.Context, teamIDs []string, since time.Time) (int, error) {
	return p.countSince(ctx, "completed_at", teamIDs, since)
}

func (p *pgxTaskRepository) countSince(ctx context.Context, column string, teamIDs []string, since time.Time) (int, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("count(*)"),
		sm.From("tasks"),
		sm.Where(psql.Quote("team_id").In(psql.Arg(anyArgs(teamIDs)...))),
		sm.Where(psql.Quote(column).GTE(psql.Arg(since))),
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

func (p *pgxTaskRepository) CountCreatedSinceByTeam(ctx context.Context, teamIDs []string, since time.Time) ([]*TeamCount, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("team_id", "count(*)"),
		sm.From("tasks"),
		sm.Where(psql.Quote("team_id").In(psql.Arg(anyArgs(teamIDs)...))),
		sm.Where(psql.Quote("created_at").GTE(psql.Arg(since))),
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

func (p *pgxTaskRepository) StatsByTeam(ctx context.Context, teamIDs []string, now time.Time) ([]*TeamTaskStats, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(
			"team_id",
			"count(*)",
			psql.Raw("count(*) filter (where status = ?)", string(model.TaskStatusDone)),
			psql.Raw("count(*) filter (where due_date is not null and due_date < ? and status <> ?)",
				now, string(model.TaskStatusDone)),
		),
		sm.From("tasks"),
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

	stats, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*TeamTaskStats, error) {
		s := &TeamTaskStats{}
		if err = row.Scan(&s.TeamID, &s.Total, &s.Completed, &s.Overdue); err != nil {
			return nil, err
		}
		return s, nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}
