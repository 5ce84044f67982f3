package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/mkaryagin/taskboard/internal/db"
	"github.com/mkaryagin/taskboard/internal/model"
	"github.com/mkaryagin/taskboard/internal/repository"
	"github.com/mkaryagin/taskboard/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	activityWindowDays = 7
	recentActivityMax  = 10
	topPerformersMax   = 5
	dateLayout         = "2006-01-02"
)

type DashboardService struct {
	tx db.Transactor

	teams      repository.TeamRepository
	tasks      repository.TaskRepository
	users      repository.UserRepository
	activities repository.ActivityRepository

	now func() time.Time
}

func NewDashboardService(tx db.Transactor) *DashboardService {
	return &DashboardService{
		tx:  tx,
		now: time.Now,
	}
}

func (s *DashboardService) WithTeamRepo(r repository.TeamRepository) *DashboardService {
	s.teams = r
	return s
}

func (s *DashboardService) WithTaskRepo(r repository.TaskRepository) *DashboardService {
	s.tasks = r
	return s
}

func (s *DashboardService) WithUserRepo(r repository.UserRepository) *DashboardService {
	s.users = r
	return s
}

func (s *DashboardService) WithActivityRepo(r repository.ActivityRepository) *DashboardService {
	s.activities = r
	return s
}

// WithNow overrides the clock, for tests.
func (s *DashboardService) WithNow(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// GetDashboardAnalytics computes the composite dashboard report for the
// caller. When teamID is non-empty the whole report is restricted to that
// team; otherwise it spans every team the caller belongs to. All timestamps
// are bucketed on UTC calendar days.
func (s *DashboardService) GetDashboardAnalytics(ctx context.Context, userID, teamID string) (*model.DashboardAnalytics, *Error) {
	l := logger.FromContext(ctx)
	l.Info("computing dashboard analytics", zap.String("user_id", userID), zap.String("team_id", teamID))

	targetIDs, err := s.resolveScope(ctx, userID, teamID)
	if err != nil {
		l.Error("failed to resolve team scope", zap.String("user_id", userID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to resolve team scope")
	}

	scopeTeams := []*repository.Team{}
	if len(targetIDs) > 0 {
		scopeTeams, err = s.teams.List(ctx, targetIDs)
		if err != nil {
			l.Error("failed to load scoped teams", zap.Error(err))
			return nil, NewError(ErrorCodeUnspecified, "failed to resolve team scope")
		}
	}

	// Zero accessible teams: every downstream aggregate is meaningless, so
	// short-circuit with a fully zeroed report instead of querying.
	if len(scopeTeams) == 0 {
		l.Info("empty team scope, returning empty analytics", zap.String("user_id", userID))
		return emptyAnalytics(), nil
	}

	scope := make([]string, 0, len(scopeTeams))
	for _, team := range scopeTeams {
		scope = append(scope, team.ID)
	}

	now := s.now().UTC()
	weekAgo := now.AddDate(0, 0, -activityWindowDays)

	res := &model.DashboardAnalytics{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.overviewStats(gctx, scope, now)
		res.Overview = v
		return err
	})
	g.Go(func() error {
		v, err := s.taskStats(gctx, scope)
		res.TaskStats = v
		return err
	})
	g.Go(func() error {
		v, err := s.personalStats(gctx, userID, scope, now)
		res.PersonalStats = v
		return err
	})
	g.Go(func() error {
		v, err := s.teamStats(gctx, scopeTeams, scope, now)
		res.TeamStats = v
		return err
	})
	g.Go(func() error {
		v, err := s.activityStats(gctx, scopeTeams, scope, weekAgo)
		res.ActivityStats = v
		return err
	})
	g.Go(func() error {
		v, err := s.workloadStats(gctx, scope)
		res.WorkloadStats = v
		return err
	})
	g.Go(func() error {
		v, err := s.timeAnalytics(gctx, scope, now, weekAgo)
		res.TimeAnalytics = v
		return err
	})

	if err = g.Wait(); err != nil {
		l.Error("failed to compute dashboard analytics", zap.String("user_id", userID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to compute dashboard analytics")
	}

	l.Debug("dashboard analytics computed", zap.String("user_id", userID), zap.Int("teams_in_scope", len(scope)))

	return res, nil
}

func (s *DashboardService) resolveScope(ctx context.Context, userID, teamID string) ([]string, error) {
	if teamID != "" {
		return []string{teamID}, nil
	}
	return s.teams.ListUserTeamIDs(ctx, userID)
}

func (s *DashboardService) overviewStats(ctx context.Context, scope []string, now time.Time) (*model.OverviewStats, error) {
	var (
		facts       []*repository.TaskFacts
		teamCount   int
		memberCount int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		facts, err = s.tasks.ListFacts(gctx, repository.TaskFilter{TeamIDs: scope})
		return err
	})
	g.Go(func() error {
		var err error
		teamCount, err = s.teams.CountByIDs(gctx, scope)
		return err
	})
	g.Go(func() error {
		var err error
		memberCount, err = s.teams.CountMembers(gctx, scope)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	completed, overdue := 0, 0
	for _, t := range facts {
		if t.Status == model.TaskStatusDone {
			completed++
		}
		if isOverdue(t, now) {
			overdue++
		}
	}

	return &model.OverviewStats{
		TotalTasks:     len(facts),
		CompletedTasks: completed,
		OverdueTasks:   overdue,
		TotalTeams:     teamCount,
		TotalMembers:   memberCount,
	}, nil
}

func (s *DashboardService) taskStats(ctx context.Context, scope []string) (*model.TaskStats, error) {
	facts, err := s.tasks.ListFacts(ctx, repository.TaskFilter{TeamIDs: scope})
	if err != nil {
		return nil, err
	}

	total := len(facts)

	byStatus := make([]*model.StatusCount, 0, len(model.AllTaskStatuses()))
	for _, status := range model.AllTaskStatuses() {
		count := 0
		for _, t := range facts {
			if t.Status == status {
				count++
			}
		}
		byStatus = append(byStatus, &model.StatusCount{
			Status:     status,
			Count:      count,
			Percentage: roundPct(count, total),
		})
	}

	byPriority := make([]*model.PriorityCount, 0, len(model.AllTaskPriorities()))
	for _, priority := range model.AllTaskPriorities() {
		count := 0
		for _, t := range facts {
			if t.Priority == priority {
				count++
			}
		}
		byPriority = append(byPriority, &model.PriorityCount{
			Priority:   priority,
			Count:      count,
			Percentage: roundPct(count, total),
		})
	}

	completed, totalDays := 0, 0
	for _, t := range facts {
		if t.Status != model.TaskStatusDone {
			continue
		}
		completed++
		if t.CompletedAt != nil {
			totalDays += completionDays(t.CreatedAt, *t.CompletedAt)
		}
	}

	avgDays := 0
	if completed > 0 {
		avgDays = int(math.Round(float64(totalDays) / float64(completed)))
	}

	return &model.TaskStats{
		ByStatus:                  byStatus,
		ByPriority:                byPriority,
		CompletionRate:            roundPct(completed, total),
		AverageCompletionTimeDays: avgDays,
	}, nil
}

func (s *DashboardService) personalStats(ctx context.Context, userID string, scope []string, now time.Time) (*model.PersonalStats, error) {
	facts, err := s.tasks.ListFacts(ctx, repository.TaskFilter{TeamIDs: scope, AssignedTo: userID})
	if err != nil {
		return nil, err
	}

	completed, overdue := 0, 0
	for _, t := range facts {
		if t.Status == model.TaskStatusDone {
			completed++
		}
		if isOverdue(t, now) {
			overdue++
		}
	}

	return &model.PersonalStats{
		TasksAssigned:  len(facts),
		TasksCompleted: completed,
		TasksPending:   len(facts) - completed,
		CompletionRate: roundPct(completed, len(facts)),
		OverdueTasks:   overdue,
	}, nil
}

func (s *DashboardService) teamStats(ctx context.Context, scopeTeams []*repository.Team, scope []string, now time.Time) ([]*model.TeamStats, error) {
	var (
		taskStats    []*repository.TeamTaskStats
		memberCounts []*repository.TeamCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		taskStats, err = s.tasks.StatsByTeam(gctx, scope, now)
		return err
	})
	g.Go(func() error {
		var err error
		memberCounts, err = s.teams.CountMembersByTeam(gctx, scope)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	statsByTeam := make(map[string]*repository.TeamTaskStats, len(taskStats))
	for _, st := range taskStats {
		statsByTeam[st.TeamID] = st
	}
	membersByTeam := make(map[string]int, len(memberCounts))
	for _, mc := range memberCounts {
		membersByTeam[mc.TeamID] = mc.Count
	}

	res := make([]*model.TeamStats, 0, len(scopeTeams))
	for _, team := range scopeTeams {
		row := &model.TeamStats{
			TeamID:      team.ID,
			TeamName:    team.Name,
			MemberCount: membersByTeam[team.ID],
		}
		if st, ok := statsByTeam[team.ID]; ok {
			row.TotalTasks = st.Total
			row.CompletedTasks = st.Completed
			row.OverdueTasks = st.Overdue
			row.CompletionRate = roundPct(st.Completed, st.Total)
		}
		res = append(res, row)
	}

	return res, nil
}

func (s *DashboardService) activityStats(ctx context.Context, scopeTeams []*repository.Team, scope []string, weekAgo time.Time) (*model.ActivityStats, error) {
	var (
		created      int
		completed    int
		recent       []*repository.Activity
		createdCount []*repository.TeamCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		created, err = s.tasks.CountCreatedSince(gctx, scope, weekAgo)
		return err
	})
	g.Go(func() error {
		var err error
		completed, err = s.tasks.CountCompletedSince(gctx, scope, weekAgo)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.activities.ListRecent(gctx, scope, weekAgo, recentActivityMax)
		return err
	})
	g.Go(func() error {
		var err error
		createdCount, err = s.tasks.CountCreatedSinceByTeam(gctx, scope, weekAgo)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	countByTeam := make(map[string]int, len(createdCount))
	for _, tc := range createdCount {
		countByTeam[tc.TeamID] = tc.Count
	}

	// scopeTeams is ordered by name, so a strict comparison resolves count
	// ties in favour of the lexicographically smaller team name.
	var mostActive *model.MostActiveTeam
	for _, team := range scopeTeams {
		count := countByTeam[team.ID]
		if mostActive == nil || count > mostActive.TaskCount {
			mostActive = &model.MostActiveTeam{Name: team.Name, TaskCount: count}
		}
	}

	recentActivity := make([]*model.RecentActivity, 0, len(recent))
	for _, a := range recent {
		recentActivity = append(recentActivity, &model.RecentActivity{
			Action:    a.Action,
			Details:   a.Details,
			CreatedAt: a.CreatedAt,
			TeamName:  a.TeamName,
		})
	}

	return &model.ActivityStats{
		TasksCreatedThisWeek:   created,
		TasksCompletedThisWeek: completed,
		MostActiveTeam:         mostActive,
		RecentActivity:         recentActivity,
	}, nil
}

func (s *DashboardService) workloadStats(ctx context.Context, scope []string) (*model.WorkloadStats, error) {
	var (
		members []*repository.Member
		facts   []*repository.TaskFacts
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = s.users.ListMembers(gctx, scope)
		return err
	})
	g.Go(func() error {
		var err error
		facts, err = s.tasks.ListFacts(gctx, repository.TaskFilter{TeamIDs: scope})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	assigned := make(map[string]int, len(members))
	completed := make(map[string]int, len(members))
	for _, t := range facts {
		if t.AssignedTo == nil {
			continue
		}
		assigned[*t.AssignedTo]++
		if t.Status == model.TaskStatusDone {
			completed[*t.AssignedTo]++
		}
	}

	distribution := make([]*model.UserTaskDistribution, 0, len(members))
	performers := make([]*model.TopPerformer, 0, len(members))
	for _, m := range members {
		distribution = append(distribution, &model.UserTaskDistribution{
			UserID:         m.ID,
			Username:       m.Username,
			AssignedTasks:  assigned[m.ID],
			CompletedTasks: completed[m.ID],
			PendingTasks:   assigned[m.ID] - completed[m.ID],
		})
		if assigned[m.ID] > 0 {
			performers = append(performers, &model.TopPerformer{
				UserID:         m.ID,
				Username:       m.Username,
				CompletedTasks: completed[m.ID],
				TotalAssigned:  assigned[m.ID],
				CompletionRate: roundPct(completed[m.ID], assigned[m.ID]),
			})
		}
	}

	// Stable sort keeps the username ordering from ListMembers on rate ties.
	sort.SliceStable(performers, func(i, j int) bool {
		return performers[i].CompletionRate > performers[j].CompletionRate
	})
	if len(performers) > topPerformersMax {
		performers = performers[:topPerformersMax]
	}

	return &model.WorkloadStats{
		TopPerformers:    performers,
		TaskDistribution: distribution,
	}, nil
}

func (s *DashboardService) timeAnalytics(ctx context.Context, scope []string, now, weekAgo time.Time) (*model.TimeAnalytics, error) {
	var createdFacts, completedFacts []*repository.TaskFacts

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		createdFacts, err = s.tasks.ListFacts(gctx, repository.TaskFilter{TeamIDs: scope, CreatedSince: &weekAgo})
		return err
	})
	g.Go(func() error {
		var err error
		completedFacts, err = s.tasks.ListFacts(gctx, repository.TaskFilter{TeamIDs: scope, CompletedSince: &weekAgo})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	createdByDay := make(map[string]int)
	for _, t := range createdFacts {
		createdByDay[t.CreatedAt.UTC().Format(dateLayout)]++
	}
	completedByDay := make(map[string]int)
	for _, t := range completedFacts {
		if t.CompletedAt != nil {
			completedByDay[t.CompletedAt.UTC().Format(dateLayout)]++
		}
	}

	createdSeries := make([]*model.DayCount, 0, activityWindowDays)
	completedSeries := make([]*model.DayCount, 0, activityWindowDays)
	totalCreated := 0
	peakDay, peakCount := "", -1

	// Last 7 UTC calendar dates, today inclusive, oldest first. A strict
	// comparison makes the earliest date win peak ties.
	for i := activityWindowDays - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format(dateLayout)

		created := createdByDay[date]
		createdSeries = append(createdSeries, &model.DayCount{Date: date, Count: created})
		completedSeries = append(completedSeries, &model.DayCount{Date: date, Count: completedByDay[date]})

		totalCreated += created
		if created > peakCount {
			peakDay, peakCount = date, created
		}
	}

	return &model.TimeAnalytics{
		TasksCreatedLast7Days:   createdSeries,
		TasksCompletedLast7Days: completedSeries,
		AverageTasksPerDay:      int(math.Round(float64(totalCreated) / float64(activityWindowDays))),
		PeakActivityDay:         peakDay,
	}, nil
}

func emptyAnalytics() *model.DashboardAnalytics {
	return &model.DashboardAnalytics{
		Overview: &model.OverviewStats{},
		TaskStats: &model.TaskStats{
			ByStatus:   []*model.StatusCount{},
			ByPriority: []*model.PriorityCount{},
		},
		PersonalStats: &model.PersonalStats{},
		TeamStats:     []*model.TeamStats{},
		ActivityStats: &model.ActivityStats{
			RecentActivity: []*model.RecentActivity{},
		},
		WorkloadStats: &model.WorkloadStats{
			TopPerformers:    []*model.TopPerformer{},
			TaskDistribution: []*model.UserTaskDistribution{},
		},
		TimeAnalytics: &model.TimeAnalytics{
			TasksCreatedLast7Days:   []*model.DayCount{},
			TasksCompletedLast7Days: []*model.DayCount{},
		},
	}
}

// isOverdue holds for tasks past their due date that are not done yet.
func isOverdue(t *repository.TaskFacts, now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != model.TaskStatusDone
}

// completionDays counts whole days between creation and completion, rounded up.
func completionDays(createdAt, completedAt time.Time) int {
	return int(math.Ceil(completedAt.Sub(createdAt).Hours() / 24))
}

// roundPct is a safe percentage: 0 whenever the denominator is 0.
func roundPct(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
