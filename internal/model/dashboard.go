package model

import "time"

type DashboardAnalytics struct {
	Overview      *OverviewStats `json:"overview"`
	TaskStats     *TaskStats     `json:"taskStats"`
	PersonalStats *PersonalStats `json:"personalStats"`
	TeamStats     []*TeamStats   `json:"teamStats"`
	ActivityStats *ActivityStats `json:"activityStats"`
	WorkloadStats *WorkloadStats `json:"workloadStats"`
	TimeAnalytics *TimeAnalytics `json:"timeAnalytics"`
}

type OverviewStats struct {
	TotalTasks     int `json:"totalTasks"`
	CompletedTasks int `json:"completedTasks"`
	OverdueTasks   int `json:"overdueTasks"`
	TotalTeams     int `json:"totalTeams"`
	TotalMembers   int `json:"totalMembers"`
}

type StatusCount struct {
	Status     TaskStatus `json:"status"`
	Count      int        `json:"count"`
	Percentage int        `json:"percentage"`
}

type PriorityCount struct {
	Priority   TaskPriority `json:"priority"`
	Count      int          `json:"count"`
	Percentage int          `json:"percentage"`
}

type TaskStats struct {
	ByStatus       []*StatusCount   `json:"byStatus"`
	ByPriority     []*PriorityCount `json:"byPriority"`
	CompletionRate int              `json:"completionRate"`
	// Average of whole days (ceiling) between creation and completion,
	// over completed tasks only.
	AverageCompletionTimeDays int `json:"averageCompletionTimeDays"`
}

type PersonalStats struct {
	TasksAssigned  int `json:"tasksAssigned"`
	TasksCompleted int `json:"tasksCompleted"`
	TasksPending   int `json:"tasksPending"`
	CompletionRate int `json:"completionRate"`
	OverdueTasks   int `json:"overdueTasks"`
}

type TeamStats struct {
	TeamID         string `json:"teamId"`
	TeamName       string `json:"teamName"`
	TotalTasks     int    `json:"totalTasks"`
	CompletedTasks int    `json:"completedTasks"`
	CompletionRate int    `json:"completionRate"`
	MemberCount    int    `json:"memberCount"`
	OverdueTasks   int    `json:"overdueTasks"`
}

type MostActiveTeam struct {
	Name      string `json:"name"`
	TaskCount int    `json:"taskCount"`
}

type RecentActivity struct {
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
	TeamName  string    `json:"teamName"`
}

type ActivityStats struct {
	TasksCreatedThisWeek   int               `json:"tasksCreatedThisWeek"`
	TasksCompletedThisWeek int               `json:"tasksCompletedThisWeek"`
	MostActiveTeam         *MostActiveTeam   `json:"mostActiveTeam"`
	RecentActivity         []*RecentActivity `json:"recentActivity"`
}

type TopPerformer struct {
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	CompletedTasks int    `json:"completedTasks"`
	TotalAssigned  int    `json:"totalAssigned"`
	CompletionRate int    `json:"completionRate"`
}

type UserTaskDistribution struct {
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	AssignedTasks  int    `json:"assignedTasks"`
	CompletedTasks int    `json:"completedTasks"`
	PendingTasks   int    `json:"pendingTasks"`
}

type WorkloadStats struct {
	TopPerformers    []*TopPerformer         `json:"topPerformers"`
	TaskDistribution []*UserTaskDistribution `json:"taskDistribution"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type TimeAnalytics struct {
	TasksCreatedLast7Days   []*DayCount `json:"tasksCreatedLast7Days"`
	TasksCompletedLast7Days []*DayCount `json:"tasksCompletedLast7Days"`
	AverageTasksPerDay      int         `json:"averageTasksPerDay"`
	PeakActivityDay         string      `json:"peakActivityDay"`
}
