package service

import (
	"context"
	"time"

	"github.com/mkaryagin/taskboard/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockTransactor struct {
	mock.Mock
}

func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) ListUserTeamIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTeamRepository) List(ctx context.Context, teamIDs []string) ([]*repository.Team, error) {
	args := m.Called(ctx, teamIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Team), args.Error(1)
}

func (m *MockTeamRepository) CountByIDs(ctx context.Context, teamIDs []string) (int, error) {
	args := m.Called(ctx, teamIDs)
	return args.Int(0), args.Error(1)
}

func (m *MockTeamRepository) CountMembers(ctx context.Context, teamIDs []string) (int, error) {
	args := m.Called(ctx, teamIDs)
	return args.Int(0), args.Error(1)
}

func (m *MockTeamRepository) CountMembersByTeam(ctx context.Context, teamIDs []string) ([]*repository.TeamCount, error) {
	args := m.Called(ctx, teamIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.TeamCount), args.Error(1)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) ListFacts(ctx context.Context, filter repository.TaskFilter) ([]*repository.TaskFacts, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.TaskFacts), args.Error(1)
}

func (m *MockTaskRepository) CountCreatedSince(ctx context.Context, teamIDs []string, since time.Time) (int, error) {
	args := m.Called(ctx, teamIDs, since)
	return args.Int(0), args.Error(1)
}

func (m *MockTaskRepository) CountCompletedSince(ctx context.Context, teamIDs []string, since time.Time) (int, error) {
	args := m.Called(ctx, teamIDs, since)
	return args.Int(0), args.Error(1)
}

func (m *MockTaskRepository) CountCreatedSinceByTeam(ctx context.Context, teamIDs []string, since time.Time) ([]*repository.TeamCount, error) {
	args := m.Called(ctx, teamIDs, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.TeamCount), args.Error(1)
}

func (m *MockTaskRepository) StatsByTeam(ctx context.Context, teamIDs []string, now time.Time) ([]*repository.TeamTaskStats, error) {
	args := m.Called(ctx, teamIDs, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.TeamTaskStats), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) ListMembers(ctx context.Context, teamIDs []string) ([]*repository.Member, error) {
	args := m.Called(ctx, teamIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Member), args.Error(1)
}

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) ListRecent(ctx context.Context, teamIDs []string, since time.Time, limit int) ([]*repository.Activity, error) {
	args := m.Called(ctx, teamIDs, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Activity), args.Error(1)
}
