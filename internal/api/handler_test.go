package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mkaryagin/taskboard/internal/auth"
	"github.com/mkaryagin/taskboard/internal/model"
	"github.com/mkaryagin/taskboard/internal/repository"
	"github.com/mkaryagin/taskboard/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, teams *service.MockTeamRepository) *echo.Echo {
	t.Helper()

	dashboard := service.NewDashboardService(new(service.MockTransactor)).
		WithTeamRepo(teams).
		WithTaskRepo(new(service.MockTaskRepository)).
		WithUserRepo(new(service.MockUserRepository)).
		WithActivityRepo(new(service.MockActivityRepository))

	e := echo.New()
	handler := NewHandler(zap.NewNop()).WithDashboardService(dashboard)
	handler.RegisterRoutes(e)

	return e
}

func TestGetDashboardAnalytics_Unauthorized(t *testing.T) {
	auth.TokenSecretKey = "handler-test-secret"

	e := newTestServer(t, new(service.MockTeamRepository))

	tests := []struct {
		name       string
		authHeader string
	}{
		{name: "missing token"},
		{name: "malformed header", authHeader: "Token abc"},
		{name: "garbage token", authHeader: "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/dashboard/analytics", nil)
			if tt.authHeader != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.authHeader)
			}
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var resp model.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.IsSuccessful)
		})
	}
}

func TestGetDashboardAnalytics_EmptyScope(t *testing.T) {
	auth.TokenSecretKey = "handler-test-secret"

	teams := new(service.MockTeamRepository)
	teams.On("ListUserTeamIDs", mock.Anything, "u1").Return([]string{}, nil)

	e := newTestServer(t, teams)

	token, err := auth.GenerateToken(auth.TokenTypeUser, "u1", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/analytics", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		IsSuccessful bool                      `json:"isSuccessful"`
		Message      string                    `json:"message"`
		Data         *model.DashboardAnalytics `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.IsSuccessful)
	assert.Equal(t, "Dashboard analytics fetched successfully", resp.Message)
	require.NotNil(t, resp.Data)
	assert.Zero(t, resp.Data.Overview.TotalTasks)
	assert.Empty(t, resp.Data.TeamStats)
	assert.Nil(t, resp.Data.ActivityStats.MostActiveTeam)

	teams.AssertExpectations(t)
}

func TestGetDashboardAnalytics_TeamScopePassthrough(t *testing.T) {
	auth.TokenSecretKey = "handler-test-secret"

	teams := new(service.MockTeamRepository)
	// The requested team does not resolve, so the service answers with the
	// zeroed report; the assertion here is about scope propagation.
	teams.On("List", mock.Anything, []string{"t42"}).Return([]*repository.Team{}, nil)

	e := newTestServer(t, teams)

	token, err := auth.GenerateToken(auth.TokenTypeAdmin, "u1", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/analytics?teamId=t42", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	teams.AssertExpectations(t)
}

func TestGetDashboardAnalytics_InvalidTeamID(t *testing.T) {
	auth.TokenSecretKey = "handler-test-secret"

	teams := new(service.MockTeamRepository)
	e := newTestServer(t, teams)

	token, err := auth.GenerateToken(auth.TokenTypeUser, "u1", time.Hour)
	require.NoError(t, err)

	tooLong := strings.Repeat("x", 65)
	req := httptest.NewRequest(http.MethodGet, "/dashboard/analytics?teamId="+tooLong, nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp model.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.IsSuccessful)
	assert.Equal(t, "Invalid request", resp.Message)

	// The request never reaches the service layer.
	teams.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	teams.AssertNotCalled(t, "ListUserTeamIDs", mock.Anything, mock.Anything)
}
