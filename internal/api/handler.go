package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mkaryagin/taskboard/internal/auth"
	"github.com/mkaryagin/taskboard/internal/model"
	"github.com/mkaryagin/taskboard/internal/service"
	"github.com/mkaryagin/taskboard/pkg/logger"
	"go.uber.org/zap"
)

type Handler struct {
	dashboard *service.DashboardService

	healthChecker HealthChecker

	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		logger: logger,
	}
}

func (h *Handler) WithHealthChecker(c HealthChecker) *Handler {
	h.healthChecker = c
	return h
}

func (h *Handler) WithDashboardService(dashboard *service.DashboardService) *Handler {
	h.dashboard = dashboard
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewValidator()
	e.Use(middleware.RequestID())
	e.Use(ZapLoggerMiddleware(h.logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	if h.healthChecker != nil {
		e.GET("/health", h.healthChecker.HealthCheck())
	}

	userSecurity := e.Group("", AuthMiddleware(auth.TokenTypeUser, auth.TokenTypeAdmin))

	userSecurity.GET("/dashboard/analytics", h.GetDashboardAnalytics)
}

type getDashboardAnalyticsRequest struct {
	TeamID string `query:"teamId" validate:"omitempty,max=64"`
}

func (h *Handler) GetDashboardAnalytics(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req getDashboardAnalyticsRequest
	if err := decodeRequest(e, &req); err != nil {
		return h.transportError(e, err)
	}

	userID := CallerID(e)

	l.Info("getting dashboard analytics", zap.String("user_id", userID), zap.String("team_id", req.TeamID))

	analytics, err := h.dashboard.GetDashboardAnalytics(e.Request().Context(), userID, req.TeamID)
	if err != nil {
		l.Error("failed to get dashboard analytics",
			zap.String("user_id", userID),
			zap.String("team_id", req.TeamID),
			zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, model.Response{
		IsSuccessful: true,
		Message:      "Dashboard analytics fetched successfully",
		Data:         analytics,
	})
}

func (h *Handler) transportError(e echo.Context, err *service.Error) error {
	response := model.Response{
		Message: err.Message,
	}

	switch err.Code {
	case service.ErrorCodeInvalidBody:
		return e.JSON(http.StatusBadRequest, response)
	default:
		return e.JSON(http.StatusInternalServerError, response)
	}
}

func decodeRequest(e echo.Context, req any) *service.Error {
	if err := e.Bind(req); err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, "Invalid request")
	}
	if err := e.Validate(req); err != nil {
		return service.NewError(service.ErrorCodeInvalidBody, "Invalid request")
	}
	return nil
}
