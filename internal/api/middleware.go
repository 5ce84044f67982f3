package api

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mkaryagin/taskboard/internal/auth"
	"github.com/mkaryagin/taskboard/internal/model"
	"github.com/mkaryagin/taskboard/pkg/logger"
	"go.uber.org/zap"
)

const userIDContextKey = "user_id"

func ZapLoggerMiddleware(l *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			req := c.Request()
			res := c.Response()

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)

			reqLogger := l.With(
				zap.String("request_id", requestID),
			)

			ctx := logger.WithLogger(req.Context(), reqLogger)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)

			latency := time.Since(start)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.String("remote_ip", c.RealIP()),
				zap.Int("status", res.Status),
				zap.Duration("latency", latency),
				zap.Int64("bytes_in", req.ContentLength),
				zap.Int64("bytes_out", res.Size),
			}

			if err != nil {
				fields = append(fields, zap.Error(err))
				reqLogger.Error("request failed", fields...)
			} else {
				reqLogger.Info("request completed", fields...)
			}

			return err
		}
	}
}

// AuthMiddleware requires a valid bearer token of one of the allowed types
// and stores the caller's user id on the request context.
func AuthMiddleware(allowed ...auth.TokenType) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				return c.JSON(http.StatusUnauthorized, model.Response{
					Message: "missing bearer token",
				})
			}

			claims, err := auth.VerifyToken(tokenString)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, model.Response{
					Message: "invalid token",
				})
			}

			if !slices.Contains(allowed, claims.Type) {
				return c.JSON(http.StatusForbidden, model.Response{
					Message: "insufficient permissions",
				})
			}

			c.Set(userIDContextKey, claims.UserID())

			return next(c)
		}
	}
}

// CallerID returns the authenticated user id set by AuthMiddleware.
func CallerID(c echo.Context) string {
	id, _ := c.Get(userIDContextKey).(string)
	return id
}
