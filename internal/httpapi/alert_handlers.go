package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"mav.press/pressroom/internal/auth"
	"mav.press/pressroom/internal/payloadschema"
	"mav.press/pressroom/internal/reader"
	"mav.press/pressroom/internal/watch"
)

const maxMonitorBodyBytes = 16 * 1024

// alertsResponse mirrors the monitoring upstream's list shape; failures
// still carry an empty alerts array so the client can render unconditionally.
type alertsResponse struct {
	Alerts []watch.Alert `json:"alerts"`
	Error  string        `json:"error,omitempty"`
}

func (s *Server) handleAlerts(c echo.Context) error {
	limit := 0
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, alertsResponse{
				Alerts: []watch.Alert{},
				Error:  "limit must be a positive integer",
			})
		}
		limit = parsed
	}

	// The poller snapshot absorbs upstream failures: stale alerts beat an
	// empty screen.
	if s.poller != nil {
		alerts := s.poller.Alerts()
		if limit > 0 && len(alerts) > limit {
			alerts = alerts[:limit]
		}
		return c.JSON(http.StatusOK, alertsResponse{Alerts: alerts})
	}

	if s.upstream == nil || !s.upstream.Configured() {
		return c.JSON(http.StatusInternalServerError, alertsResponse{
			Alerts: []watch.Alert{},
			Error:  "monitor upstream is not configured",
		})
	}

	alerts, err := s.upstream.FetchAlerts(c.Request().Context(), limit)
	if err != nil {
		s.logger.Warn().Err(err).Msg("alert fetch failed")
		return c.JSON(http.StatusBadGateway, alertsResponse{
			Alerts: []watch.Alert{},
			Error:  "failed to fetch alerts from monitoring service",
		})
	}
	return c.JSON(http.StatusOK, alertsResponse{Alerts: alerts})
}

func (s *Server) handleStartMonitor(c echo.Context) error {
	if s.upstream == nil || !s.upstream.Configured() {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "monitor upstream is not configured",
		})
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxMonitorBodyBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
	}

	cfg, err := payloadschema.ValidateMonitorConfig(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	monitorCfg := watch.MonitorConfig{
		Client:          cfg.Client,
		Keywords:        cfg.Keywords,
		IntervalSeconds: cfg.IntervalSeconds,
	}
	if err := s.upstream.StartMonitor(c.Request().Context(), monitorCfg); err != nil {
		var statusErr *watch.StatusError
		if errors.As(err, &statusErr) {
			s.logger.Warn().Int("upstream_status", statusErr.Status).Msg("monitor start rejected by upstream")
			return c.JSON(http.StatusBadGateway, map[string]string{
				"error": "monitoring service rejected the configuration",
			})
		}
		s.logger.Error().Err(err).Msg("monitor start failed")
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "failed to reach the monitoring service",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "monitor_started"})
}

func (s *Server) handleClearAlerts(c echo.Context) error {
	if s.upstream == nil || !s.upstream.Configured() {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "monitor upstream is not configured",
		})
	}

	if err := s.upstream.ClearAlerts(c.Request().Context()); err != nil {
		s.logger.Error().Err(err).Msg("alert clear failed")
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "failed to reach the monitoring service",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "alerts_cleared"})
}

func (s *Server) handleAlertPreview(c echo.Context) error {
	link := strings.TrimSpace(c.QueryParam("link"))
	if link == "" {
		return failValidation(c, map[string]string{"link": "is required"})
	}

	preview, err := reader.FetchPreview(c.Request().Context(), link)
	if err != nil {
		s.logger.Warn().Err(err).Str("link", link).Msg("alert preview fetch failed")
		return fail(c, http.StatusBadGateway, "Failed to extract a preview from the alert link", nil)
	}
	return success(c, preview)
}

// requireAdminToken wraps monitor administration routes. Without a
// configured hash the routes are disabled outright rather than left open.
func (s *Server) requireAdminToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		hash := strings.TrimSpace(s.opts.AdminTokenHash)
		if hash == "" {
			return c.JSON(http.StatusForbidden, map[string]string{
				"error": "monitor administration is disabled; set ADMIN_TOKEN_HASH (see the hash-token command) to enable it",
			})
		}

		token := auth.TokenFromHeader(c.Request().Header.Get("Authorization"))
		if !auth.VerifyToken(token, hash) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		return next(c)
	}
}
