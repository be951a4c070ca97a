package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"iotview/auth"
	"iotview/gateway"
	"iotview/viewer"
)

// APIHandler exposes the application's screens as a JSON API: sign-in,
// connection list/detail, and the per-connection live telemetry viewer.
type APIHandler struct {
	auth     *auth.Controller
	gateway  *gateway.Client
	registry *Registry
}

// NewAPIHandler creates a new instance of APIHandler.
func NewAPIHandler(authController *auth.Controller, gw *gateway.Client, registry *Registry) *APIHandler {
	return &APIHandler{
		auth:     authController,
		gateway:  gw,
		registry: registry,
	}
}

// ===================================================================
// HEALTH CHECK
// ===================================================================

// HealthCheck provides a simple health status of the service.
func (h *APIHandler) HealthCheck(c echo.Context) error {
	data := map[string]interface{}{
		"service":       "iotview",
		"authenticated": h.auth.IsAuthenticated(),
	}
	return c.JSON(http.StatusOK, SuccessResponse("Service is healthy", data))
}

// ===================================================================
// AUTH
// ===================================================================

type loginRequest struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

// Login signs the user in against the backend and stores the session token.
func (h *APIHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid login request body")
	}
	if err := h.auth.Login(c.Request().Context(), req.UsernameOrEmail, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SuccessResponse("Signed in successfully", nil))
}

// Logout clears the session. It always succeeds.
func (h *APIHandler) Logout(c echo.Context) error {
	h.auth.Logout(c.Request().Context())
	return c.JSON(http.StatusOK, SuccessResponse("Signed out successfully", nil))
}

// RequireAuth rejects requests while no local session exists, mirroring the
// navigation gate of the interactive front-end. Token validity stays the
// backend's problem.
func (h *APIHandler) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !h.auth.IsAuthenticated() {
			return echo.NewHTTPError(http.StatusUnauthorized, "Not signed in")
		}
		return next(c)
	}
}

// ===================================================================
// CONNECTIONS
// ===================================================================

// ListConnections retrieves every configured connection from the backend.
func (h *APIHandler) ListConnections(c echo.Context) error {
	connections, err := h.gateway.ListConnections(c.Request().Context())
	if err != nil {
		return err
	}
	data := map[string]interface{}{
		"connections": connections,
		"count":       len(connections),
	}
	return c.JSON(http.StatusOK, SuccessResponse("Connections retrieved successfully", data))
}

// GetConnection retrieves one connection's configuration.
func (h *APIHandler) GetConnection(c echo.Context) error {
	connection, err := h.gateway.GetConnection(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	// The detail screen masks the password; the API does the same.
	masked := *connection
	masked.Password = connection.MaskedPassword()
	return c.JSON(http.StatusOK, SuccessResponse("Connection retrieved successfully", masked))
}

// ===================================================================
// LIVE TELEMETRY VIEWER
// ===================================================================

// OpenViewer starts a broker session for a connection and begins filling
// its message window.
func (h *APIHandler) OpenViewer(c echo.Context) error {
	connection, err := h.gateway.GetConnection(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	v, err := h.registry.Open(connection)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusAccepted, SuccessResponse("Connecting to broker", map[string]interface{}{
		"state": v.State().String(),
	}))
}

// CloseViewer ends the broker session for a connection.
func (h *APIHandler) CloseViewer(c echo.Context) error {
	h.registry.Close(c.Param("id"))
	return c.JSON(http.StatusOK, SuccessResponse("Viewer closed", nil))
}

// ViewerStatus reports the session state and message counters.
func (h *APIHandler) ViewerStatus(c echo.Context) error {
	v, ok := h.registry.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "No viewer open for this connection")
	}
	received, dropped := v.Counts()
	data := map[string]interface{}{
		"state":    v.State().String(),
		"window":   len(v.Snapshot()),
		"received": received,
		"dropped":  dropped,
	}
	return c.JSON(http.StatusOK, SuccessResponse("Viewer status retrieved successfully", data))
}

// ViewerMessages renders the current window under the requested view mode:
// table (default), json, timeline or chart.
func (h *APIHandler) ViewerMessages(c echo.Context) error {
	v, ok := h.registry.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "No viewer open for this connection")
	}
	window := v.Snapshot()

	view := c.QueryParam("view")
	if view == "" {
		view = "table"
	}
	switch view {
	case "table":
		data := map[string]interface{}{
			"columns": viewer.TableColumns,
			"rows":    viewer.Table(window),
		}
		return c.JSON(http.StatusOK, SuccessResponse("Messages retrieved successfully", data))
	case "json":
		raw, err := viewer.RawJSON(window)
		if err != nil {
			return err
		}
		return c.JSONBlob(http.StatusOK, []byte(raw))
	case "timeline":
		data := map[string]interface{}{
			"entries": viewer.Timeline(window),
		}
		return c.JSON(http.StatusOK, SuccessResponse("Messages retrieved successfully", data))
	case "chart":
		series := viewer.Chart(window)
		data := map[string]interface{}{
			"empty":  series.Empty(),
			"points": series.Points,
		}
		return c.JSON(http.StatusOK, SuccessResponse("Messages retrieved successfully", data))
	default:
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Unknown view mode %q", view))
	}
}

// ExportViewer downloads the current window as json, xlsx or txt.
func (h *APIHandler) ExportViewer(c echo.Context) error {
	v, ok := h.registry.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "No viewer open for this connection")
	}

	name, data, err := viewer.Export(v.Snapshot(), viewer.Format(c.Param("format")))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, contentType(name), data)
}

func contentType(name string) string {
	switch {
	case name == viewer.ExportJSONName:
		return echo.MIMEApplicationJSON
	case name == viewer.ExportXLSXName:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return echo.MIMETextPlain
	}
}
