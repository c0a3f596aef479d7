package transport

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"hotelWeb/internal/modules/navigation/domain"
	"hotelWeb/internal/shared/httputil"
)

// NavigationHandlers serves the page route table to the browser shell.
type NavigationHandlers struct {
	table  *domain.Table
	errors *httputil.ErrorMapper
}

func NewNavigationHandlers(table *domain.Table) *NavigationHandlers {
	mapper := httputil.NewErrorMapper().
		WithMapping(domain.ErrUnknownRoute, http.StatusNotFound, "unknown route").
		WithMapping(domain.ErrMissingParam, http.StatusBadRequest, "missing route parameter")
	return &NavigationHandlers{table: table, errors: mapper}
}

// Register mounts the routes on a group rooted at /api/navigation.
func (h *NavigationHandlers) Register(group *echo.Group) {
	group.GET("/resolve", h.Resolve)
	group.GET("/routes", h.Routes)
	group.GET("/url/:name", h.URLFor)
}

func (h *NavigationHandlers) Resolve(c echo.Context) error {
	return c.JSON(http.StatusOK, h.table.Resolve(c.QueryParam("path")))
}

func (h *NavigationHandlers) Routes(c echo.Context) error {
	return c.JSON(http.StatusOK, h.table.Routes())
}

func (h *NavigationHandlers) URLFor(c echo.Context) error {
	params := make(map[string]string)
	for key, values := range c.QueryParams() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	name := domain.RouteName(c.Param("name"))
	path, err := h.table.URLFor(name, params)
	if err != nil {
		info := h.errors.Map(err)
		slog.Debug("navigation url rejected", slog.String("name", string(name)), slog.Any("error", err))
		return echo.NewHTTPError(info.Status, info.Message)
	}
	return c.JSON(http.StatusOK, map[string]string{"path": path})
}

// HistoryFallback answers any unclaimed GET: redirect routes become a 302 to their target,
// everything else returns the resolution so the shell can render the page.
func (h *NavigationHandlers) HistoryFallback(c echo.Context) error {
	request := c.Request()
	resolution := h.table.Resolve(request.URL.EscapedPath())

	if resolution.RedirectedFrom != "" && resolution.Found() {
		target := resolution.Path
		if request.URL.RawQuery != "" {
			target += "?" + request.URL.RawQuery
		}
		slog.Debug("navigation redirect", slog.String("from", resolution.RedirectedFrom), slog.String("to", target))
		return c.Redirect(http.StatusFound, target)
	}

	if !resolution.Found() {
		return c.JSON(http.StatusNotFound, resolution)
	}
	return c.JSON(http.StatusOK, resolution)
}
