package teamupdates

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Amit-Sucher/team-updates/views"
)

// handleHome serves the public listing page, newest update first. Reads go
// straight to the store; a store failure surfaces as an error page, never
// as a stale or silently empty listing.
func (a *App) handleHome(c echo.Context) error {
	updates, err := a.Repo.ListUpdates(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, views.Home(a.site(), toViews(updates)))
}

// handleUpdatePage serves a single update's permalink page.
func (a *App) handleUpdatePage(c echo.Context) error {
	u, err := a.Repo.GetUpdate(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, views.NotFound(a.site()))
		}
		return err
	}
	return Render(c, views.UpdatePage(a.site(), toView(u)))
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

// handleRobots generates robots.txt dynamically from the site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

// httpErrorHandler renders styled 404/500 pages for HTML routes and generic
// JSON bodies for /api/ routes.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if isAPIPath(c.Request().URL.Path) {
		code, body := apiError(err)
		if code >= 500 {
			c.Logger().Errorf("api error: %v", err)
		}
		_ = c.JSON(code, body)
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.site()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.site()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
