// Package teamupdates is a small content-publishing site: authenticated
// authors post updates (title, markdown body, optional featured image) and
// the public home page lists them newest first. Updates are append-only.
//
// Built with Echo, templ, and SQLite. The JSON API under /api/ is the wire
// contract; the admin composer and the public pages are server-rendered.
package teamupdates

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Amit-Sucher/team-updates/views"
)

// App is the central application. It wires together the store, the update
// repository, handlers, and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Repo   *Repo

	signInLimiter *SignInLimiter
	customRoutes  []func(*App)
	staticDir     string
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start initializes the database, middleware, and routes, then runs the
// server until it is shut down.
func (a *App) Start() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("teamupdates: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("teamupdates: init store: %w", err)
	}
	a.Store = store
	a.Repo = NewRepo(store)
	a.signInLimiter = NewSignInLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/updates/:id/", a.handleUpdatePage)

	// JSON API, the only wire contract. The composer page consumes it.
	e.GET("/api/updates", a.handleListUpdates)
	e.POST("/api/updates", a.handleCreateUpdate)
	e.POST("/api/uploads", a.handleImageUpload)

	// Admin composer, session-gated form routes.
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.POST("/admin/save/", a.handleAdminSave)
	e.GET("/admin/images/", a.handleImageList)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)
}

// Close cleans up resources. Call when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// site builds the view-model projection of the config.
func (a *App) site() views.Site {
	return views.Site{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
	}
}

// toView maps a domain Update onto its view model.
func toView(u Update) views.Update {
	v := views.Update{
		ID:         u.ID,
		Title:      u.Title,
		Content:    u.Content,
		AuthorName: u.AuthorName,
		CreatedAt:  u.CreatedAt,
	}
	if u.ImageURL != nil {
		v.ImageURL = *u.ImageURL
	}
	return v
}

func toViews(updates []Update) []views.Update {
	out := make([]views.Update, 0, len(updates))
	for _, u := range updates {
		out = append(out, toView(u))
	}
	return out
}
