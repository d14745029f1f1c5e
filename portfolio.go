// Package portfolio is a personal portfolio site built with Go, Echo and
// templ. It serves the biography, project gallery and contact pages, relays
// the Velog GraphQL API for the blog feed and mails contact form
// submissions to the owner.
package portfolio

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/kimkuns/portfolio/blog"
	"github.com/kimkuns/portfolio/contact"
	"github.com/kimkuns/portfolio/content"
	"github.com/kimkuns/portfolio/projects"
	"github.com/kimkuns/portfolio/views"
)

// App wires together the content, upstream clients, caches, handlers and
// middleware.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Cache    *ResponseCache
	Blog     *blog.Client
	Projects *projects.Catalog
	Profile  content.Profile

	mailer         contact.Mailer
	contactLimiter *Limiter
	thumbs         *Thumbnailer
	blogEndpoint   string
	httpClient     *http.Client
	customRoutes   []func(*App)
	staticDir      string
	initialized    bool
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init loads content, opens the cache store and registers middleware and
// routes. Start calls it; tests call it directly and drive a.Echo.
func (a *App) Init() error {
	if a.initialized {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("portfolio: SessionSecret is required")
	}
	a.Echo.Logger.SetLevel(parseLogLevel(a.Config.LogLevel))

	catalog, err := content.LoadProjects()
	if err != nil {
		return fmt.Errorf("portfolio: load projects: %w", err)
	}
	a.Projects = catalog

	profile, err := content.LoadProfile()
	if err != nil {
		return fmt.Errorf("portfolio: load profile: %w", err)
	}
	a.Profile = profile

	store, err := NewStore(a.Config.CachePath)
	if err != nil {
		return fmt.Errorf("portfolio: init store: %w", err)
	}
	a.Store = store

	a.Cache = NewResponseCache(a.Store, a.Config.CacheTTL)
	a.Cache.OnError = func(err error) {
		a.Echo.Logger.Errorf("response cache: %v", err)
	}
	if n, err := a.Cache.Prune(); err != nil {
		a.Echo.Logger.Warnf("prune response cache: %v", err)
	} else if n > 0 {
		a.Echo.Logger.Infof("pruned %d expired blog responses", n)
	}
	a.Cache.StartPruning(a.Config.CacheTTL)

	blogOpts := []blog.Option{blog.WithCache(a.Cache)}
	if a.blogEndpoint != "" {
		blogOpts = append(blogOpts, blog.WithEndpoint(a.blogEndpoint))
	}
	if a.httpClient != nil {
		blogOpts = append(blogOpts, blog.WithHTTPClient(a.httpClient))
	}
	a.Blog = blog.NewClient(a.Config.VelogUsername, blogOpts...)

	if a.mailer == nil {
		a.mailer = contact.NewSMTPMailer(a.Config.SMTP)
	}
	if !a.mailer.Configured() {
		a.Echo.Logger.Warn("email credentials are not configured; contact form will fail")
	}
	a.contactLimiter = NewLimiter(a.Config.ContactLimit, a.Config.ContactWindow)
	a.thumbs = NewThumbnailer(a.staticDir + "/projects")

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.initialized = true
	return nil
}

// Start initializes the app and serves until the server stops.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/thumbs/:name", a.handleThumbnail)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Pages
	e.GET("/", a.handleHome)
	e.GET("/about/", a.handleAbout)
	e.GET("/projects/", a.handleProjects)
	e.GET("/projects/:slug/", a.handleProject)
	e.POST("/projects/modal/close/", a.handleModalClose)
	e.GET("/blog/", a.handleBlog)
	e.GET("/contact/", a.handleContactPage)
	e.POST("/contact/", a.handleContact)

	// JSON API
	api := e.Group("/api")
	api.POST("/blog", a.handleBlogProxy)
	api.POST("/contact", a.handleContact)
	api.GET("/projects", a.handleProjectSearch)
	api.GET("/projects/:slug", a.handleProjectJSON)
	api.GET("/health", handleHealth)
}

// Close releases the store and stops background work.
func (a *App) Close() error {
	if a.contactLimiter != nil {
		a.contactLimiter.Stop()
	}
	if a.Cache != nil {
		a.Cache.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func (a *App) site() views.Site {
	return views.Site{
		Name:    a.Config.Name,
		URL:     a.Config.URL,
		Socials: a.Profile.Socials,
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("portfolio: required environment variable %s is not set", key)
	}
	return v
}
