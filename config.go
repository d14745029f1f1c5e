package portfolio

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/kimkuns/portfolio/contact"
)

// SiteConfig holds all configuration for the portfolio server.
type SiteConfig struct {
	Name string // Site name (default "Portfolio")
	URL  string // Canonical URL (default "http://localhost:3000")

	Addr     string // Listen address (default ":3000")
	LogLevel string // debug, info, warn, error or off (default "info")

	VelogUsername string        // Velog account whose posts are listed
	CachePath     string        // SQLite path for upstream responses (default "data/cache.db")
	CacheTTL      time.Duration // Upstream response TTL (default 5min)

	SMTP contact.SMTPConfig // EMAIL_USER / EMAIL_PASS and relay

	ContactLimit  int           // Contact sends per IP per window (default 5)
	ContactWindow time.Duration // default 10min

	SessionSecret string // Required: cookie session secret
	CookieSecure  bool   // Set true for HTTPS
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.VelogUsername == "" {
		c.VelogUsername = "kimkuns"
	}
	if c.CachePath == "" {
		c.CachePath = "data/cache.db"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.ContactLimit == 0 {
		c.ContactLimit = 5
	}
	if c.ContactWindow == 0 {
		c.ContactWindow = 10 * time.Minute
	}
}

func parseLogLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithMailer replaces the SMTP mailer built from SiteConfig.SMTP.
func WithMailer(m contact.Mailer) Option {
	return func(a *App) {
		a.mailer = m
	}
}

// WithBlogEndpoint points the blog proxy at another GraphQL URL.
func WithBlogEndpoint(u string) Option {
	return func(a *App) {
		a.blogEndpoint = u
	}
}

// WithHTTPClient sets the client used for upstream blog requests.
func WithHTTPClient(h *http.Client) Option {
	return func(a *App) {
		a.httpClient = h
	}
}
