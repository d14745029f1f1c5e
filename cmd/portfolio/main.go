package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/kimkuns/portfolio"
	"github.com/kimkuns/portfolio/contact"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		if err := serve(); err != nil {
			log.Fatal(err)
		}
	case "version":
		fmt.Printf("portfolio %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func serve() error {
	app := portfolio.New(configFromEnv())
	defer app.Close()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		if err := app.Echo.Close(); err != nil {
			log.Printf("portfolio: close server: %v", err)
		}
	}()
	return app.Start()
}

func configFromEnv() portfolio.SiteConfig {
	return portfolio.SiteConfig{
		Name:          portfolio.EnvOr("SITE_NAME", ""),
		URL:           portfolio.EnvOr("SITE_URL", ""),
		Addr:          portfolio.EnvOr("ADDR", ""),
		LogLevel:      portfolio.EnvOr("LOG_LEVEL", ""),
		VelogUsername: portfolio.EnvOr("VELOG_USERNAME", ""),
		CachePath:     portfolio.EnvOr("CACHE_PATH", ""),
		CacheTTL:      envDuration("CACHE_TTL"),
		SMTP: contact.SMTPConfig{
			Host:     portfolio.EnvOr("SMTP_HOST", ""),
			Port:     portfolio.EnvOr("SMTP_PORT", ""),
			Username: os.Getenv("EMAIL_USER"),
			Password: os.Getenv("EMAIL_PASS"),
		},
		SessionSecret: portfolio.MustEnv("SESSION_SECRET"),
		CookieSecure:  envBool("COOKIE_SECURE"),
	}
}

func envDuration(key string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("portfolio: %s: %v", key, err)
	}
	return d
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}

func printUsage() {
	fmt.Println(`portfolio - personal portfolio site built with Go, Echo, and templ

Usage:
  portfolio [command]

Commands:
  serve         Run the web server (default)
  version       Print the version
  help          Show this help message

Configuration is read from the environment and from .env:
  SESSION_SECRET (required), SITE_NAME, SITE_URL, ADDR, LOG_LEVEL,
  VELOG_USERNAME, CACHE_PATH, CACHE_TTL, EMAIL_USER, EMAIL_PASS,
  SMTP_HOST, SMTP_PORT, COOKIE_SECURE`)
}
