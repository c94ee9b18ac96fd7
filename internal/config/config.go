// Package config resolves runtime configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied when the environment leaves a knob unset.
const (
	DefaultUniversity   = "MTRoyal"
	DefaultMongoURI     = "mongodb://localhost:27017"
	DefaultMongoDB      = "ScheduleStorm"
	DefaultConcurrency  = 10
	DefaultScrapeEvery  = 4 * time.Hour
	DefaultPortalBase   = "https://mruweb.mymru.ca/prod"
	DefaultCalendarBase = "https://www.mtroyal.ca/ProgramsCourses/CourseListings/"
)

// Config carries every setting the scraper needs to run.
type Config struct {
	University string

	PortalBase   string
	CalendarBase string
	PortalUser   string
	PortalPIN    string

	MongoURI string
	MongoDB  string

	Concurrency int
	ScrapeEvery time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present; real environment variables win.
func Load() (*Config, error) {
	// Missing .env is the common case in production.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		University:   envOr("SS_UNIVERSITY", DefaultUniversity),
		PortalBase:   envOr("SS_PORTAL_BASE", DefaultPortalBase),
		CalendarBase: envOr("SS_CALENDAR_BASE", DefaultCalendarBase),
		PortalUser:   os.Getenv("SS_PORTAL_USER"),
		PortalPIN:    os.Getenv("SS_PORTAL_PIN"),
		MongoURI:     envOr("SS_MONGO_URI", DefaultMongoURI),
		MongoDB:      envOr("SS_MONGO_DB", DefaultMongoDB),
		Concurrency:  DefaultConcurrency,
		ScrapeEvery:  DefaultScrapeEvery,
	}

	if v := os.Getenv("SS_FETCH_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid SS_FETCH_CONCURRENCY %q", v)
		}
		cfg.Concurrency = n
	}

	if v := os.Getenv("SS_SCRAPE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid SS_SCRAPE_INTERVAL %q", v)
		}
		cfg.ScrapeEvery = d
	}

	if cfg.PortalUser == "" || cfg.PortalPIN == "" {
		return nil, fmt.Errorf("SS_PORTAL_USER and SS_PORTAL_PIN are required")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
