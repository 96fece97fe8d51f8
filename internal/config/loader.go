package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the dashboard
// service.
type Config struct {
	HTTPPort  int
	SQLiteDSN string
	Timezone  *time.Location
}

// Load parses configuration values from the current process environment.
// A .env file in the working directory is folded in first when present.
//
// Every value has a default, so an empty environment yields a working
// configuration; set values must still parse.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:  8080,
		SQLiteDSN: "file:dashboard.db?_pragma=foreign_keys(1)",
		Timezone:  time.UTC,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("DASHBOARD_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "DASHBOARD_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("DASHBOARD_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if zone := strings.TrimSpace(os.Getenv("DASHBOARD_TIMEZONE")); zone != "" {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			invalid = append(invalid, "DASHBOARD_TIMEZONE")
		} else {
			cfg.Timezone = loc
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
