package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DASHBOARD_HTTP_PORT", "")
	t.Setenv("DASHBOARD_SQLITE_DSN", "")
	t.Setenv("DASHBOARD_TIMEZONE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.HTTPPort)
	}
	if cfg.SQLiteDSN != "file:dashboard.db?_pragma=foreign_keys(1)" {
		t.Errorf("unexpected default DSN %q", cfg.SQLiteDSN)
	}
	if cfg.Timezone != time.UTC {
		t.Errorf("expected UTC default, got %v", cfg.Timezone)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DASHBOARD_HTTP_PORT", "9090")
	t.Setenv("DASHBOARD_SQLITE_DSN", "file:test.db")
	t.Setenv("DASHBOARD_TIMEZONE", "Asia/Hong_Kong")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTPPort != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTPPort)
	}
	if cfg.SQLiteDSN != "file:test.db" {
		t.Errorf("unexpected DSN %q", cfg.SQLiteDSN)
	}
	if cfg.Timezone == nil || cfg.Timezone.String() != "Asia/Hong_Kong" {
		t.Errorf("unexpected timezone %v", cfg.Timezone)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non numeric port", key: "DASHBOARD_HTTP_PORT", value: "web"},
		{name: "negative port", key: "DASHBOARD_HTTP_PORT", value: "-1"},
		{name: "zero port", key: "DASHBOARD_HTTP_PORT", value: "0"},
		{name: "unknown timezone", key: "DASHBOARD_TIMEZONE", value: "Mars/Olympus"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("DASHBOARD_HTTP_PORT", "")
			t.Setenv("DASHBOARD_SQLITE_DSN", "")
			t.Setenv("DASHBOARD_TIMEZONE", "")
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.key) {
				t.Errorf("error %q does not name %s", err, tc.key)
			}
		})
	}
}

func TestLoadAggregatesInvalidValues(t *testing.T) {
	t.Setenv("DASHBOARD_HTTP_PORT", "web")
	t.Setenv("DASHBOARD_SQLITE_DSN", "")
	t.Setenv("DASHBOARD_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "DASHBOARD_HTTP_PORT") || !strings.Contains(err.Error(), "DASHBOARD_TIMEZONE") {
		t.Errorf("error %q should name both variables", err)
	}
}
