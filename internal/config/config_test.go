package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/digest")
	t.Setenv("RESEND_API_KEY", "re_test")
	t.Setenv("ADMIN_JWT_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DigestWorkers != 4 {
		t.Errorf("DigestWorkers: got %d, want 4", cfg.DigestWorkers)
	}
	if cfg.DigestResourceLimit != 3 {
		t.Errorf("DigestResourceLimit: got %d, want 3", cfg.DigestResourceLimit)
	}
	if cfg.DigestResourceWindow != 7*24*time.Hour {
		t.Errorf("DigestResourceWindow: got %s, want 168h", cfg.DigestResourceWindow)
	}
	if cfg.ScheduleHour != 9 || cfg.ScheduleMinute != 0 {
		t.Errorf("schedule: got %02d:%02d, want 09:00", cfg.ScheduleHour, cfg.ScheduleMinute)
	}
	if !cfg.SchedulerEnabled {
		t.Error("scheduler should be enabled by default")
	}
}

func TestLoad_MissingRequiredVars(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RESEND_API_KEY", "")
	t.Setenv("ADMIN_JWT_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing vars")
	}
	for _, name := range []string{"DATABASE_URL", "RESEND_API_KEY", "ADMIN_JWT_SECRET"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error should mention %s: %v", name, err)
		}
	}
}

func TestLoad_InvalidScheduleHour(t *testing.T) {
	setRequired(t)
	t.Setenv("DIGEST_SCHEDULE_HOUR", "24")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "DIGEST_SCHEDULE_HOUR") {
		t.Fatalf("expected schedule hour error, got %v", err)
	}
}

func TestLoad_TrimsTrailingSlashFromBaseURL(t *testing.T) {
	setRequired(t)
	t.Setenv("BASE_URL", "https://app.example.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://app.example.com" {
		t.Errorf("BaseURL: got %q", cfg.BaseURL)
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  time.Duration
	}{
		{"X_TIMEOUT", "30", 30 * time.Second},
		{"X_WINDOW_HOURS", "48", 48 * time.Hour},
		{"X_DELAY_MINUTES", "5", 5 * time.Minute},
		{"X_TIMEOUT", "2m", 2 * time.Minute},
		{"X_TIMEOUT", "garbage", time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if got := getEnvAsDuration(tt.key, time.Second); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGetEnvAsBool_InvalidFallsBackToDefault(t *testing.T) {
	t.Setenv("X_FLAG", "maybe")
	if got := getEnvAsBool("X_FLAG", true); !got {
		t.Error("expected default true for unparseable value")
	}
	t.Setenv("X_FLAG", "false")
	if got := getEnvAsBool("X_FLAG", true); got {
		t.Error("expected false")
	}
}

func TestLoadDatabaseURL_OnlyNeedsDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/digest")
	t.Setenv("RESEND_API_KEY", "")
	t.Setenv("ADMIN_JWT_SECRET", "")

	got, err := LoadDatabaseURL()
	if err != nil {
		t.Fatalf("LoadDatabaseURL: %v", err)
	}
	if got != "postgres://localhost/digest" {
		t.Errorf("got %q", got)
	}

	t.Setenv("DATABASE_URL", "")
	if _, err := LoadDatabaseURL(); err == nil {
		t.Error("expected an error when DATABASE_URL is unset")
	}
}
