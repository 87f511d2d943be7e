package config

import (
	"os"
	"testing"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	if _, err := Load(); err == nil {
		t.Error("expected error when DATABASE_URL is unset")
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost:5432/clinic")
	defer os.Unsetenv("DATABASE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.DBMaxConns != 10 {
		t.Errorf("expected default max conns 10, got %d", cfg.DBMaxConns)
	}
	if cfg.CopiesCount != 2 {
		t.Errorf("expected default copies count 2, got %d", cfg.CopiesCount)
	}
	if !cfg.IsDev() {
		t.Error("expected development mode by default")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://localhost/clinic",
		CopiesCount: 2,
		DBMaxConns:  10,
		DBMinConns:  2,
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.CopiesCount = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-positive copies count")
	}

	cfg.CopiesCount = 2
	cfg.DBMaxConns = 1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when max conns < min conns")
	}
}
