package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestLoad_Defaults verifies every default when no variables are set.
func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"COACHDESK_API_URL", "COACHDESK_TIMEOUT", "COACHDESK_TIMEOUT_SECONDS", "COACHDESK_SLOW_CALL_MS",
		"COACHDESK_STORE", "COACHDESK_DB_PATH", "COACHDESK_REDIS_URL", "COACHDESK_CREDENTIAL_KEY",
		"COACHDESK_DEV_ADDR", "COACHDESK_DEV_JWT_SECRET", "COACHDESK_DEV_TOKEN_TTL",
	} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %q", c.APIURL)
	}
	if c.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", c.Timeout)
	}
	if c.SlowCallMs != 800 || c.Store != StoreSQLite || c.DBPath != "coachdesk.db" {
		t.Errorf("config = %+v", c)
	}
	if c.CredentialKey != "" {
		t.Errorf("CredentialKey = %q, want empty", c.CredentialKey)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate defaults: %v", err)
	}
}

// TestLoad_Overrides verifies environment values win and are normalized.
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("COACHDESK_API_URL", "https://api.club.test/")
	t.Setenv("COACHDESK_TIMEOUT", "")
	t.Setenv("COACHDESK_TIMEOUT_SECONDS", "3")
	t.Setenv("COACHDESK_STORE", "Memory")
	t.Setenv("COACHDESK_SLOW_CALL_MS", "-5")

	c := Load()
	if c.APIURL != "https://api.club.test" {
		t.Errorf("APIURL = %q, want trailing slash trimmed", c.APIURL)
	}
	if c.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", c.Timeout)
	}
	if c.Store != StoreMemory {
		t.Errorf("Store = %q", c.Store)
	}
	if c.SlowCallMs != DefaultSlowCallMs {
		t.Errorf("SlowCallMs = %d, want default for non-positive input", c.SlowCallMs)
	}
}

// TestValidate covers URL and store rejection.
func TestValidate(t *testing.T) {
	base := Config{APIURL: "http://localhost:3000", Store: StoreRedis}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := base
	bad.APIURL = "localhost:3000"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidAPIURL) {
		t.Errorf("err = %v, want ErrInvalidAPIURL", err)
	}

	bad = base
	bad.Store = "etcd"
	if err := bad.Validate(); !errors.Is(err, ErrUnknownStore) {
		t.Errorf("err = %v, want ErrUnknownStore", err)
	}
}

// TestLoadDotEnv verifies .env values load without overriding the environment.
func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "COACHDESK_DB_PATH=/tmp/from-dotenv.db\nCOACHDESK_DEV_ADDR=:4000\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("COACHDESK_DEV_ADDR", ":5000")
	t.Setenv("COACHDESK_DB_PATH", "")
	os.Unsetenv("COACHDESK_DB_PATH")

	LoadDotEnv(path, filepath.Join(dir, "missing.env"))

	c := Load()
	if c.DBPath != "/tmp/from-dotenv.db" {
		t.Errorf("DBPath = %q", c.DBPath)
	}
	if c.DevAddr != ":5000" {
		t.Errorf("DevAddr = %q, want existing env to win", c.DevAddr)
	}
}
