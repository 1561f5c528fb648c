// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// setRequired sets the secrets every valid config needs.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "secret")
	t.Setenv("SESSION_SALT", "test-salt")
}

func noDotEnv(t *testing.T) {
	t.Helper()
	old := DotEnvFile
	DotEnvFile = filepath.Join(t.TempDir(), "missing.env")
	t.Cleanup(func() { DotEnvFile = old })
}

func TestParseFlags_Defaults(t *testing.T) {
	noDotEnv(t)
	setRequired(t)

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.StoreType != "csv" {
		t.Errorf("expected store csv, got %s", cfg.StoreType)
	}
	if cfg.DataFile != "students.csv" {
		t.Errorf("expected data file students.csv, got %s", cfg.DataFile)
	}
	if cfg.GroupingURL != "http://127.0.0.1:8000/run" {
		t.Errorf("unexpected grouping URL %s", cfg.GroupingURL)
	}
	if cfg.GroupingTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.GroupingTimeout)
	}
	if cfg.LoginRate != 5 {
		t.Errorf("expected login rate 5, got %d", cfg.LoginRate)
	}
	if cfg.TrustProxy {
		t.Error("expected proxy headers untrusted by default")
	}
	if cfg.StoreTarget() != "students.csv" {
		t.Errorf("expected csv store target, got %s", cfg.StoreTarget())
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	noDotEnv(t)
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("GROUPING_TIMEOUT", "5s")
	t.Setenv("NATS_URL", "nats://127.0.0.1:4222")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.StoreTarget() != "postgres://test" {
		t.Errorf("expected DSN store target, got %s", cfg.StoreTarget())
	}
	if cfg.GroupingTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.GroupingTimeout)
	}
	if cfg.NATSURL != "nats://127.0.0.1:4222" {
		t.Errorf("unexpected NATS URL %s", cfg.NATSURL)
	}
	if !cfg.TrustProxy {
		t.Error("expected TRUST_PROXY from env")
	}
	if cfg.AdminUsername != "admin" || cfg.AdminPassword != "secret" {
		t.Error("expected credentials from env")
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	noDotEnv(t)
	setRequired(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8081", "-t", "sqlite", "-d", "file:test.db", "-admin-user", "root"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 8081 {
		t.Errorf("CLI should override env: expected 8081, got %d", cfg.Port)
	}
	if cfg.StoreType != "sqlite" || cfg.DatabaseURL != "file:test.db" {
		t.Errorf("unexpected store settings %s %s", cfg.StoreType, cfg.DatabaseURL)
	}
	if cfg.AdminUsername != "root" {
		t.Errorf("expected admin user root, got %s", cfg.AdminUsername)
	}
}

func TestParseFlags_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "ADMIN_USERNAME=dotenv-admin\nADMIN_PASSWORD=dotenv-pass\nSESSION_SALT=dotenv-salt\nLOGIN_RATE_PER_MINUTE=0\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	old := DotEnvFile
	DotEnvFile = path
	t.Cleanup(func() { DotEnvFile = old })

	// Registered with t.Setenv so they are restored after godotenv sets them.
	t.Setenv("ADMIN_USERNAME", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("SESSION_SALT", "")
	t.Setenv("LOGIN_RATE_PER_MINUTE", "")
	os.Unsetenv("ADMIN_USERNAME")
	os.Unsetenv("ADMIN_PASSWORD")
	os.Unsetenv("SESSION_SALT")
	os.Unsetenv("LOGIN_RATE_PER_MINUTE")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AdminUsername != "dotenv-admin" {
		t.Errorf("expected admin from .env, got %s", cfg.AdminUsername)
	}
	if cfg.LoginRate != 0 {
		t.Errorf("expected login rate 0, got %d", cfg.LoginRate)
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		args    []string
		wantErr string
	}{
		{
			name:    "missing password",
			env:     map[string]string{"ADMIN_PASSWORD": ""},
			wantErr: "ADMIN_PASSWORD",
		},
		{
			name:    "missing salt",
			env:     map[string]string{"SESSION_SALT": ""},
			wantErr: "SESSION_SALT",
		},
		{
			name:    "unknown store",
			args:    []string{"-t", "mongo"},
			wantErr: "unknown store type",
		},
		{
			name:    "postgres without DSN",
			args:    []string{"-t", "postgres"},
			wantErr: "database URL required",
		},
		{
			name:    "zero timeout",
			args:    []string{"-grouping-timeout", "0s"},
			wantErr: "GROUPING_TIMEOUT",
		},
		{
			name:    "bad port",
			args:    []string{"-p", "70000"},
			wantErr: "invalid port",
		},
		{
			name:    "unparseable env",
			env:     map[string]string{"PORT": "abc"},
			wantErr: "parse env",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			noDotEnv(t)
			setRequired(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := ParseFlags(tc.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}
