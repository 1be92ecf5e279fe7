package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	APIKey  string        `split_words:"true" required:"true"`
	Model   string        `split_words:"true" default:"default-model"`
	Timeout time.Duration `split_words:"true" default:"30s"`
}

func unsetOnCleanup(t *testing.T, keys ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, k := range keys {
			_ = os.Unsetenv(k)
		}
	})
}

func TestNewLoadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("CFGTEST_API_KEY=file-key\nCFGTEST_TIMEOUT=5s\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	unsetOnCleanup(t, "CFGTEST_API_KEY", "CFGTEST_TIMEOUT")

	SetEnvFile(path)
	t.Cleanup(func() { SetEnvFile("") })

	conf, err := New[testConfig]("CFGTEST")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.APIKey != "file-key" {
		t.Fatalf("APIKey = %q, want file-key", conf.APIKey)
	}
	if conf.Model != "default-model" {
		t.Fatalf("Model = %q, want default-model", conf.Model)
	}
	if conf.Timeout != 5*time.Second {
		t.Fatalf("Timeout = %v, want 5s", conf.Timeout)
	}
}

func TestNewEnvironmentWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("CFGWIN_API_KEY=file-key\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("CFGWIN_API_KEY", "env-key")

	SetEnvFile(path)
	t.Cleanup(func() { SetEnvFile("") })

	conf, err := New[testConfig]("CFGWIN")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.APIKey != "env-key" {
		t.Fatalf("APIKey = %q, want env-key", conf.APIKey)
	}
}

func TestNewMissingRequired(t *testing.T) {
	SetEnvFile("")
	if _, err := New[testConfig]("CFGMISSING"); err == nil {
		t.Fatal("expected error for missing required key")
	}
}

func TestNewMissingExplicitFile(t *testing.T) {
	SetEnvFile(filepath.Join(t.TempDir(), "absent.env"))
	t.Cleanup(func() { SetEnvFile("") })

	if _, err := New[testConfig]("CFGABSENT"); err == nil {
		t.Fatal("expected error for missing explicit env file")
	}
}
