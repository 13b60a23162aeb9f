package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var configKeys = []string{
	"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL", "OUTPUT_PATH",
	"RETRY_BASE_DELAY", "RETRY_MAX_DELAY", "RETRY_MULTIPLIER", "RETRY_JITTER", "RETRY_MAX_ATTEMPTS",
	"LOG_LEVEL", "LOG_NO_COLOR",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func missingFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-image-1")

	cfg, err := loadConfig(missingFile(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OpenAIToken != "sk-test" || cfg.OpenAIModel != "gpt-image-1" {
		t.Errorf("unexpected credentials: %+v", cfg)
	}
	if cfg.OutputPath != "output.png" {
		t.Errorf("expected default output path, got %q", cfg.OutputPath)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info log level, got %v", cfg.LogLevel)
	}

	policy := cfg.RetryPolicy()
	if policy.BaseDelay != time.Second || policy.MaxDelay != time.Minute || policy.Multiplier != 2 ||
		!policy.Jitter || policy.MaxAttempts != 10 {
		t.Errorf("unexpected retry policy: %+v", policy)
	}
}

func TestLoadConfigRequiresCredentials(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		model string
	}{
		{"missing both", "", ""},
		{"missing key", "", "gpt-image-1"},
		{"missing model", "sk-test", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			clearEnv(t)
			if test.key != "" {
				t.Setenv("OPENAI_API_KEY", test.key)
			}
			if test.model != "" {
				t.Setenv("OPENAI_MODEL", test.model)
			}

			if _, err := loadConfig(missingFile(t)); err == nil {
				t.Fatal("expected error for missing configuration")
			}
		})
	}
}

func TestLoadConfigReadsEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("OUTPUT_PATH", "from-env.png")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "OPENAI_API_KEY=sk-file\nOPENAI_MODEL=gpt-image-1\nOUTPUT_PATH=from-file.png\nRETRY_MAX_ATTEMPTS=0\nLOG_LEVEL=debug\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("writing env file: %v", err)
	}

	cfg, err := loadConfig(envFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OpenAIToken != "sk-file" || cfg.OpenAIModel != "gpt-image-1" {
		t.Errorf("expected credentials from file, got %+v", cfg)
	}
	if cfg.OutputPath != "from-env.png" {
		t.Errorf("process environment should win over the file, got %q", cfg.OutputPath)
	}
	if cfg.RetryMaxAttempts != 0 || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("unexpected retry/log settings: %+v", cfg)
	}
}

func TestLoadConfigRejectsNegativeAttempts(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-image-1")
	t.Setenv("RETRY_MAX_ATTEMPTS", "-1")

	if _, err := loadConfig(missingFile(t)); err == nil {
		t.Fatal("expected error for negative attempts")
	}
}

func TestLoadConfigRejectsMalformedEnvFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("OPENAI_MODEL='unterminated\n"), 0o600); err != nil {
		t.Fatalf("writing env file: %v", err)
	}

	if _, err := loadConfig(envFile); err == nil {
		t.Fatal("expected error for malformed env file")
	}
}
