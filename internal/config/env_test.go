package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestGetEnvTyped(t *testing.T) {
	t.Setenv("STARFALL_TEST_INT", " 42 ")
	t.Setenv("STARFALL_TEST_FLOAT", "nope")
	t.Setenv("STARFALL_TEST_BOOL", "true")

	if got := GetEnvInt("STARFALL_TEST_INT", 1); got != 42 {
		t.Fatalf("GetEnvInt = %d, want 42", got)
	}
	if got := GetEnvFloat("STARFALL_TEST_FLOAT", 1.5); got != 1.5 {
		t.Fatalf("malformed float = %v, want fallback", got)
	}
	if !GetEnvBool("STARFALL_TEST_BOOL", false) {
		t.Fatal("GetEnvBool = false, want true")
	}
	if got := GetEnv("STARFALL_TEST_UNSET", "x"); got != "x" {
		t.Fatalf("GetEnv fallback = %q", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("STARFALL_TEST_DOTENV=loaded\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STARFALL_TEST_DOTENV", "")
	os.Unsetenv("STARFALL_TEST_DOTENV")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("STARFALL_TEST_DOTENV"); got != "loaded" {
		t.Fatalf("STARFALL_TEST_DOTENV = %q", got)
	}
}

func TestNewLoggerLevel(t *testing.T) {
	t.Setenv("STARFALL_LOG_LEVEL", "WARN")
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")
	if logger.GetLevel() != log.WarnLevel {
		t.Fatalf("level = %v, want warn", logger.GetLevel())
	}

	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}

	t.Setenv("STARFALL_LOG_LEVEL", "loud")
	if NewLogger(&buf, "test").GetLevel() != log.InfoLevel {
		t.Fatal("unknown level did not fall back to info")
	}
}
