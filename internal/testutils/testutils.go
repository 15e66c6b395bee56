package testutils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/nfrund/passauth/internal/config"
)

// Secrets long enough to pass config validation.
const (
	SessionSecret = "a-very-secret-key-for-testing-!"
	TokenSecret   = "another-secret-key-for-tokens"
)

// MemoryConfig returns a valid configuration backed by the in-memory store
// and the log mailer. Callers may tweak the returned value.
func MemoryConfig() *config.Config {
	return &config.Config{
		AppAddr:       "127.0.0.1:0",
		AppBaseURL:    "http://localhost:8080",
		SessionSecret: SessionSecret,
		StoreDriver:   "memory",
		MongoDB:       "passauth_test",
		TokenSecret:   TokenSecret,
		TokenTTL:      time.Hour,
		EmailProvider: "log",
		EmailSender:   "no-reply@localhost",
	}
}

// LoadEnvTest copies the project's .env.test into the test environment with
// t.Setenv. It reports false when the file does not exist.
func LoadEnvTest(t *testing.T) bool {
	t.Helper()

	path, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			break
		}
		if path == filepath.Dir(path) {
			t.Fatalf("could not find project root with go.mod")
		}
		path = filepath.Dir(path)
	}

	env, err := godotenv.Read(filepath.Join(path, ".env.test"))
	if err != nil {
		return false
	}
	for key, value := range env {
		t.Setenv(key, value)
	}
	return true
}
