package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SESSION_SECRET", "a-very-secret-key-for-testing-!")
	t.Setenv("TOKEN_SECRET", "another-secret-key-for-tokens")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("EMAIL_PROVIDER", "log")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	userEmail, userPassword = "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "passauth-cli v"+version+"\n", out)
}

func TestConfigCheck(t *testing.T) {
	setTestEnv(t)
	t.Setenv("APP_ADDR", ":9090")

	out, err := run(t, "config", "check")
	require.NoError(t, err)
	assert.Contains(t, out, ":9090")
	assert.Contains(t, out, "memory")
}

func TestConfigCheck_Invalid(t *testing.T) {
	setTestEnv(t)
	t.Setenv("TOKEN_SECRET", "short")

	_, err := run(t, "config", "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_SECRET")
}

func TestUserCreate(t *testing.T) {
	setTestEnv(t)

	out, err := run(t, "user", "create", "--email", "Ada@Example.com", "--password", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, "Created user")
}

func TestUserCreate_RejectsBadInput(t *testing.T) {
	setTestEnv(t)

	_, err := run(t, "user", "create", "--email", "ada", "--password", "123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please, at least 6 characters long")
}

func TestUserSendReset_UnknownEmailIsSilent(t *testing.T) {
	setTestEnv(t)

	out, err := run(t, "user", "send-reset", "--email", "nobody@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "A new email has been sent to your inbox!")
}
