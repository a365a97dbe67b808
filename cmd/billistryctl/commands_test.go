package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SscSPs/billistry/internal/platform/config"
	"github.com/SscSPs/billistry/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withConfig(t *testing.T, cfg *config.Config) {
	t.Helper()
	prev := loadConfig
	loadConfig = func() (*config.Config, error) { return cfg, nil }
	t.Cleanup(func() { loadConfig = prev })
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestWebhookSignFile(t *testing.T) {
	withConfig(t, &config.Config{PaymentWebhookSecret: "whsec"})
	body := []byte(`{"event":"subscription.charged"}`)
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, body, 0o600))

	out, err := run(t, "", "webhook", "sign", path)

	require.NoError(t, err)
	assert.Equal(t, utils.SignHMAC("whsec", body)+"\n", out)
	assert.True(t, utils.VerifyHMAC("whsec", body, strings.TrimSpace(out)))
}

func TestWebhookSignStdin(t *testing.T) {
	withConfig(t, &config.Config{PaymentWebhookSecret: "whsec"})

	out, err := run(t, "payload", "webhook", "sign", "-")

	require.NoError(t, err)
	assert.Equal(t, utils.SignHMAC("whsec", []byte("payload"))+"\n", out)
}

func TestWebhookSignRequiresSecret(t *testing.T) {
	withConfig(t, &config.Config{})

	_, err := run(t, "payload", "webhook", "sign", "-")

	assert.ErrorContains(t, err, "PAYMENT_WEBHOOK_SECRET")
}

func TestMigrateRequiresDatabaseURL(t *testing.T) {
	withConfig(t, &config.Config{MigrationsPath: "file://migrations"})

	_, err := run(t, "", "migrate", "up")

	assert.ErrorContains(t, err, "PGSQL_URL")
}

func TestMigrateDownRejectsNonPositiveSteps(t *testing.T) {
	withConfig(t, &config.Config{DatabaseURL: "postgres://localhost/none"})

	_, err := run(t, "", "migrate", "down", "--steps", "0")

	assert.ErrorContains(t, err, "--steps must be positive")
}
