package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inEmptyDir keeps a developer's .env out of the test.
func inEmptyDir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	inEmptyDir(t)
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "furniture_store", cfg.Mongo.Database)
	assert.Equal(t, 72*time.Hour, cfg.InviteTTL)
	assert.Equal(t, "INR", cfg.Payment.Currency)
	assert.NotEmpty(t, cfg.JWT.Secret, "development falls back to a local secret")
}

func TestLoadOverrides(t *testing.T) {
	inEmptyDir(t)
	t.Setenv("PORT", "8080")
	t.Setenv("CLIENT_URL", "https://shop.example.com/")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("PAYMENT_REQUIRE_SIGNATURE", "true")
	t.Setenv("EMAIL_PROVIDER", "SendGrid")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://shop.example.com", cfg.ClientURL)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiry)
	assert.True(t, cfg.Payment.RequireSignature)
	assert.Equal(t, "sendgrid", cfg.Email.Provider)
}

func TestProductionRequiresSecret(t *testing.T) {
	inEmptyDir(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.EqualError(t, err, "JWT_SECRET must be set in production")
}
