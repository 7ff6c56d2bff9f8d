package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("AUTH_DEV_SECRET", "dev-secret")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("SECRETS_DIR", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "tastytrove", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "tastytrove-uploads", cfg.S3Bucket)
}

func TestLoadConfigCORSList(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("AUTH_DEV_SECRET", "dev-secret")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://tastytrove.example,https://staging.tastytrove.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://tastytrove.example", "https://staging.tastytrove.example"}, cfg.AllowedOrigins)
}

func TestLoadConfigReadsDockerSecrets(t *testing.T) {
	secretsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "db_password"), []byte("s3cret\n"), 0o600))

	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("AUTH_DEV_SECRET", "dev-secret")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("SECRETS_DIR", secretsDir)
	t.Setenv("DB_PASSWORD", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.DBPassword, "secret files are trimmed")
}

func TestLoadConfigEnvBeatsSecret(t *testing.T) {
	secretsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "db_password"), []byte("from-file"), 0o600))

	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("AUTH_DEV_SECRET", "dev-secret")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("SECRETS_DIR", secretsDir)
	t.Setenv("DB_PASSWORD", "from-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.DBPassword)
}

func TestValidateConfigRequiresSomeVerifier(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")

	cfg := &Config{DBHost: "localhost", DBUser: "u", DBName: "d"}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_ISSUER_URL or AUTH_DEV_SECRET")

	cfg.AuthDevSecret = "dev-secret"
	assert.NoError(t, ValidateConfig(cfg))
}

func TestValidateConfigProduction(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")

	cfg := &Config{
		DBHost: "db", DBUser: "u", DBName: "d",
		AuthDevSecret: "dev-secret",
	}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
	assert.Contains(t, err.Error(), "AUTH_ISSUER_URL")

	cfg.DBPassword = "pw"
	cfg.AuthIssuerURL = "https://id.example.com/"
	err = ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_CLIENT_ID")

	cfg.AuthClientID = "client"
	assert.NoError(t, ValidateConfig(cfg))
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())

	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("ENV", "test")
	assert.Equal(t, Test, GetEnvironment())
	assert.True(t, IsTest())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())
}
