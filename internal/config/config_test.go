package config

import (
	"bytes"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"log/slog"
	"net/http"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("CORS_ALLOW_ORIGINS", "")
	t.Setenv("JWT_PRIVATE_KEY", "")
	t.Setenv("JWT_PUBLIC_KEY", "")
	t.Setenv("APP_TIMEZONE", "")
	t.Setenv("SERVER_HOST", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("AUTH_COOKIE_SECURE", "")
	t.Setenv("LOG_FORMAT", "")

	cfg := Load()

	assert.Equal(t, "localhost:8080", cfg.Server.Address())
	assert.Equal(t, []string{defaultFrontendOrigin}, cfg.Server.CORSAllowOrigins)
	assert.Equal(t, "jwt", cfg.Cookie.Name)
	assert.Equal(t, http.SameSiteLaxMode, cfg.Cookie.SameSite)
	assert.False(t, cfg.Cookie.Secure)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, time.UTC, cfg.Report.Location)
	assert.Equal(t, 5, cfg.Security.MaxFailedAttempts)
	assert.Equal(t, 10, cfg.Security.LoginRateLimitPerMinute)
	require.NotNil(t, cfg.JWT.PrivateKey)
	assert.True(t, cfg.JWT.PrivateKey.PublicKey.Equal(cfg.JWT.PublicKey))
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("APP_TIMEZONE", "America/Sao_Paulo")
	t.Setenv("MAX_FAILED_ATTEMPTS", "3")
	t.Setenv("LOCKOUT_DURATION", "30m")
	t.Setenv("AUTH_COOKIE_SECURE", "true")
	t.Setenv("BCRYPT_COST", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.Server.CORSAllowOrigins)
	assert.Equal(t, "America/Sao_Paulo", cfg.Report.Location.String())
	assert.Equal(t, 3, cfg.Security.MaxFailedAttempts)
	assert.Equal(t, 30*time.Minute, cfg.Security.LockoutDuration)
	assert.True(t, cfg.Cookie.Secure)
	assert.Equal(t, 12, cfg.Security.BCryptCost)
}

func TestLoad_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Mars/Olympus_Mons")

	assert.Equal(t, time.UTC, Load().Report.Location)
}

func TestLoad_ProductionDefaults(t *testing.T) {
	privateKey, publicKey, err := GenerateRSAKeyPair()
	require.NoError(t, err)

	privDER := x509.MarshalPKCS1PrivateKey(privateKey)
	pubDER, err := x509.MarshalPKIXPublicKey(publicKey)
	require.NoError(t, err)

	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_COOKIE_SECURE", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("JWT_PRIVATE_KEY", base64.StdEncoding.EncodeToString(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: privDER})))
	t.Setenv("JWT_PUBLIC_KEY", base64.StdEncoding.EncodeToString(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})))

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Cookie.Secure)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, privateKey.Equal(cfg.JWT.PrivateKey))
}

func TestDatabaseConfig_ConnectionStrings(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "finance", SSLMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=finance sslmode=disable", cfg.DSN())
	assert.Equal(t, "postgres://u:p@db:5432/finance?sslmode=disable", cfg.URL())
}

func TestLoggingConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggingConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "user_id", "u-1")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "u-1", entry["user_id"])
}

func TestLoggingConfig_Level(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LoggingConfig{Level: "debug"}.level())
	assert.Equal(t, slog.LevelError, LoggingConfig{Level: "ERROR"}.level())
	assert.Equal(t, slog.LevelInfo, LoggingConfig{Level: "loud"}.level())
	assert.Equal(t, slog.LevelInfo, LoggingConfig{}.level())
}

func TestLoggingConfig_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	LoggingConfig{Format: "text"}.NewLogger(&buf).Info("hello", "k", "v")

	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=v")
}
