//go:build unit

package bootstrap

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	libRedis "github.com/LerianStudio/accounts-filing-api/pkg/redis"
	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ENV_NAME", "")
	t.Setenv("SERVER_ADDRESS", "")
	t.Setenv("RATE_LIMIT_MAX", "")
	t.Setenv("MONGO_DB", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.EnvName)
	assert.Equal(t, ":3000", cfg.ServerAddress)
	assert.Equal(t, "accounts_filing", cfg.MongoDBName)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 60, cfg.RateLimitWindowSeconds)
	assert.Equal(t, 10000, cfg.RemoteTimeoutMilli)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("ENV_NAME", "production")
	t.Setenv("TRANSACTION_URL", "http://transactions.internal")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_MAX", "7")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://transactions.internal", cfg.TransactionURL)
	assert.True(t, cfg.RateLimitEnabled)
	assert.Equal(t, 7, cfg.RateLimitMax)
	assert.Equal(t, "production", string(cfg.zapEnvironment()))
}

func TestLoadConfig_RejectsMalformedNumbers(t *testing.T) {
	t.Setenv("RATE_LIMIT_MAX", "lots")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "read config")
}

func TestLoadConfig_NonPositiveNumbersFallBack(t *testing.T) {
	t.Setenv("REMOTE_TIMEOUT_MS", "0")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "-5")
	t.Setenv("REDIS_DB", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 10000, cfg.RemoteTimeoutMilli)
	assert.Equal(t, 60, cfg.RateLimitWindowSeconds)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestCostsConfig(t *testing.T) {
	t.Parallel()

	cfg := &Config{}

	got, err := cfg.CostsConfig()
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("15").Equal(got.CICFee))
	assert.True(t, decimal.RequireFromString("33").Equal(got.OverseasFee))

	cfg = &Config{CICFee: " 20.50 "}

	got, err = cfg.CostsConfig()
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("20.50").Equal(got.CICFee))

	_, err = (&Config{OverseasFee: "abc"}).CostsConfig()
	assert.ErrorContains(t, err, "OVERSEAS_FEE")

	_, err = (&Config{CICFee: "-1"}).CostsConfig()
	assert.ErrorContains(t, err, "negative")
}

func TestZapEnvironment_UnknownIsLocal(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "local", string((&Config{EnvName: "qa"}).zapEnvironment()))
}

func TestRateLimiter_UsesRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	conn, err := libRedis.New(libRedis.Config{Address: mr.Addr()})
	require.NoError(t, err)
	require.NoError(t, conn.Connect(context.Background()))

	t.Cleanup(func() { _ = conn.Close() })

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(newRateLimiter(&Config{RateLimitMax: 2, RateLimitWindowSeconds: 60}, conn))
	app.Get("/thing", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/accounts-filing/healthcheck", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/thing", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/thing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"code":"429"`)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/accounts-filing/healthcheck", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.NotEmpty(t, mr.Keys())
}

func TestInitCleanup_RunsNewestFirstOnce(t *testing.T) {
	t.Parallel()

	var (
		cleanup initCleanup
		order   []string
	)

	cleanup.add(func(context.Context) { order = append(order, "telemetry") })
	cleanup.add(func(context.Context) { order = append(order, "mongo") })

	cause := errors.New("connect redis: refused")
	assert.Same(t, cause, cleanup.fail(context.Background(), cause))
	assert.Equal(t, []string{"mongo", "telemetry"}, order)

	_ = cleanup.fail(context.Background(), cause)
	assert.Len(t, order, 2)
}

func TestInitServersWithConfig_BadFeeFailsAfterTelemetry(t *testing.T) {
	t.Parallel()

	_, err := InitServersWithConfig(context.Background(), &Config{
		EnvName:         "local",
		LogLevel:        "error",
		OtelLibraryName: "accounts-filing-api",
		CICFee:          "abc",
	})
	assert.ErrorContains(t, err, "CIC_FEE")
}
