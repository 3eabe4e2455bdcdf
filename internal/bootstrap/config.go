// Package bootstrap reads configuration and wires the accounts filing service.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/LerianStudio/accounts-filing-api/internal/adapters/http/in"
	"github.com/LerianStudio/accounts-filing-api/internal/adapters/mongodb/entry"
	"github.com/LerianStudio/accounts-filing-api/internal/adapters/remote"
	"github.com/LerianStudio/accounts-filing-api/internal/adapters/transaction"
	"github.com/LerianStudio/accounts-filing-api/internal/adapters/validator"
	"github.com/LerianStudio/accounts-filing-api/internal/costs"
	"github.com/LerianStudio/accounts-filing-api/internal/services"
	"github.com/LerianStudio/accounts-filing-api/pkg/circuitbreaker"
	"github.com/LerianStudio/accounts-filing-api/pkg/log"
	libMongo "github.com/LerianStudio/accounts-filing-api/pkg/mongo"
	libHTTP "github.com/LerianStudio/accounts-filing-api/pkg/net/http"
	"github.com/LerianStudio/accounts-filing-api/pkg/net/http/ratelimit"
	"github.com/LerianStudio/accounts-filing-api/pkg/opentelemetry"
	libRedis "github.com/LerianStudio/accounts-filing-api/pkg/redis"
	"github.com/LerianStudio/accounts-filing-api/pkg/server"
	libZap "github.com/LerianStudio/accounts-filing-api/pkg/zap"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config is the top level configuration, read from the environment.
type Config struct {
	EnvName       string `mapstructure:"env_name"`
	Version       string `mapstructure:"version"`
	LogLevel      string `mapstructure:"log_level"`
	ServerAddress string `mapstructure:"server_address"`

	MongoURI         string `mapstructure:"mongo_uri"`
	MongoDBName      string `mapstructure:"mongo_db"`
	MongoMaxPoolSize int    `mapstructure:"mongo_max_pool_size"`

	RedisAddress  string `mapstructure:"redis_address"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	RateLimitEnabled       bool `mapstructure:"rate_limit_enabled"`
	RateLimitMax           int  `mapstructure:"rate_limit_max"`
	RateLimitWindowSeconds int  `mapstructure:"rate_limit_window_seconds"`

	FileValidatorURL   string `mapstructure:"file_validator_url"`
	TransactionURL     string `mapstructure:"transaction_url"`
	TransactionAPIKey  string `mapstructure:"transaction_api_key"`
	RemoteTimeoutMilli int    `mapstructure:"remote_timeout_ms"`

	CICFee      string `mapstructure:"cic_fee"`
	OverseasFee string `mapstructure:"overseas_fee"`

	FileBucketScheme string `mapstructure:"file_bucket_scheme"`
	FileBucketName   string `mapstructure:"file_bucket_name"`

	OtelServiceName         string `mapstructure:"otel_resource_service_name"`
	OtelLibraryName         string `mapstructure:"otel_library_name"`
	OtelServiceVersion      string `mapstructure:"otel_resource_service_version"`
	OtelDeploymentEnv       string `mapstructure:"otel_resource_deployment_environment"`
	OtelColExporterEndpoint string `mapstructure:"otel_exporter_otlp_endpoint"`
	EnableTelemetry         bool   `mapstructure:"enable_telemetry"`
}

// configDefaults registers every key read by Config. Keys without a
// default are listed with their zero value so the environment can set them.
var configDefaults = map[string]any{
	"env_name":       "local",
	"version":        "",
	"log_level":      "info",
	"server_address": ":3000",

	"mongo_uri":           "",
	"mongo_db":            "accounts_filing",
	"mongo_max_pool_size": 0,

	"redis_address":  "",
	"redis_password": "",
	"redis_db":       0,

	"rate_limit_enabled":        false,
	"rate_limit_max":            100,
	"rate_limit_window_seconds": 60,

	"file_validator_url":  "",
	"transaction_url":     "",
	"transaction_api_key": "",
	"remote_timeout_ms":   10000,

	"cic_fee":      "",
	"overseas_fee": "",

	"file_bucket_scheme": "s3",
	"file_bucket_name":   "",

	"otel_resource_service_name":           in.ApplicationName,
	"otel_library_name":                    in.ApplicationName,
	"otel_resource_service_version":        "",
	"otel_resource_deployment_environment": "",
	"otel_exporter_otlp_endpoint":          "",
	"enable_telemetry":                     false,
}

// LoadConfig reads Config from the environment. Unset or empty variables
// keep their defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()

	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = configDefaults["rate_limit_max"].(int)
	}

	if cfg.RateLimitWindowSeconds <= 0 {
		cfg.RateLimitWindowSeconds = configDefaults["rate_limit_window_seconds"].(int)
	}

	if cfg.RemoteTimeoutMilli <= 0 {
		cfg.RemoteTimeoutMilli = configDefaults["remote_timeout_ms"].(int)
	}

	return cfg, nil
}

// CostsConfig parses the configured fees. Unset fees keep their defaults.
func (cfg *Config) CostsConfig() (costs.Config, error) {
	out := costs.DefaultConfig()

	for _, fee := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"CIC_FEE", cfg.CICFee, &out.CICFee},
		{"OVERSEAS_FEE", cfg.OverseasFee, &out.OverseasFee},
	} {
		if strings.TrimSpace(fee.raw) == "" {
			continue
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(fee.raw))
		if err != nil {
			return costs.Config{}, fmt.Errorf("parse %s: %w", fee.name, err)
		}

		if amount.IsNegative() {
			return costs.Config{}, fmt.Errorf("parse %s: fee cannot be negative", fee.name)
		}

		*fee.dst = amount
	}

	return out, nil
}

func (cfg *Config) zapEnvironment() libZap.Environment {
	switch libZap.Environment(strings.ToLower(cfg.EnvName)) {
	case libZap.EnvironmentProduction:
		return libZap.EnvironmentProduction
	case libZap.EnvironmentStaging:
		return libZap.EnvironmentStaging
	case libZap.EnvironmentDevelopment:
		return libZap.EnvironmentDevelopment
	}

	return libZap.EnvironmentLocal
}

// InitServers builds every dependency of the service from the environment.
func InitServers() (*Service, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	return InitServersWithConfig(context.Background(), cfg)
}

// initCleanup releases, newest first, what InitServersWithConfig opened
// before a failure.
type initCleanup struct {
	steps []func(context.Context)
}

func (c *initCleanup) add(step func(context.Context)) {
	c.steps = append(c.steps, step)
}

func (c *initCleanup) fail(ctx context.Context, err error) error {
	for i := len(c.steps) - 1; i >= 0; i-- {
		c.steps[i](ctx)
	}

	c.steps = nil

	return err
}

// InitServersWithConfig builds every dependency of the service from cfg.
// Connections opened before a failure are closed again.
func InitServersWithConfig(ctx context.Context, cfg *Config) (*Service, error) {
	logger, err := libZap.New(libZap.Config{
		Environment:     cfg.zapEnvironment(),
		Level:           cfg.LogLevel,
		OTelLibraryName: cfg.OtelLibraryName,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	telemetry, err := opentelemetry.InitializeTelemetry(ctx, &opentelemetry.TelemetryConfig{
		LibraryName:               cfg.OtelLibraryName,
		ServiceName:               cfg.OtelServiceName,
		ServiceVersion:            cfg.OtelServiceVersion,
		DeploymentEnv:             cfg.OtelDeploymentEnv,
		CollectorExporterEndpoint: cfg.OtelColExporterEndpoint,
		EnableTelemetry:           cfg.EnableTelemetry,
		Logger:                    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	var cleanup initCleanup

	cleanup.add(telemetry.ShutdownTelemetry)

	costsConfig, err := cfg.CostsConfig()
	if err != nil {
		return nil, cleanup.fail(ctx, err)
	}

	mongoClient, err := libMongo.NewClient(ctx, libMongo.Config{
		URI:         cfg.MongoURI,
		Database:    cfg.MongoDBName,
		MaxPoolSize: uint64(max(cfg.MongoMaxPoolSize, 0)),
		Logger:      logger,
	})
	if err != nil {
		return nil, cleanup.fail(ctx, fmt.Errorf("init mongo: %w", err))
	}

	cleanup.add(func(ctx context.Context) { _ = mongoClient.Close(ctx) })

	repo := entry.NewMongoDBRepository(mongoClient)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return nil, cleanup.fail(ctx, fmt.Errorf("ensure indexes: %w", err))
	}

	breakers := circuitbreaker.NewManager(logger)
	httpClient := &http.Client{Timeout: time.Duration(cfg.RemoteTimeoutMilli) * time.Millisecond}

	validatorRemote, err := remote.NewClient(remote.Config{
		Service: validator.ServiceName,
		BaseURL: cfg.FileValidatorURL,
	}, httpClient, breakers)
	if err != nil {
		return nil, cleanup.fail(ctx, fmt.Errorf("init file validator client: %w", err))
	}

	transactionRemote, err := remote.NewClient(remote.Config{
		Service: transaction.ServiceName,
		BaseURL: cfg.TransactionURL,
		APIKey:  cfg.TransactionAPIKey,
	}, httpClient, breakers)
	if err != nil {
		return nil, cleanup.fail(ctx, fmt.Errorf("init transaction client: %w", err))
	}

	useCase := services.NewUseCase(
		repo,
		validator.NewClient(validatorRemote),
		transaction.NewClient(transactionRemote),
		costs.NewCalculator(costsConfig),
		services.StorageConfig{Scheme: cfg.FileBucketScheme, Bucket: cfg.FileBucketName},
	)

	var routerOpts []in.RouterOption

	manager := server.NewServerManager(telemetry, logger).
		WithCloser(mongoClient.Close)

	if cfg.RateLimitEnabled {
		redisConn, err := libRedis.New(libRedis.Config{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Logger:   logger,
		})
		if err != nil {
			return nil, cleanup.fail(ctx, fmt.Errorf("init redis: %w", err))
		}

		if err := redisConn.Connect(ctx); err != nil {
			return nil, cleanup.fail(ctx, fmt.Errorf("connect redis: %w", err))
		}

		routerOpts = append(routerOpts, in.WithMiddleware(newRateLimiter(cfg, redisConn)))
		manager = manager.WithCloser(func(context.Context) error { return redisConn.Close() })
	}

	routerOpts = append(routerOpts, in.WithDependencyHealth(breakers, validator.ServiceName, transaction.ServiceName))

	app := in.NewRouter(logger, &in.FilingHandler{Pipeline: useCase}, routerOpts...)

	logger.Log(ctx, log.LevelInfo, "accounts filing service configured",
		log.String("address", cfg.ServerAddress),
		log.Bool("rate_limit", cfg.RateLimitEnabled),
	)

	return &Service{
		Server: manager.WithHTTPServer(app, cfg.ServerAddress),
		Logger: logger,
	}, nil
}

func newRateLimiter(cfg *Config, conn *libRedis.Connection) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: time.Duration(cfg.RateLimitWindowSeconds) * time.Second,
		Storage:    ratelimit.NewRedisStorage(conn),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasSuffix(c.Path(), "/healthcheck")
		},
		LimitReached: func(c *fiber.Ctx) error {
			return libHTTP.RespondError(c, fiber.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded, retry later.")
		},
	})
}
