package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/YouSangSon/admin-backoffice/internal/application/usecase"
	"github.com/YouSangSon/admin-backoffice/internal/config"
	"github.com/YouSangSon/admin-backoffice/internal/domain/entity"
	"github.com/YouSangSon/admin-backoffice/internal/infrastructure/cache"
	"github.com/YouSangSon/admin-backoffice/internal/infrastructure/messaging/kafka"
	"github.com/YouSangSon/admin-backoffice/internal/infrastructure/persistence/postgres"
	httpHandler "github.com/YouSangSon/admin-backoffice/internal/interfaces/http/handler"
	"github.com/YouSangSon/admin-backoffice/internal/interfaces/http/middleware"
	"github.com/YouSangSon/admin-backoffice/internal/interfaces/http/router"
	"github.com/YouSangSon/admin-backoffice/internal/pkg/logger"
	"github.com/YouSangSon/admin-backoffice/internal/pkg/metrics"
	"github.com/YouSangSon/admin-backoffice/internal/pkg/tracing"
	"github.com/YouSangSon/admin-backoffice/internal/pkg/vault"
)

func main() {
	// 설정 로드
	cfg, err := config.LoadConfig("", "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 로거 초기화
	if err := logger.Init(logger.Config{
		Environment: cfg.App.Environment,
		Level:       cfg.Observability.Logging.Level,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	logger.Info(ctx, "starting admin backoffice",
		logger.Field("environment", cfg.App.Environment),
		logger.Field("version", cfg.App.Version),
	)

	// 분산 추적 초기화
	shutdownTracing, err := tracing.Init(&tracing.Config{
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		JaegerEndpoint: cfg.Observability.Tracing.JaegerEndpoint,
		Enabled:        cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			logger.Error(ctx, "failed to shutdown tracing", zap.Error(err))
		}
	}()

	// 메트릭 초기화
	metrics.Init("admin_backoffice")

	// Vault에서 데이터베이스 자격증명 조회 (선택)
	pgUser, pgPassword := cfg.Postgres.User, cfg.Postgres.Password
	if cfg.Postgres.UseVault {
		vaultClient, err := vault.NewClient(&vault.Config{
			Address:   cfg.Vault.Address,
			Token:     cfg.Vault.Token,
			Namespace: cfg.Vault.Namespace,
			MountPath: cfg.Vault.MountPath,
		})
		if err != nil {
			logger.Fatal(ctx, "failed to initialize vault client", zap.Error(err))
		}

		creds, err := vaultClient.GetDatabaseCredentials(ctx, cfg.Postgres.VaultPath)
		if err != nil {
			logger.Fatal(ctx, "failed to fetch database credentials", zap.Error(err))
		}
		pgUser, pgPassword = creds.Username, creds.Password
		logger.Info(ctx, "database credentials loaded from vault")
	}

	// PostgreSQL 연결
	db, err := postgres.NewClient(ctx, &postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            pgUser,
		Password:        pgPassword,
		Database:        cfg.Postgres.Database,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to connect to postgres", zap.Error(err))
	}
	defer postgres.Close(db)

	// 마이그레이션 적용
	if cfg.Postgres.MigrationsPath != "" {
		if err := postgres.RunMigrations(ctx, db, cfg.Postgres.MigrationsPath); err != nil {
			logger.Fatal(ctx, "failed to run migrations", zap.Error(err))
		}
	}

	// 유즈케이스 옵션 구성
	registry := entity.DefaultRegistry()
	repo := postgres.NewResourceRepository(db)
	opts := make([]usecase.Option, 0, 2)

	// Redis 캐시 (선택)
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal(ctx, "failed to connect to redis", zap.Error(err))
		}
		defer redisCache.Close()
		opts = append(opts, usecase.WithCache(redisCache, cfg.Redis.CacheTTL))
	}

	// Kafka 감사 이벤트 (선택)
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(&kafka.ProducerConfig{
			Brokers:    cfg.Kafka.Brokers,
			ClientID:   cfg.Kafka.ClientID,
			AuditTopic: cfg.Kafka.AuditTopic,
			UseAsync:   cfg.Kafka.UseAsync,
		})
		if err != nil {
			logger.Fatal(ctx, "failed to create kafka producer", zap.Error(err))
		}
		audit := kafka.NewAuditPublisher(producer, cfg.Kafka.AuditTopic)
		defer audit.Close()
		opts = append(opts, usecase.WithAuditPublisher(audit))
	}

	resourceUC := usecase.NewResourceUseCase(registry, repo, opts...)

	// 핸들러 및 라우터 구성
	resourceHandler := httpHandler.NewResourceHandler(resourceUC)
	healthHandler := httpHandler.NewHealthHandler(db, cfg.App.Version)
	reportHandler := httpHandler.NewReportHandler(resourceUC)

	engine := router.SetupRouter(resourceHandler, healthHandler, reportHandler, router.Options{
		Environment:    cfg.App.Environment,
		EnableTracing:  cfg.Observability.Tracing.Enabled,
		EnableMetrics:  cfg.Observability.Metrics.Enabled,
		AllowedOrigins: cfg.Server.HTTP.AllowedOrigins,
		Auth: middleware.AuthConfig{
			Enabled: cfg.Auth.Enabled,
			Secret:  cfg.Auth.JWTSecret,
			Issuer:  cfg.Auth.Issuer,
		},
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
	}

	// 서버 시작
	go func() {
		logger.Info(ctx, "http server listening", logger.Field("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "server forced to shutdown", zap.Error(err))
	}

	logger.Info(ctx, "server exited")
}
