package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/avelars/eventmerch-service/config"
	"github.com/avelars/eventmerch-service/internal/auth"
	"github.com/avelars/eventmerch-service/pkg/broker"
	"github.com/avelars/eventmerch-service/pkg/cache"
	"github.com/avelars/eventmerch-service/pkg/logger"
	"github.com/avelars/eventmerch-service/pkg/postgres"
	"github.com/avelars/eventmerch-service/pkg/search"
	"github.com/avelars/eventmerch-service/pkg/storage"

	catH "github.com/avelars/eventmerch-service/internal/category/handler"
	catRepoPkg "github.com/avelars/eventmerch-service/internal/category/repository"
	catUCPkg "github.com/avelars/eventmerch-service/internal/category/usecase"

	prodH "github.com/avelars/eventmerch-service/internal/product/handler"
	prodRepoPkg "github.com/avelars/eventmerch-service/internal/product/repository"
	prodUCPkg "github.com/avelars/eventmerch-service/internal/product/usecase"

	stockH "github.com/avelars/eventmerch-service/internal/stock/handler"
	stockListenerPkg "github.com/avelars/eventmerch-service/internal/stock/listener"
	stockRepoPkg "github.com/avelars/eventmerch-service/internal/stock/repository"
	stockUCPkg "github.com/avelars/eventmerch-service/internal/stock/usecase"

	orderH "github.com/avelars/eventmerch-service/internal/order/handler"
	orderRepoPkg "github.com/avelars/eventmerch-service/internal/order/repository"
	orderUCPkg "github.com/avelars/eventmerch-service/internal/order/usecase"

	standH "github.com/avelars/eventmerch-service/internal/stand/handler"
	standRepoPkg "github.com/avelars/eventmerch-service/internal/stand/repository"
	standUCPkg "github.com/avelars/eventmerch-service/internal/stand/usecase"

	userH "github.com/avelars/eventmerch-service/internal/user/handler"
	userRepoPkg "github.com/avelars/eventmerch-service/internal/user/repository"
	userUCPkg "github.com/avelars/eventmerch-service/internal/user/usecase"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     false,
		DisableStacktrace: false,
	}
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("connected to PostgreSQL", zap.String("db_name", cfg.Postgres.DBName))

	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	stockRepo := stockRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)
	standRepo := standRepoPkg.NewPGRepository(db)
	userRepo := userRepoPkg.NewPGRepository(db)

	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

	shopConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.ShopOrdersTopic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer shopConsumer.Close()
	appLogger.Info("kafka consumer ready",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.ShopOrdersTopic))

	eventPublisher := broker.NewPublisher(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.EventsTopic,
	})
	defer eventPublisher.Close()

	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("could not connect to Elasticsearch, search falls back to DB", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	var gcsStorage *storage.GCSStorage
	if cfg.Storage.Bucket != "" {
		gcsStorage, err = storage.NewGCSStorage(context.Background(), &storage.Config{
			Bucket:          cfg.Storage.Bucket,
			CredentialsJSON: cfg.Storage.CredentialsJSON,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
		})
		if err != nil {
			appLogger.Warn("could not initialize GCS storage, image uploads disabled", zap.Error(err))
			gcsStorage = nil
		} else {
			defer gcsStorage.Close()
			appLogger.Info("connected to GCS", zap.String("bucket", cfg.Storage.Bucket))
		}
	} else {
		appLogger.Warn("GCS_BUCKET not set, image uploads disabled")
	}

	catUC := catUCPkg.NewCategoryUseCase(catRepo, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, redisClient, esClient, gcsStorage, appLogger)
	stockUC := stockUCPkg.NewStockUseCase(stockRepo, redisClient, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, stockUC, eventPublisher, appLogger)
	standUC := standUCPkg.NewStandUseCase(standRepo, appLogger)
	userUC := userUCPkg.NewUserUseCase(userRepo, appLogger)

	stockListener := stockListenerPkg.NewStockListener(shopConsumer, stockUC, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go stockListener.Start(ctx)

	if cfg.Server.AppEnv != "dev" && cfg.Server.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), auth.Middleware())

	engine.GET("/health", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	catH.NewCategoryHandler(catUC, appLogger).RegisterRoutes(api)
	prodH.NewProductHandler(prodUC, appLogger).RegisterRoutes(api)
	stockH.NewStockHandler(stockUC, appLogger).RegisterRoutes(api)
	orderH.NewOrderHandler(orderUC, appLogger).RegisterRoutes(api)
	standH.NewStandHandler(standUC, appLogger).RegisterRoutes(api)
	userH.NewUserHandler(userUC, appLogger).RegisterRoutes(api)

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:              port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("starting HTTP server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("server stopped")
}
