package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-storefront-service/config"
	"github.com/fekuna/omnipos-storefront-service/internal/cache"
	"github.com/fekuna/omnipos-storefront-service/internal/cart"
	catListenerPkg "github.com/fekuna/omnipos-storefront-service/internal/catalog/listener"
	catRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/catalog/repository"
	catUCPkg "github.com/fekuna/omnipos-storefront-service/internal/catalog/usecase"
	"github.com/fekuna/omnipos-storefront-service/internal/checkout"
	"github.com/fekuna/omnipos-storefront-service/internal/database/postgres"
	"github.com/fekuna/omnipos-storefront-service/internal/delivery"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/notify"
	"github.com/fekuna/omnipos-storefront-service/internal/orderlog"
	orderRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/orderlog/repository"
	"github.com/fekuna/omnipos-storefront-service/internal/session"
	"github.com/fekuna/omnipos-storefront-service/internal/storefront/handler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
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
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Reference data
	fees, err := delivery.LoadTableFile(cfg.Delivery.FeesFile)
	if err != nil {
		appLogger.Fatal("Could not load delivery fee table", zap.Error(err))
	}
	appLogger.Info("Loaded delivery fee table", zap.Int("cities", len(fees.Cities())))

	loc, err := time.LoadLocation(cfg.Webhook.Timezone)
	if err != nil {
		appLogger.Warn("Unknown order timezone, falling back to UTC", zap.String("timezone", cfg.Webhook.Timezone), zap.Error(err))
		loc = time.UTC
	}

	// 6. Repositories and use cases
	catRepo := catRepoPkg.NewPGRepository(db)
	catUC := catUCPkg.NewCatalogUseCase(catRepo, redisClient, cfg.Catalog.CacheTTL, appLogger)
	orderRepo := orderRepoPkg.NewRedisRepository(redisClient, cfg.OrderLog.Key, cfg.OrderLog.Max)

	// 7. Order notifications
	hub := notify.NewHub(appLogger)
	defer hub.Close()

	notifiers := notify.Fanout{
		notify.NewWebhook(notify.WebhookConfig{
			URL:      cfg.Webhook.URL,
			Timeout:  cfg.Webhook.Timeout,
			Location: loc,
		}, appLogger),
		orderlog.NewRecorder(orderRepo),
		hub,
	}
	if cfg.Kafka.Enabled {
		publisher := notify.NewKafkaPublisher(notify.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			WriteTimeout: cfg.Kafka.WriteTimeout,
		})
		defer publisher.Close()
		notifiers = append(notifiers, publisher)
		appLogger.Info("Publishing order events to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	dispatcher := notify.NewDispatcher(notifiers, appLogger)

	// 8. Sessions
	sessions := session.NewManager(session.Config{TTL: cfg.Session.TTL}, func(c *cart.Store, schedule checkout.Scheduler) *checkout.Machine {
		return checkout.NewMachine(checkout.Options{
			Cart:       c,
			Fees:       fees,
			Dispatcher: dispatcher,
			Logger:     appLogger,
			ResetDelay: cfg.Session.ResetDelay,
			Schedule:   schedule,
		})
	}, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sessions.Run(ctx)

	if cfg.Kafka.Enabled {
		catListener := catListenerPkg.NewCatalogListener(
			catListenerPkg.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.CatalogTopic, cfg.Kafka.GroupID),
			catUC,
			appLogger,
		)
		defer catListener.Close()
		go catListener.Start(ctx)
	}

	// 9. HTTP Server
	if cfg.Server.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", handler.SessionHeader, handler.APIKeyHeader},
		ExposeHeaders:    []string{"Content-Length", handler.SessionHeader, "Content-Disposition"},
		AllowCredentials: !allowsAnyOrigin(cfg.Server.CORSAllowedOrigins),
		MaxAge:           12 * time.Hour,
	}))

	storefront := handler.NewStorefrontHandler(handler.Options{
		Catalog:      catUC,
		Sessions:     sessions,
		Fees:         fees,
		Orders:       orderRepo,
		Hub:          hub,
		Location:     loc,
		AdminAPIKey:  cfg.Admin.APIKey,
		CookieSecure: cfg.Session.CookieSecure,
		SessionTTL:   cfg.Session.TTL,
		Logger:       appLogger,
	})
	storefront.Register(router)

	httpServer := &http.Server{
		Addr:              normalizePort(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 10. Ops gRPC Server (health + reflection)
	lis, err := net.Listen("tcp", normalizePort(cfg.Server.GRPCPort))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("storefront", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
	appLogger.Info("Starting gRPC server", zap.String("port", cfg.Server.GRPCPort))

	// Graceful Shutdown
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		appLogger.Warn("Pending order notifications abandoned", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func normalizePort(port string) string {
	if !strings.Contains(port, ":") {
		port = ":" + port
	}
	return port
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
