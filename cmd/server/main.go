package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"simple-ecommerce/config"
	"simple-ecommerce/internal/api"
	"simple-ecommerce/internal/broker"
	"simple-ecommerce/internal/redisclient"
	"simple-ecommerce/internal/service"
	"simple-ecommerce/internal/store"
	"simple-ecommerce/internal/token"
	"simple-ecommerce/internal/util"
	"simple-ecommerce/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Observ.ServiceName, cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting simple-ecommerce API")

	tp, err := util.InitTracer(util.TracerOptions{
		ServiceName:    cfg.Observ.ServiceName,
		Environment:    cfg.Server.Env,
		JaegerEndpoint: cfg.Observ.JaegerEndpoint,
		SampleRatio:    cfg.Observ.TraceSampleRatio,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Error shutting down tracer", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := store.MigrateUp(cfg.Database.URL); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		logger.Info("Migrations applied")
	}

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Redis connected")

	tokens, err := token.NewMaker(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	if err != nil {
		logger.Fatal("Failed to create token maker", zap.Error(err))
	}

	authService, err := service.NewAuthService(db, tokens, redisClient, service.AuthOptions{
		DemoMode:       cfg.Business.DemoMode,
		OTPTTL:         time.Duration(cfg.Business.OTPTTLSeconds) * time.Second,
		OTPMaxAttempts: cfg.Business.OTPMaxAttempts,
	})
	if err != nil {
		logger.Fatal("Failed to create auth service", zap.Error(err))
	}
	if cfg.Business.DemoMode {
		logger.Warn("DEMO_MODE is on: password reset codes are returned in API responses")
	}

	if cfg.Database.AutoMigrate {
		if err := seed(db, authService); err != nil {
			logger.Fatal("Failed to seed database", zap.Error(err))
		}
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var producer *broker.Producer
	var orderEventWorker *worker.OrderEventWorker
	if cfg.Kafka.Enabled {
		producer = broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
		defer producer.Close()
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))

		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup)
		orderEventWorker = worker.NewOrderEventWorker(consumer, service.NewHistoryRecorder(db))
		go func() {
			if err := orderEventWorker.Start(workerCtx); err != nil && workerCtx.Err() == nil {
				logger.Error("Order event worker error", zap.Error(err))
			}
		}()
	} else {
		logger.Info("Kafka disabled; order events are not published")
	}

	eventPublisher := broker.NewEventPublisher(producer)
	couponService := service.NewCouponService(db)

	services := api.Services{
		Auth:      authService,
		Accounts:  service.NewAccountService(db, db),
		Catalog:   service.NewCatalogService(db),
		Carts:     service.NewCartService(db),
		Orders:    service.NewOrderService(db, couponService, service.NewPaymentService(), eventPublisher, cfg.Business.DefaultPaymentMethod),
		Coupons:   couponService,
		Cards:     service.NewCardService(db),
		Dashboard: service.NewDashboardService(db),
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(services, tokens, map[string]api.Pinger{
		"postgres": db,
		"redis":    redisClient,
	})
	handler.SetupRoutes(router, cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if orderEventWorker != nil {
		if err := orderEventWorker.Stop(); err != nil {
			logger.Warn("Error stopping order event worker", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}

// seed loads the demo accounts and catalog into empty tables
func seed(db *store.Store, auth *service.AuthService) error {
	adminHash, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}
	userHash, err := auth.HashPassword("user123")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return db.Seed(ctx, adminHash, userHash)
}
