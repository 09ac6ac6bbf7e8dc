package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/chain"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/config"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/events"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/handler"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/middleware"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/oracle"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/logger"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/ratelimit"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/repository"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.Server.LogLevel)

	// Persistence
	db, err := repository.NewDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Info("✅ Connected to PostgreSQL")
	walletRepo := repository.NewPostgresWalletRepo(db)
	accountRepo := repository.NewPostgresAccountRepo(db)
	orderRepo := repository.NewPostgresOrderRepo(db)
	auditRepo := repository.NewPostgresAuditRepo(db)

	// Trade gate (Redis > Memory)
	window := time.Duration(cfg.Trading.WindowMs) * time.Millisecond
	var gate ratelimit.TradeGate
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err == nil {
			logger.Info("✅ Connected to Redis, trade gate is cross-instance")
			gate = ratelimit.NewRedisGate(client, window)
		} else {
			logger.Error("⚠️ Redis unreachable, trade gate falls back to memory", "error", err)
		}
	}
	if gate == nil {
		gate = ratelimit.NewMemoryGate(window)
	}

	// Reference prices (live feed > static table)
	var feed *oracle.Feed
	sources := []oracle.PriceSource{}
	if cfg.Oracle.FeedURL != "" {
		feed = oracle.NewFeed(cfg.Oracle.FeedURL, time.Duration(cfg.Oracle.StaleAfterMs)*time.Millisecond)
		feed.Start()
		sources = append(sources, feed)
	}
	sources = append(sources, oracle.NewStaticSource(cfg.Oracle.StaticPrices))
	prices := oracle.NewLayered(sources...)

	// Fill events (Kafka > Nop)
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		logger.Info("✅ Kafka fill publisher enabled", "topic", cfg.Kafka.Topic)
	}

	// Core services
	registry := chain.NewRegistry(cfg)
	gateway := chain.NewGateway(registry)
	userManager := service.NewUserManager(cfg.Users)
	auditSvc := service.NewAuditService(auditRepo)
	provisioner := service.NewProvisioner(gateway, walletRepo, accountRepo, cfg.Trading)
	executor := service.NewExecutor(gateway, provisioner, gate, prices, orderRepo, accountRepo, publisher, cfg.Trading)

	accountHandler := handler.NewAccountHandler(provisioner, accountRepo)
	orderHandler := handler.NewOrderHandler(executor, orderRepo)
	auditHandler := handler.NewAuditHandler(auditSvc)

	// Router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.AuditMiddleware(auditSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "trezury", "trading_enabled": cfg.Trading.Enabled})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	v1.Use(middleware.AuthMiddleware(cfg, userManager))
	v1.Use(middleware.RateLimitMiddleware(userManager))
	{
		v1.POST("/accounts/provision", accountHandler.Provision)
		v1.GET("/accounts", accountHandler.List)
		v1.POST("/orders", orderHandler.Place)
		v1.GET("/orders", orderHandler.List)
	}
	// operator surface, keyed separately from user auth
	r.GET("/v1/audit", middleware.OperatorMiddleware(cfg), auditHandler.List)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("🚀 Trezury trading gateway started", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if feed != nil {
		feed.Stop()
	}
	if err := publisher.Close(); err != nil {
		logger.Warn("failed to close fill publisher", "error", err)
	}
	auditSvc.Close()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	logger.Info("Server exiting")
}
