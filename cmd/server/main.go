package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"eventcheckout/internal/auth"
	"eventcheckout/internal/catalog"
	"eventcheckout/internal/checkout"
	"eventcheckout/internal/checkout/service"
	"eventcheckout/internal/commons"
	"eventcheckout/internal/infrastructure/logger"
	"eventcheckout/internal/infrastructure/mysql"
	"eventcheckout/internal/infrastructure/rabbitmq"
	"eventcheckout/internal/infrastructure/redis"
	"eventcheckout/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("loading .env: %v", err)
	}

	cfg, err := commons.LoadConfig("internal/config/config.yaml")
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.Auth.JWTSecret == "" {
		zapLogger.Fatal("JWT_SECRET must be set")
	}

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	redisClient := redis.NewClient(cfg.Redis, zapLogger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var publisher service.MessagePublisher
	if cfg.RabbitMQ.Enabled {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQ, zapLogger)
		if err != nil {
			zapLogger.Warn("rabbitmq unavailable, completion events disabled", zap.Error(err))
		} else {
			defer p.Close()
			publisher = p
			zapLogger.Info("rabbitmq connected", zap.String("queue", cfg.RabbitMQ.CheckoutCompletedQueue))
		}
	}

	checkoutCtrl := checkout.NewModule(db, cfg, redisClient, publisher, zapLogger)
	catalogCtrl := catalog.NewModule(db, cfg.Checkout.StorageTimeout, zapLogger)

	router := server.NewRouter(db, auth.NewVerifier(cfg.Auth), cfg.Server.RequestTimeout, zapLogger, checkoutCtrl, catalogCtrl)

	srv := server.New(cfg.Server, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
