package redis

import (
	"context"
	"crypto/tls"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"eventcheckout/internal/config"
)

// NewClient returns nil when Redis is disabled or unreachable so callers can
// run without it.
func NewClient(cfg config.RedisConfig, logger *zap.Logger) *goredis.Client {
	if !cfg.Enabled {
		logger.Info("redis disabled")
		return nil
	}

	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		TLSConfig:   tlsConf,
		DialTimeout: cfg.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, continuing without it", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = client.Close()
		return nil
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))
	return client
}
