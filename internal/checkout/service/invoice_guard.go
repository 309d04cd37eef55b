package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "eventcheckout/internal/errors"
)

const invoiceLockPrefix = "eventcheckout:invoice:"

var releaseInvoiceLock = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// InvoiceGuard serializes payment attempts for the same invoice number
// across instances. Without a Redis client, or when Redis fails, payments
// proceed unguarded.
type InvoiceGuard struct {
	client *goredis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewInvoiceGuard(client *goredis.Client, ttl time.Duration, logger *zap.Logger) *InvoiceGuard {
	return &InvoiceGuard{client: client, ttl: ttl, logger: logger}
}

// Acquire takes the lock for invoiceNumber. It returns a ConflictError
// when another payment holds it. The returned release func is never nil.
func (g *InvoiceGuard) Acquire(ctx context.Context, invoiceNumber string) (func(), error) {
	noop := func() {}
	if g == nil || g.client == nil || invoiceNumber == "" {
		return noop, nil
	}

	key := invoiceLockPrefix + invoiceNumber
	token := uuid.NewString()

	acquired, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		g.logger.Warn("invoice lock unavailable, continuing without it", zap.String("invoiceNumber", invoiceNumber), zap.Error(err))
		return noop, nil
	}
	if !acquired {
		return noop, apperrors.NewConflictError(fmt.Sprintf("payment for invoice %s is already in progress", invoiceNumber))
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseInvoiceLock.Run(releaseCtx, g.client, []string{key}, token).Err(); err != nil {
			g.logger.Warn("failed to release invoice lock", zap.String("invoiceNumber", invoiceNumber), zap.Error(err))
		}
	}, nil
}
