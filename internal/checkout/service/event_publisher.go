package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"eventcheckout/internal/dto"
)

// CompletionPublisher announces finalized checkouts. Publishing is best
// effort: failures are logged and never undo a finalized checkout.
type CompletionPublisher struct {
	publisher MessagePublisher
	timeout   time.Duration
	logger    *zap.Logger
}

// NewCompletionPublisher accepts a nil publisher, in which case nothing is
// sent.
func NewCompletionPublisher(publisher MessagePublisher, logger *zap.Logger) *CompletionPublisher {
	return &CompletionPublisher{publisher: publisher, timeout: 5 * time.Second, logger: logger}
}

func (p *CompletionPublisher) PublishCompleted(ctx context.Context, event dto.CheckoutCompletedEvent) {
	if p == nil || p.publisher == nil {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to encode checkout completed event", zap.String("checkoutUuid", event.CheckoutUUID), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.publisher.Publish(ctx, body); err != nil {
		p.logger.Warn("failed to publish checkout completed event", zap.String("checkoutUuid", event.CheckoutUUID), zap.Error(err))
		return
	}
	p.logger.Info("checkout completed event published", zap.String("checkoutUuid", event.CheckoutUUID))
}
