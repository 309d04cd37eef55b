package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChargeRequest struct {
	CheckoutUUID  string
	InvoiceNumber string
	PaymentToken  string
	Amount        float64
}

type ChargeResult struct {
	TransactionID string
}

// PaymentGateway charges the caller. A returned error means nothing was
// captured.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// ManualGateway approves every charge. It stands in for invoiced billing
// where payment is collected outside the checkout.
type ManualGateway struct {
	logger *zap.Logger
}

func NewManualGateway(logger *zap.Logger) *ManualGateway {
	return &ManualGateway{logger: logger}
}

func (g *ManualGateway) Charge(_ context.Context, req ChargeRequest) (*ChargeResult, error) {
	result := &ChargeResult{TransactionID: uuid.NewString()}
	g.logger.Info("manual charge approved",
		zap.String("checkoutUuid", req.CheckoutUUID),
		zap.String("invoiceNumber", req.InvoiceNumber),
		zap.Float64("amount", req.Amount),
		zap.String("transactionId", result.TransactionID),
	)
	return result, nil
}
