package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"eventcheckout/internal/checkout/pricing"
	"eventcheckout/internal/domain"
	"eventcheckout/internal/dto"
)

// Finalization is the state shared by the post-processors of one
// finalization attempt. Checkout is a working copy of the session.
type Finalization struct {
	Checkout    *domain.CheckoutSession
	Request     *dto.PaymentRequest
	Breakdown   pricing.Breakdown
	Now         time.Time
	Enrollments []domain.Enrollment
	Waitlist    []domain.EnrollmentWaitlist
	LineItems   []domain.InvoiceLineItem
}

// PostProcessor performs one finalization step inside the shared
// transaction.
type PostProcessor interface {
	Name() string
	Process(ctx context.Context, tx *sql.Tx, f *Finalization) error
}

// FinalizeService runs the post-processors for a validated, charged
// checkout in a single transaction. Nothing is applied to the caller's
// session unless the transaction commits.
type FinalizeService struct {
	db         TransactionManager
	processors []PostProcessor
	txTimeout  time.Duration
	clock      Clock
	logger     *zap.Logger
}

func NewFinalizeService(
	db TransactionManager,
	processors []PostProcessor,
	txTimeout time.Duration,
	clock Clock,
	logger *zap.Logger,
) *FinalizeService {
	if clock == nil {
		clock = time.Now
	}
	return &FinalizeService{
		db:         db,
		processors: processors,
		txTimeout:  txTimeout,
		clock:      clock,
		logger:     logger,
	}
}

func (s *FinalizeService) Finalize(ctx context.Context, checkout *domain.CheckoutSession, req *dto.PaymentRequest, breakdown pricing.Breakdown) (*Finalization, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.String("checkoutUuid", checkout.UUID), zap.Error(err))
		return nil, err
	}
	// MySQL ignores rollback once committed.
	defer tx.Rollback()

	f := &Finalization{
		Checkout:  checkout.Clone(),
		Request:   req,
		Breakdown: breakdown,
		Now:       s.clock().UTC(),
	}

	for _, p := range s.processors {
		if err := p.Process(txCtx, tx, f); err != nil {
			s.logger.Warn("finalization step failed",
				zap.String("step", p.Name()),
				zap.String("checkoutUuid", checkout.UUID),
				zap.Error(err),
			)
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.String("checkoutUuid", checkout.UUID), zap.Error(err))
		return nil, err
	}

	*checkout = *f.Checkout

	s.logger.Info("checkout finalized",
		zap.String("checkoutUuid", checkout.UUID),
		zap.Int("enrolledCount", len(f.Enrollments)),
		zap.Int("waitlistedCount", len(f.Waitlist)),
		zap.Int("lineItemCount", len(f.LineItems)),
		zap.Float64("amount", breakdown.Total),
	)
	return f, nil
}
