package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eventcheckout/internal/domain"
	apperrors "eventcheckout/internal/errors"
)

func newTestDetailsService(checkout *domain.CheckoutSession, enrolled int, counter *mockInProgressCounter, vouchers *mockVoucherStore) *DetailsService {
	return NewDetailsService(
		&mockCheckoutRepository{
			FindByUUIDFunc: func(ctx context.Context, checkoutUUID string) (*domain.CheckoutSession, error) {
				return checkout, nil
			},
		},
		&mockEnrollmentStore{count: enrolled},
		counter,
		vouchers,
		fixedClock,
		zap.NewNop(),
	)
}

func TestDetailsService_Details(t *testing.T) {
	checkout := openCheckout(40, 10, seated("a@example.com"), waitlisted("b@example.com"))
	checkout.Attendees[0].ID = 11
	counter := &mockInProgressCounter{count: 2}
	vouchers := &mockVoucherStore{vouchers: []domain.Voucher{{IsActive: true, TotalSeats: 5}}, redeemed: 2}

	details, err := newTestDetailsService(checkout, 3, counter, vouchers).Details(context.Background(), "checkout-1", 3, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(1), counter.excludeID)
	assert.Equal(t, "IN_PROGRESS", details.Status)
	assert.Equal(t, 5, details.AvailableSeats)
	assert.Equal(t, 3, details.AvailableVoucherSeats)
	assert.Equal(t, 40.0, details.EventPrice)
	assert.Equal(t, "Workshop", details.EventName)
	require.Len(t, details.Attendees, 2)
	assert.Equal(t, int64(11), details.Attendees[0].ID)
	assert.True(t, details.Attendees[1].IsWaitlist)
}

func TestDetailsService_FloorsOversoldInventory(t *testing.T) {
	checkout := openCheckout(40, 2)
	vouchers := &mockVoucherStore{vouchers: []domain.Voucher{{IsActive: true, TotalSeats: 1}}, redeemed: 4}

	details, err := newTestDetailsService(checkout, 3, &mockInProgressCounter{count: 1}, vouchers).Details(context.Background(), "checkout-1", 3, 10)
	require.NoError(t, err)

	assert.Equal(t, 0, details.AvailableSeats)
	assert.Equal(t, 0, details.AvailableVoucherSeats)
}

func TestDetailsService_NotVoucherEligible(t *testing.T) {
	checkout := openCheckout(40, 10)
	checkout.EventSession.Event.IsVoucherEligible = false
	vouchers := &mockVoucherStore{vouchers: []domain.Voucher{{IsActive: true, TotalSeats: 8}}}

	details, err := newTestDetailsService(checkout, 0, &mockInProgressCounter{}, vouchers).Details(context.Background(), "checkout-1", 3, 10)
	require.NoError(t, err)

	assert.Equal(t, 0, details.AvailableVoucherSeats)
	assert.Equal(t, 0, vouchers.calls)
}

func TestDetailsService_ReportsEffectiveStatus(t *testing.T) {
	checkout := openCheckout(40, 10)
	past := fixedNow.Add(-time.Minute)
	checkout.ReservationExpiresAt = &past

	details, err := newTestDetailsService(checkout, 0, &mockInProgressCounter{}, &mockVoucherStore{}).Details(context.Background(), "checkout-1", 3, 10)
	require.NoError(t, err)
	assert.Equal(t, "EXPIRED", details.Status)
}

func TestDetailsService_MissingEventSession(t *testing.T) {
	checkout := openCheckout(40, 10)
	checkout.EventSession = nil

	_, err := newTestDetailsService(checkout, 0, &mockInProgressCounter{}, &mockVoucherStore{}).Details(context.Background(), "checkout-1", 3, 10)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeEventSessionNotFound))
}

func TestDetailsService_OtherEmployee(t *testing.T) {
	_, err := newTestDetailsService(openCheckout(40, 10), 0, &mockInProgressCounter{}, &mockVoucherStore{}).Details(context.Background(), "checkout-1", 99, 10)
	_, ok := apperrors.IsForbiddenError(err)
	assert.True(t, ok)
}
