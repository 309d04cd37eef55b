package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"eventcheckout/internal/auth"
	"eventcheckout/internal/checkout/pricing"
	"eventcheckout/internal/domain"
	"eventcheckout/internal/dto"
	apperrors "eventcheckout/internal/errors"
)

type SessionUseCase interface {
	Start(ctx context.Context, employeeID, companyID, eventSessionID int64) (*domain.CheckoutSession, error)
	Current(ctx context.Context, employeeID, companyID, eventSessionID int64) (*domain.CheckoutSession, error)
	Cancel(ctx context.Context, checkoutUUID string, employeeID, companyID int64) (*domain.CheckoutSession, error)
	UpdateAttendees(ctx context.Context, checkoutUUID string, employeeID, companyID int64, req dto.UpdateAttendeesRequest) (*domain.CheckoutSession, error)
}

type DetailsReader interface {
	Details(ctx context.Context, checkoutUUID string, employeeID, companyID int64) (*dto.CheckoutDetails, error)
}

type PaymentUseCase interface {
	Validate(ctx context.Context, req *dto.PaymentRequest, employeeID, companyID int64) (*dto.ValidationResult, error)
	ProcessPayment(ctx context.Context, req *dto.PaymentRequest, employeeID, companyID int64) (*dto.PaymentResult, error)
}

const maxAttendees = 500

type CheckoutController struct {
	sessions SessionUseCase
	details  DetailsReader
	payments PaymentUseCase
	clock    func() time.Time
	logger   *zap.Logger
}

func NewCheckoutController(sessions SessionUseCase, details DetailsReader, payments PaymentUseCase, clock func() time.Time, logger *zap.Logger) *CheckoutController {
	if clock == nil {
		clock = time.Now
	}
	return &CheckoutController{
		sessions: sessions,
		details:  details,
		payments: payments,
		clock:    clock,
		logger:   logger,
	}
}

// Routes mounts the checkout endpoints. Callers are expected to have passed
// the auth middleware.
func (c *CheckoutController) Routes(r chi.Router) {
	r.Post("/checkouts", c.Start)
	r.Get("/checkouts/current", c.Current)
	r.Get("/checkouts/{uuid}", c.Details)
	r.Put("/checkouts/{uuid}/attendees", c.UpdateAttendees)
	r.Delete("/checkouts/{uuid}", c.Cancel)
	r.Post("/checkouts/{uuid}/validate", c.Validate)
	r.Post("/checkouts/{uuid}/payments", c.ProcessPayment)
}

func (c *CheckoutController) Start(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()
	identity, ok := c.identity(w, r, traceID)
	if !ok {
		return
	}

	var req dto.StartCheckoutRequest
	if !c.decode(w, r, traceID, &req, logger) {
		return
	}
	if req.EventSessionID <= 0 {
		c.writeValidationError(w, traceID, "validation failed", apperrors.ValidationDetail{
			Field:   "eventSessionId",
			Message: "eventSessionId must be a positive integer",
		})
		return
	}

	checkout, err := c.sessions.Start(r.Context(), identity.EmployeeID, identity.CompanyID, req.EventSessionID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeSession(w, http.StatusCreated, traceID, checkout)
}

func (c *CheckoutController) Current(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()
	identity, ok := c.identity(w, r, traceID)
	if !ok {
		return
	}

	eventSessionID, err := strconv.ParseInt(r.URL.Query().Get("eventSessionId"), 10, 64)
	if err != nil || eventSessionID <= 0 {
		c.writeValidationError(w, traceID, "invalid eventSessionId", apperrors.ValidationDetail{
			Field:   "eventSessionId",
			Message: "eventSessionId must be a positive integer",
		})
		return
	}

	checkout, err := c.sessions.Current(r.Context(), identity.EmployeeID, identity.CompanyID, eventSessionID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeSession(w, http.StatusOK, traceID, checkout)
}

func (c *CheckoutController) Details(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()
	identity, ok := c.identity(w, r, traceID)
	if !ok {
		return
	}

	details, err := c.details.Details(r.Context(), chi.URLParam(r, "uuid"), identity.EmployeeID, identity.CompanyID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.CheckoutDetailsResponse{TraceID: traceID, Details: *details})
}

func (c *CheckoutController) UpdateAttendees(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()
	identity, ok := c.identity(w, r, traceID)
	if !ok {
		return
	}

	var req dto.UpdateAttendeesRequest
	if !c.decode(w, r, traceID, &req, logger) {
		return
	}
	if len(req.Attendees) > maxAttendees {
		c.writeValidationError(w, traceID, "validation failed", apperrors.ValidationDetail{
			Field:   "attendees",
			Message: "attendees exceeds maximum of " + strconv.Itoa(maxAttendees),
		})
		return
	}

	checkout, err := c.sessions.UpdateAttendees(r.Context(), chi.URLParam(r, "uuid"), identity.EmployeeID, identity.CompanyID, req)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeSession(w, http.StatusOK, traceID, checkout)
}

func (c *CheckoutController) Cancel(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()
	identity, ok := c.identity(w, r, traceID)
	if !ok {
		return
	}

	checkout, err := c.sessions.Cancel(r.Context(), chi.URLParam(r, "uuid"), identity.EmployeeID, identity.CompanyID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeSession(w, http.StatusOK, traceID, checkout)
}

func (c *CheckoutController) Validate(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()
	identity, ok := c.identity(w, r, traceID)
	if !ok {
		return
	}

	req, ok := c.paymentRequest(w, r, traceID, logger)
	if !ok {
		return
	}

	result, err := c.payments.Validate(r.Context(), req, identity.EmployeeID, identity.CompanyID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.ValidationResponse{
		TraceID:      traceID,
		CheckoutUUID: result.CheckoutUUID,
		Valid:        true,
		Breakdown:    result.Breakdown,
		Timestamp:    c.clock().UTC(),
	})
}

func (c *CheckoutController) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace()
	identity, ok := c.identity(w, r, traceID)
	if !ok {
		return
	}

	req, ok := c.paymentRequest(w, r, traceID, logger)
	if !ok {
		return
	}

	result, err := c.payments.ProcessPayment(r.Context(), req, identity.EmployeeID, identity.CompanyID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.PaymentResponse{
		TraceID:            traceID,
		CheckoutUUID:       result.CheckoutUUID,
		Status:             string(domain.CheckoutStatusCompleted),
		ConfirmationNumber: result.ConfirmationNumber,
		Amount:             result.Amount,
		TransactionID:      result.TransactionID,
		FinalizedAt:        result.FinalizedAt,
	})
}

func (c *CheckoutController) paymentRequest(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger) (*dto.PaymentRequest, bool) {
	var body dto.ProcessPaymentRequest
	if !c.decode(w, r, traceID, &body, logger) {
		return nil, false
	}

	if validationErr := validatePaymentBody(body); validationErr != nil {
		c.writeValidationError(w, traceID, validationErr.Message, validationErr.Details...)
		return nil, false
	}

	return body.ToPaymentRequest(chi.URLParam(r, "uuid")), true
}

func validatePaymentBody(body dto.ProcessPaymentRequest) *apperrors.ValidationError {
	var details []apperrors.ValidationDetail

	if body.Amount < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "amount",
			Message: "amount must be non-negative",
		})
	}

	if body.VoucherQuantity != nil && *body.VoucherQuantity < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "voucherQuantity",
			Message: "voucherQuantity must be non-negative",
		})
	}

	if body.AdminDiscountType != nil && *body.AdminDiscountType != "" {
		if _, ok := pricing.ParseDiscountType(*body.AdminDiscountType); !ok {
			details = append(details, apperrors.ValidationDetail{
				Field:   "adminDiscountType",
				Message: "adminDiscountType must be percentage or fixed_amount",
			})
		}
	}

	if body.AdminDiscountValue != nil && *body.AdminDiscountValue < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "adminDiscountValue",
			Message: "adminDiscountValue must be non-negative",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func (c *CheckoutController) trace() (string, *zap.Logger) {
	traceID := uuid.New().String()
	return traceID, c.logger.With(zap.String("traceId", traceID))
}

func (c *CheckoutController) identity(w http.ResponseWriter, r *http.Request, traceID string) (auth.Identity, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		c.writeErrorResponse(w, traceID, http.StatusUnauthorized, "UNAUTHORIZED", "", "missing identity", nil)
	}
	return identity, ok
}

func (c *CheckoutController) decode(w http.ResponseWriter, r *http.Request, traceID string, dst any, logger *zap.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return false
	}
	return true
}

func (c *CheckoutController) handleUseCaseError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ce, ok := apperrors.IsCheckoutError(err); ok {
		logger.Info("checkout rule violated", zap.String("code", ce.Code), zap.String("family", string(ce.Family)))
		var details any
		if len(ce.Fields) > 0 {
			details = ce.Fields
		}
		c.writeErrorResponse(w, traceID, checkoutErrorStatus(ce), ce.Code, string(ce.Family), ce.Message, details)
		return
	}

	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", "", err.Error(), nil)
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "CONFLICT", "", err.Error(), nil)
		return
	}

	if _, ok := apperrors.IsForbiddenError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusForbidden, "FORBIDDEN", "", err.Error(), nil)
		return
	}

	if _, ok := apperrors.IsDeadlockError(err); ok {
		logger.Warn("finalization retries exhausted", zap.Error(err))
		c.writeErrorResponse(w, traceID, http.StatusConflict, "DEADLOCK", "", err.Error(), nil)
		return
	}

	if se, ok := apperrors.IsStorageError(err); ok {
		logger.Error("storage failure", zap.String("op", se.Op), zap.Bool("timeout", se.Timeout()), zap.Error(err))
		status := http.StatusServiceUnavailable
		if se.Timeout() {
			status = http.StatusGatewayTimeout
		}
		c.writeErrorResponse(w, traceID, status, "STORAGE_UNAVAILABLE", "", "storage is temporarily unavailable", nil)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "", "an unexpected error occurred", nil)
}

func checkoutErrorStatus(ce *apperrors.CheckoutError) int {
	switch ce.Family {
	case apperrors.FamilyEnrollment, apperrors.FamilyWaitlist, apperrors.FamilySeats, apperrors.FamilyLifecycle:
		return http.StatusConflict
	case apperrors.FamilyAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusUnprocessableEntity
	}
}

func (c *CheckoutController) writeSession(w http.ResponseWriter, status int, traceID string, checkout *domain.CheckoutSession) {
	now := c.clock().UTC()
	c.writeJSON(w, status, dto.CheckoutSessionResponse{
		TraceID:              traceID,
		UUID:                 checkout.UUID,
		Status:               string(checkout.EffectiveStatus(now)),
		EventSessionID:       checkout.EventSessionID,
		ReservationExpiresAt: checkout.ReservationExpiresAt,
		ConfirmationNumber:   checkout.ConfirmationNumber,
		Timestamp:            now,
	})
}

func (c *CheckoutController) writeErrorResponse(w http.ResponseWriter, traceID string, statusCode int, code, family, message string, details any) {
	response := dto.ErrorResponse{
		TraceID:   traceID,
		Status:    statusCode,
		Code:      code,
		Family:    family,
		Message:   message,
		Details:   details,
		Timestamp: c.clock().UTC(),
	}

	c.writeJSON(w, statusCode, response)
}

func (c *CheckoutController) writeValidationError(w http.ResponseWriter, traceID string, message string, details ...apperrors.ValidationDetail) {
	c.writeErrorResponse(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "", message, details)
}

func (c *CheckoutController) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
