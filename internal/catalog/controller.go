package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "eventcheckout/internal/errors"
)

const maxSearchIDs = 100

type Controller struct {
	useCase SearchUseCase
	logger  *zap.Logger
}

func NewController(useCase SearchUseCase, logger *zap.Logger) *Controller {
	return &Controller{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *Controller) Routes(r chi.Router) {
	r.Post("/event-sessions/search", c.HandleSearchSessions)
}

func (c *Controller) HandleSearchSessions(w http.ResponseWriter, r *http.Request) {
	var req SearchSessionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validateSearchRequest(req); err != nil {
		c.writeValidationError(w, err.Message, err.Details...)
		return
	}

	resp, err := c.useCase.SearchSessions(r.Context(), req)
	if err != nil {
		c.logger.Error("search event sessions failed", zap.Error(err))
		status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
		if _, ok := apperrors.IsStorageError(err); ok {
			status, code = http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"
		}
		c.writeJSON(w, status, map[string]string{
			"code":    code,
			"message": "an unexpected error occurred",
		})
		return
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func validateSearchRequest(req SearchSessionsRequest) *apperrors.ValidationError {
	if len(req.EventSessionIDs) == 0 {
		return apperrors.NewValidationError("eventSessionIds is required", apperrors.ValidationDetail{
			Field:   "eventSessionIds",
			Message: "eventSessionIds must not be empty",
		})
	}

	if len(req.EventSessionIDs) > maxSearchIDs {
		msg := "eventSessionIds exceeds maximum of 100"
		return apperrors.NewValidationError(msg, apperrors.ValidationDetail{
			Field:   "eventSessionIds",
			Message: msg,
		})
	}

	for _, id := range req.EventSessionIDs {
		if id <= 0 {
			msg := "each eventSessionId must be a positive integer"
			return apperrors.NewValidationError(msg, apperrors.ValidationDetail{
				Field:   "eventSessionIds",
				Message: msg,
			})
		}
	}

	return nil
}

type validationErrorResponse struct {
	Code    string                       `json:"code"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *Controller) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
