package catalog

import (
	"context"
	"time"

	"eventcheckout/internal/domain"
)

type SearchUseCase interface {
	SearchSessions(ctx context.Context, req SearchSessionsRequest) (*SearchSessionsResponse, error)
}

type Service interface {
	GetSessionsByIDs(ctx context.Context, ids []int64) (found []domain.SessionAvailability, notFoundIDs []int64, err error)
}

type Repository interface {
	FindAvailabilityByIDs(ctx context.Context, ids []int64, now time.Time) ([]domain.SessionAvailability, error)
}
