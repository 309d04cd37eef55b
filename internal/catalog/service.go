package catalog

import (
	"context"
	"time"

	"eventcheckout/internal/domain"
)

type sessionService struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository, clock func() time.Time) Service {
	if clock == nil {
		clock = time.Now
	}
	return &sessionService{repo: repo, clock: clock}
}

func (s *sessionService) GetSessionsByIDs(ctx context.Context, ids []int64) ([]domain.SessionAvailability, []int64, error) {
	found, err := s.repo.FindAvailabilityByIDs(ctx, ids, s.clock().UTC())
	if err != nil {
		return nil, nil, err
	}

	foundSet := make(map[int64]struct{}, len(found))
	for _, a := range found {
		foundSet[a.Session.ID] = struct{}{}
	}

	var notFoundIDs []int64
	for _, id := range ids {
		if _, ok := foundSet[id]; !ok {
			notFoundIDs = append(notFoundIDs, id)
		}
	}

	return found, notFoundIDs, nil
}
