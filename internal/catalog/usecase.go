package catalog

import (
	"context"
)

type searchUseCase struct {
	service Service
}

func NewSearchUseCase(service Service) SearchUseCase {
	return &searchUseCase{service: service}
}

func (uc *searchUseCase) SearchSessions(ctx context.Context, req SearchSessionsRequest) (*SearchSessionsResponse, error) {
	found, notFoundIDs, err := uc.service.GetSessionsByIDs(ctx, req.EventSessionIDs)
	if err != nil {
		return nil, err
	}

	sessions := make([]SessionDTO, 0, len(found))
	for _, a := range found {
		s := a.Session
		out := SessionDTO{
			ID:             s.ID,
			UUID:           s.UUID,
			Name:           s.Name,
			EventID:        s.EventID,
			StartDate:      s.StartDate,
			EndDate:        s.EndDate,
			MaxEnrollments: s.MaxEnrollments,
			Enrolled:       a.Enrolled,
			Held:           a.Held,
			AvailableSeats: a.AvailableSeats(),
		}
		if s.Event != nil {
			out.EventName = s.Event.Name
			out.Price = s.Event.Price
			out.IsVoucherEligible = s.Event.IsVoucherEligible
		}
		sessions = append(sessions, out)
	}

	if notFoundIDs == nil {
		notFoundIDs = []int64{}
	}

	return &SearchSessionsResponse{
		Sessions: sessions,
		NotFound: notFoundIDs,
	}, nil
}
