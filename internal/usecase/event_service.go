package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/team-roster/internal/domain/event"
)

type EventService struct {
	eventRepo event.Repository
}

func NewEventService(eventRepo event.Repository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

// ListEvents returns events ordered by start time, most recent first.
func (s *EventService) ListEvents(ctx context.Context) ([]event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.ListEvents")
	defer span.End()

	items, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, repoError("list events", err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartsAt.After(items[j].StartsAt)
	})
	return items, nil
}

func (s *EventService) GetEvent(ctx context.Context, eventID string) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.GetEvent")
	defer span.End()

	return getEvent(ctx, s.eventRepo, eventID)
}

func getEvent(ctx context.Context, repo event.Repository, eventID string) (event.Event, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return event.Event{}, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	item, exists, err := repo.GetByID(ctx, eventID)
	if err != nil {
		return event.Event{}, repoError("get event", err)
	}
	if !exists {
		return event.Event{}, fmt.Errorf("%w: event=%s", ErrNotFound, eventID)
	}

	return item, nil
}
