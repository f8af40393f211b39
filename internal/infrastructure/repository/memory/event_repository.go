package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/team-roster/internal/domain/event"
)

type EventRepository struct {
	mu     sync.RWMutex
	events map[string]event.Event
	now    func() time.Time
}

func NewEventRepository(events []event.Event) *EventRepository {
	byID := make(map[string]event.Event, len(events))
	for _, e := range events {
		byID[e.ID] = event.Clone(e)
	}

	return &EventRepository{
		events: byID,
		now:    time.Now,
	}
}

func (r *EventRepository) List(_ context.Context) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]event.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, event.Clone(e))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *EventRepository) GetByID(_ context.Context, eventID string) (event.Event, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.events[eventID]
	if !ok {
		return event.Event{}, false, nil
	}

	return event.Clone(e), true, nil
}

// SaveTeams replaces the rosters of the listed teams. Every team must
// already belong to the event.
func (r *EventRepository) SaveTeams(_ context.Context, eventID string, teams []event.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[eventID]
	if !ok {
		return fmt.Errorf("event not found: %s", eventID)
	}

	index := make(map[string]int, len(e.Teams))
	for i, t := range e.Teams {
		index[t.ID] = i
	}
	updated := event.Clone(e)
	for _, t := range teams {
		pos, ok := index[t.ID]
		if !ok {
			return fmt.Errorf("%w: event=%s team=%s", event.ErrUnknownTeam, eventID, t.ID)
		}
		updated.Teams[pos].PlayerIDs = append([]string(nil), t.PlayerIDs...)
	}
	updated.UpdatedAt = r.now().UTC()

	r.events[eventID] = updated
	return nil
}
