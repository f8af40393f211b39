package guarded

import (
	"context"
	"errors"

	"github.com/riskibarqy/team-roster/internal/domain/event"
	"github.com/riskibarqy/team-roster/internal/domain/player"
	"github.com/riskibarqy/team-roster/internal/platform/resilience"
)

// PlayerRepository fails fast with resilience.ErrCircuitOpen while the
// underlying store is unhealthy.
type PlayerRepository struct {
	next    player.Repository
	breaker *resilience.Breaker
}

func NewPlayerRepository(next player.Repository, breaker *resilience.Breaker) *PlayerRepository {
	return &PlayerRepository{next: next, breaker: breaker}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	var out []player.Player
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		out, err = r.next.List(ctx)
		return err
	})
	return out, err
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	var out []player.Player
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		out, err = r.next.GetByIDs(ctx, playerIDs)
		return err
	})
	return out, err
}

type EventRepository struct {
	next    event.Repository
	breaker *resilience.Breaker
}

func NewEventRepository(next event.Repository, breaker *resilience.Breaker) *EventRepository {
	return &EventRepository{next: next, breaker: breaker}
}

func (r *EventRepository) List(ctx context.Context) ([]event.Event, error) {
	var out []event.Event
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		out, err = r.next.List(ctx)
		return err
	})
	return out, err
}

func (r *EventRepository) GetByID(ctx context.Context, eventID string) (event.Event, bool, error) {
	var (
		out   event.Event
		found bool
	)
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		out, found, err = r.next.GetByID(ctx, eventID)
		return err
	})
	return out, found, err
}

// SaveTeams does not count unknown-team rejections against the store.
func (r *EventRepository) SaveTeams(ctx context.Context, eventID string, teams []event.Team) error {
	var rejected error
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		err := r.next.SaveTeams(ctx, eventID, teams)
		if errors.Is(err, event.ErrUnknownTeam) {
			rejected = err
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}
	return rejected
}
