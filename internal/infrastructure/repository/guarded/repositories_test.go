package guarded

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/team-roster/internal/domain/event"
	"github.com/riskibarqy/team-roster/internal/domain/player"
	eventmock "github.com/riskibarqy/team-roster/internal/mocks/domain/event"
	playermock "github.com/riskibarqy/team-roster/internal/mocks/domain/player"
	"github.com/riskibarqy/team-roster/internal/platform/resilience"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBreaker() *resilience.Breaker {
	return resilience.NewBreaker("test", resilience.BreakerConfig{
		FailureThreshold: 1,
		OpenTimeout:      time.Hour,
		HalfOpenProbes:   1,
	})
}

func TestPlayerRepository_OpensAfterFailure(t *testing.T) {
	ctx := context.Background()
	next := playermock.NewRepository(t)
	next.On("GetByIDs", mock.Anything, []string{"ply-001"}).
		Return(nil, errors.New("connection refused")).Once()

	repo := NewPlayerRepository(next, newBreaker())

	_, err := repo.GetByIDs(ctx, []string{"ply-001"})
	require.ErrorContains(t, err, "connection refused")

	_, err = repo.GetByIDs(ctx, []string{"ply-001"})
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
}

func TestPlayerRepository_PassesResults(t *testing.T) {
	next := playermock.NewRepository(t)
	next.On("List", mock.Anything).Return([]player.Player{{ID: "ply-001", Name: "Ada", Level: 3}}, nil).Once()

	got, err := NewPlayerRepository(next, newBreaker()).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "ply-001", got[0].ID)
}

func TestEventRepository_UnknownTeamKeepsBreakerClosed(t *testing.T) {
	ctx := context.Background()
	teams := []event.Team{{ID: "missing"}}
	next := eventmock.NewRepository(t)
	next.On("SaveTeams", mock.Anything, "evt-1", teams).Return(event.ErrUnknownTeam).Twice()

	breaker := newBreaker()
	repo := NewEventRepository(next, breaker)

	require.ErrorIs(t, repo.SaveTeams(ctx, "evt-1", teams), event.ErrUnknownTeam)
	require.ErrorIs(t, repo.SaveTeams(ctx, "evt-1", teams), event.ErrUnknownTeam)
	require.Equal(t, resilience.StateClosed, breaker.State())
}

func TestEventRepository_GetByID(t *testing.T) {
	next := eventmock.NewRepository(t)
	next.On("GetByID", mock.Anything, "evt-1").Return(event.Event{ID: "evt-1"}, true, nil).Once()

	got, found, err := NewEventRepository(next, newBreaker()).GetByID(context.Background(), "evt-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "evt-1", got.ID)
}
