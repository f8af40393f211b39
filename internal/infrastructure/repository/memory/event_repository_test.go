package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/team-roster/internal/domain/event"
)

func TestSeedEvents_AreValid(t *testing.T) {
	for _, e := range SeedEvents() {
		if err := e.Validate(); err != nil {
			t.Fatalf("seed event %s invalid: %v", e.ID, err)
		}
	}
	for _, p := range SeedPlayers() {
		if err := p.Validate(); err != nil {
			t.Fatalf("seed player %s invalid: %v", p.ID, err)
		}
	}
}

func TestEventRepository_SaveTeams(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(SeedEvents())
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	err := repo.SaveTeams(ctx, EventIDSpringCup, []event.Team{
		{ID: "cup-a", PlayerIDs: []string{"ply-001", "ply-002"}},
	})
	if err != nil {
		t.Fatalf("SaveTeams error: %v", err)
	}

	got, ok, err := repo.GetByID(ctx, EventIDSpringCup)
	if err != nil || !ok {
		t.Fatalf("GetByID ok=%v err=%v", ok, err)
	}
	if len(got.Teams[0].PlayerIDs) != 2 || got.Teams[0].PlayerIDs[1] != "ply-002" {
		t.Fatalf("unexpected roster: %+v", got.Teams[0].PlayerIDs)
	}
	if !got.UpdatedAt.Equal(fixed) {
		t.Fatalf("unexpected updated_at: %s", got.UpdatedAt)
	}
	if got.Teams[0].MaxPlayers != 3 {
		t.Fatalf("team metadata must be preserved, got max=%d", got.Teams[0].MaxPlayers)
	}
}

func TestEventRepository_SaveTeamsUnknownTeam(t *testing.T) {
	repo := NewEventRepository(SeedEvents())

	err := repo.SaveTeams(context.Background(), EventIDSpringCup, []event.Team{{ID: "nope"}})
	if !errors.Is(err, event.ErrUnknownTeam) {
		t.Fatalf("expected ErrUnknownTeam, got %v", err)
	}
}

func TestEventRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(SeedEvents())

	first, _, _ := repo.GetByID(ctx, EventIDLeagueRound1)
	first.Teams[0].PlayerIDs[0] = "mutated"

	second, _, _ := repo.GetByID(ctx, EventIDLeagueRound1)
	if second.Teams[0].PlayerIDs[0] == "mutated" {
		t.Fatalf("repository leaked internal roster slice")
	}
}

func TestPlayerRepository_GetByIDsKeepsRequestOrder(t *testing.T) {
	repo := NewPlayerRepository(SeedPlayers())

	got, err := repo.GetByIDs(context.Background(), []string{"ply-003", "missing", "ply-001"})
	if err != nil {
		t.Fatalf("GetByIDs error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "ply-003" || got[1].ID != "ply-001" {
		t.Fatalf("unexpected players: %+v", got)
	}
}
