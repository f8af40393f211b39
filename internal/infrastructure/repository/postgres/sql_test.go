package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/team-roster/internal/domain/event"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get event: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(fmt.Errorf("pq: relation events does not exist")) {
		t.Fatalf("expected unrelated error to be ignored")
	}
}

func TestAssembleEvents(t *testing.T) {
	startsAt := time.Date(2026, 5, 16, 9, 0, 0, 0, time.UTC)
	rows := []eventTableModel{
		{PublicID: "evt-1", Name: "Cup", StartsAt: startsAt},
		{PublicID: "evt-2", Name: "Friendly", StartsAt: startsAt.Add(24 * time.Hour)},
	}
	invitations := []invitationTableModel{
		{EventID: "evt-1", PlayerID: "p1", Status: "accepted"},
		{EventID: "evt-1", PlayerID: "p2", Status: "declined"},
	}
	teams := []eventTeamTableModel{
		{PublicID: "t-b", EventID: "evt-1", Strength: 2, MaxPlayers: 3, Position: 2},
		{PublicID: "t-a", EventID: "evt-1", Strength: 1, MaxPlayers: 2, Position: 1, PlayerIDs: pq.StringArray{"p1"}},
	}

	got := assembleEvents(rows, invitations, teams)

	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	cup := got[0]
	if len(cup.Invitations) != 2 || cup.Invitations[0].Status != event.InvitationAccepted {
		t.Fatalf("unexpected invitations: %+v", cup.Invitations)
	}
	if len(cup.Teams) != 2 || cup.Teams[0].ID != "t-a" || cup.Teams[0].PlayerIDs[0] != "p1" {
		t.Fatalf("teams must follow position order: %+v", cup.Teams)
	}
	if len(got[1].Teams) != 0 || len(got[1].Invitations) != 0 {
		t.Fatalf("second event should be empty: %+v", got[1])
	}
}

func TestNonNilStrings(t *testing.T) {
	if got := nonNilStrings(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
