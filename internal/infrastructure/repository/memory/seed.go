package memory

import (
	"time"

	"github.com/riskibarqy/team-roster/internal/domain/event"
	"github.com/riskibarqy/team-roster/internal/domain/player"
)

const (
	EventIDSpringCup    = "evt-2026-spring-cup"
	EventIDLeagueRound1 = "evt-2026-league-r1"
	EventIDLeagueRound2 = "evt-2026-league-r2"
)

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "ply-001", Name: "Ana Keller", Level: 5, Active: true},
		{ID: "ply-002", Name: "Ben Otto", Level: 4, Active: true},
		{ID: "ply-003", Name: "Carla Weiss", Level: 4, Active: true},
		{ID: "ply-004", Name: "Dario Lenz", Level: 3, Active: true},
		{ID: "ply-005", Name: "Eva Brandt", Level: 3, Active: true},
		{ID: "ply-006", Name: "Felix Horn", Level: 2, Active: true},
		{ID: "ply-007", Name: "Greta Maas", Level: 2, Active: true},
		{ID: "ply-008", Name: "Hugo Stein", Level: 1, Active: true},
		{ID: "ply-009", Name: "Ida Vogel", Level: 1, Active: true},
		{ID: "ply-010", Name: "Jonas Roth", Level: 5, Active: true},
		{ID: "ply-011", Name: "Katrin Wolf", Level: 3, Active: false},
		{ID: "ply-012", Name: "Lars Beck", Level: 2, Active: true},
	}
}

// SeedEvents returns two played league rounds and an upcoming cup with
// open rosters.
func SeedEvents() []event.Event {
	day := func(month time.Month, d int) time.Time {
		return time.Date(2026, month, d, 9, 0, 0, 0, time.UTC)
	}
	accepted := func(ids ...string) []event.Invitation {
		out := make([]event.Invitation, 0, len(ids))
		for _, id := range ids {
			out = append(out, event.Invitation{PlayerID: id, Status: event.InvitationAccepted})
		}
		return out
	}

	round1 := event.Event{
		ID:       EventIDLeagueRound1,
		Name:     "League round 1",
		StartsAt: day(time.March, 7),
		Invitations: append(accepted("ply-001", "ply-002", "ply-004", "ply-006", "ply-008"),
			event.Invitation{PlayerID: "ply-003", Status: event.InvitationDeclined},
			event.Invitation{PlayerID: "ply-010", Status: event.InvitationDeclined},
		),
		Teams: []event.Team{
			{ID: "r1-first", Name: "First team", Strength: 1, MaxPlayers: 2, PlayerIDs: []string{"ply-001", "ply-002"}},
			{ID: "r1-second", Name: "Second team", Strength: 2, MaxPlayers: 2, PlayerIDs: []string{"ply-004", "ply-006"}},
		},
	}
	round2 := event.Event{
		ID:       EventIDLeagueRound2,
		Name:     "League round 2",
		StartsAt: day(time.April, 11),
		Invitations: append(accepted("ply-001", "ply-003", "ply-005", "ply-007", "ply-009"),
			event.Invitation{PlayerID: "ply-002", Status: event.InvitationPending},
		),
		Teams: []event.Team{
			{ID: "r2-first", Name: "First team", Strength: 1, MaxPlayers: 2, PlayerIDs: []string{"ply-001", "ply-003"}},
			{ID: "r2-second", Name: "Second team", Strength: 2, MaxPlayers: 3, PlayerIDs: []string{"ply-005"}},
		},
	}
	cup := event.Event{
		ID:       EventIDSpringCup,
		Name:     "Spring cup",
		StartsAt: day(time.May, 16),
		Invitations: append(
			accepted("ply-001", "ply-002", "ply-003", "ply-004", "ply-005", "ply-006", "ply-007", "ply-008", "ply-010", "ply-012"),
			event.Invitation{PlayerID: "ply-009", Status: event.InvitationPending},
			event.Invitation{PlayerID: "ply-011", Status: event.InvitationDeclined},
		),
		Teams: []event.Team{
			{ID: "cup-a", Name: "Cup A", Strength: 1, MaxPlayers: 3},
			{ID: "cup-b", Name: "Cup B", Strength: 2, MaxPlayers: 3},
			{ID: "cup-c", Name: "Cup C", Strength: 3, MaxPlayers: 2},
		},
	}

	return []event.Event{round1, round2, cup}
}
