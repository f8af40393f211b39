package usecase

import (
	"github.com/riskibarqy/team-roster/internal/domain/event"
	"github.com/riskibarqy/team-roster/internal/domain/selection"
)

// PlayerHistory holds the counters the selection engine ranks by.
type PlayerHistory struct {
	SelectedCount int `json:"selected_count"`
	InvitedCount  int `json:"invited_count"`
	AcceptedCount int `json:"accepted_count"`
}

// BuildPlayerHistory scans events that started before target and counts,
// per player, invitations, accepted invitations and roster placements.
// The target's own invitations are counted too so every accepted
// candidate has at least one invitation on record.
func BuildPlayerHistory(events []event.Event, target event.Event) map[string]PlayerHistory {
	out := make(map[string]PlayerHistory)

	for _, evt := range events {
		if evt.ID == target.ID || !evt.StartsAt.Before(target.StartsAt) {
			continue
		}

		for _, inv := range evt.Invitations {
			h := out[inv.PlayerID]
			h.InvitedCount++
			if inv.Status == event.InvitationAccepted {
				h.AcceptedCount++
			}
			out[inv.PlayerID] = h
		}
		for playerID := range evt.AssignedPlayerIDs() {
			h := out[playerID]
			h.SelectedCount++
			out[playerID] = h
		}
	}

	for _, inv := range target.Invitations {
		h := out[inv.PlayerID]
		h.InvitedCount++
		if inv.Status == event.InvitationAccepted {
			h.AcceptedCount++
		}
		out[inv.PlayerID] = h
	}

	return out
}

func (h PlayerHistory) candidate(playerID string, level int) selection.Candidate {
	return selection.Candidate{
		PlayerID:      playerID,
		Level:         level,
		SelectedCount: h.SelectedCount,
		InvitedCount:  h.InvitedCount,
		AcceptedCount: h.AcceptedCount,
	}
}
