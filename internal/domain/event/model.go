package event

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownTeam          = errors.New("unknown team")
	ErrCapacityExceeded     = errors.New("team capacity exceeded")
	ErrDuplicatePlayer      = errors.New("player assigned more than once")
	ErrPlayerNotAccepted    = errors.New("player has not accepted the invitation")
	ErrInvalidTeamCapacity  = errors.New("invalid team capacity")
	ErrInvalidTeamStrength  = errors.New("invalid team strength")
	ErrInvalidInvitationRef = errors.New("invalid invitation")
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

var AllInvitationStatuses = map[InvitationStatus]struct{}{
	InvitationPending:  {},
	InvitationAccepted: {},
	InvitationDeclined: {},
}

type Invitation struct {
	PlayerID string
	Status   InvitationStatus
}

// Team is one roster of an event.
type Team struct {
	ID         string
	Name       string
	Strength   int
	MaxPlayers int
	PlayerIDs  []string
}

func (t Team) RemainingCapacity() int {
	return max(t.MaxPlayers-len(t.PlayerIDs), 0)
}

// Event is a match day or tournament the club sends one or more teams to.
type Event struct {
	ID          string
	Name        string
	StartsAt    time.Time
	Invitations []Invitation
	Teams       []Team
	UpdatedAt   time.Time
}

func (e Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event id is required")
	}
	if e.Name == "" {
		return fmt.Errorf("event name is required")
	}
	for _, inv := range e.Invitations {
		if inv.PlayerID == "" {
			return fmt.Errorf("%w: player id is required", ErrInvalidInvitationRef)
		}
		if _, ok := AllInvitationStatuses[inv.Status]; !ok {
			return fmt.Errorf("%w: status %q", ErrInvalidInvitationRef, inv.Status)
		}
	}
	for _, t := range e.Teams {
		if t.ID == "" {
			return fmt.Errorf("team id is required")
		}
		if t.MaxPlayers < 0 {
			return fmt.Errorf("%w: team=%s max=%d", ErrInvalidTeamCapacity, t.ID, t.MaxPlayers)
		}
		if t.Strength < 1 {
			return fmt.Errorf("%w: team=%s strength=%d", ErrInvalidTeamStrength, t.ID, t.Strength)
		}
	}

	return e.ValidateRoster()
}

// AcceptedPlayerIDs returns accepted invitations in invitation order.
func (e Event) AcceptedPlayerIDs() []string {
	out := make([]string, 0, len(e.Invitations))
	for _, inv := range e.Invitations {
		if inv.Status == InvitationAccepted {
			out = append(out, inv.PlayerID)
		}
	}
	return out
}

func (e Event) AssignedPlayerIDs() map[string]string {
	out := make(map[string]string)
	for _, t := range e.Teams {
		for _, playerID := range t.PlayerIDs {
			out[playerID] = t.ID
		}
	}
	return out
}

// UnassignedAcceptedPlayerIDs is the pool auto-selection draws from.
func (e Event) UnassignedAcceptedPlayerIDs() []string {
	assigned := e.AssignedPlayerIDs()
	out := make([]string, 0, len(e.Invitations))
	for _, playerID := range e.AcceptedPlayerIDs() {
		if _, ok := assigned[playerID]; ok {
			continue
		}
		out = append(out, playerID)
	}
	return out
}

// ApplyAssignment appends newly assigned players to the matching team
// rosters and returns the updated teams. Unknown team ids are reported.
func (e Event) ApplyAssignment(playersByTeam map[string][]string) ([]Team, error) {
	teams := cloneTeams(e.Teams)
	index := make(map[string]int, len(teams))
	for i, t := range teams {
		index[t.ID] = i
	}

	for teamID, playerIDs := range playersByTeam {
		pos, ok := index[teamID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTeam, teamID)
		}
		teams[pos].PlayerIDs = append(teams[pos].PlayerIDs, playerIDs...)
	}

	return teams, nil
}

// ReplaceRosters overwrites every team roster. Teams missing from the map
// end up empty.
func (e Event) ReplaceRosters(playersByTeam map[string][]string) ([]Team, error) {
	teams := cloneTeams(e.Teams)
	index := make(map[string]int, len(teams))
	for i := range teams {
		index[teams[i].ID] = i
		teams[i].PlayerIDs = nil
	}

	for teamID, playerIDs := range playersByTeam {
		pos, ok := index[teamID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTeam, teamID)
		}
		teams[pos].PlayerIDs = append([]string(nil), playerIDs...)
	}

	return teams, nil
}

// ValidateRoster checks capacity, uniqueness and that every rostered
// player accepted the invitation.
func (e Event) ValidateRoster() error {
	accepted := make(map[string]struct{}, len(e.Invitations))
	for _, playerID := range e.AcceptedPlayerIDs() {
		accepted[playerID] = struct{}{}
	}

	seen := make(map[string]string)
	for _, t := range e.Teams {
		if len(t.PlayerIDs) > t.MaxPlayers {
			return fmt.Errorf("%w: team=%s max=%d got=%d", ErrCapacityExceeded, t.ID, t.MaxPlayers, len(t.PlayerIDs))
		}
		for _, playerID := range t.PlayerIDs {
			if other, dup := seen[playerID]; dup {
				return fmt.Errorf("%w: player=%s teams=%s,%s", ErrDuplicatePlayer, playerID, other, t.ID)
			}
			seen[playerID] = t.ID
			if _, ok := accepted[playerID]; !ok {
				return fmt.Errorf("%w: player=%s", ErrPlayerNotAccepted, playerID)
			}
		}
	}

	return nil
}

func cloneTeams(teams []Team) []Team {
	out := make([]Team, len(teams))
	for i, t := range teams {
		out[i] = t
		out[i].PlayerIDs = append([]string(nil), t.PlayerIDs...)
	}
	return out
}

func Clone(e Event) Event {
	copied := e
	copied.Invitations = append([]Invitation(nil), e.Invitations...)
	copied.Teams = cloneTeams(e.Teams)
	return copied
}
