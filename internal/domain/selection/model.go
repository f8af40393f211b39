package selection

import "sort"

// Candidate is an invited player annotated with counters from past events.
type Candidate struct {
	PlayerID      string
	Level         int
	SelectedCount int
	InvitedCount  int
	AcceptedCount int
}

// Team is a target roster slot group inside one event.
// Strength 1 is the strongest tier; larger values are weaker tiers.
type Team struct {
	ID         string
	Strength   int
	MaxPlayers int
}

// Assignment maps a player id to the team id it was placed on.
// A player missing from the map was not selected.
type Assignment map[string]string

func (a Assignment) CountByTeam() map[string]int {
	out := make(map[string]int)
	for _, teamID := range a {
		out[teamID]++
	}
	return out
}

// PlayersByTeam groups assigned player ids per team, sorted for stable output.
func (a Assignment) PlayersByTeam() map[string][]string {
	out := make(map[string][]string)
	for playerID, teamID := range a {
		out[teamID] = append(out[teamID], playerID)
	}
	for teamID := range out {
		sort.Strings(out[teamID])
	}
	return out
}
