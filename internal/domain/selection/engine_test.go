package selection

import (
	"fmt"
	"math/rand/v2"
	"testing"
)

type sequenceRand struct {
	values []float64
	next   int
}

func (r *sequenceRand) Float64() float64 {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}

func frozenRand(values ...float64) Option {
	return WithRandFactory(func() Rand {
		return &sequenceRand{values: values}
	})
}

func candidate(id string, level, selected, invited, accepted int) Candidate {
	return Candidate{
		PlayerID:      id,
		Level:         level,
		SelectedCount: selected,
		InvitedCount:  invited,
		AcceptedCount: accepted,
	}
}

func averageLevel(t *testing.T, got Assignment, players []Candidate, teamID string) float64 {
	t.Helper()

	levelByID := make(map[string]int, len(players))
	for _, p := range players {
		levelByID[p.PlayerID] = p.Level
	}

	total, count := 0, 0
	for playerID, assigned := range got {
		if assigned != teamID {
			continue
		}
		total += levelByID[playerID]
		count++
	}
	if count == 0 {
		t.Fatalf("team %s received no players", teamID)
	}
	return float64(total) / float64(count)
}

func TestSelect_SingleTeamAssignsEveryoneWhenRoomLeft(t *testing.T) {
	players := []Candidate{
		candidate("p1", 3, 0, 5, 5),
		candidate("p2", 2, 1, 5, 2),
	}
	teams := []Team{{ID: "t1", Strength: 1, MaxPlayers: 4}}

	got := NewEngine(WithSeed(1)).Select(players, teams)

	if len(got) != 2 {
		t.Fatalf("expected 2 assignments, got %d (%v)", len(got), got)
	}
	for _, p := range players {
		if got[p.PlayerID] != "t1" {
			t.Fatalf("expected %s on t1, got %q", p.PlayerID, got[p.PlayerID])
		}
	}
}

func TestSelect_SingleTeamPicksFairestPlayers(t *testing.T) {
	players := []Candidate{
		candidate("never-selected-100", 3, 0, 10, 10),
		candidate("never-selected-80", 3, 0, 10, 8),
		candidate("never-selected-70", 3, 0, 10, 7),
		candidate("once-selected-100", 3, 1, 10, 10),
		candidate("once-selected-50", 3, 1, 10, 5),
		candidate("twice-selected-100", 3, 2, 10, 10),
	}
	teams := []Team{{ID: "t1", Strength: 1, MaxPlayers: 4}}

	for seed := uint64(1); seed <= 20; seed++ {
		got := NewEngine(WithSeed(seed)).Select(players, teams)
		if len(got) != 4 {
			t.Fatalf("seed=%d: expected 4 assignments, got %d", seed, len(got))
		}
		for _, id := range []string{"never-selected-100", "never-selected-80", "never-selected-70", "once-selected-100"} {
			if _, ok := got[id]; !ok {
				t.Fatalf("seed=%d: expected %s to be selected, got %v", seed, id, got)
			}
		}
	}
}

func TestSelect_EqualStrengthSplitsEvenly(t *testing.T) {
	tests := []struct {
		name        string
		players     int
		wantTotal   int
		wantPerTeam int
	}{
		{name: "fewer players than capacity", players: 6, wantTotal: 6, wantPerTeam: 3},
		{name: "more players than capacity", players: 10, wantTotal: 8, wantPerTeam: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			players := make([]Candidate, 0, tt.players)
			for i := 0; i < tt.players; i++ {
				players = append(players, candidate(fmt.Sprintf("p%d", i), i%5+1, i%3, 6, 6-i%4))
			}
			teams := []Team{
				{ID: "home", Strength: 2, MaxPlayers: 4},
				{ID: "away", Strength: 2, MaxPlayers: 4},
			}

			got := NewEngine(WithSeed(7)).Select(players, teams)
			if len(got) != tt.wantTotal {
				t.Fatalf("expected %d assignments, got %d", tt.wantTotal, len(got))
			}
			counts := got.CountByTeam()
			if counts["home"] != tt.wantPerTeam || counts["away"] != tt.wantPerTeam {
				t.Fatalf("expected %d/%d split, got %v", tt.wantPerTeam, tt.wantPerTeam, counts)
			}
		})
	}
}

func TestSelect_StrongTeamGetsHighLevelPlayers(t *testing.T) {
	players := []Candidate{
		candidate("lvl5-a", 5, 0, 4, 3),
		candidate("lvl5-b", 5, 1, 4, 4),
		candidate("lvl4-a", 4, 0, 4, 2),
		candidate("lvl4-b", 4, 0, 4, 4),
		candidate("lvl3-a", 3, 0, 4, 4),
		candidate("lvl3-b", 3, 0, 4, 3),
		candidate("lvl2-a", 2, 0, 4, 4),
		candidate("lvl2-b", 2, 1, 4, 4),
		candidate("lvl1-a", 1, 0, 4, 4),
		candidate("lvl1-b", 1, 0, 4, 4),
	}
	teams := []Team{
		{ID: "first", Strength: 1, MaxPlayers: 4},
		{ID: "second", Strength: 2, MaxPlayers: 4},
	}

	got := NewEngine(WithSeed(3)).Select(players, teams)

	if len(got) != 8 {
		t.Fatalf("expected 8 assignments, got %d", len(got))
	}
	counts := got.CountByTeam()
	if counts["first"] != 4 || counts["second"] != 4 {
		t.Fatalf("expected 4/4 split, got %v", counts)
	}
	if got["lvl5-a"] != "first" || got["lvl5-b"] != "first" {
		t.Fatalf("expected both level 5 players on the strength 1 team, got %v", got)
	}

	firstAvg := averageLevel(t, got, players, "first")
	secondAvg := averageLevel(t, got, players, "second")
	if firstAvg <= secondAvg {
		t.Fatalf("expected strength 1 average level > strength 2 average level, got %.2f <= %.2f", firstAvg, secondAvg)
	}
}

func TestSelect_NeverSelectedOutranksPreviouslySelected(t *testing.T) {
	players := []Candidate{
		candidate("rested", 3, 0, 5, 4),
		candidate("regular", 3, 1, 5, 4),
	}
	teams := []Team{{ID: "t1", Strength: 1, MaxPlayers: 1}}

	for seed := uint64(1); seed <= 50; seed++ {
		got := NewEngine(WithSeed(seed)).Select(players, teams)
		if got["rested"] != "t1" {
			t.Fatalf("seed=%d: expected rested player to be chosen, got %v", seed, got)
		}
		if _, ok := got["regular"]; ok {
			t.Fatalf("seed=%d: regular player should not fit, got %v", seed, got)
		}
	}
}

func TestSelect_TieBreakerDecidesEqualScores(t *testing.T) {
	players := []Candidate{
		candidate("a", 3, 0, 2, 2),
		candidate("b", 3, 0, 2, 2),
	}
	teams := []Team{{ID: "t1", Strength: 1, MaxPlayers: 1}}

	got := NewEngine(frozenRand(0.1, 0.9)).Select(players, teams)
	if got["b"] != "t1" || len(got) != 1 {
		t.Fatalf("expected b to win the tie, got %v", got)
	}

	got = NewEngine(frozenRand(0.9, 0.1)).Select(players, teams)
	if got["a"] != "t1" || len(got) != 1 {
		t.Fatalf("expected a to win the tie, got %v", got)
	}
}

func TestSelect_SameSeedIsReproducible(t *testing.T) {
	players := make([]Candidate, 0, 12)
	for i := 0; i < 12; i++ {
		players = append(players, candidate(fmt.Sprintf("p%02d", i), 3, 0, 1, 1))
	}
	teams := []Team{
		{ID: "a", Strength: 1, MaxPlayers: 3},
		{ID: "b", Strength: 1, MaxPlayers: 3},
	}

	first := NewEngine(WithSeed(42)).Select(players, teams)
	second := NewEngine(WithSeed(42)).Select(players, teams)
	if fmt.Sprint(first.PlayersByTeam()) != fmt.Sprint(second.PlayersByTeam()) {
		t.Fatalf("expected identical assignments for same seed:\n%v\n%v", first, second)
	}
}

func TestSelect_DegenerateInputs(t *testing.T) {
	players := []Candidate{candidate("p1", 3, 0, 1, 1)}

	if got := Select(players, nil); len(got) != 0 {
		t.Fatalf("expected empty result without teams, got %v", got)
	}
	if got := Select(nil, []Team{{ID: "t1", Strength: 1, MaxPlayers: 2}}); len(got) != 0 {
		t.Fatalf("expected empty result without players, got %v", got)
	}
	if got := Select(players, []Team{{ID: "t1", Strength: 1, MaxPlayers: 0}}); len(got) != 0 {
		t.Fatalf("expected empty result with zero capacity, got %v", got)
	}
}

func TestSelect_ZeroCapacityTeamIsSkipped(t *testing.T) {
	players := []Candidate{
		candidate("p1", 3, 0, 1, 1),
		candidate("p2", 3, 0, 1, 1),
		candidate("p3", 3, 0, 1, 1),
	}
	teams := []Team{
		{ID: "full", Strength: 1, MaxPlayers: 0},
		{ID: "open", Strength: 1, MaxPlayers: 2},
	}

	got := NewEngine(WithSeed(9)).Select(players, teams)
	counts := got.CountByTeam()
	if counts["full"] != 0 || counts["open"] != 2 {
		t.Fatalf("expected 0/2 split, got %v", counts)
	}
}

func TestSelect_DuplicateCandidateAssignedOnce(t *testing.T) {
	players := []Candidate{
		candidate("p1", 3, 0, 1, 1),
		candidate("p1", 3, 0, 1, 1),
	}
	teams := []Team{{ID: "t1", Strength: 1, MaxPlayers: 5}}

	got := Select(players, teams)
	if len(got) != 1 {
		t.Fatalf("expected a single assignment, got %v", got)
	}
}

func TestSelect_CustomLevelBands(t *testing.T) {
	players := []Candidate{
		candidate("low-fair", 1, 0, 4, 4),
		candidate("high-tired", 5, 2, 4, 4),
	}
	teams := []Team{
		{ID: "top", Strength: 1, MaxPlayers: 1},
		{ID: "bottom", Strength: 2, MaxPlayers: 1},
	}
	bands := LevelBands{
		ByStrength: map[int][]int{1: {1}},
		Fallback:   []int{5},
	}

	got := NewEngine(WithSeed(1), WithLevelBands(bands)).Select(players, teams)
	if got["low-fair"] != "top" || got["high-tired"] != "bottom" {
		t.Fatalf("expected custom bands to route players, got %v", got)
	}

	got = NewEngine(WithSeed(1)).Select(players, teams)
	if got["high-tired"] != "top" || got["low-fair"] != "bottom" {
		t.Fatalf("expected default bands to route level 5 to top, got %v", got)
	}
}

func TestSelect_WeakTiersShareLowestBand(t *testing.T) {
	players := []Candidate{
		candidate("lvl1", 1, 1, 2, 2),
		candidate("lvl4", 4, 0, 2, 2),
	}
	teams := []Team{
		{ID: "third", Strength: 3, MaxPlayers: 1},
		{ID: "seventh", Strength: 7, MaxPlayers: 1},
	}

	got := NewEngine(WithSeed(5)).Select(players, teams)
	if got["lvl1"] != "third" || got["lvl4"] != "seventh" {
		t.Fatalf("expected level 1 player preferred by strength 3 team, got %v", got)
	}
}

func TestSelect_Invariants(t *testing.T) {
	for seed := uint64(1); seed <= 200; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed))

		players := make([]Candidate, rng.IntN(25))
		for i := range players {
			invited := rng.IntN(10) + 1
			players[i] = candidate(
				fmt.Sprintf("p%d", i),
				rng.IntN(MaxLevel)+MinLevel,
				rng.IntN(4),
				invited,
				rng.IntN(invited+1),
			)
		}

		teams := make([]Team, rng.IntN(5))
		totalCapacity := 0
		maxByTeam := make(map[string]int, len(teams))
		for i := range teams {
			teams[i] = Team{
				ID:         fmt.Sprintf("t%d", i),
				Strength:   rng.IntN(4) + 1,
				MaxPlayers: rng.IntN(6),
			}
			totalCapacity += teams[i].MaxPlayers
			maxByTeam[teams[i].ID] = teams[i].MaxPlayers
		}

		got := NewEngine(WithSeed(seed)).Select(players, teams)

		for teamID, count := range got.CountByTeam() {
			if count > maxByTeam[teamID] {
				t.Fatalf("seed=%d: team %s over capacity: %d > %d", seed, teamID, count, maxByTeam[teamID])
			}
		}
		if want := min(len(players), totalCapacity); len(got) != want {
			t.Fatalf("seed=%d: expected %d assignments, got %d", seed, want, len(got))
		}
	}
}
