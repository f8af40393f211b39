package selection

import (
	"cmp"
	"math/rand/v2"
	"slices"
)

// Rand supplies tie-breaker values in [0, 1).
type Rand interface {
	Float64() float64
}

type Option func(*Engine)

// WithLevelBands overrides the strength to preferred-level table.
func WithLevelBands(bands LevelBands) Option {
	return func(e *Engine) {
		if !bands.IsZero() {
			e.bands = bands
		}
	}
}

// WithRandFactory sets the tie-breaker source. The factory is called once
// per Select call so concurrent calls never share a generator.
func WithRandFactory(factory func() Rand) Option {
	return func(e *Engine) {
		if factory != nil {
			e.newRand = factory
		}
	}
}

// WithSeed makes tie-breaking reproducible across calls.
func WithSeed(seed uint64) Option {
	return WithRandFactory(func() Rand {
		return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	})
}

// Engine assigns candidates to teams by fairness score and strength tier.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	bands   LevelBands
	newRand func() Rand
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		bands: DefaultLevelBands(),
		newRand: func() Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Bands() LevelBands {
	return e.bands
}

// Select is a shortcut for NewEngine().Select.
func Select(players []Candidate, teams []Team) Assignment {
	return NewEngine().Select(players, teams)
}

type rankedCandidate struct {
	candidate  Candidate
	score      float64
	tieBreaker float64
}

type tier struct {
	strength int
	capacity int
	teams    []Team
}

// Select fills tiers strongest first. Within a tier the best ranked
// candidates are taken up to the tier capacity and dealt round-robin over
// the tier's teams. Level bands only apply when teams differ in strength.
func (e *Engine) Select(players []Candidate, teams []Team) Assignment {
	result := make(Assignment)
	if len(players) == 0 || len(teams) == 0 {
		return result
	}

	rng := e.newRand()
	pool := make([]rankedCandidate, 0, len(players))
	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		if _, dup := seen[p.PlayerID]; dup {
			continue
		}
		seen[p.PlayerID] = struct{}{}
		pool = append(pool, rankedCandidate{
			candidate:  p,
			score:      Score(p),
			tieBreaker: rng.Float64(),
		})
	}

	tiers := groupTiers(teams)
	useBands := len(tiers) > 1
	remaining := 0
	for _, t := range tiers {
		remaining += t.capacity
	}

	for _, t := range tiers {
		if remaining <= 0 || len(pool) == 0 {
			break
		}

		ordered := e.rankForTier(pool, t.strength, useBands)
		take := min(t.capacity, remaining, len(ordered))
		if take <= 0 {
			continue
		}

		picked := ordered[:take]
		pool = ordered[take:]
		remaining -= take

		distribute(picked, t.teams, result)
	}

	return result
}

func (e *Engine) rankForTier(pool []rankedCandidate, strength int, useBands bool) []rankedCandidate {
	if !useBands {
		out := slices.Clone(pool)
		slices.SortStableFunc(out, compareRanked)
		return out
	}

	preferred := make([]rankedCandidate, 0, len(pool))
	other := make([]rankedCandidate, 0, len(pool))
	for _, item := range pool {
		if e.bands.Preferred(strength, item.candidate.Level) {
			preferred = append(preferred, item)
			continue
		}
		other = append(other, item)
	}
	slices.SortStableFunc(preferred, compareRanked)
	slices.SortStableFunc(other, compareRanked)

	return append(preferred, other...)
}

// compareRanked orders by score then tie-breaker, both descending.
func compareRanked(a, b rankedCandidate) int {
	if c := cmp.Compare(b.score, a.score); c != 0 {
		return c
	}
	return cmp.Compare(b.tieBreaker, a.tieBreaker)
}

func groupTiers(teams []Team) []tier {
	index := make(map[int]int)
	tiers := make([]tier, 0, len(teams))
	for _, t := range teams {
		pos, ok := index[t.Strength]
		if !ok {
			pos = len(tiers)
			index[t.Strength] = pos
			tiers = append(tiers, tier{strength: t.Strength})
		}
		tiers[pos].teams = append(tiers[pos].teams, t)
		tiers[pos].capacity += max(t.MaxPlayers, 0)
	}

	slices.SortStableFunc(tiers, func(a, b tier) int {
		return cmp.Compare(a.strength, b.strength)
	})
	return tiers
}

func distribute(picked []rankedCandidate, teams []Team, out Assignment) {
	counts := make([]int, len(teams))
	next := 0
	for _, item := range picked {
		slot := -1
		for i := range teams {
			idx := (next + i) % len(teams)
			if counts[idx] < teams[idx].MaxPlayers {
				slot = idx
				break
			}
		}
		if slot < 0 {
			return
		}

		counts[slot]++
		out[item.candidate.PlayerID] = teams[slot].ID
		next = (slot + 1) % len(teams)
	}
}
