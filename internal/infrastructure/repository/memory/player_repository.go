package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/team-roster/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players []player.Player
	byID    map[string]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	byID := make(map[string]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	return &PlayerRepository{
		players: append([]player.Player(nil), players...),
		byID:    byID,
	}
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]player.Player(nil), r.players...), nil
}

// GetByIDs returns the known players in the order requested; unknown ids
// are skipped.
func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		p, ok := r.byID[id]
		if !ok {
			continue
		}
		out = append(out, p)
	}

	return out, nil
}
