package cache

import (
	"context"
	"sort"
	"strings"

	"github.com/riskibarqy/team-roster/internal/domain/player"
	basecache "github.com/riskibarqy/team-roster/internal/platform/cache"
)

const playerKeyPrefix = "player:"

// PlayerRepository is a read-through cache in front of a player.Repository.
// Player rows change rarely compared to how often selection reads them.
type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, playerKeyPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

// GetByIDs caches by the sorted id set and returns players in request order.
func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	v, err := r.cache.GetOrLoad(ctx, playerIDsKey(playerIDs), func(ctx context.Context) (any, error) {
		items, err := r.next.GetByIDs(ctx, playerIDs)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	byID := make(map[string]player.Player, len(items))
	for _, p := range items {
		byID[p.ID] = p
	}
	out := make([]player.Player, 0, len(items))
	for _, id := range playerIDs {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func playerIDsKey(playerIDs []string) string {
	ids := append([]string(nil), playerIDs...)
	sort.Strings(ids)
	return playerKeyPrefix + "ids:" + strings.Join(ids, ",")
}
