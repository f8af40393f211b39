package usecase

import (
	"context"
	"sort"

	"github.com/riskibarqy/team-roster/internal/domain/player"
)

type PlayerService struct {
	playerRepo player.Repository
}

func NewPlayerService(playerRepo player.Repository) *PlayerService {
	return &PlayerService{playerRepo: playerRepo}
}

func (s *PlayerService) ListPlayers(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListPlayers")
	defer span.End()

	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, repoError("list players", err)
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Name < players[j].Name
	})
	return players, nil
}
