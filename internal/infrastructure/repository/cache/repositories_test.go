package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/team-roster/internal/domain/player"
	playermock "github.com/riskibarqy/team-roster/internal/mocks/domain/player"
	basecache "github.com/riskibarqy/team-roster/internal/platform/cache"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPlayerRepository_GetByIDsLoadsOncePerIDSet(t *testing.T) {
	next := playermock.NewRepository(t)
	next.On("GetByIDs", mock.Anything, []string{"p2", "p1"}).
		Return([]player.Player{{ID: "p1", Level: 3}, {ID: "p2", Level: 5}}, nil).
		Once()

	repo := NewPlayerRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	first, err := repo.GetByIDs(ctx, []string{"p2", "p1"})
	require.NoError(t, err)
	require.Equal(t, "p2", first[0].ID)

	second, err := repo.GetByIDs(ctx, []string{"p1", "p2"})
	require.NoError(t, err)
	require.Len(t, second, 2)
	require.Equal(t, "p1", second[0].ID)
}

func TestPlayerRepository_ListIsCached(t *testing.T) {
	next := playermock.NewRepository(t)
	next.On("List", mock.Anything).Return([]player.Player{{ID: "p1"}}, nil).Once()

	repo := NewPlayerRepository(next, basecache.NewStore(time.Minute))

	for range 3 {
		items, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 1)
	}
}
