package postgres

import (
	"time"

	"github.com/lib/pq"
)

type playerTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	Level     int        `db:"level"`
	IsActive  bool       `db:"is_active"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type eventTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	StartsAt  time.Time  `db:"starts_at"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type invitationTableModel struct {
	EventID  string `db:"event_public_id"`
	PlayerID string `db:"player_public_id"`
	Status   string `db:"status"`
}

type eventTeamTableModel struct {
	PublicID   string         `db:"public_id"`
	EventID    string         `db:"event_public_id"`
	Name       string         `db:"name"`
	Strength   int            `db:"strength"`
	MaxPlayers int            `db:"max_players"`
	PlayerIDs  pq.StringArray `db:"player_ids"`
	Position   int            `db:"position"`
}
