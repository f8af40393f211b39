package player

import "fmt"

const (
	MinLevel = 1
	MaxLevel = 5
)

// Player is a club member that can be invited to events.
type Player struct {
	ID     string
	Name   string
	Level  int
	Active bool
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Level < MinLevel || p.Level > MaxLevel {
		return fmt.Errorf("player level must be between %d and %d: %d", MinLevel, MaxLevel, p.Level)
	}

	return nil
}
