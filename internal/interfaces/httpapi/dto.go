package httpapi

import (
	"sort"
	"time"

	"github.com/riskibarqy/team-roster/internal/domain/event"
	"github.com/riskibarqy/team-roster/internal/domain/player"
	"github.com/riskibarqy/team-roster/internal/domain/selection"
	"github.com/riskibarqy/team-roster/internal/usecase"
)

type playerDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Level  int    `json:"level"`
	Active bool   `json:"active"`
}

type eventSummaryDTO struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	StartsAt        time.Time `json:"starts_at"`
	TeamCount       int       `json:"team_count"`
	InvitationCount int       `json:"invitation_count"`
	AcceptedCount   int       `json:"accepted_count"`
	AssignedCount   int       `json:"assigned_count"`
}

type eventDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	StartsAt    time.Time       `json:"starts_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
	Invitations []invitationDTO `json:"invitations"`
	Teams       []teamDTO       `json:"teams"`
}

type invitationDTO struct {
	PlayerID string `json:"player_id"`
	Status   string `json:"status"`
}

type teamDTO struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Strength          int      `json:"strength"`
	MaxPlayers        int      `json:"max_players"`
	RemainingCapacity int      `json:"remaining_capacity"`
	PlayerIDs         []string `json:"player_ids"`
}

type candidateDTO struct {
	PlayerID       string  `json:"player_id"`
	Name           string  `json:"name"`
	Level          int     `json:"level"`
	SelectedCount  int     `json:"selected_count"`
	InvitedCount   int     `json:"invited_count"`
	AcceptedCount  int     `json:"accepted_count"`
	AcceptanceRate float64 `json:"acceptance_rate"`
	Score          float64 `json:"score"`
}

type assignmentDTO struct {
	PlayerID string `json:"player_id"`
	TeamID   string `json:"team_id"`
}

type selectionResultDTO struct {
	RunID               string          `json:"run_id"`
	EventID             string          `json:"event_id"`
	Mode                string          `json:"mode"`
	CandidateCount      int             `json:"candidate_count"`
	AssignedCount       int             `json:"assigned_count"`
	Assignments         []assignmentDTO `json:"assignments"`
	UnselectedPlayerIDs []string        `json:"unselected_player_ids"`
	Teams               []teamDTO       `json:"teams"`
}

type batchSelectionDTO struct {
	WorkerCount  int                     `json:"worker_count"`
	SuccessCount int                     `json:"success_count"`
	FailedCount  int                     `json:"failed_count"`
	Items        []batchSelectionItemDTO `json:"items"`
}

type batchSelectionItemDTO struct {
	EventID       string `json:"event_id"`
	Status        string `json:"status"`
	RunID         string `json:"run_id,omitempty"`
	AssignedCount int    `json:"assigned_count"`
	DurationMs    int64  `json:"duration_ms"`
	Message       string `json:"message,omitempty"`
}

type teamRosterRequest struct {
	TeamID    string   `json:"team_id" validate:"required"`
	PlayerIDs []string `json:"player_ids" validate:"dive,required"`
}

type saveSelectionRequest struct {
	Teams []teamRosterRequest `json:"teams" validate:"required,dive"`
}

type batchSelectionRequest struct {
	EventIDs   []string `json:"event_ids" validate:"required,min=1,max=100,dive,required"`
	MaxWorkers int      `json:"max_workers" validate:"omitempty,min=1,max=32"`
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:     p.ID,
		Name:   p.Name,
		Level:  p.Level,
		Active: p.Active,
	}
}

func eventToSummaryDTO(e event.Event) eventSummaryDTO {
	return eventSummaryDTO{
		ID:              e.ID,
		Name:            e.Name,
		StartsAt:        e.StartsAt,
		TeamCount:       len(e.Teams),
		InvitationCount: len(e.Invitations),
		AcceptedCount:   len(e.AcceptedPlayerIDs()),
		AssignedCount:   len(e.AssignedPlayerIDs()),
	}
}

func eventToDTO(e event.Event) eventDTO {
	out := eventDTO{
		ID:          e.ID,
		Name:        e.Name,
		StartsAt:    e.StartsAt,
		Invitations: make([]invitationDTO, 0, len(e.Invitations)),
		Teams:       teamsToDTO(e.Teams),
	}
	if !e.UpdatedAt.IsZero() {
		updatedAt := e.UpdatedAt
		out.UpdatedAt = &updatedAt
	}
	for _, inv := range e.Invitations {
		out.Invitations = append(out.Invitations, invitationDTO{
			PlayerID: inv.PlayerID,
			Status:   string(inv.Status),
		})
	}
	return out
}

func teamsToDTO(teams []event.Team) []teamDTO {
	out := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		playerIDs := t.PlayerIDs
		if playerIDs == nil {
			playerIDs = []string{}
		}
		out = append(out, teamDTO{
			ID:                t.ID,
			Name:              t.Name,
			Strength:          t.Strength,
			MaxPlayers:        t.MaxPlayers,
			RemainingCapacity: t.RemainingCapacity(),
			PlayerIDs:         playerIDs,
		})
	}
	return out
}

func candidateToDTO(c usecase.Candidate) candidateDTO {
	return candidateDTO{
		PlayerID:      c.Player.ID,
		Name:          c.Player.Name,
		Level:         c.Player.Level,
		SelectedCount: c.History.SelectedCount,
		InvitedCount:  c.History.InvitedCount,
		AcceptedCount: c.History.AcceptedCount,
		AcceptanceRate: selection.AcceptanceRate(selection.Candidate{
			InvitedCount:  c.History.InvitedCount,
			AcceptedCount: c.History.AcceptedCount,
		}),
		Score: c.Score,
	}
}

func selectionResultToDTO(res usecase.SelectionResult) selectionResultDTO {
	assignments := make([]assignmentDTO, 0, len(res.Assignment))
	for playerID, teamID := range res.Assignment {
		assignments = append(assignments, assignmentDTO{PlayerID: playerID, TeamID: teamID})
	}
	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].TeamID != assignments[j].TeamID {
			return assignments[i].TeamID < assignments[j].TeamID
		}
		return assignments[i].PlayerID < assignments[j].PlayerID
	})

	unselected := res.Unselected
	if unselected == nil {
		unselected = []string{}
	}

	return selectionResultDTO{
		RunID:               res.RunID,
		EventID:             res.EventID,
		Mode:                res.Mode,
		CandidateCount:      res.Candidates,
		AssignedCount:       len(res.Assignment),
		Assignments:         assignments,
		UnselectedPlayerIDs: unselected,
		Teams:               teamsToDTO(res.Teams),
	}
}

func batchSelectionToDTO(res usecase.BatchSelectionResult) batchSelectionDTO {
	items := make([]batchSelectionItemDTO, 0, len(res.Items))
	for _, item := range res.Items {
		items = append(items, batchSelectionItemDTO{
			EventID:       item.EventID,
			Status:        item.Status,
			RunID:         item.RunID,
			AssignedCount: item.Assigned,
			DurationMs:    item.DurationMs,
			Message:       item.Message,
		})
	}

	return batchSelectionDTO{
		WorkerCount:  res.WorkerCount,
		SuccessCount: res.SuccessCount,
		FailedCount:  res.FailedCount,
		Items:        items,
	}
}
