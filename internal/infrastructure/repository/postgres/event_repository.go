package postgres

import (
	"context"
	"sort"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/team-roster/internal/domain/event"
	qb "github.com/riskibarqy/team-roster/internal/platform/querybuilder"
)

var (
	eventSelectColumns = []string{
		"id",
		"public_id",
		"name",
		"starts_at",
		"created_at",
		"updated_at",
		"deleted_at",
	}
	invitationSelectColumns = []string{
		"event_public_id",
		"player_public_id",
		"status",
	}
	eventTeamSelectColumns = []string{
		"public_id",
		"event_public_id",
		"name",
		"strength",
		"max_players",
		"player_ids",
		"position",
	}
)

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) List(ctx context.Context) ([]event.Event, error) {
	query, args, err := qb.Select(eventSelectColumns...).From("events").
		Where(qb.IsNull("deleted_at")).
		OrderBy("starts_at", "id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list events query")
	}

	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "select events")
	}

	return r.hydrate(ctx, rows)
}

func (r *EventRepository) GetByID(ctx context.Context, eventID string) (event.Event, bool, error) {
	query, args, err := qb.Select(eventSelectColumns...).From("events").
		Where(
			qb.Eq("public_id", eventID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return event.Event{}, false, crerr.Wrap(err, "build get event query")
	}

	var row eventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return event.Event{}, false, nil
		}
		return event.Event{}, false, crerr.Wrapf(err, "get event %s", eventID)
	}

	items, err := r.hydrate(ctx, []eventTableModel{row})
	if err != nil {
		return event.Event{}, false, err
	}
	return items[0], true, nil
}

// SaveTeams rewrites roster arrays of the given teams in one transaction.
func (r *EventRepository) SaveTeams(ctx context.Context, eventID string, teams []event.Team) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin save event teams tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, t := range teams {
		query, args, err := qb.Update("event_teams").
			Set("player_ids", pq.StringArray(nonNilStrings(t.PlayerIDs))).
			SetRaw("updated_at", "NOW()").
			Where(
				qb.Eq("event_public_id", eventID),
				qb.Eq("public_id", t.ID),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return crerr.Wrap(err, "build update event team query")
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return crerr.Wrapf(err, "update event team %s", t.ID)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return crerr.Wrap(err, "read updated event team rows")
		}
		if affected == 0 {
			return crerr.Wrapf(event.ErrUnknownTeam, "event=%s team=%s", eventID, t.ID)
		}
	}

	query, args, err := qb.Update("events").
		SetRaw("updated_at", "NOW()").
		Where(qb.Eq("public_id", eventID)).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build touch event query")
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "touch event %s", eventID)
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit save event teams tx")
	}
	return nil
}

func (r *EventRepository) hydrate(ctx context.Context, rows []eventTableModel) ([]event.Event, error) {
	if len(rows) == 0 {
		return []event.Event{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.PublicID)
	}

	invQuery, invArgs, err := qb.Select(invitationSelectColumns...).From("event_invitations").
		Where(qb.Any("event_public_id", pq.Array(ids))).
		OrderBy("event_public_id", "id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build select invitations query")
	}
	var invitations []invitationTableModel
	if err := r.db.SelectContext(ctx, &invitations, invQuery, invArgs...); err != nil {
		return nil, crerr.Wrap(err, "select invitations")
	}

	teamQuery, teamArgs, err := qb.Select(eventTeamSelectColumns...).From("event_teams").
		Where(
			qb.Any("event_public_id", pq.Array(ids)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("event_public_id", "position", "id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build select event teams query")
	}
	var teams []eventTeamTableModel
	if err := r.db.SelectContext(ctx, &teams, teamQuery, teamArgs...); err != nil {
		return nil, crerr.Wrap(err, "select event teams")
	}

	return assembleEvents(rows, invitations, teams), nil
}

func assembleEvents(rows []eventTableModel, invitations []invitationTableModel, teams []eventTeamTableModel) []event.Event {
	invByEvent := make(map[string][]event.Invitation, len(rows))
	for _, inv := range invitations {
		invByEvent[inv.EventID] = append(invByEvent[inv.EventID], event.Invitation{
			PlayerID: inv.PlayerID,
			Status:   event.InvitationStatus(inv.Status),
		})
	}

	sort.SliceStable(teams, func(i, j int) bool {
		if teams[i].EventID != teams[j].EventID {
			return teams[i].EventID < teams[j].EventID
		}
		return teams[i].Position < teams[j].Position
	})
	teamsByEvent := make(map[string][]event.Team, len(rows))
	for _, t := range teams {
		teamsByEvent[t.EventID] = append(teamsByEvent[t.EventID], event.Team{
			ID:         t.PublicID,
			Name:       t.Name,
			Strength:   t.Strength,
			MaxPlayers: t.MaxPlayers,
			PlayerIDs:  append([]string(nil), t.PlayerIDs...),
		})
	}

	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, event.Event{
			ID:          row.PublicID,
			Name:        row.Name,
			StartsAt:    row.StartsAt,
			Invitations: invByEvent[row.PublicID],
			Teams:       teamsByEvent[row.PublicID],
			UpdatedAt:   row.UpdatedAt,
		})
	}
	return out
}

func nonNilStrings(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
