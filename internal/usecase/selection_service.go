package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/team-roster/internal/domain/event"
	"github.com/riskibarqy/team-roster/internal/domain/player"
	"github.com/riskibarqy/team-roster/internal/domain/selection"
	idgen "github.com/riskibarqy/team-roster/internal/platform/id"
	"github.com/riskibarqy/team-roster/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const (
	SelectionModePreview = "preview"
	SelectionModeAuto    = "auto"
	SelectionModeManual  = "manual"

	batchStatusSuccess = "success"
	batchStatusFailed  = "failed"

	defaultBatchMaxWorkers = 4
)

// SelectionRecorder receives one observation per selection run.
type SelectionRecorder interface {
	ObserveSelection(mode string, candidates, assigned int, duration time.Duration, err error)
}

type noopSelectionRecorder struct{}

func (noopSelectionRecorder) ObserveSelection(string, int, int, time.Duration, error) {}

// Candidate is an accepted, not yet rostered player with the counters the
// engine ranks by.
type Candidate struct {
	Player  player.Player
	History PlayerHistory
	Score   float64
}

type SelectionResult struct {
	RunID      string
	EventID    string
	Mode       string
	Assignment selection.Assignment
	Teams      []event.Team
	Unselected []string
	Candidates int
}

type SaveSelectionInput struct {
	EventID string
	Rosters map[string][]string
}

type BatchSelectionInput struct {
	EventIDs   []string
	MaxWorkers int
}

type BatchSelectionResult struct {
	WorkerCount  int
	SuccessCount int
	FailedCount  int
	Items        []BatchSelectionItem
}

type BatchSelectionItem struct {
	EventID    string
	Status     string
	RunID      string
	Assigned   int
	DurationMs int64
	Message    string
}

type SelectionService struct {
	eventRepo         event.Repository
	playerRepo        player.Repository
	engine            *selection.Engine
	idGen             idgen.Generator
	recorder          SelectionRecorder
	logger            *logging.Logger
	defaultMaxWorkers int
	now               func() time.Time

	eventLocks sync.Map
}

func NewSelectionService(
	eventRepo event.Repository,
	playerRepo player.Repository,
	engine *selection.Engine,
	idGen idgen.Generator,
	recorder SelectionRecorder,
	logger *logging.Logger,
	defaultMaxWorkers int,
) *SelectionService {
	if engine == nil {
		engine = selection.NewEngine()
	}
	if recorder == nil {
		recorder = noopSelectionRecorder{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if defaultMaxWorkers <= 0 {
		defaultMaxWorkers = defaultBatchMaxWorkers
	}

	return &SelectionService{
		eventRepo:         eventRepo,
		playerRepo:        playerRepo,
		engine:            engine,
		idGen:             idGen,
		recorder:          recorder,
		logger:            logger,
		defaultMaxWorkers: defaultMaxWorkers,
		now:               time.Now,
	}
}

// Candidates lists the players auto-selection would draw from, best
// ranked first.
func (s *SelectionService) Candidates(ctx context.Context, eventID string) ([]Candidate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SelectionService.Candidates")
	defer span.End()

	evt, err := getEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return nil, err
	}

	items, err := s.loadCandidates(ctx, evt)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Player.ID < items[j].Player.ID
	})
	return items, nil
}

// Preview runs the engine against the event's remaining capacity without
// persisting anything.
func (s *SelectionService) Preview(ctx context.Context, eventID string) (SelectionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SelectionService.Preview")
	defer span.End()

	started := s.now()
	evt, err := getEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return SelectionResult{}, err
	}

	result, err := s.run(ctx, evt, SelectionModePreview)
	s.recorder.ObserveSelection(SelectionModePreview, result.Candidates, len(result.Assignment), s.now().Sub(started), err)
	if err != nil {
		return SelectionResult{}, err
	}

	return result, nil
}

// AutoSelect runs the engine and stores the resulting rosters.
func (s *SelectionService) AutoSelect(ctx context.Context, eventID string) (SelectionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SelectionService.AutoSelect")
	defer span.End()

	unlock := s.lockEvent(strings.TrimSpace(eventID))
	defer unlock()

	started := s.now()
	result, err := s.autoSelect(ctx, eventID)
	s.recorder.ObserveSelection(SelectionModeAuto, result.Candidates, len(result.Assignment), s.now().Sub(started), err)
	if err != nil {
		return SelectionResult{}, err
	}

	s.logger.InfoContext(ctx, "auto selection applied",
		"event_id", result.EventID,
		"run_id", result.RunID,
		"candidate_count", result.Candidates,
		"assigned_count", len(result.Assignment),
		"unselected_count", len(result.Unselected),
	)
	return result, nil
}

func (s *SelectionService) autoSelect(ctx context.Context, eventID string) (SelectionResult, error) {
	evt, err := getEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return SelectionResult{}, err
	}

	result, err := s.run(ctx, evt, SelectionModeAuto)
	if err != nil {
		return SelectionResult{}, err
	}
	if len(result.Assignment) == 0 {
		return result, nil
	}

	if err := s.eventRepo.SaveTeams(ctx, evt.ID, result.Teams); err != nil {
		return SelectionResult{}, repoError("save event teams", err)
	}
	return result, nil
}

// SaveSelection replaces every roster of the event with the given lists.
func (s *SelectionService) SaveSelection(ctx context.Context, input SaveSelectionInput) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SelectionService.SaveSelection")
	defer span.End()

	input.EventID = strings.TrimSpace(input.EventID)
	unlock := s.lockEvent(input.EventID)
	defer unlock()

	started := s.now()
	evt, err := getEvent(ctx, s.eventRepo, input.EventID)
	if err != nil {
		return event.Event{}, err
	}

	rosters := make(map[string][]string, len(input.Rosters))
	assigned := 0
	for teamID, playerIDs := range input.Rosters {
		cleaned, err := cleanPlayerIDs(playerIDs)
		if err != nil {
			return event.Event{}, err
		}
		rosters[strings.TrimSpace(teamID)] = cleaned
		assigned += len(cleaned)
	}

	teams, err := evt.ReplaceRosters(rosters)
	if err != nil {
		return event.Event{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	evt.Teams = teams
	if err := evt.ValidateRoster(); err != nil {
		return event.Event{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := s.eventRepo.SaveTeams(ctx, evt.ID, evt.Teams); err != nil {
		s.recorder.ObserveSelection(SelectionModeManual, 0, assigned, s.now().Sub(started), err)
		return event.Event{}, repoError("save event teams", err)
	}
	s.recorder.ObserveSelection(SelectionModeManual, 0, assigned, s.now().Sub(started), nil)

	s.logger.InfoContext(ctx, "selection saved",
		"event_id", evt.ID,
		"team_count", len(evt.Teams),
		"assigned_count", assigned,
	)
	return evt, nil
}

// AutoSelectBatch runs AutoSelect for several events on a bounded worker
// pool. A failing event does not stop the others.
func (s *SelectionService) AutoSelectBatch(ctx context.Context, input BatchSelectionInput) (BatchSelectionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SelectionService.AutoSelectBatch")
	defer span.End()

	eventIDs := make([]string, 0, len(input.EventIDs))
	seen := make(map[string]struct{}, len(input.EventIDs))
	for _, id := range input.EventIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		eventIDs = append(eventIDs, id)
	}
	if len(eventIDs) == 0 {
		return BatchSelectionResult{}, fmt.Errorf("%w: event ids are required", ErrInvalidInput)
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = s.defaultMaxWorkers
	}
	workerCount = min(workerCount, len(eventIDs))

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return BatchSelectionResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var successCount atomic.Int32
	var failedCount atomic.Int32
	results := make(chan BatchSelectionItem, len(eventIDs))

	var workers sync.WaitGroup
	for _, eventID := range eventIDs {
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			started := time.Now()
			row := BatchSelectionItem{EventID: eventID}
			res, err := s.AutoSelect(ctx, eventID)
			if err != nil {
				row.Status = batchStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
			} else {
				row.Status = batchStatusSuccess
				row.RunID = res.RunID
				row.Assigned = len(res.Assignment)
				successCount.Add(1)
			}
			row.DurationMs = time.Since(started).Milliseconds()
			results <- row
		}); err != nil {
			workers.Done()
			return BatchSelectionResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	out := BatchSelectionResult{WorkerCount: workerCount}
	for row := range results {
		out.Items = append(out.Items, row)
	}
	sort.SliceStable(out.Items, func(i, j int) bool {
		return out.Items[i].EventID < out.Items[j].EventID
	})
	out.SuccessCount = int(successCount.Load())
	out.FailedCount = int(failedCount.Load())

	s.logger.InfoContext(ctx, "batch auto selection finished",
		"event_count", len(eventIDs),
		"worker_count", workerCount,
		"success_count", out.SuccessCount,
		"failed_count", out.FailedCount,
	)
	return out, nil
}

func (s *SelectionService) run(ctx context.Context, evt event.Event, mode string) (SelectionResult, error) {
	candidates, err := s.loadCandidates(ctx, evt)
	if err != nil {
		return SelectionResult{}, err
	}

	engineCandidates := make([]selection.Candidate, 0, len(candidates))
	for _, c := range candidates {
		engineCandidates = append(engineCandidates, c.History.candidate(c.Player.ID, c.Player.Level))
	}

	engineTeams := make([]selection.Team, 0, len(evt.Teams))
	for _, t := range evt.Teams {
		engineTeams = append(engineTeams, selection.Team{
			ID:         t.ID,
			Strength:   t.Strength,
			MaxPlayers: t.RemainingCapacity(),
		})
	}

	assignment := s.engine.Select(engineCandidates, engineTeams)

	teams, err := evt.ApplyAssignment(assignment.PlayersByTeam())
	if err != nil {
		return SelectionResult{}, fmt.Errorf("apply assignment: %w", err)
	}

	unselected := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := assignment[c.Player.ID]; !ok {
			unselected = append(unselected, c.Player.ID)
		}
	}
	sort.Strings(unselected)

	runID, err := s.idGen.NewID()
	if err != nil {
		return SelectionResult{}, fmt.Errorf("generate selection run id: %w", err)
	}

	return SelectionResult{
		RunID:      runID,
		EventID:    evt.ID,
		Mode:       mode,
		Assignment: assignment,
		Teams:      teams,
		Unselected: unselected,
		Candidates: len(candidates),
	}, nil
}

func (s *SelectionService) loadCandidates(ctx context.Context, evt event.Event) ([]Candidate, error) {
	playerIDs := evt.UnassignedAcceptedPlayerIDs()
	if len(playerIDs) == 0 {
		return []Candidate{}, nil
	}

	var history []event.Event
	var players []player.Player

	loaders := pool.New().WithContext(ctx).WithCancelOnError()
	loaders.Go(func(ctx context.Context) error {
		items, err := s.eventRepo.List(ctx)
		if err != nil {
			return repoError("list events for history", err)
		}
		history = items
		return nil
	})
	loaders.Go(func(ctx context.Context) error {
		items, err := s.playerRepo.GetByIDs(ctx, playerIDs)
		if err != nil {
			return repoError("get players by ids", err)
		}
		players = items
		return nil
	})
	if err := loaders.Wait(); err != nil {
		return nil, err
	}

	counters := BuildPlayerHistory(history, evt)
	playerByID := make(map[string]player.Player, len(players))
	for _, p := range players {
		playerByID[p.ID] = p
	}

	out := make([]Candidate, 0, len(playerIDs))
	for _, playerID := range playerIDs {
		p, ok := playerByID[playerID]
		if !ok {
			s.logger.WarnContext(ctx, "accepted player missing from roster, skipping",
				"event_id", evt.ID,
				"player_id", playerID,
			)
			continue
		}
		h := counters[playerID]
		out = append(out, Candidate{
			Player:  p,
			History: h,
			Score:   selection.Score(h.candidate(p.ID, p.Level)),
		})
	}

	return out, nil
}

func (s *SelectionService) lockEvent(eventID string) func() {
	v, _ := s.eventLocks.LoadOrStore(eventID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func cleanPlayerIDs(playerIDs []string) ([]string, error) {
	cleaned := make([]string, 0, len(playerIDs))
	seen := make(map[string]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("%w: player id cannot be empty", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: duplicate player id %s", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
		cleaned = append(cleaned, id)
	}

	return cleaned, nil
}
