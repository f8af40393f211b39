// Command selectctl runs the fair selection engine on a JSON file of
// candidates and teams and prints the resulting assignment.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/team-roster/internal/config"
	"github.com/riskibarqy/team-roster/internal/domain/selection"
)

type cli struct {
	Input  string `short:"i" default:"-" help:"JSON file with players and teams, - reads stdin."`
	Seed   uint64 `help:"Seed for reproducible tie-breaking. Zero draws a fresh seed."`
	Bands  string `help:"Strength to level table, e.g. 1:4|5,2:2|3|4,default:1|2."`
	Pretty bool   `help:"Indent the JSON output."`

	stdin  io.Reader
	stdout io.Writer
}

type selectionInput struct {
	Players []candidateInput `json:"players" validate:"dive"`
	Teams   []teamInput      `json:"teams" validate:"dive"`
}

type candidateInput struct {
	ID            string `json:"id" validate:"required"`
	Level         int    `json:"level" validate:"min=1,max=5"`
	SelectedCount int    `json:"selectedCount" validate:"min=0"`
	InvitedCount  int    `json:"invitedCount" validate:"min=0"`
	AcceptedCount int    `json:"acceptedCount" validate:"min=0,ltefield=InvitedCount"`
}

type teamInput struct {
	ID         string `json:"id" validate:"required"`
	Strength   int    `json:"strength" validate:"min=1"`
	MaxPlayers int    `json:"maxPlayers" validate:"min=0"`
}

type selectionOutput struct {
	Assignment map[string]string   `json:"assignment"`
	Teams      map[string][]string `json:"teams"`
	Unselected []string            `json:"unselected"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := &cli{stdin: os.Stdin, stdout: os.Stdout}
	parser, err := kong.New(cmd,
		kong.Name("selectctl"),
		kong.Description("Assign invited players to teams by fairness score and strength tier."),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	parser.FatalIfErrorf(kctx.Run())
}

func (c *cli) Run(ctx context.Context) error {
	bands, err := config.ParseLevelBands(c.Bands)
	if err != nil {
		return fmt.Errorf("parse bands: %w", err)
	}

	in, err := c.readInput()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	opts := []selection.Option{selection.WithLevelBands(bands)}
	if c.Seed != 0 {
		opts = append(opts, selection.WithSeed(c.Seed))
	}
	engine := selection.NewEngine(opts...)

	assignment := engine.Select(in.candidates(), in.teams())
	return c.writeOutput(newSelectionOutput(in, assignment))
}

func (c *cli) readInput() (selectionInput, error) {
	var r io.Reader = c.stdin
	if c.Input != "" && c.Input != "-" {
		f, err := os.Open(c.Input)
		if err != nil {
			return selectionInput{}, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var in selectionInput
	decoder := sonic.ConfigStd.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&in); err != nil {
		return selectionInput{}, fmt.Errorf("decode input: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(in); err != nil {
		return selectionInput{}, fmt.Errorf("validate input: %w", err)
	}
	return in, nil
}

func (c *cli) writeOutput(out selectionOutput) error {
	var (
		payload []byte
		err     error
	)
	if c.Pretty {
		payload, err = sonic.ConfigStd.MarshalIndent(out, "", "  ")
	} else {
		payload, err = sonic.ConfigStd.Marshal(out)
	}
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	payload = append(payload, '\n')
	_, err = c.stdout.Write(payload)
	return err
}

func (in selectionInput) candidates() []selection.Candidate {
	out := make([]selection.Candidate, 0, len(in.Players))
	for _, p := range in.Players {
		out = append(out, selection.Candidate{
			PlayerID:      strings.TrimSpace(p.ID),
			Level:         p.Level,
			SelectedCount: p.SelectedCount,
			InvitedCount:  p.InvitedCount,
			AcceptedCount: p.AcceptedCount,
		})
	}
	return out
}

func (in selectionInput) teams() []selection.Team {
	out := make([]selection.Team, 0, len(in.Teams))
	for _, t := range in.Teams {
		out = append(out, selection.Team{
			ID:         strings.TrimSpace(t.ID),
			Strength:   t.Strength,
			MaxPlayers: t.MaxPlayers,
		})
	}
	return out
}

func newSelectionOutput(in selectionInput, assignment selection.Assignment) selectionOutput {
	teams := assignment.PlayersByTeam()
	for _, t := range in.Teams {
		id := strings.TrimSpace(t.ID)
		if _, ok := teams[id]; !ok {
			teams[id] = []string{}
		}
	}

	unselected := make([]string, 0)
	for _, p := range in.Players {
		id := strings.TrimSpace(p.ID)
		if _, ok := assignment[id]; !ok {
			unselected = append(unselected, id)
		}
	}
	sort.Strings(unselected)

	return selectionOutput{
		Assignment: map[string]string(assignment),
		Teams:      teams,
		Unselected: unselected,
	}
}
