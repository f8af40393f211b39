package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/riskibarqy/team-roster/internal/platform/logging"
)

func TestRun_UsageErrors(t *testing.T) {
	for _, args := range [][]string{nil, {"sideways"}} {
		if err := run(args, logging.NewNop()); !errors.Is(err, errUsage) {
			t.Fatalf("run(%v): expected usage error, got %v", args, err)
		}
	}
}

func TestRun_RequiresDBURL(t *testing.T) {
	t.Setenv("DB_URL", "")
	if err := run([]string{"up"}, logging.NewNop()); err == nil || errors.Is(err, errUsage) {
		t.Fatalf("expected DB_URL error, got %v", err)
	}
}

func TestParseSteps(t *testing.T) {
	tests := []struct {
		args    []string
		want    int
		wantErr bool
	}{
		{args: nil, want: 1},
		{args: []string{"3"}, want: 3},
		{args: []string{"0"}, wantErr: true},
		{args: []string{"x"}, wantErr: true},
	}
	for _, tc := range tests {
		got, err := parseSteps(tc.args)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseSteps(%v): expected error", tc.args)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("parseSteps(%v) = %d, %v", tc.args, got, err)
		}
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	if _, err := parseVersion("-1"); err == nil {
		t.Fatalf("expected negative version error")
	}
	if v, err := parseVersion(" 2 "); err != nil || v != 2 {
		t.Fatalf("parseVersion = %d, %v", v, err)
	}
	if _, err := parseTarget("abc"); err == nil {
		t.Fatalf("expected invalid target error")
	}
}

func TestIgnoreNoChange(t *testing.T) {
	if err := ignoreNoChange(migrate.ErrNoChange, logging.NewNop()); err != nil {
		t.Fatalf("expected ErrNoChange to be ignored, got %v", err)
	}
	boom := errors.New("boom")
	if err := ignoreNoChange(boom, logging.NewNop()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestResolveMigrationsDir_FromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MIGRATIONS_DIR", dir)

	got, err := resolveMigrationsDir()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want, _ := filepath.Abs(dir)
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if _, err := os.Stat(got); err != nil {
		t.Fatalf("stat: %v", err)
	}
}
