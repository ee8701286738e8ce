package activities

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/consistency/internal/cli"
	"github.com/julianstephens/consistency/internal/dates"
	apperrors "github.com/julianstephens/consistency/internal/errors"
	"github.com/julianstephens/consistency/internal/storage"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "data.json"))
	ctx := &cli.Context{
		Store: store,
		Clock: dates.NewFixedClock(time.Date(2024, 1, 15, 12, 0, 0, 0, time.Local)),
		Out:   out,
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return ctx, out
}

func mustRun(t *testing.T, ctx *cli.Context, cmd interface{ Run(*cli.Context) error }) {
	t.Helper()
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("%T failed: %v", cmd, err)
	}
}

func TestAddCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	mustRun(t, ctx, &AddCmd{Name: "  Coding ", Icon: "💻"})
	if !strings.Contains(out.String(), "Added activity: Coding") {
		t.Errorf("unexpected output: %q", out.String())
	}

	doc, err := ctx.Store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Activities["Coding"].Icon != "💻" {
		t.Errorf("icon not saved: %+v", doc.Activities["Coding"])
	}

	err = (&AddCmd{Name: "Coding"}).Run(ctx)
	if !errors.Is(err, apperrors.ErrDuplicateActivity) {
		t.Errorf("duplicate add error = %v, want ErrDuplicateActivity", err)
	}
}

func TestCheckInCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	mustRun(t, ctx, &AddCmd{Name: "Coding"})

	mustRun(t, ctx, &CheckInCmd{Name: "Coding", Date: "2024-01-14"})
	out.Reset()
	mustRun(t, ctx, &CheckInCmd{Name: "Coding"})

	got := out.String()
	if !strings.Contains(got, "Checked in Coding for 2024-01-15") {
		t.Errorf("missing confirmation: %q", got)
	}
	if !strings.Contains(got, "2 day streak (best 2)") {
		t.Errorf("missing streak: %q", got)
	}

	out.Reset()
	mustRun(t, ctx, &CheckInCmd{Name: "Coding"})
	if !strings.Contains(out.String(), "already checked in") {
		t.Errorf("second check-in output: %q", out.String())
	}
}

func TestCheckInCmdErrors(t *testing.T) {
	ctx, _ := setupTestContext(t)
	mustRun(t, ctx, &AddCmd{Name: "Coding"})

	tests := []struct {
		name string
		cmd  *CheckInCmd
		want error
	}{
		{"unknown activity", &CheckInCmd{Name: "Reading"}, apperrors.ErrActivityNotFound},
		{"bad date", &CheckInCmd{Name: "Coding", Date: "01/15/2024"}, apperrors.ErrMalformedDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDeleteCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	mustRun(t, ctx, &AddCmd{Name: "Coding"})
	mustRun(t, ctx, &CheckInCmd{Name: "Coding"})

	mustRun(t, ctx, &DeleteCmd{Name: "Coding", Yes: true})
	if !strings.Contains(out.String(), "Deleted activity: Coding") {
		t.Errorf("unexpected output: %q", out.String())
	}

	err := (&DeleteCmd{Name: "Coding", Yes: true}).Run(ctx)
	if !errors.Is(err, apperrors.ErrActivityNotFound) {
		t.Errorf("second delete error = %v, want ErrActivityNotFound", err)
	}

	// Badges outlive the activity
	out.Reset()
	mustRun(t, ctx, &BadgesCmd{})
	if !strings.Contains(out.String(), "Coding (deleted)") {
		t.Errorf("badges output should list retired badge: %q", out.String())
	}
}

func TestStatusCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	mustRun(t, ctx, &StatusCmd{})
	if !strings.Contains(out.String(), "No activities yet") {
		t.Errorf("empty status output: %q", out.String())
	}

	mustRun(t, ctx, &AddCmd{Name: "Coding"})
	mustRun(t, ctx, &AddCmd{Name: "Reading"})
	mustRun(t, ctx, &CheckInCmd{Name: "Coding"})

	out.Reset()
	mustRun(t, ctx, &StatusCmd{})
	got := out.String()
	for _, want := range []string{"Coding", "Reading", "done today", "Checked in today: 1/2"} {
		if !strings.Contains(got, want) {
			t.Errorf("status output missing %q:\n%s", want, got)
		}
	}

	if err := (&StatusCmd{Name: "Nope"}).Run(ctx); !errors.Is(err, apperrors.ErrActivityNotFound) {
		t.Errorf("status of unknown activity error = %v", err)
	}
}

func TestLogCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	mustRun(t, ctx, &AddCmd{Name: "Coding"})
	mustRun(t, ctx, &CheckInCmd{Name: "Coding", Date: "2024-01-13"})
	mustRun(t, ctx, &CheckInCmd{Name: "Coding"})

	out.Reset()
	mustRun(t, ctx, &LogCmd{Days: 3})
	got := out.String()
	for _, want := range []string{"last 3 days", "01/13", "01/14", "01/15"} {
		if !strings.Contains(got, want) {
			t.Errorf("log output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "01/12") {
		t.Errorf("log shows more than 3 days:\n%s", got)
	}

	if err := (&LogCmd{Days: 0}).Run(ctx); err == nil {
		t.Error("expected error for --days 0")
	}
	if err := (&LogCmd{Days: 7, Activity: "Nope"}).Run(ctx); !errors.Is(err, apperrors.ErrActivityNotFound) {
		t.Errorf("log for unknown activity error = %v", err)
	}
}

func TestBadgesCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	mustRun(t, ctx, &BadgesCmd{})
	if !strings.Contains(out.String(), "No badges earned yet") {
		t.Errorf("empty badges output: %q", out.String())
	}

	mustRun(t, ctx, &AddCmd{Name: "Coding"})
	mustRun(t, ctx, &CheckInCmd{Name: "Coding"})

	out.Reset()
	mustRun(t, ctx, &BadgesCmd{Activity: "Coding"})
	got := out.String()
	if !strings.Contains(got, "First Step") || !strings.Contains(got, "2024-01-15") {
		t.Errorf("badges output: %q", got)
	}

	out.Reset()
	mustRun(t, ctx, &BadgesCmd{Activity: "Reading"})
	if !strings.Contains(out.String(), "No badges earned yet") {
		t.Errorf("filtered badges output: %q", out.String())
	}
}
