package activities

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/consistency/internal/cli"
	"github.com/julianstephens/consistency/internal/dates"
	apperrors "github.com/julianstephens/consistency/internal/errors"
	"github.com/julianstephens/consistency/internal/streak"
	"github.com/julianstephens/consistency/internal/tracker"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func statusLabel(s streak.Status) string {
	switch s {
	case streak.CheckedInToday:
		return "✓ done today"
	case streak.AtRisk:
		return "⚠ at risk"
	case streak.Broken:
		return "broken"
	default:
		return "not started"
	}
}

func week(days []bool) string {
	var b strings.Builder
	for _, done := range days {
		if done {
			b.WriteString("■")
		} else {
			b.WriteString("□")
		}
	}
	return b.String()
}

type StatusCmd struct {
	Name string `arg:"" optional:"" help:"Show a single activity."`
}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	engine, err := ctx.Engine(context.Background())
	if err != nil {
		return err
	}

	var list []tracker.ActivityStatus
	if c.Name != "" {
		st, err := engine.Status(c.Name)
		if err != nil {
			return err
		}
		list = []tracker.ActivityStatus{st}
	} else {
		list = engine.Activities()
	}

	if len(list) == 0 {
		ctx.Println("No activities yet. Add one with 'consistency add'.")
		return nil
	}

	t := newTable("Activity", "Streak", "Best", "Last 7 days", "Total", "Status")
	done := 0
	for _, a := range list {
		if a.Status == streak.CheckedInToday {
			done++
		}
		t.Row(
			strings.TrimSpace(a.Icon+" "+a.Name),
			fmt.Sprintf("🔥 %d", a.Current),
			fmt.Sprint(a.Longest),
			week(a.Week),
			fmt.Sprint(a.Total),
			statusLabel(a.Status),
		)
	}
	ctx.Println(t.Render())
	ctx.Printf("Checked in today: %d/%d\n", done, len(list))
	return nil
}

type LogCmd struct {
	Days     int    `help:"Number of days to show." default:"7"`
	Activity string `help:"Show log for a specific activity only."`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	if c.Days <= 0 {
		return fmt.Errorf("--days must be positive")
	}

	engine, err := ctx.Engine(context.Background())
	if err != nil {
		return err
	}
	doc := engine.Snapshot()

	names := doc.Names()
	if c.Activity != "" {
		if _, ok := doc.Activities[c.Activity]; !ok {
			return fmt.Errorf("%w: %s", apperrors.ErrActivityNotFound, c.Activity)
		}
		names = []string{c.Activity}
	}
	if len(names) == 0 {
		ctx.Println("No activities yet.")
		return nil
	}

	today := ctx.Today()
	headers := []string{"Activity"}
	for day := range dates.LastNDays(c.Days, today, dates.OldestFirst) {
		headers = append(headers, day.Format("01/02"))
	}

	t := newTable(headers...)
	for _, name := range names {
		activity := doc.Activities[name]
		row := []string{name}
		for day := range dates.LastNDays(c.Days, today, dates.OldestFirst) {
			if activity.HasDate(day.String()) {
				row = append(row, "x")
			} else {
				row = append(row, ".")
			}
		}
		t.Row(row...)
	}

	ctx.Printf("Check-in log (last %d days):\n", c.Days)
	ctx.Println(t.Render())
	return nil
}

type BadgesCmd struct {
	Activity string `help:"Only show badges for this activity."`
}

func (c *BadgesCmd) Run(ctx *cli.Context) error {
	engine, err := ctx.Engine(context.Background())
	if err != nil {
		return err
	}

	var earned []tracker.EarnedBadge
	for _, b := range engine.Badges() {
		if c.Activity == "" || b.Activity == c.Activity {
			earned = append(earned, b)
		}
	}
	if len(earned) == 0 {
		ctx.Println("No badges earned yet.")
		return nil
	}

	t := newTable("Badge", "Activity", "Awarded", "Requirement")
	for _, b := range earned {
		activity := b.Activity
		if b.Retired {
			activity += " (deleted)"
		}
		awarded := b.AwardedOn
		if awarded == "" {
			awarded = "-"
		}
		t.Row(b.Milestone.Icon+" "+b.Milestone.Name, activity, awarded, b.Milestone.Description)
	}
	ctx.Println(t.Render())
	ctx.Printf("%d badge(s) earned\n", len(earned))
	return nil
}
