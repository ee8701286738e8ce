package activities

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/consistency/internal/cli"
	"github.com/julianstephens/consistency/internal/dates"
	apperrors "github.com/julianstephens/consistency/internal/errors"
	"github.com/julianstephens/consistency/internal/models"
	"github.com/julianstephens/consistency/internal/tracker"
)

type AddCmd struct {
	Name  string `arg:"" optional:"" help:"Activity name. Prompts when omitted."`
	Icon  string `help:"Emoji shown next to the activity."`
	Color string `help:"Display color, e.g. #6366f1."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	name := c.Name
	if strings.TrimSpace(name) == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Activity name").
					Value(&name).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("activity name cannot be empty")
						}
						return nil
					}),
				huh.NewInput().
					Title("Icon").
					Placeholder("🎯").
					Value(&c.Icon),
			),
		).WithTheme(huh.ThemeDracula())
		if err := form.Run(); err != nil {
			return err
		}
	}

	engine, err := ctx.Engine(context.Background())
	if err != nil {
		return err
	}
	if err := engine.AddActivity(context.Background(), name, models.Metadata{Icon: c.Icon, Color: c.Color}); err != nil {
		return err
	}

	ctx.Printf("Added activity: %s\n", strings.TrimSpace(name))
	return nil
}

type DeleteCmd struct {
	Name string `arg:"" help:"Activity name."`
	Yes  bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	engine, err := ctx.Engine(context.Background())
	if err != nil {
		return err
	}
	if _, err := engine.Status(c.Name); err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q and its check-in history?", c.Name)).
			Description("Earned badges are kept.").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	if err := engine.DeleteActivity(context.Background(), c.Name); err != nil {
		return err
	}
	ctx.Printf("Deleted activity: %s\n", c.Name)
	return nil
}

type CheckInCmd struct {
	Name string `arg:"" help:"Activity name."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *CheckInCmd) Run(ctx *cli.Context) error {
	engine, err := ctx.Engine(context.Background())
	if err != nil {
		return err
	}

	var res tracker.CheckInResult
	if c.Date == "" {
		res, err = engine.CheckIn(context.Background(), c.Name)
	} else {
		day, parseErr := dates.Parse(c.Date)
		if parseErr != nil {
			return fmt.Errorf("%w: %s (expected YYYY-MM-DD)", apperrors.ErrMalformedDate, c.Date)
		}
		res, err = engine.RecordCheckIn(context.Background(), c.Name, day)
	}
	if err != nil {
		return err
	}

	if res.AlreadyCheckedIn {
		ctx.Printf("%s is already checked in for %s\n", res.Activity, res.Date)
		return nil
	}

	ctx.Printf("✅ Checked in %s for %s\n", res.Activity, res.Date)
	ctx.Printf("   🔥 %d day streak (best %d)\n", res.Current, res.Longest)
	for _, award := range res.NewBadges {
		ctx.Printf("   %s New badge: %s (%s)\n", award.Milestone.Icon, award.Milestone.Name, award.Milestone.Description)
	}
	return nil
}
