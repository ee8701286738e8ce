package reminders

import (
	"context"

	"github.com/julianstephens/consistency/internal/cli"
)

type ShowCmd struct{}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	engine, err := ctx.Engine(context.Background())
	if err != nil {
		return err
	}

	settings := engine.ReminderSettings()
	state := engine.Snapshot().ReminderState

	ctx.Println("Reminder Settings:")
	ctx.Printf("  Enabled:       %v\n", settings.Enabled)
	ctx.Printf("  Morning:       %s\n", settings.Times.Morning)
	ctx.Printf("  Afternoon:     %s\n", settings.Times.Afternoon)
	ctx.Printf("  Evening:       %s\n", settings.Times.Evening)
	if state.Date != "" {
		ctx.Printf("\nSent on %s: morning=%v afternoon=%v evening=%v\n",
			state.Date, state.Morning, state.Afternoon, state.Evening)
	}
	return nil
}

type SetCmd struct {
	Enabled   *bool   `help:"Enable or disable reminders."`
	Morning   *string `help:"Morning reminder time (HH:MM)."`
	Afternoon *string `help:"Afternoon reminder time (HH:MM)."`
	Evening   *string `help:"Evening reminder time (HH:MM)."`
}

func (c *SetCmd) Run(ctx *cli.Context) error {
	engine, err := ctx.Engine(context.Background())
	if err != nil {
		return err
	}

	settings := engine.ReminderSettings()
	updated := false
	if c.Enabled != nil {
		settings.Enabled = *c.Enabled
		updated = true
	}
	if c.Morning != nil {
		settings.Times.Morning = *c.Morning
		updated = true
	}
	if c.Afternoon != nil {
		settings.Times.Afternoon = *c.Afternoon
		updated = true
	}
	if c.Evening != nil {
		settings.Times.Evening = *c.Evening
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use 'consistency reminders show' to see current settings.")
		return nil
	}

	if err := engine.SetReminderSettings(context.Background(), settings); err != nil {
		return err
	}
	ctx.Println("Reminder settings updated.")
	return nil
}
