package reminders

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/consistency/internal/cli"
	"github.com/julianstephens/consistency/internal/logger"
	"github.com/julianstephens/consistency/internal/notifier"
	"github.com/julianstephens/consistency/internal/reminder"
	"github.com/julianstephens/consistency/internal/tracker"
)

// RemindCmd runs the reminder scheduler until interrupted.
type RemindCmd struct {
	Interval time.Duration `help:"How often to check for due reminders." default:"1m"`
	Console  bool          `help:"Also print reminders to stdout."`
	Once     bool          `help:"Check once and exit."`
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	if c.Interval <= 0 {
		return errors.New("--interval must be positive")
	}

	sinks := notifier.Multi{}
	if ctx.Notifier != nil {
		sinks = append(sinks, ctx.Notifier)
	}
	if c.Console {
		sinks = append(sinks, notifier.NewConsole(ctx.Stdout()))
	}

	engine, err := ctx.Engine(context.Background(), tracker.WithNotifier(sinks))
	if err != nil {
		return err
	}

	if c.Once {
		now := time.Now()
		if ctx.Clock != nil {
			now = ctx.Clock.Now()
		}
		event, err := engine.PollReminders(context.Background(), now)
		if err != nil {
			return err
		}
		if event == nil {
			ctx.Println("No reminder due.")
			return nil
		}
		ctx.Printf("Sent %s reminder: %s\n", event.Slot, event.Title)
		return nil
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []reminder.Option{reminder.WithInterval(c.Interval)}
	if ctx.Clock != nil {
		opts = append(opts, reminder.WithClock(ctx.Clock))
	}
	sched := reminder.NewScheduler(engine, opts...)
	ctx.Printf("Watching reminders every %s. Press Ctrl+C to stop.\n", c.Interval)
	if err := sched.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("Reminder daemon stopped")
	return nil
}
