// Package cli holds the shared command context. Commands live in the
// subpackages and are wired together in cmd/consistency.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/consistency/internal/backup"
	"github.com/julianstephens/consistency/internal/dates"
	"github.com/julianstephens/consistency/internal/logger"
	"github.com/julianstephens/consistency/internal/notifier"
	"github.com/julianstephens/consistency/internal/storage"
	"github.com/julianstephens/consistency/internal/tracker"
)

type Context struct {
	Store    storage.Provider
	Notifier notifier.Sink
	Clock    dates.Clock
	Out      io.Writer
}

// Engine opens the tracker over the configured store.
func (c *Context) Engine(ctx context.Context, opts ...tracker.Option) (*tracker.Engine, error) {
	base := []tracker.Option{tracker.WithNotifier(c.Notifier)}
	if c.Clock != nil {
		base = append(base, tracker.WithClock(c.Clock))
	}
	return tracker.Open(ctx, c.Store, append(base, opts...)...)
}

// Today returns the current calendar day for this invocation.
func (c *Context) Today() dates.Date {
	if c.Clock == nil {
		return dates.Today(dates.SystemClock{})
	}
	return dates.Today(c.Clock)
}

// Stdout is where command output goes, os.Stdout unless Out is set.
func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Stdout(), args...)
}

// PerformAutomaticBackup creates a backup of file stores and only logs
// failures.
func (c *Context) PerformAutomaticBackup() {
	mgr, err := backup.NewManager(c.Store)
	if err != nil || !mgr.IsFileStore() {
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
