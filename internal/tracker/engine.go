// Package tracker owns the habit document: it serializes every read and
// write, applies streak and badge results, persists after each mutation and
// hands notifications to the configured sink.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/consistency/internal/constants"
	"github.com/julianstephens/consistency/internal/dates"
	apperrors "github.com/julianstephens/consistency/internal/errors"
	"github.com/julianstephens/consistency/internal/logger"
	"github.com/julianstephens/consistency/internal/models"
	"github.com/julianstephens/consistency/internal/notifier"
	"github.com/julianstephens/consistency/internal/storage"
)

// errNoChange aborts a mutation without saving.
var errNoChange = errors.New("no change")

// Engine is safe for concurrent use.
type Engine struct {
	mu     sync.Mutex
	store  storage.Provider
	clock  dates.Clock
	notify *notifier.BestEffort
	doc    *models.Document
}

type Option func(*Engine)

func WithClock(c dates.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

func WithNotifier(s notifier.Sink) Option {
	return func(e *Engine) { e.notify = notifier.NewBestEffort(s) }
}

// Open loads the document from store.
func Open(ctx context.Context, store storage.Provider, opts ...Option) (*Engine, error) {
	e := &Engine{
		store:  store,
		clock:  dates.SystemClock{},
		notify: notifier.NewBestEffort(nil),
	}
	for _, opt := range opts {
		opt(e)
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	e.doc = doc
	logger.Debug("Document loaded", "store", store.Kind(), "activities", len(doc.Activities))
	return e, nil
}

// Store returns the underlying provider.
func (e *Engine) Store() storage.Provider {
	return e.store
}

// Reload replaces the in-memory document with the stored one.
func (e *Engine) Reload(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reload(ctx)
}

func (e *Engine) reload(ctx context.Context) error {
	doc, err := e.store.Load(ctx)
	if err != nil {
		return err
	}
	e.doc = doc
	return nil
}

// mutate reloads the stored document, runs fn against it and saves it. Other
// processes may write the same store, so fn never sees a stale copy. If fn
// fails or the save fails, the document is restored to the loaded state.
func (e *Engine) mutate(ctx context.Context, fn func(doc *models.Document) error) error {
	if err := e.reload(ctx); err != nil {
		return err
	}
	backup := e.doc.Clone()
	if err := fn(e.doc); err != nil {
		e.doc = backup
		return err
	}
	if err := e.store.Save(ctx, e.doc); err != nil {
		e.doc = backup
		logger.Error("Save failed, changes rolled back", "store", e.store.Kind(), "error", err)
		return err
	}
	return nil
}

func (e *Engine) today() dates.Date {
	return dates.Today(e.clock)
}

// canonicalName is the form names are stored and looked up in: surrounding
// whitespace is dropped, case is kept.
func canonicalName(name string) string {
	return strings.TrimSpace(name)
}

func validateName(name string) (string, error) {
	trimmed := canonicalName(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: name cannot be empty", apperrors.ErrInvalidActivityName)
	}
	return trimmed, nil
}

// AddActivity starts tracking name. Names are matched exactly.
func (e *Engine) AddActivity(ctx context.Context, name string, meta models.Metadata) error {
	name, err := validateName(name)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	err = e.mutate(ctx, func(doc *models.Document) error {
		if _, exists := doc.Activities[name]; exists {
			return fmt.Errorf("%w: %q", apperrors.ErrDuplicateActivity, name)
		}
		if meta.Icon == "" {
			meta.Icon = constants.DefaultActivityIcon
		}
		if meta.Color == "" {
			meta.Color = constants.DefaultActivityColor
		}
		created := e.clock.Now().UTC().Truncate(time.Second)
		doc.Activities[name] = models.Activity{
			Dates:     []string{},
			Color:     meta.Color,
			Icon:      meta.Icon,
			CreatedAt: &created,
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Activity added", "name", name)
	e.notify.Send("✨ Activity Added!", fmt.Sprintf("%s %s - Start your streak!", meta.Icon, name))
	return nil
}

// DeleteActivity stops tracking name. Badges it earned are kept.
func (e *Engine) DeleteActivity(ctx context.Context, name string) error {
	name = canonicalName(name)

	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.mutate(ctx, func(doc *models.Document) error {
		if _, exists := doc.Activities[name]; !exists {
			return fmt.Errorf("%w: %q", apperrors.ErrActivityNotFound, name)
		}
		delete(doc.Activities, name)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Activity deleted", "name", name)
	return nil
}

// Snapshot returns a deep copy of the document.
func (e *Engine) Snapshot() models.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.doc.Clone()
}
