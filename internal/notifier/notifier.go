// Package notifier delivers notification events to the desktop tray or the
// console. Delivery is fire-and-forget from the engine's point of view.
package notifier

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/consistency/internal/logger"
)

// Sink receives (title, message) notifications.
type Sink interface {
	Notify(title, message string) error
}

// Nop drops every notification.
type Nop struct{}

func (Nop) Notify(string, string) error { return nil }

// Console prints notifications to a writer, one per line.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B35"))
	timeStyle  = lipgloss.NewStyle().Faint(true)
)

func NewConsole(out io.Writer) *Console {
	return &Console{out: out, now: time.Now}
}

func (c *Console) Notify(title, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, "%s %s %s\n",
		timeStyle.Render("["+c.now().Format("15:04")+"]"),
		titleStyle.Render(title),
		message,
	)
	return err
}

// Multi sends every notification to each sink and returns the first error.
type Multi []Sink

func (m Multi) Notify(title, message string) error {
	var first error
	for _, s := range m {
		if err := s.Notify(title, message); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// BestEffort wraps a sink so delivery failures are logged and swallowed.
type BestEffort struct {
	sink Sink
}

func NewBestEffort(sink Sink) *BestEffort {
	if sink == nil {
		sink = Nop{}
	}
	return &BestEffort{sink: sink}
}

// Send delivers the notification and reports whether it went through.
func (b *BestEffort) Send(title, message string) bool {
	if err := b.sink.Notify(title, message); err != nil {
		logger.Warn("Notification not delivered", "title", title, "error", err)
		return false
	}
	logger.Debug("Notification delivered", "title", title)
	return true
}

func (b *BestEffort) Notify(title, message string) error {
	b.Send(title, message)
	return nil
}
