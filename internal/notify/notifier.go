package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/taskhub/taskhub/internal/collection"
)

// Notifier delivers task announcements to an external channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	Platform() string
}

// Registry fans task events out to every registered notifier.
type Registry struct {
	notifiers map[string]Notifier
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		notifiers: make(map[string]Notifier),
	}
}

// Register adds a notifier under its platform name.
func (r *Registry) Register(n Notifier) {
	r.notifiers[n.Platform()] = n
}

// Get returns the notifier for the given platform, or false if not registered.
func (r *Registry) Get(platform string) (Notifier, bool) {
	n, ok := r.notifiers[platform]
	return n, ok
}

// Len returns the number of registered notifiers.
func (r *Registry) Len() int {
	return len(r.notifiers)
}

// Announce formats ev and sends it to every registered notifier. A
// failing notifier is logged and skipped; announcements are best effort.
func (r *Registry) Announce(ctx context.Context, ev collection.Event) {
	msg := Message(ev)
	if msg == "" {
		return
	}

	for platform, n := range r.notifiers {
		if err := n.Notify(ctx, msg); err != nil {
			log.Warn().Err(err).Str("platform", platform).Msg("notification failed")
		}
	}
}

// Message renders a task event as a one-line human announcement.
// Returns "" for events that are not worth announcing.
func Message(ev collection.Event) string {
	title := ev.TaskID
	if ev.Task != nil {
		title = ev.Task.Title
	}

	switch ev.Type {
	case collection.EventCreated:
		return fmt.Sprintf("New task: %s", title)
	case collection.EventUpdated:
		if ev.Task != nil {
			return fmt.Sprintf("Task updated: %s (%s)", title, ev.Task.Status)
		}
		return fmt.Sprintf("Task updated: %s", title)
	case collection.EventDeleted:
		return fmt.Sprintf("Task deleted: %s", ev.TaskID)
	default:
		return ""
	}
}
