package collection

import (
	"sync"

	"github.com/taskhub/taskhub/internal/domain"
)

// EventType identifies a kind of collection change.
type EventType string

const (
	EventCreated   EventType = "task_created"
	EventUpdated   EventType = "task_updated"
	EventDeleted   EventType = "task_deleted"
	EventRefreshed EventType = "collection_refreshed"
)

// Event describes a committed collection change. Task is set for create
// and update events; TaskID is set for everything but refreshes.
type Event struct {
	Type   EventType    `json:"type"`
	TaskID string       `json:"task_id,omitempty"`
	Task   *domain.Task `json:"task,omitempty"`
}

type subscribers struct {
	mu   sync.Mutex
	next uint64
	subs map[uint64]chan Event
}

func newSubscribers() *subscribers {
	return &subscribers{subs: make(map[uint64]chan Event)}
}

// Subscribe registers a new event channel. The returned cancel func
// unregisters and closes it. Events are dropped for subscribers whose
// buffer is full; a slow consumer never blocks a commit.
func (s *subscribers) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	ch := make(chan Event, 64)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

func (s *subscribers) publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
