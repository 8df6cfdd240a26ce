package notify_test

import (
	"context"
	"errors"
	"testing"

	slacklib "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub/internal/collection"
	"github.com/taskhub/taskhub/internal/domain"
	"github.com/taskhub/taskhub/internal/notify"
)

// mockSlackAPI records PostMessage calls.
type mockSlackAPI struct {
	postMessageFunc func(channelID string, options ...slacklib.MsgOption) (string, string, error)
	channels        []string
}

func (m *mockSlackAPI) PostMessage(channelID string, options ...slacklib.MsgOption) (string, string, error) {
	m.channels = append(m.channels, channelID)
	if m.postMessageFunc != nil {
		return m.postMessageFunc(channelID, options...)
	}
	return channelID, "1700000000.000100", nil
}

// recordingNotifier captures messages for registry tests.
type recordingNotifier struct {
	platform string
	messages []string
	err      error
}

func (r *recordingNotifier) Notify(_ context.Context, message string) error {
	if r.err != nil {
		return r.err
	}
	r.messages = append(r.messages, message)
	return nil
}

func (r *recordingNotifier) Platform() string { return r.platform }

func TestMessage(t *testing.T) {
	t.Parallel()

	task := &domain.Task{ID: "task-1", Title: "Ship release", Status: domain.TaskStatusInProgress}

	tests := []struct {
		name string
		ev   collection.Event
		want string
	}{
		{
			name: "created",
			ev:   collection.Event{Type: collection.EventCreated, TaskID: "task-1", Task: task},
			want: "New task: Ship release",
		},
		{
			name: "updated with task",
			ev:   collection.Event{Type: collection.EventUpdated, TaskID: "task-1", Task: task},
			want: "Task updated: Ship release (IN_PROGRESS)",
		},
		{
			name: "deleted carries only the id",
			ev:   collection.Event{Type: collection.EventDeleted, TaskID: "task-1"},
			want: "Task deleted: task-1",
		},
		{
			name: "refresh is not announced",
			ev:   collection.Event{Type: collection.EventRefreshed},
			want: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, notify.Message(tt.ev))
		})
	}
}

func TestRegistryAnnounce(t *testing.T) {
	t.Parallel()

	t.Run("fans_out_to_every_notifier", func(t *testing.T) {
		t.Parallel()

		a := &recordingNotifier{platform: "a"}
		b := &recordingNotifier{platform: "b"}

		reg := notify.NewRegistry()
		reg.Register(a)
		reg.Register(b)
		require.Equal(t, 2, reg.Len())

		reg.Announce(context.Background(), collection.Event{
			Type:   collection.EventCreated,
			TaskID: "task-1",
			Task:   &domain.Task{ID: "task-1", Title: "Ship release"},
		})

		assert.Equal(t, []string{"New task: Ship release"}, a.messages)
		assert.Equal(t, []string{"New task: Ship release"}, b.messages)
	})

	t.Run("failed_notifier_does_not_block_others", func(t *testing.T) {
		t.Parallel()

		broken := &recordingNotifier{platform: "broken", err: errors.New("delivery failed")}
		working := &recordingNotifier{platform: "working"}

		reg := notify.NewRegistry()
		reg.Register(broken)
		reg.Register(working)

		reg.Announce(context.Background(), collection.Event{
			Type:   collection.EventDeleted,
			TaskID: "task-9",
		})

		assert.Equal(t, []string{"Task deleted: task-9"}, working.messages)
	})

	t.Run("silent_events_skip_delivery", func(t *testing.T) {
		t.Parallel()

		a := &recordingNotifier{platform: "a"}
		reg := notify.NewRegistry()
		reg.Register(a)

		reg.Announce(context.Background(), collection.Event{Type: collection.EventRefreshed})

		assert.Empty(t, a.messages)
	})
}

func TestSlackNotifier(t *testing.T) {
	t.Parallel()

	t.Run("posts_to_configured_channel", func(t *testing.T) {
		t.Parallel()

		api := &mockSlackAPI{}
		n := notify.NewSlackNotifier(api, "#tasks")

		err := n.Notify(context.Background(), "New task: Ship release")

		require.NoError(t, err)
		assert.Equal(t, []string{"#tasks"}, api.channels)
		assert.Equal(t, "slack", n.Platform())
	})

	t.Run("wraps_post_failure", func(t *testing.T) {
		t.Parallel()

		api := &mockSlackAPI{
			postMessageFunc: func(_ string, _ ...slacklib.MsgOption) (string, string, error) {
				return "", "", errors.New("channel_not_found")
			},
		}
		n := notify.NewSlackNotifier(api, "#missing")

		err := n.Notify(context.Background(), "hello")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "channel_not_found")
	})
}
