package notify

import (
	"context"
	"fmt"

	slacklib "github.com/slack-go/slack"
)

// SlackAPI abstracts the subset of the Slack client used by SlackNotifier.
// This allows testing without real HTTP calls.
type SlackAPI interface {
	PostMessage(channelID string, options ...slacklib.MsgOption) (string, string, error)
}

// SlackNotifier posts task announcements to a fixed Slack channel.
type SlackNotifier struct {
	api     SlackAPI
	channel string
}

// Compile-time interface check.
var _ Notifier = (*SlackNotifier)(nil) //nolint:gochecknoglobals // compile-time check

// NewSlackNotifier creates a SlackNotifier with the given API client.
func NewSlackNotifier(api SlackAPI, channel string) *SlackNotifier {
	return &SlackNotifier{api: api, channel: channel}
}

// Notify posts a text message to the configured channel.
func (n *SlackNotifier) Notify(_ context.Context, message string) error {
	_, _, err := n.api.PostMessage(n.channel, slacklib.MsgOptionText(message, false))
	if err != nil {
		return fmt.Errorf("notify.SlackNotifier.Notify: %w", err)
	}

	return nil
}

// Platform returns the notifier platform identifier.
func (n *SlackNotifier) Platform() string {
	return "slack"
}
