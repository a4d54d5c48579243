// Package slack implements the dispatch Sink for Slack via the Web API.
package slack

import (
	"context"
	"fmt"
	"strings"
	"sync"

	slackapi "github.com/slack-go/slack"
	"github.com/zulandar/cadence/internal/dispatch"
	"github.com/zulandar/cadence/internal/models"
)

// slackClient abstracts the Slack API methods we use, enabling test mocks.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// Sink delivers notifications to a Slack channel as colored attachments.
type Sink struct {
	client    slackClient
	channelID string
	mu        sync.Mutex
	closed    bool
}

// Opts holds parameters for creating a Slack Sink.
type Opts struct {
	BotToken  string // xoxb-... Slack bot token
	ChannelID string // channel to post to
	// For testing: inject a mock client instead of the real Slack API.
	Client slackClient
}

// New creates a Slack Sink.
func New(opts Opts) (*Sink, error) {
	if opts.Client == nil && opts.BotToken == "" {
		return nil, fmt.Errorf("slack: bot token is required")
	}
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("slack: channel ID is required")
	}
	s := &Sink{channelID: opts.ChannelID}
	if opts.Client != nil {
		s.client = opts.Client
	} else {
		s.client = slackapi.New(opts.BotToken)
	}
	return s, nil
}

func (s *Sink) Name() string { return "slack" }

// Deliver posts the notification as an attachment with a priority color bar.
func (s *Sink) Deliver(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("slack: sink closed")
	}
	s.mu.Unlock()

	attachment := slackapi.Attachment{
		Color: dispatch.PriorityColor(n.Priority),
		Title: n.Title,
		Text:  n.Message,
		Fields: []slackapi.AttachmentField{
			{Title: "Category", Value: n.Category, Short: true},
			{Title: "Due", Value: n.DueAt.Format("15:04 Jan 2"), Short: true},
		},
		Footer: "cadence",
	}
	if actions := models.DecodeStrings(n.Actions); len(actions) > 0 {
		attachment.Fields = append(attachment.Fields, slackapi.AttachmentField{
			Title: "Actions", Value: strings.Join(actions, ", "),
		})
	}

	_, _, err := s.client.PostMessageContext(ctx, s.channelID,
		slackapi.MsgOptionAttachments(attachment))
	if err != nil {
		return fmt.Errorf("slack: post message: %w", err)
	}
	return nil
}

// Close marks the sink closed. Safe to call more than once.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
