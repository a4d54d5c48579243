// Package discord implements the dispatch Sink for Discord via the REST API.
package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/zulandar/cadence/internal/dispatch"
	"github.com/zulandar/cadence/internal/models"
)

// session abstracts the discordgo.Session methods we use, enabling test mocks.
type session interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	Close() error
}

// realSession wraps *discordgo.Session to implement the session interface.
type realSession struct {
	s *discordgo.Session
}

func (r *realSession) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	return r.s.ChannelMessageSendEmbed(channelID, embed, options...)
}
func (r *realSession) Close() error { return r.s.Close() }

// Sink delivers notifications to a Discord channel as embeds.
type Sink struct {
	sess      session
	channelID string
	mu        sync.Mutex
	closed    bool
}

// Opts holds parameters for creating a Discord Sink.
type Opts struct {
	BotToken  string
	ChannelID string
	// For testing: inject a mock session instead of the real Discord API.
	Session session
}

// New creates a Discord Sink.
func New(opts Opts) (*Sink, error) {
	if opts.Session == nil && opts.BotToken == "" {
		return nil, fmt.Errorf("discord: bot token is required")
	}
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("discord: channel ID is required")
	}
	s := &Sink{channelID: opts.ChannelID}
	if opts.Session != nil {
		s.sess = opts.Session
	} else {
		dg, err := discordgo.New("Bot " + opts.BotToken)
		if err != nil {
			return nil, fmt.Errorf("discord: create session: %w", err)
		}
		s.sess = &realSession{s: dg}
	}
	return s, nil
}

func (s *Sink) Name() string { return "discord" }

// Deliver posts the notification as an embed colored by priority. Messages
// are sent over REST, so no gateway connection is needed.
func (s *Sink) Deliver(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("discord: sink closed")
	}
	s.mu.Unlock()

	embed := &discordgo.MessageEmbed{
		Title:       n.Title,
		Description: n.Message,
		Color:       colorInt(dispatch.PriorityColor(n.Priority)),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Category", Value: n.Category, Inline: true},
			{Name: "Due", Value: n.DueAt.Format("15:04 Jan 2"), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "cadence"},
	}

	if _, err := s.sess.ChannelMessageSendEmbed(s.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: send embed: %w", err)
	}
	return nil
}

// Close shuts down the session. Safe to call more than once.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.sess.Close()
}

// colorInt converts a "#rrggbb" hint to the integer form Discord embeds use.
func colorInt(hex string) int {
	v, err := strconv.ParseInt(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return 0
	}
	return int(v)
}
