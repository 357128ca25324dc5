// Package bus publishes notifications about relay activity so other
// services can follow what the bot does. Publishing is best effort.
package bus

import (
	"context"
	"time"
)

const (
	TopicChannelConfigured = "relay.channel.configured"
	TopicMessageTranslated = "relay.message.translated"
)

type ChannelConfigured struct {
	GuildID      string    `json:"guild_id"`
	ChannelID    string    `json:"channel_id"`
	ConfiguredBy string    `json:"configured_by"`
	Command      string    `json:"command"`
	At           time.Time `json:"at"`
}

type MessageTranslated struct {
	GuildID   string    `json:"guild_id"`
	ChannelID string    `json:"channel_id"`
	MessageID string    `json:"message_id"`
	AuthorID  string    `json:"author_id"`
	Target    string    `json:"target"`
	Fallback  bool      `json:"fallback"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }
func (NoopPublisher) Close() error                               { return nil }
