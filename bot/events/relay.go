package events

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"relaybot/bus"
	"relaybot/db"
	"relaybot/discord"
	"relaybot/translator"

	dgo "github.com/bwmarrin/discordgo"
)

const msgTranslationFailed = "Error occurred while translating the message."

// Relay translates messages posted in the relay channel of their guild and
// answers with the translation embed.
type Relay struct {
	log        *slog.Logger
	registry   db.Registry
	translator translator.Translator
	session    discord.Session
	target     translator.Language
	publisher  bus.Publisher
}

func NewRelay(
	log *slog.Logger,
	registry db.Registry,
	t translator.Translator,
	s discord.Session,
	target translator.Language,
	publisher bus.Publisher,
) Relay {
	if publisher == nil {
		publisher = bus.NoopPublisher{}
	}
	return Relay{log, registry, t, s, target, publisher}
}

func (r Relay) Serve(ctx context.Context, m *dgo.Message) error {
	if strings.TrimSpace(m.Content) == "" {
		return nil
	}

	channelID, err := r.registry.RelayChannel(ctx, m.GuildID)
	if errors.Is(err, db.ErrNotFound) {
		return nil
	} else if err != nil {
		return errors.Join(errors.New("Failed to get relay channel"), err)
	}
	if channelID != m.ChannelID {
		return nil
	}

	fallback := false
	text, err := r.translator.Translate(ctx, translator.Auto, r.target, m.Content)
	if err != nil {
		r.log.Warn("Translation failed, sending fallback",
			slog.String("guild", m.GuildID),
			slog.String("channel", m.ChannelID),
			slog.String("message", m.ID),
			slog.String("err", err.Error()),
		)
		text = msgTranslationFailed
		fallback = true
	}

	embed := discord.RelayEmbed(m.Content, text, r.target.Name(), m.Author)
	if err := r.session.SendEmbed(m.ChannelID, embed); err != nil {
		return err
	}

	var authorID string
	if m.Author != nil {
		authorID = m.Author.ID
	}
	err = r.publisher.Publish(ctx, bus.TopicMessageTranslated, bus.MessageTranslated{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		AuthorID:  authorID,
		Target:    string(r.target),
		Fallback:  fallback,
		At:        time.Now().UTC(),
	})
	if err != nil {
		r.log.Warn("Failed to publish translated message", slog.String("err", err.Error()))
	}
	return nil
}
