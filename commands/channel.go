package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"relaybot/bus"
	"relaybot/capture"
	"relaybot/db"
	"relaybot/discord"

	dgo "github.com/bwmarrin/discordgo"
)

const DefaultCaptureTimeout = 60 * time.Second

type Capturer interface {
	Await(ctx context.Context, key capture.Key, timeout time.Duration) (*dgo.Message, error)
}

type ChannelDeps struct {
	Session   discord.Session
	Registry  db.Registry
	Capturer  Capturer
	Publisher bus.Publisher
	Timeout   time.Duration
	Log       *slog.Logger
}

// channelCommand walks the invoker through choosing the relay channel of
// the guild. setchannel and changechannel differ only in wording.
type channelCommand struct {
	info   Info
	prompt string
	ChannelDeps
}

func NewSetChannel(deps ChannelDeps) Command {
	return newChannelCommand(Info{
		Keyword:     "setchannel",
		Description: "Set the channel where messages are translated",
	}, msgPromptSet, deps)
}

func NewChangeChannel(deps ChannelDeps) Command {
	return newChannelCommand(Info{
		Keyword:     "changechannel",
		Description: "Move auto-translation to another channel",
	}, msgPromptChange, deps)
}

func newChannelCommand(info Info, prompt string, deps ChannelDeps) channelCommand {
	if deps.Timeout <= 0 {
		deps.Timeout = DefaultCaptureTimeout
	}
	if deps.Publisher == nil {
		deps.Publisher = bus.NoopPublisher{}
	}
	return channelCommand{info: info, prompt: prompt, ChannelDeps: deps}
}

func (c channelCommand) Info() Info {
	return c.info
}

func (c channelCommand) Handle(ctx context.Context, m *dgo.Message) error {
	userID := authorID(m)
	log := c.Log.With(
		slog.String("command", c.info.Keyword),
		slog.String("guild", m.GuildID),
		slog.String("channel", m.ChannelID),
		slog.String("user", userID),
	)

	ok, err := c.Session.IsAdministrator(m.GuildID, userID)
	if err != nil {
		c.reply(log, m.ChannelID, msgLookupError)
		return errors.Join(errors.New("Failed to check permissions of user"), err)
	} else if !ok {
		c.reply(log, m.ChannelID, msgUnauthorized)
		return ErrAuthorizationDenied
	}

	if err := c.Session.Send(m.ChannelID, c.prompt); err != nil {
		return err
	}

	reply, err := c.Capturer.Await(ctx, capture.KeyOf(m), c.Timeout)
	if err != nil {
		c.reply(log, m.ChannelID, msgTimeout)
		return err
	}

	channelID := parseChannelID(reply.Content)
	if channelID == "" {
		c.reply(log, m.ChannelID, msgInvalidChannel)
		return errors.Join(ErrInvalidChannel, errors.New("Empty channel ID"))
	}

	ch, err := c.Session.GuildChannel(m.GuildID, channelID)
	if err != nil {
		c.reply(log, m.ChannelID, msgInvalidChannel)
		return errors.Join(ErrInvalidChannel, err)
	}

	if err := c.Registry.SetRelayChannel(ctx, m.GuildID, ch.ID); err != nil {
		c.reply(log, m.ChannelID, msgStorageError)
		return err
	}

	log.Info("Relay channel updated", slog.String("relay_channel", ch.ID))
	c.reply(log, m.ChannelID, msgUpdated)

	var username string
	if m.Author != nil {
		username = m.Author.Username
	}
	go c.annotateFooter(log, ch.ID, username)

	err = c.Publisher.Publish(ctx, bus.TopicChannelConfigured, bus.ChannelConfigured{
		GuildID:      m.GuildID,
		ChannelID:    ch.ID,
		ConfiguredBy: userID,
		Command:      c.info.Keyword,
		At:           time.Now().UTC(),
	})
	if err != nil {
		log.Warn("Failed to publish channel configuration", slog.String("err", err.Error()))
	}

	return nil
}

// annotateFooter stamps the latest relay embed of the new relay channel
// with the invoker's name. It is best effort.
func (c channelCommand) annotateFooter(log *slog.Logger, channelID, username string) {
	last, err := c.Session.LastMessage(channelID)
	if err != nil {
		log.Debug("No message to annotate in relay channel",
			slog.String("relay_channel", channelID),
			slog.String("err", err.Error()),
		)
		return
	}

	if last.Author == nil || !last.Author.Bot || len(last.Embeds) == 0 || !discord.IsRelayEmbed(last.Embeds[0]) {
		return
	}

	embeds := make([]*dgo.MessageEmbed, len(last.Embeds))
	copy(embeds, last.Embeds)

	e := *embeds[0]
	var icon string
	if e.Footer != nil {
		icon = e.Footer.IconURL
	}
	e.Footer = discord.Footer(username, icon)
	embeds[0] = &e

	if err := c.Session.EditEmbeds(channelID, last.ID, embeds); err != nil {
		log.Warn("Failed to annotate relay message footer",
			slog.String("relay_channel", channelID),
			slog.String("message", last.ID),
			slog.String("err", err.Error()),
		)
	}
}

func (c channelCommand) reply(log *slog.Logger, channelID, content string) {
	if err := c.Session.Send(channelID, content); err != nil {
		log.Error("Failed to send reply", slog.String("err", err.Error()))
	}
}

// parseChannelID accepts a raw ID or a channel mention.
func parseChannelID(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<#") && strings.HasSuffix(s, ">") {
		s = s[2 : len(s)-1]
	}
	return s
}
