// Package discord narrows *discordgo.Session to the calls the bot makes, so
// command and relay logic can run against a fake in tests.
package discord

import (
	"errors"
	"fmt"

	dgo "github.com/bwmarrin/discordgo"
)

var (
	ErrPresentation      = errors.New("Failed to present message")
	ErrChannelNotInGuild = errors.New("Channel does not belong to guild")
	ErrNoMessages        = errors.New("Channel has no messages")
)

type Session interface {
	Send(channelID, content string) error
	SendEmbed(channelID string, embed *dgo.MessageEmbed) error
	EditEmbeds(channelID, messageID string, embeds []*dgo.MessageEmbed) error
	// LastMessage returns the most recent message of the channel.
	LastMessage(channelID string) (*dgo.Message, error)
	// GuildChannel resolves channelID, failing when it is unknown or lives
	// in another guild.
	GuildChannel(guildID, channelID string) (*dgo.Channel, error)
	// IsAdministrator reports whether the user owns the guild or holds the
	// Administrator permission through one of their roles.
	IsAdministrator(guildID, userID string) (bool, error)
}

type session struct {
	s *dgo.Session
}

func NewSession(s *dgo.Session) Session {
	return session{s}
}

func (w session) Send(channelID, content string) error {
	if _, err := w.s.ChannelMessageSend(channelID, content); err != nil {
		return errors.Join(ErrPresentation, err)
	}
	return nil
}

func (w session) SendEmbed(channelID string, embed *dgo.MessageEmbed) error {
	if _, err := w.s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return errors.Join(ErrPresentation, err)
	}
	return nil
}

func (w session) EditEmbeds(channelID, messageID string, embeds []*dgo.MessageEmbed) error {
	if _, err := w.s.ChannelMessageEditEmbeds(channelID, messageID, embeds); err != nil {
		return errors.Join(ErrPresentation, err)
	}
	return nil
}

func (w session) LastMessage(channelID string) (*dgo.Message, error) {
	ms, err := w.s.ChannelMessages(channelID, 1, "", "", "")
	if err != nil {
		return nil, err
	} else if len(ms) == 0 {
		return nil, ErrNoMessages
	}
	return ms[0], nil
}

func (w session) GuildChannel(guildID, channelID string) (*dgo.Channel, error) {
	ch, err := w.s.State.Channel(channelID)
	if err != nil {
		ch, err = w.s.Channel(channelID)
		if err != nil {
			return nil, err
		}
	}

	if ch.GuildID != guildID {
		return nil, errors.Join(
			ErrChannelNotInGuild,
			fmt.Errorf("Channel %s is in guild %q, not %q", ch.ID, ch.GuildID, guildID),
		)
	}
	return ch, nil
}

func (w session) IsAdministrator(guildID, userID string) (bool, error) {
	g, err := w.s.State.Guild(guildID)
	if err != nil {
		g, err = w.s.Guild(guildID)
		if err != nil {
			return false, err
		}
	}

	if g.OwnerID == userID {
		return true, nil
	}

	m, err := w.s.State.Member(guildID, userID)
	if err != nil {
		m, err = w.s.GuildMember(guildID, userID)
		if err != nil {
			return false, err
		}
	}

	return IsAdministrator(g, userID, m), nil
}

// IsAdministrator is the permission rule behind Session.IsAdministrator. The
// @everyone role shares the guild ID and applies to every member.
func IsAdministrator(g *dgo.Guild, userID string, m *dgo.Member) bool {
	if g == nil {
		return false
	}
	if g.OwnerID == userID {
		return true
	}

	held := map[string]bool{g.ID: true}
	if m != nil {
		for _, id := range m.Roles {
			held[id] = true
		}
	}

	for _, r := range g.Roles {
		if held[r.ID] && r.Permissions&dgo.PermissionAdministrator != 0 {
			return true
		}
	}
	return false
}
