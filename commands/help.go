package commands

import (
	"context"

	"relaybot/discord"

	dgo "github.com/bwmarrin/discordgo"
)

type Help struct {
	session    discord.Session
	dispatcher *Dispatcher
}

func NewHelp(s discord.Session, d *Dispatcher) Help {
	return Help{session: s, dispatcher: d}
}

func (Help) Info() Info {
	return Info{Keyword: "help", Description: "Show this list of commands", Exact: true}
}

func (c Help) Handle(_ context.Context, m *dgo.Message) error {
	infos := c.dispatcher.Commands()
	entries := make([]discord.HelpEntry, 0, len(infos))
	for _, i := range infos {
		entries = append(entries, discord.HelpEntry{
			Usage:       c.dispatcher.Prefix() + i.Keyword,
			Description: i.Description,
		})
	}
	return c.session.SendEmbed(m.ChannelID, discord.HelpEmbed(entries))
}
