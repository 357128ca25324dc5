// Package commands implements the prefixed text commands of the bot and the
// dispatcher that routes messages to them.
package commands

import (
	"context"
	"log/slog"
	"strings"

	dgo "github.com/bwmarrin/discordgo"
)

const DefaultPrefix = "!"

type Info struct {
	Keyword     string
	Description string
	// Exact commands match only when the whole text is the keyword, the
	// others match any text starting with it.
	Exact bool
}

type Command interface {
	Info() Info
	Handle(ctx context.Context, m *dgo.Message) error
}

type Dispatcher struct {
	prefix   string
	commands []Command
	log      *slog.Logger
}

func NewDispatcher(prefix string, log *slog.Logger, cmds ...Command) *Dispatcher {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Dispatcher{prefix: prefix, commands: cmds, log: log}
}

// Register appends commands to the table. Earlier commands take precedence.
func (d *Dispatcher) Register(cmds ...Command) {
	d.commands = append(d.commands, cmds...)
}

func (d *Dispatcher) Prefix() string {
	return d.prefix
}

func (d *Dispatcher) Commands() []Info {
	infos := make([]Info, 0, len(d.commands))
	for _, c := range d.commands {
		infos = append(infos, c.Info())
	}
	return infos
}

// Match returns the first command in table order matching text. isCommand
// is true for every prefixed text, matched or not.
func (d *Dispatcher) Match(text string) (cmd Command, isCommand bool) {
	text = strings.TrimSpace(text)
	rest, ok := strings.CutPrefix(text, d.prefix)
	if !ok {
		return nil, false
	}

	for _, c := range d.commands {
		info := c.Info()
		if info.Exact && rest == info.Keyword {
			return c, true
		} else if !info.Exact && strings.HasPrefix(rest, info.Keyword) {
			return c, true
		}
	}
	return nil, true
}

// Dispatch runs the handler matching m, if any, and reports whether m was a
// command. Prefixed texts with no matching command are swallowed.
func (d *Dispatcher) Dispatch(ctx context.Context, m *dgo.Message) (bool, error) {
	cmd, isCommand := d.Match(m.Content)
	if !isCommand {
		return false, nil
	}

	if cmd == nil {
		d.log.Debug("Prefixed message does not match any command, ignoring.",
			slog.String("guild", m.GuildID),
			slog.String("channel", m.ChannelID),
			slog.String("message", m.ID),
		)
		return true, nil
	}

	d.log.Debug("Handling command.",
		slog.String("command", cmd.Info().Keyword),
		slog.String("guild", m.GuildID),
		slog.String("channel", m.ChannelID),
		slog.String("user", authorID(m)),
	)
	return true, cmd.Handle(ctx, m)
}

func authorID(m *dgo.Message) string {
	if m.Author == nil {
		return ""
	}
	return m.Author.ID
}
