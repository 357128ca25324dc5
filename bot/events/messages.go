package events

import (
	"context"
	e "errors"
	"log/slog"

	"relaybot/bot/events/errors"
	"relaybot/commands"

	dgo "github.com/bwmarrin/discordgo"
)

type Offerer interface {
	Offer(m *dgo.Message) bool
}

type Dispatcher interface {
	Dispatch(ctx context.Context, m *dgo.Message) (bool, error)
}

type Relayer interface {
	Serve(ctx context.Context, m *dgo.Message) error
}

// MessageCreate routes every guild message: pending captures first, then
// commands, then the relay.
type MessageCreate struct {
	ctx        context.Context
	log        *slog.Logger
	waiters    Offerer
	dispatcher Dispatcher
	relay      Relayer
}

func NewMessageCreate(
	ctx context.Context,
	log *slog.Logger,
	waiters Offerer,
	dispatcher Dispatcher,
	relay Relayer,
) MessageCreate {
	return MessageCreate{ctx, log, waiters, dispatcher, relay}
}

func (h MessageCreate) Serve(s *dgo.Session, ev *dgo.MessageCreate) errors.EventErr {
	var selfID string
	if s != nil && s.State != nil && s.State.User != nil {
		selfID = s.State.User.ID
	}
	return h.handle(selfID, ev.Message)
}

func (h MessageCreate) handle(selfID string, m *dgo.Message) errors.EventErr {
	if m == nil || m.Author == nil || m.Author.ID == selfID || m.Author.Bot {
		return nil
	}
	if m.GuildID == "" || (m.Type != dgo.MessageTypeDefault && m.Type != dgo.MessageTypeReply) {
		return nil
	}

	if h.waiters.Offer(m) {
		h.log.Debug("Message captured by pending command",
			slog.String("guild", m.GuildID),
			slog.String("channel", m.ChannelID),
			slog.String("message", m.ID),
		)
		return nil
	}

	everr := errors.NewMessageErr(m, h.log)

	isCommand, err := h.dispatcher.Dispatch(h.ctx, m)
	if isCommand {
		if err != nil && commands.IsUserError(err) {
			h.log.Info("Command ended without changes",
				slog.String("guild", m.GuildID),
				slog.String("user", m.Author.ID),
				slog.String("reason", err.Error()),
			)
			return nil
		} else if err != nil {
			return everr.Join(e.New("Failed to handle command"), err)
		}
		return nil
	}

	if err := h.relay.Serve(h.ctx, m); err != nil {
		return everr.Join(e.New("Failed to relay message"), err)
	}
	return nil
}
