package bot

import (
	"context"

	"relaybot/bot/events"
	"relaybot/discord"
	"relaybot/report"

	dgo "github.com/bwmarrin/discordgo"
)

func w[E any](h events.EventHandler[E]) any {
	return func(s *dgo.Session, ev E) {
		err := h.Serve(s, ev)
		if err != nil {
			err.Log()
			tags := report.Tags(err.Data())
			tags["event"] = err.Event()
			report.CaptureError(err, tags)
		}
	}
}

func (b *Bot) handlers(ctx context.Context) []any {
	relay := events.NewRelay(
		b.logger,
		b.registry,
		b.translator,
		discord.NewSession(b.session),
		b.target,
		b.publisher,
	)
	return []any{
		w[*dgo.Ready](events.NewReady(ctx, b.logger, b.registry)),
		w[*dgo.GuildCreate](events.NewGuildCreate(ctx, b.logger, b.registry)),
		w[*dgo.MessageCreate](events.NewMessageCreate(ctx, b.logger, b.waiters, b.dispatcher, relay)),
	}
}

func (b *Bot) registerEventHandlers(ctx context.Context) {
	for _, h := range b.handlers(ctx) {
		b.session.AddHandler(h)
	}
}
