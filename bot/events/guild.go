package events

import (
	"context"
	e "errors"
	"log/slog"

	"relaybot/bot/events/errors"
	"relaybot/db"

	dgo "github.com/bwmarrin/discordgo"
)

type GuildCreate struct {
	ctx      context.Context
	log      *slog.Logger
	registry db.Registry
}

func NewGuildCreate(ctx context.Context, log *slog.Logger, registry db.Registry) GuildCreate {
	return GuildCreate{ctx, log, registry}
}

func (h GuildCreate) Serve(s *dgo.Session, ev *dgo.GuildCreate) errors.EventErr {
	if ev.Guild == nil {
		return nil
	}
	everr := errors.NewGuildErr[*dgo.GuildCreate](ev.Guild.ID, h.log)

	if err := logRelayChannel(h.ctx, h.log, h.registry, ev.Guild.ID); err != nil {
		return everr.Join(e.New("Failed to get relay channel of guild"), err)
	}
	return nil
}

type Ready struct {
	ctx      context.Context
	log      *slog.Logger
	registry db.Registry
}

func NewReady(ctx context.Context, log *slog.Logger, registry db.Registry) Ready {
	return Ready{ctx, log, registry}
}

func (h Ready) Serve(s *dgo.Session, ev *dgo.Ready) errors.EventErr {
	everr := errors.NewReadyErr(ev, h.log)

	var username string
	if ev.User != nil {
		username = ev.User.Username
	}
	h.log.Info("Bot is ready",
		slog.String("user", username),
		slog.Int("guilds", len(ev.Guilds)),
	)

	var errs []error
	for _, g := range ev.Guilds {
		if err := logRelayChannel(h.ctx, h.log, h.registry, g.ID); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return everr.Join(append([]error{e.New("Failed to get relay channels of guilds")}, errs...)...)
	}
	return nil
}

func logRelayChannel(ctx context.Context, log *slog.Logger, registry db.Registry, guildID string) error {
	ch, err := registry.RelayChannel(ctx, guildID)
	if e.Is(err, db.ErrNotFound) {
		log.Info("Guild has no relay channel", slog.String("guild", guildID))
		return nil
	} else if err != nil {
		return err
	}
	log.Info("Guild relays channel", slog.String("guild", guildID), slog.String("relay_channel", ch))
	return nil
}
