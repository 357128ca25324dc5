package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"relaybot/bus"
	"relaybot/capture"
	"relaybot/commands"
	"relaybot/db"
	"relaybot/discord"
	"relaybot/translator"

	dgo "github.com/bwmarrin/discordgo"
)

const Intents = dgo.IntentGuilds | dgo.IntentGuildMessages | dgo.IntentMessageContent

type Options struct {
	Prefix         string
	Target         translator.Language
	CaptureTimeout time.Duration
	Publisher      bus.Publisher
}

type Bot struct {
	registry   db.Registry
	translator translator.Translator
	publisher  bus.Publisher
	logger     *slog.Logger
	session    *dgo.Session
	target     translator.Language
	waiters    *capture.Waiters
	dispatcher *commands.Dispatcher
}

func NewBot(
	token string,
	registry db.Registry,
	t translator.Translator,
	log *slog.Logger,
	opts Options,
) (*Bot, error) {
	token = strings.TrimPrefix(strings.TrimSpace(token), "Bot ")
	if token == "" {
		return nil, errors.New("Bot token is empty")
	}

	s, err := dgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = Intents

	if opts.Target == "" {
		opts.Target = translator.AR
	}
	if opts.Publisher == nil {
		opts.Publisher = bus.NoopPublisher{}
	}

	b := &Bot{
		registry:   registry,
		translator: t,
		publisher:  opts.Publisher,
		logger:     log,
		session:    s,
		target:     opts.Target,
		waiters:    capture.New(log),
	}

	ds := discord.NewSession(s)
	b.dispatcher = commands.NewDispatcher(opts.Prefix, log)
	deps := commands.ChannelDeps{
		Session:   ds,
		Registry:  registry,
		Capturer:  b.waiters,
		Publisher: opts.Publisher,
		Timeout:   opts.CaptureTimeout,
		Log:       log,
	}
	b.dispatcher.Register(
		commands.NewPing(ds),
		commands.NewSetChannel(deps),
		commands.NewChangeChannel(deps),
	)
	b.dispatcher.Register(commands.NewHelp(ds, b.dispatcher))

	return b, nil
}

// Start registers the event handlers and connects to the gateway. ctx
// bounds the work started by events, including pending captures.
func (b *Bot) Start(ctx context.Context) error {
	b.registerEventHandlers(ctx)

	if err := b.session.Open(); err != nil {
		return err
	}
	b.logger.Info("Connected to Discord gateway",
		slog.String("prefix", b.dispatcher.Prefix()),
		slog.String("target_language", string(b.target)),
	)
	return nil
}

func (b *Bot) Stop() error {
	return b.session.Close()
}
