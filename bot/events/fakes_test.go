package events

import (
	"context"
	e "errors"
	"io"
	"log/slog"
	"sync"

	"relaybot/db"
	"relaybot/translator"

	dgo "github.com/bwmarrin/discordgo"
)

type fakeSession struct {
	mu     sync.Mutex
	embeds map[string][]*dgo.MessageEmbed
	err    error
}

func newFakeSession() *fakeSession {
	return &fakeSession{embeds: map[string][]*dgo.MessageEmbed{}}
}

func (s *fakeSession) Send(string, string) error { return nil }

func (s *fakeSession) SendEmbed(channelID string, embed *dgo.MessageEmbed) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.embeds[channelID] = append(s.embeds[channelID], embed)
	return nil
}

func (s *fakeSession) EditEmbeds(string, string, []*dgo.MessageEmbed) error { return nil }

func (s *fakeSession) LastMessage(string) (*dgo.Message, error) {
	return nil, e.New("no messages")
}

func (s *fakeSession) GuildChannel(string, string) (*dgo.Channel, error) {
	return nil, e.New("unknown channel")
}

func (s *fakeSession) IsAdministrator(string, string) (bool, error) { return false, nil }

type fakeRegistry struct {
	channels map[string]string
	err      error
	lookups  int
}

func (r *fakeRegistry) RelayChannel(_ context.Context, guildID string) (string, error) {
	r.lookups++
	if r.err != nil {
		return "", e.Join(db.ErrInternal, r.err)
	}
	ch, ok := r.channels[guildID]
	if !ok {
		return "", db.ErrNotFound
	}
	return ch, nil
}

func (r *fakeRegistry) SetRelayChannel(_ context.Context, guildID, channelID string) error {
	r.channels[guildID] = channelID
	return nil
}

type fakeTranslator struct {
	out   string
	err   error
	calls int
	from  translator.Language
	to    translator.Language
}

func (t *fakeTranslator) Translate(_ context.Context, from, to translator.Language, _ string) (string, error) {
	t.calls++
	t.from, t.to = from, to
	return t.out, t.err
}

type fakePublisher struct {
	topics []string
	events []any
}

func (p *fakePublisher) Publish(_ context.Context, topic string, event any) error {
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
