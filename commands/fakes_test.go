package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"relaybot/capture"
	"relaybot/db"

	dgo "github.com/bwmarrin/discordgo"
)

type sent struct {
	ChannelID string
	Content   string
}

type edit struct {
	ChannelID string
	MessageID string
	Embeds    []*dgo.MessageEmbed
}

type fakeSession struct {
	mu       sync.Mutex
	sent     []sent
	embeds   []*dgo.MessageEmbed
	edits    []edit
	admins   map[string]bool
	adminErr error
	channels map[string]*dgo.Channel
	last     map[string]*dgo.Message
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		admins:   map[string]bool{},
		channels: map[string]*dgo.Channel{},
		last:     map[string]*dgo.Message{},
	}
}

func (s *fakeSession) Send(channelID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sent{channelID, content})
	return nil
}

func (s *fakeSession) SendEmbed(_ string, embed *dgo.MessageEmbed) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embeds = append(s.embeds, embed)
	return nil
}

func (s *fakeSession) EditEmbeds(channelID, messageID string, embeds []*dgo.MessageEmbed) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edits = append(s.edits, edit{channelID, messageID, embeds})
	return nil
}

func (s *fakeSession) LastMessage(channelID string) (*dgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.last[channelID]
	if !ok {
		return nil, errors.New("no messages")
	}
	return m, nil
}

func (s *fakeSession) GuildChannel(guildID, channelID string) (*dgo.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[channelID]
	if !ok || ch.GuildID != guildID {
		return nil, errors.New("unknown channel")
	}
	return ch, nil
}

func (s *fakeSession) IsAdministrator(_, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.admins[userID], s.adminErr
}

func (s *fakeSession) Sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sent))
	for _, m := range s.sent {
		out = append(out, m.Content)
	}
	return out
}

func (s *fakeSession) Edits() []edit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]edit(nil), s.edits...)
}

type fakeCapturer struct {
	reply   *dgo.Message
	err     error
	calls   int
	key     capture.Key
	timeout time.Duration
}

func (c *fakeCapturer) Await(_ context.Context, key capture.Key, timeout time.Duration) (*dgo.Message, error) {
	c.calls++
	c.key = key
	c.timeout = timeout
	return c.reply, c.err
}

type fakeRegistry struct {
	mu       sync.Mutex
	channels map[string]string
	err      error
	writes   int
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{channels: map[string]string{}}
}

func (r *fakeRegistry) RelayChannel(_ context.Context, guildID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.channels[guildID]
	if !ok {
		return "", db.ErrNotFound
	}
	return ch, nil
}

func (r *fakeRegistry) SetRelayChannel(_ context.Context, guildID, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	if r.err != nil {
		return errors.Join(db.ErrInternal, r.err)
	}
	r.channels[guildID] = channelID
	return nil
}

type published struct {
	Topic string
	Event any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *fakePublisher) Publish(_ context.Context, topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{topic, event})
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
