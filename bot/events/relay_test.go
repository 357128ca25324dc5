package events

import (
	"context"
	e "errors"
	"testing"

	"relaybot/bus"
	"relaybot/db"
	"relaybot/discord"
	"relaybot/translator"

	dgo "github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guildMessage(channelID, content string) *dgo.Message {
	return &dgo.Message{
		ID:        "M1",
		GuildID:   "G1",
		ChannelID: channelID,
		Content:   content,
		Author:    &dgo.User{ID: "U1", Username: "alice"},
	}
}

func TestRelayGating(t *testing.T) {
	tests := []struct {
		name     string
		channels map[string]string
		message  *dgo.Message
	}{
		{name: "guild without relay channel", channels: map[string]string{}, message: guildMessage("C1", "hello")},
		{name: "message outside relay channel", channels: map[string]string{"G1": "C2"}, message: guildMessage("C1", "hello")},
		{name: "empty content", channels: map[string]string{"G1": "C1"}, message: guildMessage("C1", "  ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFakeSession()
			tr := &fakeTranslator{out: "مرحبا"}
			r := NewRelay(discardLogger(), &fakeRegistry{channels: tt.channels}, tr, s, translator.AR, nil)

			require.NoError(t, r.Serve(context.Background(), tt.message))
			assert.Zero(t, tr.calls, "translator is never called")
			assert.Empty(t, s.embeds)
		})
	}
}

func TestRelayTranslatesInRelayChannel(t *testing.T) {
	s := newFakeSession()
	tr := &fakeTranslator{out: "مرحبا"}
	pub := &fakePublisher{}
	r := NewRelay(discardLogger(), &fakeRegistry{channels: map[string]string{"G1": "C1"}}, tr, s, translator.AR, pub)

	require.NoError(t, r.Serve(context.Background(), guildMessage("C1", "hello")))

	assert.Equal(t, 1, tr.calls)
	assert.Equal(t, translator.Auto, tr.from)
	assert.Equal(t, translator.AR, tr.to)

	require.Len(t, s.embeds["C1"], 1)
	embed := s.embeds["C1"][0]
	assert.Equal(t, discord.RelayTitle, embed.Title)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "Message :", embed.Fields[0].Name)
	assert.Equal(t, "hello", embed.Fields[0].Value)
	assert.Equal(t, "Translated (Arabic) :", embed.Fields[1].Name)
	assert.Equal(t, "مرحبا", embed.Fields[1].Value)
	assert.Equal(t, "Message by alice", embed.Footer.Text)

	require.Equal(t, []string{bus.TopicMessageTranslated}, pub.topics)
	ev := pub.events[0].(bus.MessageTranslated)
	assert.False(t, ev.Fallback)
	assert.Equal(t, "ar", ev.Target)
}

func TestRelayTranslationFallback(t *testing.T) {
	s := newFakeSession()
	tr := &fakeTranslator{err: e.Join(translator.ErrTranslation, e.New("service unavailable"))}
	pub := &fakePublisher{}
	r := NewRelay(discardLogger(), &fakeRegistry{channels: map[string]string{"G1": "C1"}}, tr, s, translator.AR, pub)

	require.NoError(t, r.Serve(context.Background(), guildMessage("C1", "hello")))

	require.Len(t, s.embeds["C1"], 1)
	fields := s.embeds["C1"][0].Fields
	assert.Equal(t, "hello", fields[0].Value)
	assert.Equal(t, "Error occurred while translating the message.", fields[1].Value)
	assert.True(t, pub.events[0].(bus.MessageTranslated).Fallback)
}

func TestRelayRegistryFault(t *testing.T) {
	s := newFakeSession()
	tr := &fakeTranslator{}
	r := NewRelay(discardLogger(), &fakeRegistry{err: e.New("connection reset")}, tr, s, translator.AR, nil)

	err := r.Serve(context.Background(), guildMessage("C1", "hello"))
	require.ErrorIs(t, err, db.ErrInternal)
	assert.Zero(t, tr.calls)
	assert.Empty(t, s.embeds)
}

func TestRelayPresentationFault(t *testing.T) {
	s := newFakeSession()
	s.err = e.Join(discord.ErrPresentation, e.New("missing permissions"))
	r := NewRelay(discardLogger(), &fakeRegistry{channels: map[string]string{"G1": "C1"}}, &fakeTranslator{out: "x"}, s, translator.AR, nil)

	err := r.Serve(context.Background(), guildMessage("C1", "hello"))
	require.ErrorIs(t, err, discord.ErrPresentation)
}
