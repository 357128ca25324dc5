package errors

import (
	"bytes"
	e "errors"
	"log/slog"
	"testing"

	dgo "github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = e.New("sentinel")

func TestJoinSkipsNilErrors(t *testing.T) {
	everr := NewMessageErr(&dgo.Message{ID: "M1"}, slog.Default())
	assert.Nil(t, everr.Join())
	assert.Nil(t, everr.Join(nil, nil))
}

func TestMessageErr(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	m := &dgo.Message{ID: "M1", GuildID: "G1", ChannelID: "C1", Author: &dgo.User{ID: "U1"}}
	everr := NewMessageErr(m, log).Join(e.New("Failed to relay message"), nil, errSentinel)
	require.NotNil(t, everr)

	assert.ErrorIs(t, everr, errSentinel)
	assert.Equal(t, "MESSAGECREATE", everr.Event())
	assert.Equal(t, map[string]any{
		"GuildID": "G1", "ChannelID": "C1", "MessageID": "M1", "AuthorID": "U1",
	}, everr.Data())
	assert.Equal(t,
		"MESSAGECREATE-ERRO: AuthorID=U1 ChannelID=C1 GuildID=G1 MessageID=M1\nFailed to relay message\nsentinel",
		everr.Error(),
	)

	everr.Log()
	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, `msg="Failed to relay message"`)
	assert.Contains(t, out, "err=sentinel")
	assert.Contains(t, out, "GuildID=G1")
	assert.Contains(t, out, "event=MESSAGECREATE")
}

func TestJoinCopiesData(t *testing.T) {
	base := NewGuildErr[*dgo.GuildCreate]("G1", slog.Default())
	joined := base.Join(errSentinel)
	joined.AddData("Extra", 1)

	assert.NotContains(t, base.Data(), "Extra")
	assert.Equal(t, 1, joined.Data()["Extra"])
	assert.Equal(t, "GUILDCREATE", joined.Event())
}

func TestReadyErr(t *testing.T) {
	everr := NewReadyErr(&dgo.Ready{
		SessionID: "S1",
		User:      &dgo.User{ID: "BOT"},
		Guilds:    []*dgo.Guild{{ID: "G1"}, {ID: "G2"}},
	}, slog.Default())

	assert.Equal(t, "READY", everr.Event())
	assert.Equal(t, 2, everr.Data()["Guilds"])
	assert.Equal(t, "BOT", everr.Data()["UserID"])
}
