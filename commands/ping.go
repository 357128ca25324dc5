package commands

import (
	"context"
	"fmt"
	"time"

	"relaybot/discord"

	dgo "github.com/bwmarrin/discordgo"
)

type Ping struct {
	session discord.Session
	now     func() time.Time
}

func NewPing(s discord.Session, now ...func() time.Time) Ping {
	n := time.Now
	if len(now) > 0 && now[0] != nil {
		n = now[0]
	}
	return Ping{session: s, now: n}
}

func (Ping) Info() Info {
	return Info{Keyword: "ping", Description: "Check the bot latency", Exact: true}
}

func (c Ping) Handle(_ context.Context, m *dgo.Message) error {
	return c.session.Send(m.ChannelID, fmt.Sprintf(msgPing, Latency(c.now(), m.Timestamp)))
}

// Latency is the whole number of milliseconds between sent and now. Clock
// skew never yields a negative value.
func Latency(now, sent time.Time) int64 {
	ms := now.Sub(sent).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}
