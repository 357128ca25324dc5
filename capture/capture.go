// Package capture holds the pending single-message waits opened by
// interactive commands. The message ingestion path offers every incoming
// message to Waiters before dispatching it.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	dgo "github.com/bwmarrin/discordgo"
	"github.com/gofrs/uuid/v5"
)

var ErrTimeout = errors.New("No message captured before the deadline")

type Key struct {
	GuildID   string
	UserID    string
	ChannelID string
}

func KeyOf(m *dgo.Message) Key {
	k := Key{GuildID: m.GuildID, ChannelID: m.ChannelID}
	if m.Author != nil {
		k.UserID = m.Author.ID
	}
	return k
}

type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Pending is one in-flight wait. msg receives at most one value and is
// closed instead when the wait is dropped as expired.
type Pending struct {
	ID       uuid.UUID
	Key      Key
	Deadline time.Time
	msg      chan *dgo.Message
}

type Waiters struct {
	mu      sync.Mutex
	pending map[Key][]*Pending
	clock   Clock
	log     *slog.Logger
}

func New(log *slog.Logger, clock ...Clock) *Waiters {
	var c Clock
	if len(clock) > 0 && clock[0] != nil {
		c = clock[0]
	} else {
		c = systemClock{}
	}

	return &Waiters{
		pending: make(map[Key][]*Pending),
		clock:   c,
		log:     log,
	}
}

// Await blocks until a message matching key is offered, the timeout elapses
// or ctx is done. Waits on the same key are served in registration order.
func (w *Waiters) Await(ctx context.Context, key Key, timeout time.Duration) (*dgo.Message, error) {
	p := &Pending{
		ID:       uuid.Must(uuid.NewV4()),
		Key:      key,
		Deadline: w.clock.Now().Add(timeout),
		msg:      make(chan *dgo.Message, 1),
	}

	w.mu.Lock()
	w.pending[key] = append(w.pending[key], p)
	w.mu.Unlock()

	w.log.Debug("Waiting for message",
		slog.String("waiter", p.ID.String()),
		slog.String("guild", key.GuildID),
		slog.String("channel", key.ChannelID),
		slog.String("user", key.UserID),
		slog.Time("deadline", p.Deadline),
	)

	var cause error
	select {
	case m, ok := <-p.msg:
		if ok {
			return m, nil
		}
		cause = fmt.Errorf("Waiter %s expired", p.ID)
	case <-w.clock.After(timeout):
		cause = fmt.Errorf("Waiter %s timed out after %s", p.ID, timeout)
	case <-ctx.Done():
		cause = ctx.Err()
	}

	if !w.remove(p) {
		// Offer already took the waiter, so msg holds a value or is closed.
		if m, ok := <-p.msg; ok {
			return m, nil
		}
	}

	w.log.Debug("Stopped waiting for message",
		slog.String("waiter", p.ID.String()),
		slog.String("reason", cause.Error()),
	)
	return nil, errors.Join(ErrTimeout, cause)
}

// Offer hands m to the oldest live waiter of its key and reports whether it
// was consumed.
func (w *Waiters) Offer(m *dgo.Message) bool {
	key := KeyOf(m)
	now := w.clock.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	for {
		ps := w.pending[key]
		if len(ps) == 0 {
			delete(w.pending, key)
			return false
		}

		p := ps[0]
		if len(ps) == 1 {
			delete(w.pending, key)
		} else {
			w.pending[key] = ps[1:]
		}

		if now.After(p.Deadline) {
			close(p.msg)
			continue
		}

		p.msg <- m
		return true
	}
}

// Len returns the number of open waits.
func (w *Waiters) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := 0
	for _, ps := range w.pending {
		n += len(ps)
	}
	return n
}

func (w *Waiters) remove(p *Pending) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	ps := w.pending[p.Key]
	for i, v := range ps {
		if v != p {
			continue
		}
		ps = append(ps[:i:i], ps[i+1:]...)
		if len(ps) == 0 {
			delete(w.pending, p.Key)
		} else {
			w.pending[p.Key] = ps
		}
		return true
	}
	return false
}
