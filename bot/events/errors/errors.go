// Package errors carries the failures of gateway event handlers together
// with the event data needed to log and report them.
package errors

import (
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"strings"

	dgo "github.com/bwmarrin/discordgo"
)

type EventErr interface {
	error
	Event() string
	Data() map[string]any
	AddData(key string, v any)
	Join(errs ...error) EventErr
	Log()
	Unwrap() []error
}

type defaultEventErr[E any] struct {
	data   map[string]any
	logger *slog.Logger
	errs   []error
}

// Join returns a copy of d wrapping the non-nil errs, or nil when there
// are none.
func (d *defaultEventErr[E]) Join(errs ...error) EventErr {
	errs = slices.DeleteFunc(slices.Clone(errs), func(err error) bool { return err == nil })
	if len(errs) == 0 {
		return nil
	}
	return &defaultEventErr[E]{
		data:   maps.Clone(d.data),
		logger: d.logger,
		errs:   append(slices.Clone(d.errs), errs...),
	}
}

func (d *defaultEventErr[E]) Error() string {
	var s strings.Builder
	s.WriteString(d.Event())
	s.WriteString("-ERRO:")
	for _, k := range slices.Sorted(maps.Keys(d.data)) {
		s.WriteString(" ")
		s.WriteString(slog.Any(k, d.data[k]).String())
	}
	for _, err := range d.errs {
		s.WriteString("\n")
		s.WriteString(err.Error())
	}
	return s.String()
}

// Event is the upper-cased name of the event type, e.g. MESSAGECREATE.
func (d *defaultEventErr[E]) Event() string {
	var e E
	t := reflect.TypeOf(e)
	if t == nil {
		return "EVENT"
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return strings.ToUpper(t.Name())
}

func (d *defaultEventErr[E]) Data() map[string]any {
	return maps.Clone(d.data)
}

func (d *defaultEventErr[E]) AddData(key string, v any) {
	d.data[key] = v
}

func (d *defaultEventErr[E]) Log() {
	args := make([]any, 0, len(d.data)+1)
	for _, k := range slices.Sorted(maps.Keys(d.data)) {
		args = append(args, slog.Any(k, d.data[k]))
	}
	args = append(args, slog.String("event", d.Event()))

	msg := "Event handler failed"
	if len(d.errs) > 0 {
		msg = d.errs[0].Error()
	}
	if len(d.errs) > 1 {
		causes := make([]string, 0, len(d.errs)-1)
		for _, err := range d.errs[1:] {
			causes = append(causes, err.Error())
		}
		args = append(args, slog.String("err", strings.Join(causes, "; ")))
	}

	d.logger.Error(msg, args...)
}

func (d *defaultEventErr[E]) Unwrap() []error {
	return d.errs
}

type MessageErr struct {
	*defaultEventErr[*dgo.MessageCreate]
}

func NewMessageErr(m *dgo.Message, log *slog.Logger) MessageErr {
	data := map[string]any{
		"GuildID":   m.GuildID,
		"ChannelID": m.ChannelID,
		"MessageID": m.ID,
	}
	if m.Author != nil {
		data["AuthorID"] = m.Author.ID
	}
	return MessageErr{&defaultEventErr[*dgo.MessageCreate]{data: data, logger: log}}
}

type GuildErr[E any] struct {
	*defaultEventErr[E]
}

func NewGuildErr[E any](guildID string, log *slog.Logger) GuildErr[E] {
	return GuildErr[E]{&defaultEventErr[E]{
		data:   map[string]any{"GuildID": guildID},
		logger: log,
	}}
}

type ReadyErr struct {
	*defaultEventErr[*dgo.Ready]
}

func NewReadyErr(ev *dgo.Ready, log *slog.Logger) ReadyErr {
	data := map[string]any{
		"SessionID": ev.SessionID,
		"Guilds":    len(ev.Guilds),
	}
	if ev.User != nil {
		data["UserID"] = ev.User.ID
	}
	return ReadyErr{&defaultEventErr[*dgo.Ready]{data: data, logger: log}}
}

