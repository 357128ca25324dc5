package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/tursodatabase/go-libsql"
)

var (
	ErrNotFound       = errors.New("Not found in the database")
	ErrInternal       = errors.New("Internal error while trying to use database")
	ErrUnknownDriver  = errors.New("Unknown database driver")
	ErrEmptyArguments = errors.New("Guild and channel IDs must not be empty")
)

// Drivers accepted by Open. Both understand the same channels schema and upsert.
const (
	DriverLibSQL   = "libsql"
	DriverPostgres = "postgres"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Registry is the durable guild to relay channel mapping.
type Registry interface {
	// RelayChannel returns the relay channel of the guild, or ErrNotFound.
	RelayChannel(ctx context.Context, guildID string) (string, error)
	// SetRelayChannel inserts or replaces the relay channel of the guild.
	SetRelayChannel(ctx context.Context, guildID, channelID string) error
}

type RelayConfig struct {
	GuildID   string
	ChannelID string
}

// Lister is implemented by registries able to enumerate every configured guild.
type Lister interface {
	List(ctx context.Context) ([]RelayConfig, error)
}

type Queries struct {
	db DBTX
}

var (
	_ Registry = (*Queries)(nil)
	_ Lister   = (*Queries)(nil)
)

func New(db DBTX) *Queries {
	return &Queries{db}
}

func Open(driver, url string) (*sql.DB, error) {
	switch driver {
	case DriverLibSQL, DriverPostgres:
	default:
		return nil, errors.Join(ErrUnknownDriver, fmt.Errorf("driver %q", driver))
	}

	db, err := sql.Open(driver, url)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return db, nil
}

func Prepare(ctx context.Context, db DBTX) (*Queries, error) {
	q := New(db)

	if _, err := q.exec(ctx, channelsCreate); err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	return q, nil
}

func (q *Queries) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return q.db.ExecContext(ctx, query, args...)
}

func (q *Queries) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return q.db.QueryContext(ctx, query, args...)
}

func (q *Queries) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return q.db.QueryRowContext(ctx, query, args...)
}
