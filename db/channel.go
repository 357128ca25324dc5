package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const channelsCreate = `
CREATE TABLE IF NOT EXISTS channels (
	guild_id   text NOT NULL PRIMARY KEY,
	channel_id text NOT NULL
);
`

const getRelayChannel = `
SELECT channel_id FROM channels
	WHERE guild_id = $1;
`

func (q *Queries) RelayChannel(ctx context.Context, guildID string) (string, error) {
	var channelID string

	err := q.queryRow(ctx, getRelayChannel, guildID).Scan(&channelID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errors.Join(ErrNotFound, fmt.Errorf("No relay channel for guild %s", guildID))
	} else if err != nil {
		return "", errors.Join(ErrInternal, err)
	}

	return channelID, nil
}

// The conflict clause is understood by both SQLite and PostgreSQL, so a
// single statement replaces the previous channel atomically.
const setRelayChannel = `
INSERT INTO channels (guild_id, channel_id)
	VALUES ($1, $2)
	ON CONFLICT (guild_id) DO UPDATE SET channel_id = excluded.channel_id;
`

func (q *Queries) SetRelayChannel(ctx context.Context, guildID, channelID string) error {
	if guildID == "" || channelID == "" {
		return ErrEmptyArguments
	}

	if _, err := q.exec(ctx, setRelayChannel, guildID, channelID); err != nil {
		return errors.Join(ErrInternal, err)
	}

	return nil
}

const listRelayChannels = `
SELECT guild_id, channel_id FROM channels
	ORDER BY guild_id;
`

func (q *Queries) List(ctx context.Context) ([]RelayConfig, error) {
	rows, err := q.query(ctx, listRelayChannels)
	if err != nil {
		return []RelayConfig{}, errors.Join(ErrInternal, err)
	}
	defer rows.Close()

	cs := []RelayConfig{}

	for rows.Next() {
		var c RelayConfig

		if err := rows.Scan(&c.GuildID, &c.ChannelID); err != nil {
			return cs, errors.Join(ErrInternal, err)
		}

		cs = append(cs, c)
	}

	if err := rows.Err(); err != nil {
		return cs, errors.Join(ErrInternal, err)
	}

	return cs, nil
}
