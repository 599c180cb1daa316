package db

import (
	"context"
	"encoding/json"

	"emperror.dev/errors"
	"github.com/jackc/pgx/v4"
	"github.com/starshine-sys/snitch/snitch"
)

var _ snitch.Store = (*DB)(nil)

// Groups returns all of the guild's notification groups.
func (db *DB) Groups(ctx context.Context, guildID snitch.ID) (map[string]snitch.Group, error) {
	var raw []byte
	err := db.QueryRow(ctx, "select groups from snitch_groups where guild_id = $1", int64(guildID)).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return map[string]snitch.Group{}, nil
		}
		return nil, errors.Wrap(err, "getting groups")
	}

	return unmarshalGroups(raw)
}

// UpdateGroups runs fn on the guild's groups in a transaction, with the guild's row locked.
// The groups are only saved if fn returns nil.
func (db *DB) UpdateGroups(ctx context.Context, guildID snitch.ID, fn func(map[string]snitch.Group) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx, "insert into snitch_groups (guild_id) values ($1) on conflict (guild_id) do nothing", int64(guildID))
	if err != nil {
		return errors.Wrap(err, "creating row")
	}

	var raw []byte
	err = tx.QueryRow(ctx, "select groups from snitch_groups where guild_id = $1 for update", int64(guildID)).Scan(&raw)
	if err != nil {
		return errors.Wrap(err, "getting groups")
	}

	groups, err := unmarshalGroups(raw)
	if err != nil {
		return err
	}

	if err = fn(groups); err != nil {
		return err
	}

	b, err := json.Marshal(groups)
	if err != nil {
		return errors.Wrap(err, "marshaling groups")
	}

	_, err = tx.Exec(ctx, "update snitch_groups set groups = $1 where guild_id = $2", b, int64(guildID))
	if err != nil {
		return errors.Wrap(err, "saving groups")
	}

	return errors.Wrap(tx.Commit(ctx), "committing transaction")
}

// ClearGroups deletes all of the guild's notification groups.
func (db *DB) ClearGroups(ctx context.Context, guildID snitch.ID) error {
	_, err := db.Exec(ctx, "delete from snitch_groups where guild_id = $1", int64(guildID))
	return errors.Wrap(err, "deleting groups")
}

func unmarshalGroups(raw []byte) (map[string]snitch.Group, error) {
	groups := map[string]snitch.Group{}
	if len(raw) == 0 {
		return groups, nil
	}

	err := json.Unmarshal(raw, &groups)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshaling groups")
	}

	// rows written by hand may be missing fields
	for name, g := range groups {
		groups[name] = g.Clone()
	}
	return groups, nil
}
