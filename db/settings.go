package db

import (
	"context"

	"emperror.dev/errors"
	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgx/v4"
)

// GuildSettings are a guild's bot settings.
type GuildSettings struct {
	GuildID int64 `db:"guild_id"`

	// Prefixes overrides the default prefixes if not empty.
	Prefixes        []string `db:"prefixes"`
	DisabledModules []string `db:"disabled_modules"`

	ImmuneUsers []int64 `db:"immune_users"`
	ImmuneRoles []int64 `db:"immune_roles"`
}

// ModuleDisabled returns true if the given module is disabled.
func (s GuildSettings) ModuleDisabled(module string) bool {
	for _, m := range s.DisabledModules {
		if m == module {
			return true
		}
	}
	return false
}

// Settings returns the settings for the given guild.
// Guilds with no saved settings get the defaults.
func (db *DB) Settings(ctx context.Context, guildID uint64) (s GuildSettings, err error) {
	sql, args, err := sq.Select("*").From("guild_settings").Where("guild_id = ?", int64(guildID)).ToSql()
	if err != nil {
		return s, errors.Wrap(err, "building sql")
	}

	err = pgxscan.Get(ctx, db, &s, sql, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return GuildSettings{GuildID: int64(guildID)}, nil
		}
		return s, errors.Wrap(err, "getting settings")
	}
	return s, nil
}

// SetPrefixes sets the guild's prefixes. An empty slice resets them to the default.
func (db *DB) SetPrefixes(ctx context.Context, guildID uint64, prefixes []string) error {
	if prefixes == nil {
		prefixes = []string{}
	}

	return db.upsert(ctx, guildID, "prefixes", prefixes, "prefixes = excluded.prefixes")
}

// SetModuleDisabled disables or enables a module in the guild.
func (db *DB) SetModuleDisabled(ctx context.Context, guildID uint64, module string, disabled bool) error {
	if disabled {
		return db.upsert(ctx, guildID,
			"disabled_modules", squirrel.Expr("array[?::text]", module),
			squirrel.Expr("disabled_modules = array_append(array_remove(guild_settings.disabled_modules, ?::text), ?::text)", module, module),
		)
	}

	return db.upsert(ctx, guildID,
		"disabled_modules", []string{},
		squirrel.Expr("disabled_modules = array_remove(guild_settings.disabled_modules, ?::text)", module),
	)
}

// Immune list kinds
const (
	ImmuneUsers = "immune_users"
	ImmuneRoles = "immune_roles"
)

// AddImmune adds an ID to one of the guild's immunity lists.
func (db *DB) AddImmune(ctx context.Context, guildID uint64, list string, id uint64) error {
	if list != ImmuneUsers && list != ImmuneRoles {
		return errors.Errorf("unknown immunity list %q", list)
	}

	return db.upsert(ctx, guildID,
		list, squirrel.Expr("array[?::bigint]", int64(id)),
		squirrel.Expr(list+" = array_append(array_remove(guild_settings."+list+", ?::bigint), ?::bigint)", int64(id), int64(id)),
	)
}

// RemoveImmune removes an ID from one of the guild's immunity lists.
func (db *DB) RemoveImmune(ctx context.Context, guildID uint64, list string, id uint64) error {
	if list != ImmuneUsers && list != ImmuneRoles {
		return errors.Errorf("unknown immunity list %q", list)
	}

	return db.upsert(ctx, guildID,
		list, []int64{},
		squirrel.Expr(list+" = array_remove(guild_settings."+list+", ?::bigint)", int64(id)),
	)
}

// upsert inserts a settings row with column set to value, or runs update on the existing row.
// update is either a string or a squirrel.Sqlizer.
func (db *DB) upsert(ctx context.Context, guildID uint64, column string, value any, update any) error {
	var (
		updateSQL  string
		updateArgs []any
		err        error
	)

	switch u := update.(type) {
	case string:
		updateSQL = u
	case squirrel.Sqlizer:
		updateSQL, updateArgs, err = u.ToSql()
		if err != nil {
			return errors.Wrap(err, "building update")
		}
	default:
		return errors.Errorf("invalid update type %T", update)
	}

	sql, args, err := sq.Insert("guild_settings").
		Columns("guild_id", column).
		Values(int64(guildID), value).
		Suffix("ON CONFLICT (guild_id) DO UPDATE SET "+updateSQL, updateArgs...).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building sql")
	}

	_, err = db.Exec(ctx, sql, args...)
	if err != nil {
		return errors.Wrap(err, "executing query")
	}
	return nil
}
