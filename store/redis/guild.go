package redis

import (
	"context"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/mediocregopher/radix/v4"
)

const cachedGuildsKey = "snitch:cachedGuilds"

func (s *Store) IsGuildCached(ctx context.Context, guildID discord.GuildID) (bool, error) {
	var i int
	// SISMEMBER returns 1 if the guild is in the set, 0 otherwise
	err := s.client.Do(ctx, radix.Cmd(&i, "SISMEMBER", cachedGuildsKey, guildID.String()))
	if err != nil {
		return false, errors.Wrap(err, "checking cached guilds")
	}

	return i == 1, nil
}

func (s *Store) MarkGuildCached(ctx context.Context, guildID discord.GuildID) error {
	return errors.Wrap(
		s.client.Do(ctx, radix.Cmd(nil, "SADD", cachedGuildsKey, guildID.String())),
		"marking guild cached",
	)
}
