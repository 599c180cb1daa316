package snitching

import (
	"context"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/snitch/bot"
	"github.com/starshine-sys/snitch/snitch"
	"github.com/starshine-sys/snitch/store"
)

// directory looks up notification targets in the guild cache.
type directory struct {
	cabinet store.Cabinet
}

var _ snitch.Directory = directory{}

func (d directory) Channel(ctx context.Context, guildID, channelID snitch.ID) (snitch.Channel, error) {
	ch, err := d.cabinet.Channel(ctx, discord.ChannelID(channelID))
	if err != nil {
		return snitch.Channel{}, errors.Wrapf(err, "getting channel %v", channelID)
	}

	if ch.GuildID != discord.GuildID(guildID) {
		return snitch.Channel{}, errors.Wrapf(store.ErrNotFound, "channel %v is not in guild %v", channelID, guildID)
	}

	return bot.SnitchChannel(ch), nil
}

func (d directory) Member(ctx context.Context, guildID, userID snitch.ID) (snitch.Member, error) {
	m, err := d.cabinet.Member(ctx, discord.GuildID(guildID), discord.UserID(userID))
	if err != nil {
		return snitch.Member{}, errors.Wrapf(err, "getting member %v", userID)
	}
	return bot.SnitchMember(m), nil
}

// RoleMembers returns the role's current members.
// The role must still exist, unless it's the @everyone role.
func (d directory) RoleMembers(ctx context.Context, guildID, roleID snitch.ID) ([]snitch.Member, error) {
	if roleID != guildID {
		_, err := d.cabinet.Role(ctx, discord.GuildID(guildID), discord.RoleID(roleID))
		if err != nil {
			return nil, errors.Wrapf(err, "getting role %v", roleID)
		}
	}

	ms, err := d.cabinet.Members(ctx, discord.GuildID(guildID))
	if err != nil {
		return nil, errors.Wrap(err, "getting members")
	}

	var out []snitch.Member
	for _, m := range ms {
		sm := bot.SnitchMember(m)
		if sm.HasRole(guildID, roleID) {
			out = append(out, sm)
		}
	}
	return out, nil
}
