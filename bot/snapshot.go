package bot

import (
	"context"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/snitch/common"
	"github.com/starshine-sys/snitch/snitch"
	"github.com/starshine-sys/snitch/store"
)

// Snapshot returns the cached state of a guild.
// Roles are in the order they're cached in, channels in the order shown in the client.
func (bot *Bot) Snapshot(ctx context.Context, guildID discord.GuildID) (*snitch.Guild, error) {
	g, err := bot.Cabinet.Guild(ctx, guildID)
	if err != nil {
		return nil, errors.Wrap(err, "getting guild")
	}

	roles, err := bot.Cabinet.Roles(ctx, guildID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, errors.Wrap(err, "getting roles")
	}

	channels, err := bot.Cabinet.Channels(ctx, guildID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, errors.Wrap(err, "getting channels")
	}

	members, err := bot.Cabinet.Members(ctx, guildID)
	if err != nil {
		return nil, errors.Wrap(err, "getting members")
	}

	sg := &snitch.Guild{
		ID:       snitch.ID(g.ID),
		Name:     g.Name,
		OwnerID:  snitch.ID(g.OwnerID),
		Roles:    make([]snitch.Role, 0, len(roles)),
		Members:  make([]snitch.Member, 0, len(members)),
		Channels: make([]snitch.Channel, 0, len(channels)),
	}

	for _, r := range roles {
		sg.Roles = append(sg.Roles, snitch.Role{ID: snitch.ID(r.ID), Name: r.Name})
	}
	for _, m := range members {
		sg.Members = append(sg.Members, SnitchMember(m))
	}
	for _, ch := range common.SortChannels(channels) {
		sg.Channels = append(sg.Channels, SnitchChannel(ch))
	}

	return sg, nil
}

// SnitchMember converts a member.
func SnitchMember(m discord.Member) snitch.Member {
	sm := snitch.Member{
		ID:       snitch.ID(m.User.ID),
		Username: m.User.Username,
		Nickname: m.Nick,
		Bot:      m.User.Bot,
		RoleIDs:  make([]snitch.ID, 0, len(m.RoleIDs)),
	}
	for _, id := range m.RoleIDs {
		sm.RoleIDs = append(sm.RoleIDs, snitch.ID(id))
	}
	return sm
}

// SnitchChannel converts a channel.
func SnitchChannel(ch discord.Channel) snitch.Channel {
	return snitch.Channel{
		ID:   snitch.ID(ch.ID),
		Name: ch.Name,
		Text: IsTextChannel(ch),
	}
}

// IsTextChannel returns true if messages can be sent in the channel.
func IsTextChannel(ch discord.Channel) bool {
	return ch.Type == discord.GuildText || ch.Type == discord.GuildNews || common.IsThread(ch)
}
