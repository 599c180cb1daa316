// Package store defines interfaces for the guild cache.
// Guilds, channels and roles are sent in guild create events and are cheap to keep in memory.
// Members have to be requested from Discord, so they can be kept in redis to survive restarts.
package store

import (
	"context"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
)

const ErrNotFound = errors.Sentinel("value not found in store")

type GuildStore interface {
	Guild(ctx context.Context, id discord.GuildID) (discord.Guild, error)
	Guilds(ctx context.Context) ([]discord.Guild, error)
	GuildSet(ctx context.Context, g discord.Guild) error
	GuildRemove(ctx context.Context, id discord.GuildID) error
}

type ChannelStore interface {
	Channel(ctx context.Context, channelID discord.ChannelID) (discord.Channel, error)
	Channels(ctx context.Context, guildID discord.GuildID) ([]discord.Channel, error)
	SetChannel(ctx context.Context, guildID discord.GuildID, ch discord.Channel) error
	SetChannels(ctx context.Context, guildID discord.GuildID, chs []discord.Channel) error
	RemoveChannel(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) error
	RemoveChannels(ctx context.Context, guildID discord.GuildID) error
}

type RoleStore interface {
	Role(ctx context.Context, guildID discord.GuildID, roleID discord.RoleID) (discord.Role, error)
	Roles(ctx context.Context, guildID discord.GuildID) ([]discord.Role, error)
	SetRole(ctx context.Context, guildID discord.GuildID, r discord.Role) error
	SetRoles(ctx context.Context, guildID discord.GuildID, rls []discord.Role) error
	RemoveRole(ctx context.Context, guildID discord.GuildID, roleID discord.RoleID) error
	RemoveRoles(ctx context.Context, guildID discord.GuildID) error
}

type MemberStore interface {
	// IsGuildCached returns true if the guild's full member list has been stored.
	IsGuildCached(ctx context.Context, guildID discord.GuildID) (bool, error)
	MarkGuildCached(ctx context.Context, guildID discord.GuildID) error

	Member(ctx context.Context, guildID discord.GuildID, userID discord.UserID) (discord.Member, error)
	Members(ctx context.Context, guildID discord.GuildID) ([]discord.Member, error)
	MemberExists(ctx context.Context, guildID discord.GuildID, userID discord.UserID) (bool, error)
	SetMember(ctx context.Context, guildID discord.GuildID, m discord.Member) error
	// This can easily just wrap SetMember, this function is separate for optimization reasons
	SetMembers(ctx context.Context, guildID discord.GuildID, ms []discord.Member) error
	RemoveMember(ctx context.Context, guildID discord.GuildID, userID discord.UserID) error
	// RemoveMembers removes all of the guild's members and unmarks it as cached.
	RemoveMembers(ctx context.Context, guildID discord.GuildID) error
}

// Cabinet combines all stores.
type Cabinet struct {
	GuildStore
	ChannelStore
	RoleStore
	MemberStore
}

// RemoveGuild removes a guild and everything belonging to it from all stores.
func (c Cabinet) RemoveGuild(ctx context.Context, guildID discord.GuildID) error {
	return errors.Combine(
		c.GuildRemove(ctx, guildID),
		c.RemoveChannels(ctx, guildID),
		c.RemoveRoles(ctx, guildID),
		c.RemoveMembers(ctx, guildID),
	)
}
