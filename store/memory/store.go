// Package memory provides an in-memory store.
package memory

import (
	"sync"

	"github.com/diamondburned/arikawa/v3/discord"
)

type Store struct {
	guilds   map[discord.GuildID]*discord.Guild
	guildsMu sync.RWMutex

	channels      map[discord.ChannelID]*discord.Channel
	guildChannels map[discord.GuildID][]discord.ChannelID
	channelsMu    sync.RWMutex

	roles      map[discord.RoleID]*discord.Role
	guildRoles map[discord.GuildID][]discord.RoleID
	rolesMu    sync.RWMutex

	members       map[discord.GuildID]map[discord.UserID]discord.Member
	cachedMembers map[discord.GuildID]struct{}
	membersMu     sync.RWMutex
}

func New() *Store {
	return &Store{
		guilds:        make(map[discord.GuildID]*discord.Guild),
		channels:      make(map[discord.ChannelID]*discord.Channel),
		guildChannels: make(map[discord.GuildID][]discord.ChannelID),
		roles:         make(map[discord.RoleID]*discord.Role),
		guildRoles:    make(map[discord.GuildID][]discord.RoleID),
		members:       make(map[discord.GuildID]map[discord.UserID]discord.Member),
		cachedMembers: make(map[discord.GuildID]struct{}),
	}
}

// remove removes the given value in slice.
func remove[T comparable](slice []T, val T) []T {
	for i := range slice {
		if slice[i] == val {
			return append(slice[:i:i], slice[i+1:]...)
		}
	}
	return slice
}

// contains returns true if slice contains val.
func contains[T comparable](slice []T, val T) bool {
	for i := range slice {
		if slice[i] == val {
			return true
		}
	}
	return false
}
