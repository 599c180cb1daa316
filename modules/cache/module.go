// Package cache contains handlers that are *only* used for caching.
// These keep the bot's Cabinet up to date for the other modules.
package cache

import (
	"sync"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session/shard"
	"github.com/diamondburned/arikawa/v3/state"
	"github.com/starshine-sys/snitch/bot"
	"github.com/starshine-sys/snitch/common/log"
)

type Bot struct {
	*bot.Bot

	guildsMu             sync.Mutex
	guildsToFetchMembers map[int]map[discord.GuildID]struct{}
}

func Setup(root *bot.Bot) {
	log.Debug("Adding cache handlers")

	bot := &Bot{
		Bot:                  root,
		guildsToFetchMembers: make(map[int]map[discord.GuildID]struct{}),
	}

	bot.AddHandler(
		// Cache guild, and add the guild to the member fetch queue if needed
		bot.guildCreate,
		bot.guildUpdate,
		bot.guildDelete,

		bot.channelCreate,
		bot.channelUpdate,
		bot.channelDelete,

		bot.roleCreate,
		bot.roleUpdate,
		bot.roleDelete,

		bot.guildMemberAdd,
		bot.guildMemberUpdate,
		bot.guildMemberRemove,
		// Cache guild members when they're received
		bot.guildMembersChunk,
	)

	// set up fetch loop
	bot.ShardManager.ForEach(func(shard shard.Shard) {
		s := shard.(*state.State)

		var o sync.Once
		s.AddHandler(func(*gateway.ReadyEvent) {
			o.Do(func() {
				go bot.fetchLoop(s)
			})
		})
	})
}
