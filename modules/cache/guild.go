package cache

import (
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/starshine-sys/snitch/common/log"
)

func (bot *Bot) guildCreate(ev *gateway.GuildCreateEvent) {
	ctx, cancel := bot.Timeout(0)
	defer cancel()

	err := bot.Cabinet.GuildSet(ctx, ev.Guild)
	if err != nil {
		log.Errorf("setting guild %v: %v", ev.ID, err)
		return
	}

	err = bot.Cabinet.SetRoles(ctx, ev.ID, ev.Roles)
	if err != nil {
		log.Errorf("setting roles for %v: %v", ev.ID, err)
		return
	}

	err = bot.Cabinet.SetChannels(ctx, ev.ID, append(ev.Channels, ev.Threads...))
	if err != nil {
		log.Errorf("setting channels for %v: %v", ev.ID, err)
		return
	}

	// guild create includes the members in voice channels and the bot itself
	err = bot.Cabinet.SetMembers(ctx, ev.ID, ev.Members)
	if err != nil {
		log.Errorf("setting initial members for %v: %v", ev.ID, err)
	}

	isCached, err := bot.Cabinet.IsGuildCached(ctx, ev.ID)
	if err != nil {
		log.Errorf("checking if guild %v is cached: %v", ev.ID, err)
		return
	}

	if isCached {
		return
	}

	_, shardID := bot.StateFromGuildID(ev.ID)

	bot.guildsMu.Lock()
	defer bot.guildsMu.Unlock()

	bot.addToMemberFetchQueue(shardID, ev.ID)
}

func (bot *Bot) guildUpdate(ev *gateway.GuildUpdateEvent) {
	ctx, cancel := bot.Timeout(0)
	defer cancel()

	err := bot.Cabinet.GuildSet(ctx, ev.Guild)
	if err != nil {
		log.Errorf("updating guild %v: %v", ev.ID, err)
	}
}

func (bot *Bot) guildDelete(ev *gateway.GuildDeleteEvent) {
	// an outage, the guild will be sent again when it's available
	if ev.Unavailable {
		log.Debugf("guild %v is unavailable", ev.ID)
		return
	}

	ctx, cancel := bot.Timeout(0)
	defer cancel()

	err := bot.Cabinet.RemoveGuild(ctx, ev.ID)
	if err != nil {
		log.Errorf("removing guild %v from cache: %v", ev.ID, err)
	}
}

func (bot *Bot) addToMemberFetchQueue(shardID int, guildID discord.GuildID) {
	if bot.guildsToFetchMembers[shardID] == nil {
		bot.guildsToFetchMembers[shardID] = make(map[discord.GuildID]struct{})
	}
	bot.guildsToFetchMembers[shardID][guildID] = struct{}{}
}
