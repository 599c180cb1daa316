package cache

import (
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/starshine-sys/snitch/common/log"
)

func (bot *Bot) channelCreate(ev *gateway.ChannelCreateEvent) {
	if !ev.GuildID.IsValid() {
		return
	}

	ctx, cancel := bot.Timeout(0)
	defer cancel()

	err := bot.Cabinet.SetChannel(ctx, ev.GuildID, ev.Channel)
	if err != nil {
		log.Errorf("setting channel %v in guild %v: %v", ev.ID, ev.GuildID, err)
	}
}

func (bot *Bot) channelUpdate(ev *gateway.ChannelUpdateEvent) {
	if !ev.GuildID.IsValid() {
		return
	}

	ctx, cancel := bot.Timeout(0)
	defer cancel()

	err := bot.Cabinet.SetChannel(ctx, ev.GuildID, ev.Channel)
	if err != nil {
		log.Errorf("updating channel %v in guild %v: %v", ev.ID, ev.GuildID, err)
	}
}

func (bot *Bot) channelDelete(ev *gateway.ChannelDeleteEvent) {
	if !ev.GuildID.IsValid() {
		return
	}

	ctx, cancel := bot.Timeout(0)
	defer cancel()

	err := bot.Cabinet.RemoveChannel(ctx, ev.GuildID, ev.ID)
	if err != nil {
		log.Errorf("removing channel %v in guild %v: %v", ev.ID, ev.GuildID, err)
	}
}
