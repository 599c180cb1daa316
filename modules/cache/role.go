package cache

import (
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/starshine-sys/snitch/common/log"
)

func (bot *Bot) roleCreate(ev *gateway.GuildRoleCreateEvent) {
	ctx, cancel := bot.Timeout(0)
	defer cancel()

	err := bot.Cabinet.SetRole(ctx, ev.GuildID, ev.Role)
	if err != nil {
		log.Errorf("setting role %v in guild %v: %v", ev.Role.ID, ev.GuildID, err)
	}
}

func (bot *Bot) roleUpdate(ev *gateway.GuildRoleUpdateEvent) {
	ctx, cancel := bot.Timeout(0)
	defer cancel()

	err := bot.Cabinet.SetRole(ctx, ev.GuildID, ev.Role)
	if err != nil {
		log.Errorf("updating role %v in guild %v: %v", ev.Role.ID, ev.GuildID, err)
	}
}

func (bot *Bot) roleDelete(ev *gateway.GuildRoleDeleteEvent) {
	ctx, cancel := bot.Timeout(0)
	defer cancel()

	err := bot.Cabinet.RemoveRole(ctx, ev.GuildID, ev.RoleID)
	if err != nil {
		log.Errorf("removing role %v in guild %v: %v", ev.RoleID, ev.GuildID, err)
	}
}
