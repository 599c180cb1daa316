package snitching

import (
	"context"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/snitch/bot"
	"github.com/starshine-sys/snitch/snitch"
)

// host answers the router's questions from the guild's settings.
type host struct {
	bot *bot.Bot
}

var _ snitch.Host = host{}

func (h host) ModuleEnabled(ctx context.Context, guildID snitch.ID, module string) (bool, error) {
	return h.bot.ModuleEnabled(ctx, discord.GuildID(guildID), module)
}

func (h host) Prefixes(ctx context.Context, guildID snitch.ID) ([]string, error) {
	return h.bot.Prefixes(ctx, discord.GuildID(guildID))
}

func (h host) AutomodImmune(ctx context.Context, msg snitch.Message) (bool, error) {
	roles := make([]discord.RoleID, 0, len(msg.Author.RoleIDs))
	for _, id := range msg.Author.RoleIDs {
		roles = append(roles, discord.RoleID(id))
	}

	return h.bot.AutomodImmune(ctx, discord.GuildID(msg.GuildID), discord.UserID(msg.Author.ID), roles)
}
