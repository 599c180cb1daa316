// Package admin contains the bot's own configuration commands.
package admin

import (
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/snitch/bot"
	"github.com/starshine-sys/snitch/common/log"
	"github.com/starshine-sys/snitch/modules/recorder"
	"github.com/starshine-sys/snitch/snitch"
)

// Modules are the modules that can be disabled per guild.
var Modules = []string{snitch.ModuleName, recorder.ModuleName}

type Bot struct {
	*bot.Bot
}

func Setup(root *bot.Bot) {
	log.Debug("Adding admin commands")

	bot := &Bot{Bot: root}

	bot.AddCommand(&bcr.Command{
		Name:    "help",
		Summary: "Show a list of commands, or information about a command.",
		Usage:   "[command]",

		Command: bot.help,
	})

	p := bot.AddCommand(&bcr.Command{
		Name:      "prefix",
		Summary:   "Show this server's prefixes.",
		GuildOnly: true,

		Command: bot.prefix,
	})

	p.AddSubcommand(&bcr.Command{
		Name:      "set",
		Summary:   "Set this server's prefixes.",
		Usage:     "<prefixes...>",
		Args:      bcr.MinArgs(1),
		GuildOnly: true,

		Permissions: discord.PermissionManageGuild,
		Command:     bot.setPrefix,
	})

	p.AddSubcommand(&bcr.Command{
		Name:      "reset",
		Summary:   "Reset this server's prefixes to the default.",
		GuildOnly: true,

		Permissions: discord.PermissionManageGuild,
		Command:     bot.resetPrefix,
	})

	m := bot.AddCommand(&bcr.Command{
		Name:      "module",
		Aliases:   []string{"modules"},
		Summary:   "List modules and whether they're enabled in this server.",
		GuildOnly: true,

		Permissions: discord.PermissionManageGuild,
		Command:     bot.listModules,
	})

	m.AddSubcommand(&bcr.Command{
		Name:      "list",
		Summary:   "List modules and whether they're enabled.",
		GuildOnly: true,

		Permissions: discord.PermissionManageGuild,
		Command:     bot.listModules,
	})

	m.AddSubcommand(&bcr.Command{
		Name:      "enable",
		Summary:   "Enable a module.",
		Usage:     "<module>",
		Args:      bcr.MinArgs(1),
		GuildOnly: true,

		Permissions: discord.PermissionManageGuild,
		Command:     bot.enableModule,
	})

	m.AddSubcommand(&bcr.Command{
		Name:      "disable",
		Summary:   "Disable a module.",
		Usage:     "<module>",
		Args:      bcr.MinArgs(1),
		GuildOnly: true,

		Permissions: discord.PermissionManageGuild,
		Command:     bot.disableModule,
	})

	im := bot.AddCommand(&bcr.Command{
		Name:      "autoimmune",
		Summary:   "List the users and roles ignored by automatic moderation.",
		GuildOnly: true,

		Permissions: discord.PermissionManageGuild,
		Command:     bot.listImmune,
	})

	im.AddSubcommand(&bcr.Command{
		Name:      "list",
		Summary:   "List immune users and roles.",
		GuildOnly: true,

		Permissions: discord.PermissionManageGuild,
		Command:     bot.listImmune,
	})

	im.AddSubcommand(&bcr.Command{
		Name:      "add",
		Summary:   "Make users or roles immune.",
		Usage:     "<users or roles...>",
		Args:      bcr.MinArgs(1),
		GuildOnly: true,

		Permissions: discord.PermissionManageGuild,
		Command:     bot.addImmune,
	})

	im.AddSubcommand(&bcr.Command{
		Name:      "remove",
		Summary:   "Remove users or roles from the immunity list.",
		Usage:     "<users or roles...>",
		Args:      bcr.MinArgs(1),
		GuildOnly: true,

		Permissions: discord.PermissionManageGuild,
		Command:     bot.removeImmune,
	})
}
