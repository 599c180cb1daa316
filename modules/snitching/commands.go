package snitching

import (
	"fmt"
	"strings"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/dustin/go-humanize/english"
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/snitch/snitch"
)

const templateHelp = "Tokens:\n" +
	"`{{author}}` - the display name of the message author\n" +
	"`{{channel}}` - the channel the message was sent in\n" +
	"`{{server}}` - the server the message was sent in\n" +
	"`{{words}}` - the words that triggered the notification"

func (bot *Bot) addCommands() {
	sn := bot.AddCommand(&bcr.Command{
		Name:      "snitch",
		Summary:   "Manage snitch notification groups.",
		GuildOnly: true,

		Permissions: discord.PermissionManageGuild,
		Command: func(ctx *bcr.Context) error {
			return ctx.Help([]string{"snitch"})
		},
	})

	sn.AddSubcommand(&bcr.Command{
		Name:      "to",
		Summary:   "Add people, roles, or channels to a notification group.",
		Usage:     "<group> <targets...>",
		Args:      bcr.MinArgs(2),
		GuildOnly: true,

		Permissions: discord.PermissionManageGuild,
		Command:     bot.to,
	})

	sn.AddSubcommand(&bcr.Command{
		Name:      "notto",
		Summary:   "Remove people, roles, or channels from a notification group.",
		Usage:     "<group> <targets...>",
		Args:      bcr.MinArgs(2),
		GuildOnly: true,

		Permissions: discord.PermissionManageGuild,
		Command:     bot.notTo,
	})

	sn.AddSubcommand(&bcr.Command{
		Name:      "on",
		Summary:   "Add trigger words to a notification group. Use double quotes for phrases.",
		Usage:     "<group> <words...>",
		Args:      bcr.MinArgs(2),
		GuildOnly: true,

		Permissions: discord.PermissionManageGuild,
		Command:     bot.on,
	})

	sn.AddSubcommand(&bcr.Command{
		Name:      "noton",
		Summary:   "Remove trigger words from a notification group.",
		Usage:     "<group> <words...>",
		Args:      bcr.MinArgs(2),
		GuildOnly: true,

		Permissions: discord.PermissionManageGuild,
		Command:     bot.notOn,
	})

	sn.AddSubcommand(&bcr.Command{
		Name:      "with",
		Summary:   "Change the message sent with a group's notifications.",
		Usage:     "<group> <message>",
		Args:      bcr.MinArgs(2),
		GuildOnly: true,

		Permissions: discord.PermissionManageGuild,
		Command:     bot.with,
	})

	sn.AddSubcommand(&bcr.Command{
		Name:      "clear",
		Summary:   "Delete all of this server's notification groups.",
		GuildOnly: true,

		Permissions: discord.PermissionManageGuild,
		Command:     bot.clear,
	})

	sn.AddSubcommand(&bcr.Command{
		Name:      "list",
		Summary:   "List this server's notification groups.",
		GuildOnly: true,

		Permissions: discord.PermissionManageGuild,
		Command:     bot.list,
	})
}

func (bot *Bot) to(ctx *bcr.Context) (err error) {
	c, cancel := bot.Timeout(0)
	defer cancel()

	g, err := bot.Snapshot(c, ctx.Message.GuildID)
	if err != nil {
		return bot.Report(ctx, errors.Wrap(err, "getting guild snapshot"))
	}

	results, err := bot.manager.AddTargets(c, g, ctx.Args[0], ctx.Args[1:])
	if err != nil {
		return bot.Report(ctx, err)
	}

	return bot.SendLines(ctx, "", TargetLines(results))
}

// TargetLines returns one reply line per token given to the to command.
func TargetLines(results []snitch.TargetResult) []string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			lines = append(lines, fmt.Sprintf("Could not identify %v.", r.Token))
			continue
		}
		lines = append(lines, fmt.Sprintf("%v %v will be notified.", r.Target.Kind.Title(), r.Token))
	}
	return lines
}

func (bot *Bot) notTo(ctx *bcr.Context) (err error) {
	c, cancel := bot.Timeout(0)
	defer cancel()

	removed, missing, err := bot.manager.RemoveTargets(c, snitch.ID(ctx.Message.GuildID), ctx.Args[0], ctx.Args[1:])
	if err != nil {
		if errors.Is(err, snitch.ErrGroupNotFound) {
			return ctx.SendX("Group doesn't exist.")
		}
		return bot.Report(ctx, err)
	}

	var lines []string
	for _, t := range removed {
		lines = append(lines, fmt.Sprintf("Removed %v.", t))
	}
	for _, t := range missing {
		lines = append(lines, fmt.Sprintf("Couldn't find %v.", t))
	}
	return bot.SendLines(ctx, "", lines)
}

func (bot *Bot) on(ctx *bcr.Context) (err error) {
	c, cancel := bot.Timeout(0)
	defer cancel()

	added, existing, err := bot.manager.AddWords(c, snitch.ID(ctx.Message.GuildID), ctx.Args[0], ctx.Args[1:])
	if err != nil {
		return bot.Report(ctx, err)
	}

	words := append(added, existing...)
	if len(words) == 0 {
		return ctx.SendX("No words given.")
	}

	lines := make([]string, 0, len(words))
	for _, w := range words {
		lines = append(lines, fmt.Sprintf("%v will trigger a notification.", w))
	}
	return bot.SendLines(ctx, "", lines)
}

func (bot *Bot) notOn(ctx *bcr.Context) (err error) {
	c, cancel := bot.Timeout(0)
	defer cancel()

	removed, missing, err := bot.manager.RemoveWords(c, snitch.ID(ctx.Message.GuildID), ctx.Args[0], ctx.Args[1:])
	if err != nil {
		if errors.Is(err, snitch.ErrGroupNotFound) {
			return ctx.SendX("Group doesn't exist.")
		}
		return bot.Report(ctx, err)
	}

	var lines []string
	for _, w := range removed {
		lines = append(lines, fmt.Sprintf("%v will no longer trigger a notification.", w))
	}
	for _, w := range missing {
		lines = append(lines, fmt.Sprintf("%v wasn't a trigger word.", w))
	}
	return bot.SendLines(ctx, "", lines)
}

func (bot *Bot) with(ctx *bcr.Context) (err error) {
	c, cancel := bot.Timeout(0)
	defer cancel()

	group := ctx.Args[0]
	tmpl := strings.Join(ctx.Args[1:], " ")

	err = bot.manager.SetTemplate(c, snitch.ID(ctx.Message.GuildID), group, tmpl)
	if err != nil {
		return bot.Report(ctx, err)
	}

	_, err = ctx.Sendf("Message for %v updated.\n%v", group, templateHelp)
	return err
}

func (bot *Bot) clear(ctx *bcr.Context) (err error) {
	ok, err := bot.Confirm(ctx, "Are you sure you want to delete **all** notification groups in this server?")
	if err != nil || !ok {
		return err
	}

	c, cancel := bot.Timeout(0)
	defer cancel()

	err = bot.manager.ClearAll(c, snitch.ID(ctx.Message.GuildID))
	if err != nil {
		return bot.Report(ctx, err)
	}

	return ctx.SendX("Cleared all snitch settings.")
}

func (bot *Bot) list(ctx *bcr.Context) (err error) {
	c, cancel := bot.Timeout(0)
	defer cancel()

	entries, err := bot.manager.List(c, snitch.ID(ctx.Message.GuildID))
	if err != nil {
		return bot.Report(ctx, err)
	}

	if len(entries) == 0 {
		return ctx.SendX("There are no current notification groups set up in this server.")
	}

	title, lines := FormatList(entries)
	return bot.SendLines(ctx, title, lines)
}

// FormatList formats groups for the list command.
func FormatList(entries []snitch.Entry) (title string, lines []string) {
	title = fmt.Sprintf("Filtered in this server (%v):", english.Plural(len(entries), "group", ""))

	for _, e := range entries {
		people := strings.Join(e.TargetTokens(), ", ")
		if people == "" {
			people = "nobody"
		}
		words := strings.Join(e.Words, ", ")
		if words == "" {
			words = "nothing"
		}
		lines = append(lines, fmt.Sprintf("\t%v tells %v about %v", e.Name, people, words))
	}
	return title, lines
}
