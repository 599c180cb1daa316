// Package nuke adds commands to kick members en masse.
package nuke

import (
	"context"
	"fmt"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/snitch/bot"
	"github.com/starshine-sys/snitch/common"
	"github.com/starshine-sys/snitch/common/log"
)

const (
	// kicks are rate limited, so don't bother running too many at once
	kickConcurrency = 5
	kickTimeout     = 30 * time.Minute
)

type Bot struct {
	*bot.Bot

	// guilds with a nuke in progress
	running *common.Set[discord.GuildID]
}

func Setup(root *bot.Bot) {
	log.Debug("Adding nuke commands")

	bot := &Bot{
		Bot:     root,
		running: common.NewSet[discord.GuildID](),
	}

	flags := func(fs *pflag.FlagSet) *pflag.FlagSet {
		fs.BoolP("dry-run", "n", false, "Only show how many members would be kicked.")
		return fs
	}

	bot.AddCommand(&bcr.Command{
		Name:        "nuke",
		Summary:     "Kick every member with any of the given roles.",
		Description: "Kick every member with any of the given roles.\nRole names must match exactly, use double quotes for names with spaces.\nUse `--dry-run` to only count the members.",
		Usage:       "<roles...>",
		Args:        bcr.MinArgs(1),
		Flags:       flags,
		GuildOnly:   true,

		Permissions: discord.PermissionManageGuild | discord.PermissionKickMembers,
		Command:     bot.nuke,
	})

	bot.AddCommand(&bcr.Command{
		Name:        "nukenot",
		Aliases:     []string{"nuke-not"},
		Summary:     "Kick every member except those with any of the given roles.",
		Description: "Kick every member except those with any of the given roles.\nRole names must match exactly, use double quotes for names with spaces.\nUse `--dry-run` to only count the members.",
		Usage:       "<roles...>",
		Args:        bcr.MinArgs(1),
		Flags:       flags,
		GuildOnly:   true,

		Permissions: discord.PermissionManageGuild | discord.PermissionKickMembers,
		Command:     bot.nukeNot,
	})
}

func (bot *Bot) nuke(ctx *bcr.Context) error {
	return bot.run(ctx, false)
}

func (bot *Bot) nukeNot(ctx *bcr.Context) error {
	return bot.run(ctx, true)
}

func (bot *Bot) run(ctx *bcr.Context, except bool) (err error) {
	guildID := ctx.Message.GuildID

	if !bot.running.Add(guildID) {
		return ctx.SendX("A nuke is already running in this server.")
	}
	defer bot.running.Remove(guildID)

	dryRun, _ := ctx.Flags.GetBool("dry-run")

	c, cancel := bot.Timeout(0)
	defer cancel()

	cached, err := bot.Cabinet.IsGuildCached(c, guildID)
	if err != nil {
		return bot.Report(ctx, errors.Wrap(err, "checking if guild is cached"))
	}
	if !cached {
		return ctx.SendX("This server's member list is still being loaded, please try again later.")
	}

	members, err := bot.Cabinet.Members(c, guildID)
	if err != nil {
		return bot.Report(ctx, errors.Wrap(err, "getting members"))
	}

	sel := Selection{
		GuildID:   guildID,
		Members:   members,
		Roles:     ctx.Guild.Roles,
		Protected: []discord.UserID{bot.Me().ID, ctx.Guild.OwnerID, ctx.Author.ID},
	}

	targets, missing := sel.Select(ctx.Args, except)
	if len(missing) > 0 {
		return ctx.SendX(MissingRoles(missing))
	}

	if len(targets) == 0 {
		return ctx.SendX("No members match, nobody will be kicked.")
	}

	if dryRun {
		_, err = ctx.Sendf("This would kick **%v** members.", humanize.Comma(int64(len(targets))))
		return err
	}

	ok, err := bot.Confirm(ctx, fmt.Sprintf("This will kick **%v** members. Are you sure?", humanize.Comma(int64(len(targets)))))
	if err != nil || !ok {
		return err
	}

	kicked, failed := bot.kick(ctx.State.Client, guildID, targets, ctx.Author)

	_, err = ctx.Sendf("Kicked %v members. Failed to kick %v members.", humanize.Comma(int64(kicked)), humanize.Comma(int64(failed)))
	return err
}

// MissingRoles is the reply when some of the given roles don't exist.
func MissingRoles(names []string) string {
	return fmt.Sprintf("The following roles could not be found: %v.\nNot running until all roles are recognized.", strings.Join(names, ", "))
}

// kick kicks the members concurrently and returns the number of members kicked and not kicked.
func (bot *Bot) kick(client *api.Client, guildID discord.GuildID, targets []discord.Member, by discord.User) (kicked, failed int) {
	ctx, cancel := context.WithTimeout(context.Background(), kickTimeout)
	defer cancel()

	client = client.WithContext(ctx)
	reason := api.AuditLogReason("Nuke run by " + by.Username + " (" + by.ID.String() + ")")

	log.Infof("kicking %d members from %v", len(targets), guildID)

	outcomes := common.GatherLimit(ctx, kickConcurrency, targets, func(_ context.Context, m discord.Member) (struct{}, error) {
		return struct{}{}, client.Kick(guildID, m.User.ID, reason)
	})

	for _, o := range common.Failed(outcomes) {
		log.Errorf("kicking %v from %v: %v", o.Item.User.ID, guildID, o.Err)
	}

	failed = len(common.Failed(outcomes))
	return len(outcomes) - failed, failed
}
