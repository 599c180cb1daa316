package admin

import (
	"fmt"
	"strings"

	"emperror.dev/errors"
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/snitch/bot"
	"github.com/starshine-sys/snitch/db"
	"github.com/starshine-sys/snitch/snitch"
)

func (bot *Bot) listImmune(ctx *bcr.Context) error {
	c, cancel := bot.Timeout(0)
	defer cancel()

	s, err := bot.Settings(c, ctx.Message.GuildID)
	if err != nil {
		return bot.Report(ctx, err)
	}

	return ctx.SendX(formatImmune(s))
}

func formatImmune(s db.GuildSettings) string {
	users := "none"
	if len(s.ImmuneUsers) > 0 {
		users = strings.Join(bot.FormatIDs(s.ImmuneUsers, bot.UserMention), ", ")
	}

	roles := "none"
	if len(s.ImmuneRoles) > 0 {
		roles = strings.Join(bot.FormatIDs(s.ImmuneRoles, bot.RoleMention), ", ")
	}

	return fmt.Sprintf("Immune users: %v\nImmune roles: %v\n"+
		"The server owner and members with the Administrator permission are always immune.", users, roles)
}

func (bot *Bot) addImmune(ctx *bcr.Context) error {
	return bot.editImmune(ctx, true)
}

func (bot *Bot) removeImmune(ctx *bcr.Context) error {
	return bot.editImmune(ctx, false)
}

func (bot *Bot) editImmune(ctx *bcr.Context, add bool) error {
	c, cancel := bot.Timeout(0)
	defer cancel()

	g, err := bot.Snapshot(c, ctx.Message.GuildID)
	if err != nil {
		return bot.Report(ctx, errors.Wrap(err, "getting guild snapshot"))
	}

	var lines []string
	for _, tok := range ctx.Args {
		t, err := snitch.Resolve(tok, g)
		if err != nil {
			lines = append(lines, fmt.Sprintf("Could not identify %v.", tok))
			continue
		}

		list, ok := immuneList(t.Kind)
		if !ok {
			lines = append(lines, fmt.Sprintf("%v is a channel, only users and roles can be immune.", tok))
			continue
		}

		if add {
			err = bot.DB.AddImmune(c, uint64(ctx.Message.GuildID), list, uint64(t.ID))
		} else {
			err = bot.DB.RemoveImmune(c, uint64(ctx.Message.GuildID), list, uint64(t.ID))
		}
		if err != nil {
			bot.ForgetSettings(ctx.Message.GuildID)
			return bot.Report(ctx, err)
		}

		if add {
			lines = append(lines, fmt.Sprintf("%v %v is now immune.", t.Kind.Title(), tok))
		} else {
			lines = append(lines, fmt.Sprintf("%v %v is no longer immune.", t.Kind.Title(), tok))
		}
	}
	bot.ForgetSettings(ctx.Message.GuildID)

	return bot.SendLines(ctx, "", lines)
}

func immuneList(k snitch.Kind) (string, bool) {
	switch k {
	case snitch.KindMember:
		return db.ImmuneUsers, true
	case snitch.KindRole:
		return db.ImmuneRoles, true
	}
	return "", false
}
