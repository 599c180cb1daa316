package admin

import (
	"fmt"
	"strings"

	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/snitch/common"
)

func (bot *Bot) prefix(ctx *bcr.Context) (err error) {
	c, cancel := bot.Timeout(0)
	defer cancel()

	prefixes, err := bot.Prefixes(c, ctx.Message.GuildID)
	if err != nil {
		return bot.Report(ctx, err)
	}

	quoted := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		// mentions are shown as-is
		if strings.HasPrefix(p, "<@") {
			quoted = append(quoted, p)
			continue
		}
		quoted = append(quoted, "`"+p+"`")
	}

	_, err = ctx.Sendf("This server's prefixes are: %v", strings.Join(quoted, ", "))
	return err
}

func (bot *Bot) setPrefix(ctx *bcr.Context) (err error) {
	c, cancel := bot.Timeout(0)
	defer cancel()

	err = bot.DB.SetPrefixes(c, uint64(ctx.Message.GuildID), ctx.Args)
	if err != nil {
		return bot.Report(ctx, err)
	}
	bot.ForgetSettings(ctx.Message.GuildID)

	_, err = ctx.Sendf("Prefixes set to `%v`.", strings.Join(ctx.Args, "`, `"))
	return err
}

func (bot *Bot) resetPrefix(ctx *bcr.Context) (err error) {
	c, cancel := bot.Timeout(0)
	defer cancel()

	err = bot.DB.SetPrefixes(c, uint64(ctx.Message.GuildID), nil)
	if err != nil {
		return bot.Report(ctx, err)
	}
	bot.ForgetSettings(ctx.Message.GuildID)

	_, err = ctx.Sendf("Prefixes reset to `%v`.", strings.Join(bot.Config.Bot.Prefixes, "`, `"))
	return err
}

func (bot *Bot) listModules(ctx *bcr.Context) error {
	c, cancel := bot.Timeout(0)
	defer cancel()

	s, err := bot.Settings(c, ctx.Message.GuildID)
	if err != nil {
		return bot.Report(ctx, err)
	}

	var b strings.Builder
	for _, m := range Modules {
		status := "enabled"
		if s.ModuleDisabled(m) {
			status = "disabled"
		}
		fmt.Fprintf(&b, "`%v`: %v\n", m, status)
	}

	return ctx.SendX(b.String())
}

func (bot *Bot) enableModule(ctx *bcr.Context) error {
	return bot.setModule(ctx, false)
}

func (bot *Bot) disableModule(ctx *bcr.Context) error {
	return bot.setModule(ctx, true)
}

func (bot *Bot) setModule(ctx *bcr.Context, disabled bool) error {
	module := strings.ToLower(ctx.Args[0])
	if !common.Contains(Modules, module) {
		_, err := ctx.Sendf("There's no module named `%v`. Modules: %v", module, strings.Join(Modules, ", "))
		return err
	}

	c, cancel := bot.Timeout(0)
	defer cancel()

	err := bot.DB.SetModuleDisabled(c, uint64(ctx.Message.GuildID), module, disabled)
	if err != nil {
		return bot.Report(ctx, err)
	}
	bot.ForgetSettings(ctx.Message.GuildID)

	status := "enabled"
	if disabled {
		status = "disabled"
	}
	_, err = ctx.Sendf("Module `%v` %v.", module, status)
	return err
}
