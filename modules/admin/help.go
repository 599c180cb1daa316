package admin

import (
	"fmt"
	"strings"

	"github.com/starshine-sys/bcr"
)

func (bot *Bot) help(ctx *bcr.Context) error {
	if len(ctx.Args) > 0 {
		return ctx.Help(ctx.Args)
	}

	lines := CommandList(ctx.Prefix, bot.Commands())
	lines = append(lines, "", fmt.Sprintf("Use `%vhelp <command>` for more information on a command.", ctx.Prefix))
	return bot.SendLines(ctx, "Commands:", lines)
}

// CommandList returns one line per command, with the permissions needed to use it.
func CommandList(prefix string, cmds []*bcr.Command) []string {
	lines := make([]string, 0, len(cmds))
	for _, c := range cmds {
		s := fmt.Sprintf("`%v%v` - %v", prefix, c.Name, c.Summary)
		if c.Permissions != 0 {
			s += fmt.Sprintf(" (requires %v)", strings.Join(bcr.PermStrings(c.Permissions), ", "))
		}
		lines = append(lines, s)
	}
	return lines
}
