package bot

import (
	"sort"
	"strings"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/snitch/common/log"
)

const (
	linesPerPage     = 20
	pageTimeout      = 10 * time.Minute
	maxMessageLength = 2000
)

// AddCommand adds a top-level command to the router.
func (bot *Bot) AddCommand(c *bcr.Command) *bcr.Command {
	bot.commandsMu.Lock()
	bot.commands = append(bot.commands, c)
	bot.commandsMu.Unlock()

	return bot.Router.AddCommand(c)
}

// Commands returns all top-level commands, sorted by name.
func (bot *Bot) Commands() []*bcr.Command {
	bot.commandsMu.RLock()
	cmds := append([]*bcr.Command(nil), bot.commands...)
	bot.commandsMu.RUnlock()

	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// Report logs an error from a command and tells the user about it.
func (bot *Bot) Report(ctx *bcr.Context, err error) error {
	log.Errorf("running command %q in guild %v: %v", ctx.Message.Content, ctx.Message.GuildID, err)

	rErr := bot.ReportError(ctx, err)
	if rErr != nil {
		log.Errorf("reporting error: %v", rErr)
	}
	return nil
}

// Confirm asks the invoking user a yes/no question.
// It returns false if they answer no or don't answer in time.
func (bot *Bot) Confirm(ctx *bcr.Context, question string) (bool, error) {
	m, err := ctx.Sendf("%v", question)
	if err != nil {
		return false, err
	}

	yes, timeout := ctx.YesNoHandler(*m, ctx.Author.ID)
	if timeout {
		_, err = ctx.Send("Operation timed out.")
		return false, err
	}
	if !yes {
		_, err = ctx.Send("Operation cancelled.")
		return false, err
	}
	return true, nil
}

// SendLines sends lines as a single message, or as pages if they don't fit in one.
func (bot *Bot) SendLines(ctx *bcr.Context, title string, lines []string) error {
	s := strings.Join(lines, "\n")
	if title != "" {
		s = title + "\n" + s
	}

	if len(s) <= maxMessageLength {
		return ctx.SendX(s)
	}

	for i := range lines {
		lines[i] += "\n"
	}
	_, _, err := ctx.ButtonPages(bcr.StringPaginator(title, bcr.ColourPurple, lines, linesPerPage), pageTimeout)
	return err
}

// PrefixLength returns the length of the prefix content starts with, or -1 if it doesn't start with any.
// Prefixes are matched case-insensitively.
func PrefixLength(content string, prefixes []string) int {
	lower := strings.ToLower(content)
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(lower, strings.ToLower(p)) {
			return len(p)
		}
	}
	return -1
}

// matchPrefix is the router's prefixer. It uses the guild's prefixes.
func (bot *Bot) matchPrefix(m discord.Message) int {
	ctx, cancel := bot.Timeout(0)
	defer cancel()

	prefixes, err := bot.Prefixes(ctx, m.GuildID)
	if err != nil {
		log.Errorf("getting prefixes for guild %v: %v", m.GuildID, err)
		return -1
	}
	return PrefixLength(m.Content, prefixes)
}
