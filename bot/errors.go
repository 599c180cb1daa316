package bot

import (
	"fmt"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/starshine-sys/bcr"
)

// ReportError sends err to Sentry, if configured, and tells the user an error occurred.
func (bot *Bot) ReportError(ctx *bcr.Context, err error) error {
	if bot.Config.Auth.Sentry == "" {
		embed := discord.Embed{
			Title:       "Internal error occurred",
			Description: "An internal error has occurred." + bot.supportLine(""),
			Color:       bcr.ColourRed,
			Timestamp:   discord.NowTimestamp(),
		}

		return ctx.SendX("", embed)
	}

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetUser(sentry.User{ID: ctx.Author.ID.String()})
		scope.SetTag("guild", ctx.Message.GuildID.String())
	})

	hub.AddBreadcrumb(&sentry.Breadcrumb{
		Data: map[string]any{
			"user":    ctx.Author.ID,
			"channel": ctx.Message.ChannelID,
			"message": ctx.Message.ID,
		},
		Level:     sentry.LevelError,
		Timestamp: time.Now().UTC(),
	}, nil)

	id := hub.CaptureException(err)
	if id == nil {
		uid := uuid.New().String()
		id = (*sentry.EventID)(&uid)
	}

	return ctx.SendX(fmt.Sprintf("Error code: ``%v``", string(*id)),
		discord.Embed{
			Title:       "Internal error occurred",
			Description: "An internal error has occurred." + bot.supportLine(" with the error code above"),
			Color:       bcr.ColourRed,
			Timestamp:   discord.NowTimestamp(),
			Footer: &discord.EmbedFooter{
				Text: string(*id),
			},
		})
}

func (bot *Bot) supportLine(suffix string) string {
	if bot.Config.Bot.SupportServer == "" {
		return ""
	}
	return fmt.Sprintf(" If this issue persists, please contact the developer in the [support server](%v)%v.",
		bot.Config.Bot.SupportServer, suffix)
}
