package bot

import (
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/starshine-sys/snitch/common/log"
)

// messageCreate runs commands.
func (bot *Bot) messageCreate(ev *gateway.MessageCreateEvent) {
	// commands are guild only
	if ev.Author.Bot || !ev.GuildID.IsValid() || ev.Member == nil {
		return
	}

	if !bot.Router.MatchPrefix(ev.Message) {
		return
	}

	ctx, err := bot.Router.NewContext(ev)
	if err != nil {
		log.Errorf("creating command context for message %v: %v", ev.ID, err)
		return
	}

	log.Debugf("running command %q for %v in %v", ev.Content, ev.Author.ID, ev.ChannelID)

	// commands report their own errors, anything returned here is from the router
	err = bot.Router.Execute(ctx)
	if err != nil {
		log.Debugf("executing command in %v: %v", ev.ChannelID, err)
	}
}
