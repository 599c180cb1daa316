package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/state"
	"github.com/starshine-sys/snitch/common/log"
)

const statusInterval = 10 * time.Minute

// statusLoop updates the shard's status until the bot is closed.
func (bot *Bot) statusLoop(s *state.State, shardID int) {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	// wait for the initial guild creates
	time.Sleep(5 * time.Second)

	for {
		bot.updateStatus(s, shardID)

		select {
		case <-ticker.C:
		case <-bot.done:
			return
		}
	}
}

func (bot *Bot) updateStatus(s *state.State, shardID int) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	guilds, err := bot.Cabinet.Guilds(ctx)
	if err != nil {
		log.Errorf("getting guild count: %v", err)
	}

	err = s.Gateway().Send(ctx, &gateway.UpdatePresenceCommand{
		Status: discord.OnlineStatus,
		Activities: []discord.Activity{{
			Name: StatusText(bot.Config.Bot.Prefixes, len(guilds), shardID, bot.ShardManager.NumShards()),
			Type: discord.GameActivity,
		}},
	})
	if err != nil {
		log.Errorf("setting status for shard #%v: %v", shardID, err)
	}
}

// StatusText returns the status shown on a shard.
func StatusText(prefixes []string, guildCount, shardID, numShards int) string {
	s := "@mention help"
	if len(prefixes) > 0 {
		s = prefixes[0] + "help"
	}

	if guildCount != 0 {
		s += fmt.Sprintf(" | in %v servers", guildCount)
	}
	if numShards > 1 {
		s += fmt.Sprintf(" | shard #%v", shardID)
	}
	return s
}
