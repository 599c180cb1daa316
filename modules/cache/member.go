package cache

import (
	"context"
	"os"
	"os/signal"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/state"
	"github.com/starshine-sys/snitch/common/log"
	"github.com/starshine-sys/snitch/store"
)

func (bot *Bot) guildMemberAdd(ev *gateway.GuildMemberAddEvent) {
	ctx, cancel := bot.Timeout(0)
	defer cancel()

	err := bot.Cabinet.SetMember(ctx, ev.GuildID, ev.Member)
	if err != nil {
		log.Errorf("setting member %v in guild %v: %v", ev.User.ID, ev.GuildID, err)
	}
}

func (bot *Bot) guildMemberUpdate(ev *gateway.GuildMemberUpdateEvent) {
	ctx, cancel := bot.Timeout(0)
	defer cancel()

	m, err := bot.Cabinet.Member(ctx, ev.GuildID, ev.User.ID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Errorf("getting member %v in guild %v: %v", ev.User.ID, ev.GuildID, err)
			return
		}
		m = discord.Member{}
	}

	ev.UpdateMember(&m)

	err = bot.Cabinet.SetMember(ctx, ev.GuildID, m)
	if err != nil {
		log.Errorf("updating member %v in guild %v: %v", ev.User.ID, ev.GuildID, err)
	}
}

func (bot *Bot) guildMemberRemove(ev *gateway.GuildMemberRemoveEvent) {
	ctx, cancel := bot.Timeout(0)
	defer cancel()

	err := bot.Cabinet.RemoveMember(ctx, ev.GuildID, ev.User.ID)
	if err != nil {
		log.Errorf("removing member %v in guild %v: %v", ev.User.ID, ev.GuildID, err)
	}
}

// fetchLoop requests one guild's members every few seconds, to stay under the gateway rate limit.
func (bot *Bot) fetchLoop(s *state.State) {
	// close on interrupt signal
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancel()

	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			go bot.fetchOneGuild(s)
		case <-ctx.Done():
			return
		}
	}
}

// fetchOneGuild requests a single guild's full member list.
// The members are handled in guildMembersChunk.
func (bot *Bot) fetchOneGuild(s *state.State) {
	shardID := s.Ready().Shard.ShardID()

	bot.guildsMu.Lock()
	var memberFetchID discord.GuildID

	// get a single (mostly) random guild ID
	for k := range bot.guildsToFetchMembers[shardID] {
		memberFetchID = k
		delete(bot.guildsToFetchMembers[shardID], k)
		break
	}
	bot.guildsMu.Unlock()

	if !memberFetchID.IsValid() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Debugf("requesting members for %v", memberFetchID)

	err := s.Gateway().Send(ctx, &gateway.RequestGuildMembersCommand{
		GuildIDs: []discord.GuildID{memberFetchID},
		Query:    "",
		Limit:    0,
	})
	if err != nil {
		log.Errorf("sending chunk request for %v: %v", memberFetchID, err)

		bot.guildsMu.Lock()
		bot.addToMemberFetchQueue(shardID, memberFetchID)
		bot.guildsMu.Unlock()
	}
}

func (bot *Bot) guildMembersChunk(ev *gateway.GuildMembersChunkEvent) {
	log.Debugf("received chunk %d/%d for guild %v", ev.ChunkIndex+1, ev.ChunkCount, ev.GuildID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := bot.Cabinet.SetMembers(ctx, ev.GuildID, ev.Members)
	if err != nil {
		log.Errorf("setting members for %v (chunk %d/%d): %v", ev.GuildID, ev.ChunkIndex+1, ev.ChunkCount, err)
		return
	}

	if ev.ChunkIndex == ev.ChunkCount-1 {
		err = bot.Cabinet.MarkGuildCached(ctx, ev.GuildID)
		if err != nil {
			log.Errorf("marking guild %v as cached: %v", ev.GuildID, err)
		}
	}
}
