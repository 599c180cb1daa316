package snitching

import (
	"context"
	"fmt"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/starshine-sys/snitch/bot"
	"github.com/starshine-sys/snitch/common/log"
	"github.com/starshine-sys/snitch/snitch"
	"github.com/starshine-sys/snitch/store"
)

func (bot *Bot) messageCreate(ev *gateway.MessageCreateEvent) {
	if !ev.GuildID.IsValid() {
		return
	}

	ctx, cancel := bot.Timeout(0)
	defer cancel()

	msg, err := bot.message(ctx, ev.Message, ev.Member)
	if err != nil {
		log.Errorf("converting message %v in guild %v: %v", ev.ID, ev.GuildID, err)
		return
	}

	res, err := bot.router.HandleMessage(ctx, msg)
	if err != nil {
		log.Errorf("handling message %v in guild %v: %v", ev.ID, ev.GuildID, err)
		return
	}
	logResult(msg, res)
}

func (bot *Bot) messageUpdate(ev *gateway.MessageUpdateEvent) {
	// embed unfurls also send updates, those don't have an author or edit timestamp
	if !ev.GuildID.IsValid() || !ev.Author.ID.IsValid() || !ev.EditedTimestamp.IsValid() {
		return
	}

	ctx, cancel := bot.Timeout(0)
	defer cancel()

	member := ev.Member
	if member == nil && !ev.WebhookID.IsValid() {
		m, err := bot.Cabinet.Member(ctx, ev.GuildID, ev.Author.ID)
		if err == nil {
			member = &m
		} else if !errors.Is(err, store.ErrNotFound) {
			log.Errorf("getting member %v in guild %v: %v", ev.Author.ID, ev.GuildID, err)
			return
		}
	}

	msg, err := bot.message(ctx, ev.Message, member)
	if err != nil {
		log.Errorf("converting message %v in guild %v: %v", ev.ID, ev.GuildID, err)
		return
	}

	res, err := bot.router.HandleMessageEdit(ctx, nil, msg)
	if err != nil {
		log.Errorf("handling edit of message %v in guild %v: %v", ev.ID, ev.GuildID, err)
		return
	}
	logResult(msg, res)
}

func logResult(msg snitch.Message, res snitch.Result) {
	if !res.Processed() {
		log.Debugf("ignoring message %v: %v", msg.ID, res.Filtered)
		return
	}

	for name, rep := range res.Reports {
		if err := rep.Err(); err != nil {
			log.Errorf("group %q for message %v: %d/%d deliveries failed: %v", name, msg.ID, rep.Failed, rep.Attempted, err)
			continue
		}
		log.Infof("group %q for message %v: delivered %d, skipped %d", name, msg.ID, rep.Delivered, rep.Skipped)
	}
}

// message converts a message to the snitch core's representation.
// member is nil if the author isn't a guild member.
func (bot *Bot) message(ctx context.Context, m discord.Message, member *discord.Member) (snitch.Message, error) {
	g, err := bot.Cabinet.Guild(ctx, m.GuildID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return snitch.Message{}, errors.Wrap(err, "getting guild")
	}

	ch, err := bot.Cabinet.Channel(ctx, m.ChannelID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return snitch.Message{}, errors.Wrap(err, "getting channel")
	}

	roles, err := bot.Cabinet.Roles(ctx, m.GuildID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return snitch.Message{}, errors.Wrap(err, "getting roles")
	}

	channels, err := bot.Cabinet.Channels(ctx, m.GuildID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return snitch.Message{}, errors.Wrap(err, "getting channels")
	}

	return ConvertMessage(m, member, g.Name, ch.Name, roles, channels), nil
}

// ConvertMessage converts a message. Webhook messages are never from a member.
func ConvertMessage(
	m discord.Message, member *discord.Member,
	guildName, channelName string,
	roles []discord.Role, channels []discord.Channel,
) snitch.Message {
	author := discord.Member{User: m.Author}
	if member != nil {
		author = *member
		author.User = m.Author
	}

	return snitch.Message{
		ID:        snitch.ID(m.ID),
		ChannelID: snitch.ID(m.ChannelID),
		GuildID:   snitch.ID(m.GuildID),

		ChannelName: channelName,
		GuildName:   guildName,

		Author:     bot.SnitchMember(author),
		FromMember: member != nil && !m.WebhookID.IsValid(),

		Content:      m.Content,
		CleanContent: bot.CleanContent(m, roles, channels),

		URL:          MessageURL(m.GuildID, m.ChannelID, m.ID),
		AuthorAvatar: m.Author.AvatarURL(),
		Timestamp:    m.Timestamp.Time(),
		Edited:       m.EditedTimestamp.IsValid(),
	}
}

// MessageURL returns a jump link to the message.
func MessageURL(guildID discord.GuildID, channelID discord.ChannelID, id discord.MessageID) string {
	return fmt.Sprintf("https://discord.com/channels/%v/%v/%v", guildID, channelID, id)
}
