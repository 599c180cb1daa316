// Package recorder writes every guild message to per-channel log files.
package recorder

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/starshine-sys/snitch/bot"
	"github.com/starshine-sys/snitch/common/log"
	"github.com/starshine-sys/snitch/store"
)

// ModuleName is the name the module is enabled and disabled by.
const ModuleName = "recorder"

const idleTimeout = 10 * time.Minute

type Bot struct {
	*bot.Bot

	w *Writer
}

func Setup(root *bot.Bot) error {
	if root.Config.Recorder.Directory == "" {
		log.Info("No recorder directory set, not recording messages")
		return nil
	}

	log.Debug("Adding recorder handlers")

	w, err := NewWriter(root.Config.Recorder.Directory, idleTimeout)
	if err != nil {
		return errors.Wrap(err, "creating recorder")
	}
	root.OnClose(w.Close)

	bot := &Bot{Bot: root, w: w}

	bot.AddHandler(
		bot.messageCreate,
		bot.messageUpdate,
	)
	return nil
}

func (bot *Bot) messageCreate(ev *gateway.MessageCreateEvent) {
	if !ev.GuildID.IsValid() {
		return
	}

	bot.record(ev.Message, ev.Member, false)
}

func (bot *Bot) messageUpdate(ev *gateway.MessageUpdateEvent) {
	// ignore embed unfurls
	if !ev.GuildID.IsValid() || !ev.Author.ID.IsValid() || !ev.EditedTimestamp.IsValid() {
		return
	}

	bot.record(ev.Message, ev.Member, true)
}

func (bot *Bot) record(m discord.Message, member *discord.Member, edited bool) {
	ctx, cancel := bot.Timeout(0)
	defer cancel()

	enabled, err := bot.ModuleEnabled(ctx, m.GuildID, ModuleName)
	if err != nil {
		log.Errorf("checking if recorder is enabled in %v: %v", m.GuildID, err)
		return
	}
	if !enabled {
		return
	}

	l, err := bot.line(ctx, m, member, edited)
	if err != nil {
		log.Errorf("building log line for message %v: %v", m.ID, err)
		return
	}

	log.Debug(l.String())

	err = bot.w.Write(l)
	if err != nil {
		log.Errorf("recording message %v: %v", m.ID, err)
	}
}

func (bot *Bot) line(ctx context.Context, m discord.Message, member *discord.Member, edited bool) (Line, error) {
	g, err := bot.Cabinet.Guild(ctx, m.GuildID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return Line{}, errors.Wrap(err, "getting guild")
	}

	ch, err := bot.Cabinet.Channel(ctx, m.ChannelID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return Line{}, errors.Wrap(err, "getting channel")
	}

	roles, err := bot.Cabinet.Roles(ctx, m.GuildID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return Line{}, errors.Wrap(err, "getting roles")
	}

	channels, err := bot.Cabinet.Channels(ctx, m.GuildID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return Line{}, errors.Wrap(err, "getting channels")
	}

	return NewLine(m, member, g.Name, ch.Name, roles, channels, edited), nil
}

// NewLine builds the log line for a message.
func NewLine(
	m discord.Message, member *discord.Member,
	server, channel string,
	roles []discord.Role, channels []discord.Channel,
	edited bool,
) Line {
	display := m.Author.Username
	if member != nil && member.Nick != "" {
		display = member.Nick
	}

	username := m.Author.Username
	if m.Author.Discriminator != "" && m.Author.Discriminator != "0" {
		username += "#" + m.Author.Discriminator
	}

	if channel == "" {
		channel = m.ChannelID.String()
	}
	if server == "" {
		server = m.GuildID.String()
	}

	return Line{
		Time:     m.Timestamp.Time(),
		Server:   server,
		Channel:  channel,
		Display:  display,
		Username: username,
		Content:  bot.CleanContent(m, roles, channels),
		Edited:   edited,
	}
}
