package snitching

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/ReneKroon/ttlcache/v2"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/snitch/snitch"
)

const dmChannelTTL = time.Hour

var (
	everyoneMentions = &api.AllowedMentions{Parse: []api.AllowedMentionType{api.AllowEveryoneMention}}
	noMentions       = &api.AllowedMentions{Parse: []api.AllowedMentionType{}}
)

// deliverer sends notifications through the REST API.
type deliverer struct {
	rest *api.Client
	// user ID -> DM channel ID
	dms *ttlcache.Cache
}

var _ snitch.Deliverer = (*deliverer)(nil)

func (d *deliverer) SendChannel(ctx context.Context, channelID snitch.ID, n snitch.Notification) error {
	_, err := d.rest.WithContext(ctx).SendMessageComplex(discord.ChannelID(channelID), api.SendMessageData{
		Content:         n.Content,
		Embeds:          []discord.Embed{PreviewEmbed(n.Preview)},
		AllowedMentions: everyoneMentions,
	})
	return errors.Wrap(err, "sending message")
}

func (d *deliverer) SendDirect(ctx context.Context, userID snitch.ID, n snitch.Notification) error {
	chID, err := d.dmChannel(ctx, discord.UserID(userID))
	if err != nil {
		return err
	}

	_, err = d.rest.WithContext(ctx).SendMessageComplex(chID, api.SendMessageData{
		Content:         n.Content,
		Embeds:          []discord.Embed{PreviewEmbed(n.Preview)},
		AllowedMentions: noMentions,
	})
	return errors.Wrap(err, "sending direct message")
}

func (d *deliverer) dmChannel(ctx context.Context, userID discord.UserID) (discord.ChannelID, error) {
	key := userID.String()

	v, err := d.dms.Get(key)
	if err == nil {
		return v.(discord.ChannelID), nil
	}

	ch, err := d.rest.WithContext(ctx).CreatePrivateChannel(userID)
	if err != nil {
		return 0, errors.Wrap(err, "creating dm channel")
	}

	_ = d.dms.Set(key, ch.ID)
	return ch.ID, nil
}

// PreviewEmbed converts a notification preview to an embed.
func PreviewEmbed(p snitch.Preview) discord.Embed {
	e := discord.Embed{
		Type:        discord.LinkEmbed,
		Title:       p.Title,
		Description: p.Description,
		URL:         p.URL,
		Color:       discord.Color(p.Colour),
	}

	if p.Thumbnail != "" {
		e.Thumbnail = &discord.EmbedThumbnail{URL: p.Thumbnail}
	}
	if !p.Timestamp.IsZero() {
		e.Timestamp = discord.NewTimestamp(p.Timestamp)
	}
	return e
}
