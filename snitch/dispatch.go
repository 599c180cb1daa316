package snitch

import (
	"context"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/starshine-sys/snitch/common"
	"github.com/starshine-sys/snitch/common/log"
)

// AccentColour is the colour of notification previews.
const AccentColour = 0xE74C3C

// everyonePrefix is prepended to notifications sent to channels.
const everyonePrefix = "@everyone "

// Directory looks up live guild entities at dispatch time.
type Directory interface {
	Channel(ctx context.Context, guildID, channelID ID) (Channel, error)
	Member(ctx context.Context, guildID, userID ID) (Member, error)
	RoleMembers(ctx context.Context, guildID, roleID ID) ([]Member, error)
}

// Deliverer sends notifications.
// Implementations must return an error for failed deliveries rather than panic.
type Deliverer interface {
	SendChannel(ctx context.Context, channelID ID, n Notification) error
	SendDirect(ctx context.Context, userID ID, n Notification) error
}

// Notification is a rendered notification.
type Notification struct {
	Content string
	Preview Preview
}

// Preview is a rich preview of the triggering message.
type Preview struct {
	Title       string
	Description string
	URL         string
	Thumbnail   string
	Colour      uint32
	Timestamp   time.Time
}

// Render replaces the placeholders in tmpl.
// Unknown placeholders are left as-is.
func Render(tmpl string, msg Message, words []string) string {
	return strings.NewReplacer(
		"{{author}}", msg.Author.DisplayName(),
		"{{words}}", strings.Join(words, " and "),
		"{{server}}", msg.GuildName,
		"{{channel}}", msg.ChannelName,
	).Replace(tmpl)
}

// Recipient is a single delivery destination.
type Recipient struct {
	// Direct is true if ID is a user to be sent a direct message,
	// false if it's a channel.
	Direct bool
	ID     ID
}

func (r Recipient) String() string {
	if r.Direct {
		return "user " + r.ID.String()
	}
	return "channel " + r.ID.String()
}

// Delivery is the outcome of a single delivery attempt, or of a target that
// couldn't be resolved to any recipient.
type Delivery struct {
	// Target is the token of the target this delivery is for.
	Target    string
	Recipient Recipient
	Err       error
}

// Report summarises a dispatch.
type Report struct {
	Attempted int
	Delivered int
	Failed    int
	// Skipped counts bot accounts and duplicate recipients.
	Skipped int

	Deliveries []Delivery
}

// Err combines all delivery errors.
func (r Report) Err() error {
	var errs []error
	for _, d := range r.Deliveries {
		if d.Err != nil {
			errs = append(errs, errors.WithMessagef(d.Err, "target %q", d.Target))
		}
	}
	return errors.Combine(errs...)
}

// Dispatcher delivers a group's notification to all of its targets.
type Dispatcher struct {
	Directory Directory
	Deliverer Deliverer
}

type resolvedTarget struct {
	token      string
	recipients []Recipient
	skipped    int
}

// Dispatch renders the group's template for msg and sends it to every target.
// Targets are resolved and delivered to concurrently; a failed target never
// stops delivery to the others. Dispatch returns once every attempt is done.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message, g Group, words []string) Report {
	text := Render(g.MessageTemplate(), msg, words)
	preview := Preview{
		Title:       msg.Author.DisplayName() + " in " + msg.ChannelName,
		Description: msg.Content,
		URL:         msg.URL,
		Thumbnail:   msg.AuthorAvatar,
		Colour:      AccentColour,
		Timestamp:   msg.Timestamp,
	}

	var rep Report

	resolved := common.Gather(ctx, g.TargetTokens(), func(ctx context.Context, tok string) (resolvedTarget, error) {
		return d.recipients(ctx, msg.GuildID, tok, g.Targets[tok])
	})

	type job struct {
		token string
		to    Recipient
	}

	var (
		jobs []job
		seen = map[Recipient]struct{}{}
	)
	for _, o := range resolved {
		if o.Err != nil {
			log.Warnf("resolving snitch target %q in guild %v: %v", o.Item, msg.GuildID, o.Err)
			rep.Failed++
			rep.Deliveries = append(rep.Deliveries, Delivery{Target: o.Item, Err: o.Err})
			continue
		}

		rep.Skipped += o.Value.skipped
		for _, r := range o.Value.recipients {
			if _, ok := seen[r]; ok {
				rep.Skipped++
				continue
			}
			seen[r] = struct{}{}
			jobs = append(jobs, job{o.Item, r})
		}
	}

	sent := common.Gather(ctx, jobs, func(ctx context.Context, j job) (struct{}, error) {
		n := Notification{Content: text, Preview: preview}
		if j.to.Direct {
			return struct{}{}, d.Deliverer.SendDirect(ctx, j.to.ID, n)
		}
		n.Content = everyonePrefix + text
		return struct{}{}, d.Deliverer.SendChannel(ctx, j.to.ID, n)
	})

	for _, o := range sent {
		rep.Attempted++
		rep.Deliveries = append(rep.Deliveries, Delivery{Target: o.Item.token, Recipient: o.Item.to, Err: o.Err})
		if o.Err != nil {
			log.Warnf("sending snitch notification to %v (target %q) in guild %v: %v", o.Item.to, o.Item.token, msg.GuildID, o.Err)
			rep.Failed++
			continue
		}
		rep.Delivered++
	}

	return rep
}

// recipients resolves a stored target to its current recipients.
func (d *Dispatcher) recipients(ctx context.Context, guildID ID, tok string, t TargetRef) (resolvedTarget, error) {
	rt := resolvedTarget{token: tok}

	switch t.Kind {
	case KindChannel:
		ch, err := d.Directory.Channel(ctx, guildID, t.ID)
		if err != nil {
			return rt, errors.Wrap(err, "get channel")
		}
		rt.recipients = append(rt.recipients, Recipient{ID: ch.ID})
	case KindMember:
		m, err := d.Directory.Member(ctx, guildID, t.ID)
		if err != nil {
			return rt, errors.Wrap(err, "get member")
		}
		if m.Bot {
			rt.skipped++
			break
		}
		rt.recipients = append(rt.recipients, Recipient{Direct: true, ID: m.ID})
	case KindRole:
		ms, err := d.Directory.RoleMembers(ctx, guildID, t.ID)
		if err != nil {
			return rt, errors.Wrap(err, "get role members")
		}
		for _, m := range ms {
			if m.Bot {
				rt.skipped++
				continue
			}
			rt.recipients = append(rt.recipients, Recipient{Direct: true, ID: m.ID})
		}
	default:
		return rt, errors.WithStack(ErrUnknownKind)
	}

	return rt, nil
}
