package snitch

import (
	"context"
	"strings"

	"emperror.dev/errors"
	"github.com/starshine-sys/snitch/common"
	"github.com/starshine-sys/snitch/common/log"
)

// ModuleName is the name the module is enabled and disabled by.
const ModuleName = "snitch"

// Host answers the per-guild questions the router asks before processing a message.
type Host interface {
	ModuleEnabled(ctx context.Context, guildID ID, module string) (bool, error)
	// Prefixes returns the command prefixes used in the guild.
	Prefixes(ctx context.Context, guildID ID) ([]string, error)
	// AutomodImmune returns true if the message should be ignored by automated moderation.
	AutomodImmune(ctx context.Context, msg Message) (bool, error)
}

// Reason is why a message was filtered out.
type Reason string

const (
	ReasonNotGuild  Reason = "not in a guild"
	ReasonDisabled  Reason = "module disabled"
	ReasonNotMember Reason = "author is not a guild member"
	ReasonBot       Reason = "author is a bot"
	ReasonCommand   Reason = "message is a command"
	ReasonImmune    Reason = "author is immune"
)

// Result is the outcome of handling a message.
// If Filtered is empty, the message was processed and Reports has a report
// for every group that matched.
type Result struct {
	Filtered Reason
	Reports  map[string]Report
}

// Processed returns true if the message passed every filter.
func (r Result) Processed() bool { return r.Filtered == "" }

// filter returns a non-empty reason if msg should not be processed.
type filter func(ctx context.Context, msg Message) (Reason, error)

// Router runs every eligible message through each of its guild's groups.
type Router struct {
	Host       Host
	Store      Store
	Dispatcher *Dispatcher

	filters []filter
}

func NewRouter(h Host, s Store, d *Dispatcher) *Router {
	r := &Router{Host: h, Store: s, Dispatcher: d}
	r.filters = []filter{
		r.inGuild,
		r.enabled,
		r.member,
		r.notBot,
		r.notCommand,
		r.notImmune,
	}
	return r
}

// HandleMessage matches msg against every group in its guild, and dispatches
// notifications for the groups that matched.
// Groups are independent of each other: every group is checked, and matched
// groups are dispatched concurrently.
// The returned error is only non-nil if the host or store failed.
func (r *Router) HandleMessage(ctx context.Context, msg Message) (Result, error) {
	for _, f := range r.filters {
		reason, err := f(ctx, msg)
		if err != nil {
			return Result{}, err
		}
		if reason != "" {
			return Result{Filtered: reason}, nil
		}
	}

	groups, err := r.Store.Groups(ctx, msg.GuildID)
	if err != nil {
		return Result{}, errors.Wrap(err, "get groups")
	}

	type hit struct {
		Entry
		words []string
	}

	var hits []hit
	for _, e := range sortedEntries(groups) {
		if words := Match(msg.Content, e.Words); len(words) > 0 {
			hits = append(hits, hit{e, words})
		}
	}

	res := Result{Reports: make(map[string]Report, len(hits))}
	if len(hits) == 0 {
		return res, nil
	}

	outcomes := common.Gather(ctx, hits, func(ctx context.Context, h hit) (Report, error) {
		log.Debugf("message %v in guild %v triggered group %q with %v", msg.ID, msg.GuildID, h.Name, h.words)
		return r.Dispatcher.Dispatch(ctx, msg, h.Group, h.words), nil
	})
	for _, o := range outcomes {
		if o.Err != nil {
			// only a panic in Dispatch ends up here
			log.Errorf("dispatching group %q in guild %v: %v", o.Item.Name, msg.GuildID, o.Err)
			continue
		}
		res.Reports[o.Item.Name] = o.Value
	}
	return res, nil
}

// HandleMessageEdit runs the edited message through the same pipeline as a new message.
func (r *Router) HandleMessageEdit(ctx context.Context, _ *Message, updated Message) (Result, error) {
	updated.Edited = true
	return r.HandleMessage(ctx, updated)
}

func (r *Router) inGuild(_ context.Context, msg Message) (Reason, error) {
	if !msg.GuildID.IsValid() {
		return ReasonNotGuild, nil
	}
	return "", nil
}

func (r *Router) enabled(ctx context.Context, msg Message) (Reason, error) {
	ok, err := r.Host.ModuleEnabled(ctx, msg.GuildID, ModuleName)
	if err != nil {
		return "", errors.Wrap(err, "check module enabled")
	}
	if !ok {
		return ReasonDisabled, nil
	}
	return "", nil
}

func (r *Router) member(_ context.Context, msg Message) (Reason, error) {
	if !msg.FromMember {
		return ReasonNotMember, nil
	}
	return "", nil
}

func (r *Router) notBot(_ context.Context, msg Message) (Reason, error) {
	if msg.Author.Bot {
		return ReasonBot, nil
	}
	return "", nil
}

func (r *Router) notCommand(ctx context.Context, msg Message) (Reason, error) {
	prefixes, err := r.Host.Prefixes(ctx, msg.GuildID)
	if err != nil {
		return "", errors.Wrap(err, "get prefixes")
	}

	if HasPrefix(msg.Content, prefixes) || HasPrefix(msg.CleanContent, prefixes) {
		return ReasonCommand, nil
	}
	return "", nil
}

func (r *Router) notImmune(ctx context.Context, msg Message) (Reason, error) {
	immune, err := r.Host.AutomodImmune(ctx, msg)
	if err != nil {
		return "", errors.Wrap(err, "check automod immunity")
	}
	if immune {
		return ReasonImmune, nil
	}
	return "", nil
}

// HasPrefix returns true if s starts with any of the non-empty prefixes.
func HasPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
