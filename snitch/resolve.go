package snitch

import (
	"strconv"
	"strings"

	"emperror.dev/errors"
)

const ErrTargetNotFound = errors.Sentinel("target not found")

// mentionCutset is stripped from both ends of a token before ID lookup.
const mentionCutset = "!<#>@&"

// Resolve converts a free-text token into a target in the given guild.
//
// A token that is a (possibly mention-wrapped) ID is looked up as a member,
// then a role, then a text channel. Anything else, or an ID that matched
// nothing, is compared case-insensitively against role names, then member
// usernames and display names, then text channel names. The first match in
// the first tier with a match wins.
func Resolve(token string, g *Guild) (TargetRef, error) {
	token = strings.TrimSpace(token)
	if token == "" || g == nil {
		return TargetRef{}, errors.WithStack(ErrTargetNotFound)
	}

	stripped := strings.Trim(token, mentionCutset)

	if sf, err := strconv.ParseUint(stripped, 10, 64); err == nil {
		id := ID(sf)
		if m, ok := g.Member(id); ok {
			return TargetRef{KindMember, m.ID}, nil
		}
		if r, ok := g.Role(id); ok {
			return TargetRef{KindRole, r.ID}, nil
		}
		if ch, ok := g.Channel(id); ok && ch.Text {
			return TargetRef{KindChannel, ch.ID}, nil
		}
	}

	names := []string{strings.ToLower(token)}
	if stripped != token && stripped != "" {
		names = append(names, strings.ToLower(stripped))
	}
	is := func(s string) bool {
		s = strings.ToLower(s)
		for _, n := range names {
			if s == n {
				return true
			}
		}
		return false
	}

	for _, r := range g.Roles {
		if is(r.Name) {
			return TargetRef{KindRole, r.ID}, nil
		}
	}

	for _, m := range g.Members {
		if is(m.Username) || (m.Nickname != "" && is(m.Nickname)) {
			return TargetRef{KindMember, m.ID}, nil
		}
	}

	for _, ch := range g.Channels {
		if ch.Text && is(ch.Name) {
			return TargetRef{KindChannel, ch.ID}, nil
		}
	}

	return TargetRef{}, errors.Wrapf(ErrTargetNotFound, "%q", token)
}
