package snitch

import (
	"context"
	"sort"

	"emperror.dev/errors"
)

const (
	ErrGroupNotFound = errors.Sentinel("group not found")
	ErrNoGroupName   = errors.Sentinel("no group name given")
)

// Manager edits a guild's groups.
// Every method is a single read-modify-write on the guild's groups.
type Manager struct {
	Store Store
}

func NewManager(s Store) *Manager {
	return &Manager{Store: s}
}

// TargetResult is the outcome of adding a single target token.
type TargetResult struct {
	Token  string
	Target TargetRef
	Err    error
}

// AddTargets resolves each token in the guild and adds the resolved targets to
// the group, creating it if it doesn't exist. Tokens that can't be resolved
// are reported and skipped. The returned error is only set if the store fails.
func (m *Manager) AddTargets(ctx context.Context, g *Guild, group string, tokens []string) ([]TargetResult, error) {
	if group == "" {
		return nil, errors.WithStack(ErrNoGroupName)
	}

	results := make([]TargetResult, 0, len(tokens))
	resolved := map[string]TargetRef{}
	for _, tok := range tokens {
		t, err := Resolve(tok, g)
		results = append(results, TargetResult{Token: tok, Target: t, Err: err})
		if err == nil {
			resolved[tok] = t
		}
	}

	if len(resolved) == 0 {
		return results, nil
	}

	err := m.Store.UpdateGroups(ctx, g.ID, func(groups map[string]Group) error {
		grp, ok := groups[group]
		if !ok {
			grp = NewGroup()
		}
		for tok, t := range resolved {
			grp.Targets[tok] = t
		}
		groups[group] = grp
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "update groups")
	}
	return results, nil
}

// RemoveTargets removes the given target tokens from the group.
// Tokens that weren't in the group are returned as missing.
func (m *Manager) RemoveTargets(ctx context.Context, guildID ID, group string, tokens []string) (removed, missing []string, err error) {
	err = m.Store.UpdateGroups(ctx, guildID, func(groups map[string]Group) error {
		removed, missing = nil, nil

		grp, ok := groups[group]
		if !ok {
			return errors.WithStack(ErrGroupNotFound)
		}
		for _, tok := range tokens {
			if _, ok := grp.Targets[tok]; ok {
				delete(grp.Targets, tok)
				removed = append(removed, tok)
			} else {
				missing = append(missing, tok)
			}
		}
		groups[group] = grp
		return nil
	})
	return removed, missing, err
}

// AddWords adds the given words to the group, creating it if it doesn't exist.
// Words already in the group are returned as existing.
func (m *Manager) AddWords(ctx context.Context, guildID ID, group string, words []string) (added, existing []string, err error) {
	if group == "" {
		return nil, nil, errors.WithStack(ErrNoGroupName)
	}

	err = m.Store.UpdateGroups(ctx, guildID, func(groups map[string]Group) error {
		added, existing = nil, nil

		grp, ok := groups[group]
		if !ok {
			grp = NewGroup()
		}
		for _, w := range words {
			w = NormalizeWord(w)
			if w == "" {
				continue
			}
			if grp.HasWord(w) {
				existing = append(existing, w)
				continue
			}
			grp.Words = append(grp.Words, w)
			sort.Strings(grp.Words)
			added = append(added, w)
		}
		groups[group] = grp
		return nil
	})
	return added, existing, err
}

// RemoveWords removes the given words from the group.
// Words that weren't in the group are returned as missing.
func (m *Manager) RemoveWords(ctx context.Context, guildID ID, group string, words []string) (removed, missing []string, err error) {
	err = m.Store.UpdateGroups(ctx, guildID, func(groups map[string]Group) error {
		removed, missing = nil, nil

		grp, ok := groups[group]
		if !ok {
			return errors.WithStack(ErrGroupNotFound)
		}
		for _, w := range words {
			w = NormalizeWord(w)
			if w == "" {
				continue
			}
			i := sort.SearchStrings(grp.Words, w)
			if i < len(grp.Words) && grp.Words[i] == w {
				grp.Words = append(grp.Words[:i], grp.Words[i+1:]...)
				removed = append(removed, w)
			} else {
				missing = append(missing, w)
			}
		}
		groups[group] = grp
		return nil
	})
	return removed, missing, err
}

// SetTemplate sets the group's message template, creating the group if it doesn't exist.
// An empty template resets the group to the default.
func (m *Manager) SetTemplate(ctx context.Context, guildID ID, group, tmpl string) error {
	if group == "" {
		return errors.WithStack(ErrNoGroupName)
	}

	return m.Store.UpdateGroups(ctx, guildID, func(groups map[string]Group) error {
		grp, ok := groups[group]
		if !ok {
			grp = NewGroup()
		}
		grp.Template = tmpl
		groups[group] = grp
		return nil
	})
}

// ClearAll deletes all of the guild's groups.
func (m *Manager) ClearAll(ctx context.Context, guildID ID) error {
	return errors.Wrap(m.Store.ClearGroups(ctx, guildID), "clear groups")
}

// Entry is a named group.
type Entry struct {
	Name string
	Group
}

// TargetTokens returns the group's target tokens, sorted.
func (g Group) TargetTokens() []string {
	toks := make([]string, 0, len(g.Targets))
	for t := range g.Targets {
		toks = append(toks, t)
	}
	sort.Strings(toks)
	return toks
}

// List returns all of the guild's groups, sorted by name.
func (m *Manager) List(ctx context.Context, guildID ID) ([]Entry, error) {
	groups, err := m.Store.Groups(ctx, guildID)
	if err != nil {
		return nil, errors.Wrap(err, "get groups")
	}
	return sortedEntries(groups), nil
}

func sortedEntries(groups map[string]Group) []Entry {
	entries := make([]Entry, 0, len(groups))
	for name, g := range groups {
		entries = append(entries, Entry{Name: name, Group: g})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}
