package snitch

import (
	"context"
	"sort"
	"strings"
	"sync"

	"emperror.dev/errors"
)

// DefaultTemplate is used when a group has no message template.
const DefaultTemplate = "Snitching on {{author}} for saying {{words}}"

// Group is a named set of trigger words and notification targets.
type Group struct {
	// Words is sorted and lower case.
	Words []string `json:"words"`
	// Targets is keyed by the token the target was added with.
	Targets  map[string]TargetRef `json:"targets"`
	Template string               `json:"message,omitempty"`
}

// NewGroup returns an empty group with its collections allocated.
func NewGroup() Group {
	return Group{
		Words:   []string{},
		Targets: map[string]TargetRef{},
	}
}

// Clone returns a deep copy of g. The copy never has nil collections.
func (g Group) Clone() Group {
	c := NewGroup()
	c.Words = append(c.Words, g.Words...)
	for k, v := range g.Targets {
		c.Targets[k] = v
	}
	c.Template = g.Template
	return c
}

// HasWord returns true if w is one of the group's words.
func (g Group) HasWord(w string) bool {
	w = NormalizeWord(w)
	i := sort.SearchStrings(g.Words, w)
	return i < len(g.Words) && g.Words[i] == w
}

// MessageTemplate returns the group's template, or the default.
func (g Group) MessageTemplate() string {
	if g.Template == "" {
		return DefaultTemplate
	}
	return g.Template
}

// NormalizeWord returns the stored form of a trigger word.
func NormalizeWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}

func cloneGroups(src map[string]Group) map[string]Group {
	dst := make(map[string]Group, len(src))
	for k, v := range src {
		dst[k] = v.Clone()
	}
	return dst
}

// Store persists groups per guild.
type Store interface {
	// Groups returns a copy of all of the guild's groups.
	Groups(ctx context.Context, guildID ID) (map[string]Group, error)
	// UpdateGroups runs fn on a copy of the guild's groups and saves the result
	// if fn returns nil. No other update for the guild runs concurrently.
	UpdateGroups(ctx context.Context, guildID ID, fn func(groups map[string]Group) error) error
	// ClearGroups deletes every group in the guild.
	ClearGroups(ctx context.Context, guildID ID) error
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu     sync.Mutex
	locks  map[ID]*sync.Mutex
	guilds map[ID]map[string]Group
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		locks:  map[ID]*sync.Mutex{},
		guilds: map[ID]map[string]Group{},
	}
}

func (s *MemoryStore) guildLock(id ID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *MemoryStore) load(id ID) map[string]Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneGroups(s.guilds[id])
}

func (s *MemoryStore) save(id ID, groups map[string]Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guilds[id] = cloneGroups(groups)
}

func (s *MemoryStore) Groups(_ context.Context, guildID ID) (map[string]Group, error) {
	return s.load(guildID), nil
}

func (s *MemoryStore) UpdateGroups(ctx context.Context, guildID ID, fn func(map[string]Group) error) error {
	l := s.guildLock(guildID)
	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	groups := s.load(guildID)
	if err := fn(groups); err != nil {
		return err
	}
	s.save(guildID, groups)
	return nil
}

func (s *MemoryStore) ClearGroups(_ context.Context, guildID ID) error {
	l := s.guildLock(guildID)
	l.Lock()
	defer l.Unlock()

	s.mu.Lock()
	delete(s.guilds, guildID)
	s.mu.Unlock()
	return nil
}
