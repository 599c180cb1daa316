package memory

import (
	"context"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/snitch/store"
)

var _ store.MemberStore = (*Store)(nil)

func (s *Store) IsGuildCached(_ context.Context, guildID discord.GuildID) (bool, error) {
	s.membersMu.RLock()
	defer s.membersMu.RUnlock()

	_, ok := s.cachedMembers[guildID]
	return ok, nil
}

func (s *Store) MarkGuildCached(_ context.Context, guildID discord.GuildID) error {
	s.membersMu.Lock()
	defer s.membersMu.Unlock()

	s.cachedMembers[guildID] = struct{}{}
	return nil
}

func (s *Store) Member(_ context.Context, guildID discord.GuildID, userID discord.UserID) (discord.Member, error) {
	s.membersMu.RLock()
	defer s.membersMu.RUnlock()

	m, ok := s.members[guildID][userID]
	if !ok {
		return discord.Member{}, store.ErrNotFound
	}
	return m, nil
}

func (s *Store) Members(_ context.Context, guildID discord.GuildID) ([]discord.Member, error) {
	s.membersMu.RLock()
	defer s.membersMu.RUnlock()

	ms := make([]discord.Member, 0, len(s.members[guildID]))
	for _, m := range s.members[guildID] {
		ms = append(ms, m)
	}
	return ms, nil
}

func (s *Store) MemberExists(_ context.Context, guildID discord.GuildID, userID discord.UserID) (bool, error) {
	s.membersMu.RLock()
	defer s.membersMu.RUnlock()

	_, ok := s.members[guildID][userID]
	return ok, nil
}

func (s *Store) SetMember(ctx context.Context, guildID discord.GuildID, m discord.Member) error {
	return s.SetMembers(ctx, guildID, []discord.Member{m})
}

func (s *Store) SetMembers(_ context.Context, guildID discord.GuildID, ms []discord.Member) error {
	s.membersMu.Lock()
	defer s.membersMu.Unlock()

	if s.members[guildID] == nil {
		s.members[guildID] = make(map[discord.UserID]discord.Member, len(ms))
	}
	for _, m := range ms {
		s.members[guildID][m.User.ID] = m
	}
	return nil
}

func (s *Store) RemoveMember(_ context.Context, guildID discord.GuildID, userID discord.UserID) error {
	s.membersMu.Lock()
	defer s.membersMu.Unlock()

	delete(s.members[guildID], userID)
	return nil
}

func (s *Store) RemoveMembers(_ context.Context, guildID discord.GuildID) error {
	s.membersMu.Lock()
	defer s.membersMu.Unlock()

	delete(s.members, guildID)
	delete(s.cachedMembers, guildID)
	return nil
}
