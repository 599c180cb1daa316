package nuke

import (
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/snitch/common"
)

// Selection picks the members to kick from a guild.
type Selection struct {
	GuildID discord.GuildID
	Members []discord.Member
	Roles   []discord.Role
	// Protected users are never selected.
	Protected []discord.UserID
}

// Select returns the members holding any of the named roles, or, if except is true,
// the members holding none of them. Role names must match exactly.
// If any name doesn't match a role, no members are returned and the names are returned as missing.
func (s Selection) Select(names []string, except bool) (targets []discord.Member, missing []string) {
	roles := common.NewSet[discord.RoleID]()
	for _, name := range names {
		r, ok := s.role(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		roles.Add(r.ID)
	}
	if len(missing) > 0 {
		return nil, missing
	}

	protected := common.NewSet(s.Protected...)
	for _, m := range s.Members {
		if protected.Exists(m.User.ID) {
			continue
		}

		if s.hasAny(m, roles) != except {
			targets = append(targets, m)
		}
	}
	return targets, nil
}

// role returns the first role with the given name.
func (s Selection) role(name string) (discord.Role, bool) {
	for _, r := range s.Roles {
		if r.Name == name {
			return r, true
		}
	}
	return discord.Role{}, false
}

func (s Selection) hasAny(m discord.Member, roles *common.Set[discord.RoleID]) bool {
	// everyone has the @everyone role
	if roles.Exists(discord.RoleID(s.GuildID)) {
		return true
	}

	for _, id := range m.RoleIDs {
		if roles.Exists(id) {
			return true
		}
	}
	return false
}
