package snitch

// Member is a guild member.
type Member struct {
	ID       ID
	Username string
	Nickname string
	Bot      bool
	RoleIDs  []ID
}

// DisplayName returns the member's nickname, or their username if they have none.
func (m Member) DisplayName() string {
	if m.Nickname != "" {
		return m.Nickname
	}
	return m.Username
}

// HasRole returns true if the member has the given role.
// Every member implicitly has the @everyone role, whose ID is the guild ID.
func (m Member) HasRole(guildID, roleID ID) bool {
	if roleID == guildID {
		return true
	}
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

type Role struct {
	ID   ID
	Name string
}

type Channel struct {
	ID   ID
	Name string
	// Text is true if messages can be posted in the channel.
	Text bool
}

// Guild is a point-in-time snapshot of a guild.
// Slices are in the order the host enumerates them; lookups return the first match.
type Guild struct {
	ID      ID
	Name    string
	OwnerID ID

	Roles    []Role
	Members  []Member
	Channels []Channel
}

func (g *Guild) Member(id ID) (Member, bool) {
	for _, m := range g.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

func (g *Guild) Role(id ID) (Role, bool) {
	for _, r := range g.Roles {
		if r.ID == id {
			return r, true
		}
	}
	return Role{}, false
}

func (g *Guild) Channel(id ID) (Channel, bool) {
	for _, ch := range g.Channels {
		if ch.ID == id {
			return ch, true
		}
	}
	return Channel{}, false
}

// RoleMembers returns every member with the given role.
func (g *Guild) RoleMembers(roleID ID) []Member {
	var ms []Member
	for _, m := range g.Members {
		if m.HasRole(g.ID, roleID) {
			ms = append(ms, m)
		}
	}
	return ms
}
