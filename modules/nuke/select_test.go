package nuke

import (
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
)

func testSelection() Selection {
	member := func(id discord.UserID, roles ...discord.RoleID) discord.Member {
		return discord.Member{User: discord.User{ID: id}, RoleIDs: roles}
	}

	return Selection{
		GuildID: 1,
		Roles: []discord.Role{
			{ID: 1, Name: "@everyone"},
			{ID: 42, Name: "Guests"},
			{ID: 43, Name: "Staff"},
			{ID: 44, Name: "guests"},
		},
		Members: []discord.Member{
			member(100, 42),
			member(101, 42, 43),
			member(102, 43),
			member(103),
			// the bot
			member(200, 42),
		},
		Protected: []discord.UserID{200},
	}
}

func ids(ms []discord.Member) []discord.UserID {
	var out []discord.UserID
	for _, m := range ms {
		out = append(out, m.User.ID)
	}
	return out
}

func TestSelectRoles(t *testing.T) {
	targets, missing := testSelection().Select([]string{"Guests"}, false)
	assert.Empty(t, missing)
	assert.Equal(t, []discord.UserID{100, 101}, ids(targets))
}

func TestSelectExcept(t *testing.T) {
	targets, missing := testSelection().Select([]string{"Staff"}, true)
	assert.Empty(t, missing)
	assert.Equal(t, []discord.UserID{100, 103}, ids(targets))
}

func TestSelectMultipleRoles(t *testing.T) {
	targets, _ := testSelection().Select([]string{"Guests", "Staff"}, false)
	assert.Equal(t, []discord.UserID{100, 101, 102}, ids(targets))

	targets, _ = testSelection().Select([]string{"Guests", "Staff"}, true)
	assert.Equal(t, []discord.UserID{103}, ids(targets))
}

func TestSelectExactNames(t *testing.T) {
	targets, _ := testSelection().Select([]string{"guests"}, false)
	assert.Empty(t, targets, "role names are case sensitive")
}

func TestSelectMissingRoles(t *testing.T) {
	targets, missing := testSelection().Select([]string{"Guests", "Mods", "Admins"}, true)
	assert.Nil(t, targets)
	assert.Equal(t, []string{"Mods", "Admins"}, missing)
}

func TestSelectEveryone(t *testing.T) {
	targets, _ := testSelection().Select([]string{"@everyone"}, false)
	assert.Equal(t, []discord.UserID{100, 101, 102, 103}, ids(targets), "protected users are never selected")

	targets, _ = testSelection().Select([]string{"@everyone"}, true)
	assert.Empty(t, targets)
}

func TestMissingRoles(t *testing.T) {
	assert.Equal(t, "The following roles could not be found: a, b.\nNot running until all roles are recognized.",
		MissingRoles([]string{"a", "b"}))
}
