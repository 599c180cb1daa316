package admin

import (
	"strings"
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/snitch/db"
	"github.com/starshine-sys/snitch/snitch"
	"github.com/stretchr/testify/assert"
)

func TestCommandList(t *testing.T) {
	cmds := []*bcr.Command{
		{Name: "help", Summary: "Show a list of commands."},
		{Name: "autoimmune", Summary: "Manage immunity.", Permissions: discord.PermissionManageGuild},
	}

	lines := CommandList("!", cmds)
	assert.Equal(t, []string{
		"`!help` - Show a list of commands.",
		"`!autoimmune` - Manage immunity. (requires " + strings.Join(bcr.PermStrings(discord.PermissionManageGuild), ", ") + ")",
	}, lines)
}

func TestFormatImmune(t *testing.T) {
	assert.Equal(t, "Immune users: none\nImmune roles: none\n"+
		"The server owner and members with the Administrator permission are always immune.",
		formatImmune(db.GuildSettings{}))

	s := db.GuildSettings{ImmuneUsers: []int64{100, 101}, ImmuneRoles: []int64{42}}
	assert.Contains(t, formatImmune(s), "Immune users: <@100>, <@101>\nImmune roles: <@&42>\n")
}

func TestImmuneList(t *testing.T) {
	l, ok := immuneList(snitch.KindMember)
	assert.True(t, ok)
	assert.Equal(t, db.ImmuneUsers, l)

	l, ok = immuneList(snitch.KindRole)
	assert.True(t, ok)
	assert.Equal(t, db.ImmuneRoles, l)

	_, ok = immuneList(snitch.KindChannel)
	assert.False(t, ok)
}

func TestModules(t *testing.T) {
	assert.Equal(t, []string{"snitch", "recorder"}, Modules)
}
