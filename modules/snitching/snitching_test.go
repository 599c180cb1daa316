package snitching

import (
	"context"
	"testing"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/snitch/snitch"
	"github.com/starshine-sys/snitch/store"
	"github.com/starshine-sys/snitch/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guildID discord.GuildID = 1

func testCabinet(t *testing.T) store.Cabinet {
	t.Helper()
	ctx := context.Background()

	m := memory.New()
	c := store.Cabinet{GuildStore: m, ChannelStore: m, RoleStore: m, MemberStore: m}

	require.NoError(t, c.GuildSet(ctx, discord.Guild{ID: guildID, Name: "Test Server"}))
	require.NoError(t, c.SetRoles(ctx, guildID, []discord.Role{{ID: 1, Name: "@everyone"}, {ID: 42, Name: "Tech"}}))
	require.NoError(t, c.SetChannels(ctx, guildID, []discord.Channel{{ID: 10, Name: "general", Type: discord.GuildText}}))
	require.NoError(t, c.SetChannel(ctx, 2, discord.Channel{ID: 20, Name: "elsewhere", Type: discord.GuildText}))
	require.NoError(t, c.SetMembers(ctx, guildID, []discord.Member{
		{User: discord.User{ID: 100, Username: "alice"}, RoleIDs: []discord.RoleID{42}},
		{User: discord.User{ID: 101, Username: "robot", Bot: true}, RoleIDs: []discord.RoleID{42}},
		{User: discord.User{ID: 102, Username: "bob"}},
	}))
	return c
}

func TestDirectory(t *testing.T) {
	ctx := context.Background()
	d := directory{testCabinet(t)}

	ch, err := d.Channel(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, snitch.Channel{ID: 10, Name: "general", Text: true}, ch)

	_, err = d.Channel(ctx, 1, 20)
	assert.ErrorIs(t, err, store.ErrNotFound, "channels in other guilds are not targets")

	m, err := d.Member(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, "alice", m.Username)

	_, err = d.Member(ctx, 1, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDirectoryRoleMembers(t *testing.T) {
	ctx := context.Background()
	d := directory{testCabinet(t)}

	ms, err := d.RoleMembers(ctx, 1, 42)
	require.NoError(t, err)
	var ids []snitch.ID
	for _, m := range ms {
		ids = append(ids, m.ID)
	}
	assert.ElementsMatch(t, []snitch.ID{100, 101}, ids)

	everyone, err := d.RoleMembers(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, everyone, 3)

	_, err = d.RoleMembers(ctx, 1, 43)
	assert.ErrorIs(t, err, store.ErrNotFound, "deleted roles fail")
}

func TestConvertMessage(t *testing.T) {
	ts := time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC)
	m := discord.Message{
		ID:        1000,
		ChannelID: 10,
		GuildID:   guildID,
		Author:    discord.User{ID: 102, Username: "bob"},
		Content:   "<@100> the wifi is down in <#10>",
		Mentions: []discord.GuildUser{
			{User: discord.User{ID: 100, Username: "alice"}},
		},
		Timestamp: discord.NewTimestamp(ts),
	}
	member := &discord.Member{Nick: "Bobby", RoleIDs: []discord.RoleID{42}}

	msg := ConvertMessage(m, member, "Test Server", "general", nil, []discord.Channel{{ID: 10, Name: "general"}})

	assert.Equal(t, snitch.ID(1000), msg.ID)
	assert.Equal(t, snitch.ID(1), msg.GuildID)
	assert.True(t, msg.FromMember)
	assert.Equal(t, "Bobby", msg.Author.DisplayName())
	assert.Equal(t, []snitch.ID{42}, msg.Author.RoleIDs)
	assert.Equal(t, m.Content, msg.Content)
	assert.Equal(t, "@alice the wifi is down in #general", msg.CleanContent)
	assert.Equal(t, "https://discord.com/channels/1/10/1000", msg.URL)
	assert.Equal(t, "Test Server", msg.GuildName)
	assert.Equal(t, "general", msg.ChannelName)
	assert.True(t, ts.Equal(msg.Timestamp))
	assert.False(t, msg.Edited)
}

func TestConvertWebhookMessage(t *testing.T) {
	m := discord.Message{
		ID:        1000,
		GuildID:   guildID,
		WebhookID: 5,
		Author:    discord.User{ID: 5, Username: "Captain Hook"},
		Content:   "wifi",
	}

	msg := ConvertMessage(m, &discord.Member{}, "", "", nil, nil)
	assert.False(t, msg.FromMember)

	msg = ConvertMessage(m, nil, "", "", nil, nil)
	assert.False(t, msg.FromMember)
	assert.Equal(t, "Captain Hook", msg.Author.DisplayName())
}

func TestPreviewEmbed(t *testing.T) {
	e := PreviewEmbed(snitch.Preview{
		Title:       "Bobby in general",
		Description: "the wifi is down",
		URL:         "https://discord.com/channels/1/10/1000",
		Thumbnail:   "https://cdn.example/avatar.png",
		Colour:      snitch.AccentColour,
	})

	assert.Equal(t, discord.LinkEmbed, e.Type)
	assert.Equal(t, "Bobby in general", e.Title)
	assert.Equal(t, discord.Color(0xE74C3C), e.Color)
	require.NotNil(t, e.Thumbnail)
	assert.Equal(t, "https://cdn.example/avatar.png", e.Thumbnail.URL)
	assert.False(t, e.Timestamp.IsValid())

	e = PreviewEmbed(snitch.Preview{Title: "x"})
	assert.Nil(t, e.Thumbnail)
}

func TestFormatList(t *testing.T) {
	tech := snitch.NewGroup()
	tech.Words = []string{"router", "wifi"}
	tech.Targets["#general"] = snitch.TargetRef{Kind: snitch.KindChannel, ID: 10}
	tech.Targets["Tech"] = snitch.TargetRef{Kind: snitch.KindRole, ID: 42}

	title, lines := FormatList([]snitch.Entry{
		{Name: "empty", Group: snitch.NewGroup()},
		{Name: "tech", Group: tech},
	})

	assert.Equal(t, "Filtered in this server (2 groups):", title)
	assert.Equal(t, []string{
		"\tempty tells nobody about nothing",
		"\ttech tells #general, Tech about router, wifi",
	}, lines)

	title, _ = FormatList([]snitch.Entry{{Name: "one", Group: snitch.NewGroup()}})
	assert.Equal(t, "Filtered in this server (1 group):", title)
}

func TestTargetLines(t *testing.T) {
	lines := TargetLines([]snitch.TargetResult{
		{Token: "#general", Target: snitch.TargetRef{Kind: snitch.KindChannel, ID: 10}},
		{Token: "nobody", Err: snitch.ErrTargetNotFound},
		{Token: "Tech", Target: snitch.TargetRef{Kind: snitch.KindRole, ID: 42}},
	})

	assert.Equal(t, []string{
		"Channel #general will be notified.",
		"Could not identify nobody.",
		"Role Tech will be notified.",
	}, lines)
}
