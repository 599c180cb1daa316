package snitch

import (
	"context"
	"testing"

	"emperror.dev/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routerFixture struct {
	router  *Router
	manager *Manager
	sent    *recordingDeliverer
}

func newRouterFixture(t *testing.T, h Host) routerFixture {
	t.Helper()

	g := testGuild()
	s := NewMemoryStore()
	d := &recordingDeliverer{}
	f := routerFixture{
		router:  NewRouter(h, s, &Dispatcher{Directory: guildDirectory{g}, Deliverer: d}),
		manager: NewManager(s),
		sent:    d,
	}

	ctx := context.Background()
	_, _, err := f.manager.AddWords(ctx, testGuildID, "tech", []string{"wifi"})
	require.NoError(t, err)
	res, err := f.manager.AddTargets(ctx, g, "tech", []string{"role:42", "Tech"})
	require.NoError(t, err)
	require.ErrorIs(t, res[0].Err, ErrTargetNotFound)
	require.NoError(t, res[1].Err)

	return f
}

func TestRouterEndToEnd(t *testing.T) {
	f := newRouterFixture(t, staticHost{prefixes: []string{"!"}})

	res, err := f.router.HandleMessage(context.Background(), testMessage("the wifi is down"))
	require.NoError(t, err)
	require.True(t, res.Processed())
	require.Contains(t, res.Reports, "tech")

	// Tech has alice and a bot; only alice gets a message
	assert.Equal(t, []Recipient{{Direct: true, ID: 100}}, f.sent.recipients())
	rep := res.Reports["tech"]
	assert.Equal(t, 1, rep.Attempted)
	assert.Equal(t, 1, rep.Skipped)
}

func TestRouterNoMatch(t *testing.T) {
	f := newRouterFixture(t, staticHost{prefixes: []string{"!"}})

	res, err := f.router.HandleMessage(context.Background(), testMessage("the network is down"))
	require.NoError(t, err)
	assert.True(t, res.Processed())
	assert.Empty(t, res.Reports)
	assert.Empty(t, f.sent.recipients())
}

func TestRouterFilters(t *testing.T) {
	tests := []struct {
		name   string
		host   staticHost
		modify func(*Message)
		want   Reason
	}{
		{"direct message", staticHost{}, func(m *Message) { m.GuildID = 0 }, ReasonNotGuild},
		{"module disabled", staticHost{disabled: true}, nil, ReasonDisabled},
		{"webhook", staticHost{}, func(m *Message) { m.FromMember = false }, ReasonNotMember},
		{"bot author", staticHost{}, func(m *Message) { m.Author.Bot = true }, ReasonBot},
		{"command", staticHost{prefixes: []string{"!"}}, func(m *Message) { m.Content = "!snitch on tech wifi" }, ReasonCommand},
		{"mention command", staticHost{prefixes: []string{"@Snitch "}}, func(m *Message) {
			m.Content = "<@999> snitch on tech wifi"
			m.CleanContent = "@Snitch snitch on tech wifi"
		}, ReasonCommand},
		{"immune", staticHost{immune: map[ID]bool{102: true}}, nil, ReasonImmune},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newRouterFixture(t, tc.host)

			msg := testMessage("the wifi is down")
			if tc.modify != nil {
				tc.modify(&msg)
			}

			res, err := f.router.HandleMessage(context.Background(), msg)
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.Filtered)
			assert.False(t, res.Processed())
			assert.Empty(t, f.sent.recipients(), "filtered messages never dispatch")
		})
	}
}

func TestRouterHostError(t *testing.T) {
	f := newRouterFixture(t, staticHost{err: errors.New("database unavailable")})

	_, err := f.router.HandleMessage(context.Background(), testMessage("the wifi is down"))
	assert.Error(t, err)
	assert.Empty(t, f.sent.recipients())
}

func TestRouterGroupsAreIndependent(t *testing.T) {
	f := newRouterFixture(t, staticHost{})
	ctx := context.Background()

	_, _, err := f.manager.AddWords(ctx, testGuildID, "network", []string{"wifi", "router"})
	require.NoError(t, err)
	_, err = f.manager.AddTargets(ctx, testGuild(), "network", []string{"general"})
	require.NoError(t, err)

	res, err := f.router.HandleMessage(ctx, testMessage("wifi"))
	require.NoError(t, err)
	assert.Len(t, res.Reports, 2)
	assert.ElementsMatch(t, []Recipient{{Direct: true, ID: 100}, {ID: 10}}, f.sent.recipients())
}

func TestRouterEditReadsNewText(t *testing.T) {
	f := newRouterFixture(t, staticHost{})

	old := testMessage("the network is down")
	updated := testMessage("the wifi is down")

	res, err := f.router.HandleMessageEdit(context.Background(), &old, updated)
	require.NoError(t, err)
	assert.Contains(t, res.Reports, "tech")
	assert.Len(t, f.sent.recipients(), 1)
}

func TestRouterSeesLiveEdits(t *testing.T) {
	f := newRouterFixture(t, staticHost{})
	ctx := context.Background()

	_, _, err := f.manager.RemoveWords(ctx, testGuildID, "tech", []string{"wifi"})
	require.NoError(t, err)

	res, err := f.router.HandleMessage(ctx, testMessage("the wifi is down"))
	require.NoError(t, err)
	assert.Empty(t, res.Reports)
}
