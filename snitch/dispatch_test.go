package snitch

import (
	"context"
	"testing"

	"emperror.dev/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	msg := testMessage("")

	assert.Equal(t, "Snitching on Bobby for saying wifi and router",
		Render(DefaultTemplate, msg, []string{"wifi", "router"}))
	assert.Equal(t, "Bobby in #general on Test Server: {{unknown}}",
		Render("{{author}} in #{{channel}} on {{server}}: {{unknown}}", msg, nil))
}

func TestDispatchFaultIsolation(t *testing.T) {
	g := testGuild()
	d := &recordingDeliverer{fail: map[ID]error{
		100: errors.New("cannot send messages to this user"),
	}}
	disp := &Dispatcher{Directory: guildDirectory{g}, Deliverer: d}

	grp := NewGroup()
	grp.Targets["alice"] = TargetRef{KindMember, 100}
	grp.Targets["bob"] = TargetRef{KindMember, 102}
	grp.Targets["#general"] = TargetRef{KindChannel, 10}

	rep := disp.Dispatch(context.Background(), testMessage("wifi"), grp, []string{"wifi"})

	assert.Equal(t, 3, rep.Attempted)
	assert.Equal(t, 2, rep.Delivered)
	assert.Equal(t, 1, rep.Failed)
	assert.ElementsMatch(t, []Recipient{{Direct: true, ID: 102}, {ID: 10}}, d.recipients())

	err := rep.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `target "alice"`)
}

func TestDispatchContent(t *testing.T) {
	g := testGuild()
	d := &recordingDeliverer{}
	disp := &Dispatcher{Directory: guildDirectory{g}, Deliverer: d}

	grp := NewGroup()
	grp.Targets["#general"] = TargetRef{KindChannel, 10}
	grp.Targets["alice"] = TargetRef{KindMember, 100}

	msg := testMessage("the wifi is down")
	msg.AuthorAvatar = "https://cdn.example/avatar.png"
	disp.Dispatch(context.Background(), msg, grp, []string{"wifi"})

	require.Len(t, d.sent, 2)
	for _, s := range d.sent {
		if s.Direct {
			assert.Equal(t, "Snitching on Bobby for saying wifi", s.Content)
		} else {
			assert.Equal(t, "@everyone Snitching on Bobby for saying wifi", s.Content)
		}
		assert.Equal(t, Preview{
			Title:       "Bobby in general",
			Description: "the wifi is down",
			URL:         msg.URL,
			Thumbnail:   msg.AuthorAvatar,
			Colour:      AccentColour,
		}, s.Preview)
	}
}

func TestDispatchRoleSkipsBots(t *testing.T) {
	g := testGuild()
	d := &recordingDeliverer{}
	disp := &Dispatcher{Directory: guildDirectory{g}, Deliverer: d}

	grp := NewGroup()
	grp.Targets["role:42"] = TargetRef{KindRole, 42}
	grp.Targets["robot"] = TargetRef{KindMember, 101}

	rep := disp.Dispatch(context.Background(), testMessage("wifi"), grp, []string{"wifi"})

	assert.Equal(t, []Recipient{{Direct: true, ID: 100}}, d.recipients())
	assert.Equal(t, 1, rep.Attempted)
	assert.Equal(t, 2, rep.Skipped)
}

func TestDispatchDeduplicatesRecipients(t *testing.T) {
	g := testGuild()
	d := &recordingDeliverer{}
	disp := &Dispatcher{Directory: guildDirectory{g}, Deliverer: d}

	grp := NewGroup()
	grp.Targets["Tech"] = TargetRef{KindRole, 42}
	grp.Targets["alice"] = TargetRef{KindMember, 100}

	rep := disp.Dispatch(context.Background(), testMessage("wifi"), grp, []string{"wifi"})

	assert.Equal(t, []Recipient{{Direct: true, ID: 100}}, d.recipients())
	assert.Equal(t, 1, rep.Delivered)
	// the bot in Tech and the second alice
	assert.Equal(t, 2, rep.Skipped)
}

func TestDispatchStaleTarget(t *testing.T) {
	g := testGuild()
	d := &recordingDeliverer{}
	disp := &Dispatcher{Directory: guildDirectory{g}, Deliverer: d}

	grp := NewGroup()
	grp.Targets["old channel"] = TargetRef{KindChannel, 999}
	grp.Targets["bob"] = TargetRef{KindMember, 102}

	rep := disp.Dispatch(context.Background(), testMessage("wifi"), grp, []string{"wifi"})

	assert.Equal(t, 1, rep.Delivered)
	assert.Equal(t, 1, rep.Failed)
	assert.Equal(t, []Recipient{{Direct: true, ID: 102}}, d.recipients())
}

func TestDispatchEveryoneRole(t *testing.T) {
	g := testGuild()
	d := &recordingDeliverer{}
	disp := &Dispatcher{Directory: guildDirectory{g}, Deliverer: d}

	grp := NewGroup()
	grp.Targets["@everyone"] = TargetRef{KindRole, testGuildID}

	rep := disp.Dispatch(context.Background(), testMessage("wifi"), grp, []string{"wifi"})

	assert.ElementsMatch(t, []Recipient{{Direct: true, ID: 100}, {Direct: true, ID: 102}}, d.recipients())
	assert.Equal(t, 1, rep.Skipped)
}
