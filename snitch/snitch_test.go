package snitch

import (
	"context"
	"sync"

	"emperror.dev/errors"
)

const testGuildID ID = 1

// testGuild returns a guild with:
//   - roles @everyone (1), Tech (42) and Helpers (43), where Tech is also the
//     nickname of member 102
//   - members alice (100, Tech), robot (101, Tech, bot) and bob (102, Helpers)
//   - channels general (10, text), Voice (11, voice) and tech (12, text)
func testGuild() *Guild {
	return &Guild{
		ID:      testGuildID,
		Name:    "Test Server",
		OwnerID: 100,
		Roles: []Role{
			{ID: 1, Name: "@everyone"},
			{ID: 42, Name: "Tech"},
			{ID: 43, Name: "Helpers"},
		},
		Members: []Member{
			{ID: 100, Username: "alice", RoleIDs: []ID{42}},
			{ID: 101, Username: "robot", Bot: true, RoleIDs: []ID{42}},
			{ID: 102, Username: "bob", Nickname: "Tech", RoleIDs: []ID{43}},
		},
		Channels: []Channel{
			{ID: 10, Name: "general", Text: true},
			{ID: 11, Name: "Voice"},
			{ID: 12, Name: "tech", Text: true},
		},
	}
}

// guildDirectory is a Directory backed by a Guild snapshot.
type guildDirectory struct{ g *Guild }

func (d guildDirectory) Channel(_ context.Context, _, id ID) (Channel, error) {
	ch, ok := d.g.Channel(id)
	if !ok {
		return ch, errors.New("unknown channel")
	}
	return ch, nil
}

func (d guildDirectory) Member(_ context.Context, _, id ID) (Member, error) {
	m, ok := d.g.Member(id)
	if !ok {
		return m, errors.New("unknown member")
	}
	return m, nil
}

func (d guildDirectory) RoleMembers(_ context.Context, _, id ID) ([]Member, error) {
	if _, ok := d.g.Role(id); !ok {
		return nil, errors.New("unknown role")
	}
	return d.g.RoleMembers(id), nil
}

type sent struct {
	Recipient
	Notification
}

// recordingDeliverer records every delivery and fails for the IDs in fail.
type recordingDeliverer struct {
	mu   sync.Mutex
	sent []sent
	fail map[ID]error
}

func (d *recordingDeliverer) deliver(r Recipient, n Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.fail[r.ID]; err != nil {
		return err
	}
	d.sent = append(d.sent, sent{r, n})
	return nil
}

func (d *recordingDeliverer) SendChannel(_ context.Context, id ID, n Notification) error {
	return d.deliver(Recipient{ID: id}, n)
}

func (d *recordingDeliverer) SendDirect(_ context.Context, id ID, n Notification) error {
	return d.deliver(Recipient{Direct: true, ID: id}, n)
}

func (d *recordingDeliverer) recipients() []Recipient {
	d.mu.Lock()
	defer d.mu.Unlock()

	rs := make([]Recipient, 0, len(d.sent))
	for _, s := range d.sent {
		rs = append(rs, s.Recipient)
	}
	return rs
}

// staticHost is a Host with fixed answers.
type staticHost struct {
	disabled bool
	prefixes []string
	immune   map[ID]bool
	err      error
}

func (h staticHost) ModuleEnabled(context.Context, ID, string) (bool, error) {
	return !h.disabled, h.err
}

func (h staticHost) Prefixes(context.Context, ID) ([]string, error) {
	return h.prefixes, h.err
}

func (h staticHost) AutomodImmune(_ context.Context, msg Message) (bool, error) {
	return h.immune[msg.Author.ID], h.err
}

func testMessage(content string) Message {
	return Message{
		ID:          1000,
		ChannelID:   10,
		GuildID:     testGuildID,
		ChannelName: "general",
		GuildName:   "Test Server",
		Author:      Member{ID: 102, Username: "bob", Nickname: "Bobby"},
		FromMember:  true,
		Content:     content,
		URL:         "https://discord.com/channels/1/10/1000",
	}
}
