package snitch

import "time"

// Message is a message observed in a channel.
type Message struct {
	ID        ID
	ChannelID ID
	// GuildID is zero for direct messages.
	GuildID ID

	ChannelName string
	GuildName   string

	Author Member
	// FromMember is true if the author is a current guild member.
	// Webhook and system messages are not.
	FromMember bool

	// Content is the raw message text, and what trigger words are matched against.
	// CleanContent has mentions rendered as names and is only used for the command prefix check.
	Content      string
	CleanContent string

	URL          string
	AuthorAvatar string
	Timestamp    time.Time
	Edited       bool
}
