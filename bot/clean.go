package bot

import (
	"strings"

	"github.com/diamondburned/arikawa/v3/discord"
)

// CleanContent returns the message's content with user, role and channel mentions
// replaced with their names, as displayed in the client.
func CleanContent(m discord.Message, roles []discord.Role, channels []discord.Channel) string {
	if m.Content == "" {
		return ""
	}

	var pairs []string
	for _, u := range m.Mentions {
		name := u.Username
		if u.Member != nil && u.Member.Nick != "" {
			name = u.Member.Nick
		}
		pairs = append(pairs,
			"<@"+u.ID.String()+">", "@"+name,
			"<@!"+u.ID.String()+">", "@"+name,
		)
	}

	for _, r := range roles {
		pairs = append(pairs, "<@&"+r.ID.String()+">", "@"+r.Name)
	}

	for _, ch := range channels {
		pairs = append(pairs, "<#"+ch.ID.String()+">", "#"+ch.Name)
	}

	if len(pairs) == 0 {
		return m.Content
	}
	return strings.NewReplacer(pairs...).Replace(m.Content)
}
