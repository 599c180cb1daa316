package recorder

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const timeFormat = "2006-01-02 15:04:05.000000"

// Line is a single recorded message.
type Line struct {
	Time    time.Time
	Server  string
	Channel string

	Display  string
	Username string

	Content string
	Edited  bool
}

func (l Line) String() string {
	content := l.Content
	if l.Edited {
		content = "*edit* " + content
	}

	return fmt.Sprintf("%v | #%v | @%v/%v :: %v\n",
		l.Time.UTC().Format(timeFormat), l.Channel, l.Display, l.Username, content)
}

// FileName returns the name of the log file for the channel.
func (l Line) FileName() string {
	return "recorder." + Sanitize(l.Server) + "." + Sanitize(l.Channel) + ".log"
}

// Sanitize makes a server or channel name safe to use in a file name.
func Sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))

	if name == "" || strings.Trim(name, ".") == "" {
		return "_"
	}
	return name
}
