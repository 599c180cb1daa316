package bot

import (
	"os"
	"time"

	"emperror.dev/errors"
	"github.com/BurntSushi/toml"
	"github.com/diamondburned/arikawa/v3/discord"
)

type Config struct {
	Auth     AuthConfig     `toml:"auth"`
	Bot      BotConfig      `toml:"bot"`
	Recorder RecorderConfig `toml:"recorder"`
	API      APIConfig      `toml:"api"`
}

type AuthConfig struct {
	Discord  string `toml:"discord"`
	Postgres string `toml:"postgres"`
	// Redis is optional, members are cached in memory if it's not set.
	Redis  string `toml:"redis"`
	Sentry string `toml:"sentry"`
}

type BotConfig struct {
	Owners []discord.UserID `toml:"owners"`
	// Default prefixes, used in guilds that haven't set their own.
	Prefixes []string `toml:"prefixes"`
	Debug    bool     `toml:"debug"`

	SupportServer string `toml:"support_server"`

	// Timeout for handling a single event, in seconds.
	Timeout int `toml:"timeout"`

	// NoAutoMigrate specifies if migrations should be done automatically when the bot starts.
	// If this is set to true, migrations must be done manually by running the `./snitch migrate` command.
	NoAutoMigrate bool `toml:"no_auto_migrate"`
}

type RecorderConfig struct {
	// Directory the logs are written to. The recorder is disabled if this is empty.
	Directory string `toml:"directory"`
}

type APIConfig struct {
	// Port the status API listens on. The API is disabled if this is empty.
	Port string `toml:"port"`
	Host string `toml:"host"`
}

const defaultTimeout = 2 * time.Minute

// HandlerTimeout returns the configured event handler timeout.
func (c BotConfig) HandlerTimeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return time.Duration(c.Timeout) * time.Second
}

// IsOwner returns true if the user is a bot owner.
func (c BotConfig) IsOwner(id discord.UserID) bool {
	for _, o := range c.Owners {
		if o == id {
			return true
		}
	}
	return false
}

func ReadConfig(path string) (c Config, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "read config file")
	}

	err = toml.Unmarshal(b, &c)
	if err != nil {
		return c, errors.Wrap(err, "unmarshal config")
	}

	if c.Auth.Discord == "" {
		return c, errors.New("no Discord token set")
	}
	if c.Auth.Postgres == "" {
		return c, errors.New("no postgres URL set")
	}
	if len(c.Bot.Prefixes) == 0 {
		c.Bot.Prefixes = []string{"!"}
	}
	return c, nil
}
