package bot

import (
	"context"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/ReneKroon/ttlcache/v2"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session/shard"
	"github.com/diamondburned/arikawa/v3/state"
	arikawastore "github.com/diamondburned/arikawa/v3/state/store"
	"github.com/diamondburned/arikawa/v3/utils/ws"
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/snitch/common/log"
	"github.com/starshine-sys/snitch/db"
	"github.com/starshine-sys/snitch/store"
	"github.com/starshine-sys/snitch/store/memory"
	"github.com/starshine-sys/snitch/store/redis"
)

// IntentMessageContent is missing from arikawa
const IntentMessageContent gateway.Intents = 1 << 15

const Intents = gateway.IntentGuilds |
	gateway.IntentGuildMembers |
	gateway.IntentGuildMessages |
	gateway.IntentGuildMessageReactions |
	gateway.IntentDirectMessages |
	gateway.IntentDirectMessageReactions |
	IntentMessageContent

type Bot struct {
	Router       *bcr.Router
	ShardManager *shard.Manager
	// Rest is used for requests that aren't tied to a shard, such as direct messages.
	Rest *api.Client
	DB   *db.DB

	user   discord.User
	userMu sync.RWMutex
	Config Config

	Cabinet store.Cabinet
	redis   *redis.Store

	commands   []*bcr.Command
	commandsMu sync.RWMutex

	settings *ttlcache.Cache

	closers []func() error
	done    chan struct{}
}

// New creates a new Bot.
func New(ctx context.Context, c Config) (*Bot, error) {
	// set up debug logging
	ws.WSDebug = log.Debug
	ws.WSError = func(err error) {
		log.SugaredLogger.Error("ws error: ", err)
	}

	// set up the shard manager, including intents and stores
	mgr, err := shard.NewManager("Bot "+c.Auth.Discord, state.NewShardFunc(func(m *shard.Manager, s *state.State) {
		s.AddIntents(Intents)

		// clear all stores that we manage ourselves, as well as ones we don't use (message/presence store)
		s.Cabinet.ChannelStore = arikawastore.Noop
		s.Cabinet.GuildStore = arikawastore.Noop
		s.Cabinet.MemberStore = arikawastore.Noop
		s.Cabinet.MessageStore = arikawastore.Noop
		s.Cabinet.PresenceStore = arikawastore.Noop
		s.Cabinet.RoleStore = arikawastore.Noop
	}))
	if err != nil {
		return nil, errors.Wrap(err, "creating shard manager")
	}

	owners := make([]string, 0, len(c.Bot.Owners))
	for _, id := range c.Bot.Owners {
		owners = append(owners, id.String())
	}

	// set up command router
	bot := &Bot{
		Config:       c,
		Router:       bcr.New(mgr, owners, c.Bot.Prefixes),
		ShardManager: mgr,
		Rest:         api.NewClient("Bot " + c.Auth.Discord),
		settings:     ttlcache.NewCache(),
		done:         make(chan struct{}),
	}
	bot.Router.EmbedColor = bcr.ColourPurple
	bot.Router.Prefixer = bot.matchPrefix
	bot.closers = append(bot.closers, bot.settings.Close)

	err = bot.settings.SetTTL(settingsTTL)
	if err != nil {
		return nil, errors.Wrap(err, "setting settings cache ttl")
	}

	// setup database
	bot.DB, err = db.New(ctx, c.Auth.Postgres, c.Bot.NoAutoMigrate)
	if err != nil {
		return nil, errors.Wrap(err, "creating database")
	}
	bot.closers = append(bot.closers, func() error {
		bot.DB.Close()
		return nil
	})

	// create stores
	memoryStore := memory.New()
	bot.Cabinet = store.Cabinet{
		MemberStore:  memoryStore,
		ChannelStore: memoryStore,
		GuildStore:   memoryStore,
		RoleStore:    memoryStore,
	}

	if c.Auth.Redis != "" {
		bot.redis, err = redis.New(ctx, c.Auth.Redis)
		if err != nil {
			return nil, errors.Wrap(err, "creating redis store")
		}
		bot.closers = append(bot.closers, bot.redis.Close)

		bot.Cabinet.MemberStore = bot.redis
	} else {
		log.Info("No redis URL set, caching members in memory")
	}

	// log requests
	bot.Rest.Client.OnResponse = append(bot.Rest.Client.OnResponse, bot.onResponse)
	bot.ShardManager.ForEach(func(shard shard.Shard) {
		s := shard.(*state.State)
		s.Client.Client.OnResponse = append(s.Client.Client.OnResponse, bot.onResponse)

		var o sync.Once
		s.AddHandler(func(ev *gateway.ReadyEvent) {
			o.Do(func() {
				var shardID int
				if ev.Shard != nil {
					shardID = ev.Shard.ShardID()
				}
				go bot.statusLoop(s, shardID)
			})
		})
	})

	// add self user cache handler
	bot.AddHandler(bot.ready, bot.messageCreate)

	return bot, nil
}

func (bot *Bot) Open(ctx context.Context) error {
	log.Debug("opening gateway connection")

	return bot.ShardManager.Open(ctx)
}

// Close closes the gateway connection, then the database and caches.
func (bot *Bot) Close() error {
	close(bot.done)

	errs := []error{bot.ShardManager.Close()}
	for i := len(bot.closers) - 1; i >= 0; i-- {
		errs = append(errs, bot.closers[i]())
	}
	return errors.Combine(errs...)
}

// OnClose adds a function that's called when the bot is closed.
// Functions are called in reverse order.
func (bot *Bot) OnClose(fn func() error) {
	bot.closers = append(bot.closers, fn)
}

// AddHandler adds handlers to all states.
func (bot *Bot) AddHandler(i ...any) {
	bot.ShardManager.ForEach(func(shard shard.Shard) {
		s := shard.(*state.State)
		for _, hn := range i {
			s.AddHandler(hn)
		}
	})
}

func (bot *Bot) StateFromGuildID(guildID discord.GuildID) (s *state.State, id int) {
	shard, id := bot.ShardManager.FromGuildID(guildID)
	return shard.(*state.State), id
}

// Me returns the bot user.
func (bot *Bot) Me() discord.User {
	bot.userMu.RLock()
	defer bot.userMu.RUnlock()
	return bot.user
}

// ready sets the bot user
func (bot *Bot) ready(ev *gateway.ReadyEvent) {
	if ev.Shard != nil {
		log.Infof("Shard %d/%d is ready!", ev.Shard.ShardID()+1, ev.Shard.NumShards())
	}

	if ev.Shard != nil && ev.Shard.ShardID() != 0 {
		return
	}

	bot.userMu.Lock()
	bot.user = ev.User
	bot.userMu.Unlock()

	u := ev.User
	bot.Router.Bot = &u
}

// Timeout returns a context that times out after d, or the configured timeout if d is zero.
func (bot *Bot) Timeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d == 0 {
		d = bot.Config.Bot.HandlerTimeout()
	}
	return context.WithTimeout(context.Background(), d)
}
