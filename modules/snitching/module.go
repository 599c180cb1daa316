// Package snitching connects the snitch core to Discord: it feeds it guild
// messages, delivers its notifications, and adds the commands to configure it.
package snitching

import (
	"emperror.dev/errors"
	"github.com/ReneKroon/ttlcache/v2"
	"github.com/starshine-sys/snitch/bot"
	"github.com/starshine-sys/snitch/common/log"
	"github.com/starshine-sys/snitch/snitch"
)

type Bot struct {
	*bot.Bot

	router  *snitch.Router
	manager *snitch.Manager
}

func Setup(root *bot.Bot) error {
	log.Debug("Adding snitch handlers and commands")

	dms := ttlcache.NewCache()
	err := dms.SetTTL(dmChannelTTL)
	if err != nil {
		return errors.Wrap(err, "setting dm channel cache ttl")
	}
	root.OnClose(dms.Close)

	bot := &Bot{
		Bot:     root,
		manager: snitch.NewManager(root.DB),
	}

	bot.router = snitch.NewRouter(
		host{root},
		root.DB,
		&snitch.Dispatcher{
			Directory: directory{root.Cabinet},
			Deliverer: &deliverer{rest: root.Rest, dms: dms},
		},
	)

	bot.AddHandler(
		bot.messageCreate,
		bot.messageUpdate,
	)

	bot.addCommands()
	return nil
}
