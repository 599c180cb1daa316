package bot

import (
	"net"
	"os"
	"os/signal"

	"emperror.dev/errors"
	"github.com/getsentry/sentry-go"
	"github.com/starshine-sys/snitch/api"
	"github.com/starshine-sys/snitch/bot"
	"github.com/starshine-sys/snitch/common"
	"github.com/starshine-sys/snitch/common/log"
	"github.com/starshine-sys/snitch/modules/admin"
	"github.com/starshine-sys/snitch/modules/cache"
	"github.com/starshine-sys/snitch/modules/nuke"
	"github.com/starshine-sys/snitch/modules/recorder"
	"github.com/starshine-sys/snitch/modules/snitching"
	"github.com/urfave/cli/v2"
)

var Command = &cli.Command{
	Name:   "bot",
	Usage:  "Run the bot",
	Action: run,
}

func run(c *cli.Context) error {
	conf, err := bot.ReadConfig(c.String("config"))
	if err != nil {
		return errors.Wrap(err, "reading config")
	}

	log.SetDebug(conf.Bot.Debug)
	defer log.Sync()

	// set up sentry
	if conf.Auth.Sentry != "" {
		log.Debug("setting up sentry")
		err := sentry.Init(sentry.ClientOptions{
			Dsn:     conf.Auth.Sentry,
			Release: common.Version(),
		})
		if err != nil {
			log.Fatalf("setting up sentry: %v", err)
		}

		log.Debug("set up sentry")
	} else {
		log.Debugf("sentry DSN was not provided, not setting it up")
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, os.Kill)
	defer cancel()

	b, err := bot.New(ctx, conf)
	if err != nil {
		return errors.Wrap(err, "creating bot")
	}

	defer func() {
		err := b.Close()
		if err != nil {
			log.Errorf("shutting down: %v", err)
		}
		log.Info("Shut down.")
	}()

	// set up modules (cache, moderation, commands)
	cache.Setup(b) // guild cache handlers
	err = snitching.Setup(b)
	if err != nil {
		return errors.Wrap(err, "setting up snitch")
	}
	err = recorder.Setup(b)
	if err != nil {
		return errors.Wrap(err, "setting up recorder")
	}
	nuke.Setup(b)
	admin.Setup(b) // help and settings commands

	if conf.API.Port != "" {
		srv := api.New(b.DB, b.Cabinet)
		srv.Listen(net.JoinHostPort(conf.API.Host, conf.API.Port))
		b.OnClose(srv.Close)
	}

	// actually run bot!
	err = b.Open(ctx)
	if err != nil {
		return errors.Wrap(err, "opening gateway connection")
	}

	log.Info("Connected to Discord. Press Ctrl-C or send an interrupt signal to stop.")

	<-ctx.Done()
	log.Info("Interrupt signal received. Shutting down...")
	return nil
}
