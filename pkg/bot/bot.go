package bot

import (
	"context"
	"time"

	tele "gopkg.in/telebot.v3"

	"taxifleet/config"
	"taxifleet/pkg/logger"
	"taxifleet/service"
)

// sender is the part of *tele.Bot used to push notifications.
type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// poller is the update loop of *tele.Bot. Stop blocks until a running
// Start receives it.
type poller interface {
	Start()
	Stop()
}

// Bot is the fleet admin bot. It answers search commands from the admin
// and forwards committed fleet changes to them.
type Bot struct {
	Bot     *tele.Bot
	Log     logger.ILogger
	Svc     service.IServiceManager
	AdminID int64

	sender sender
	poller poller
	events chan service.Event
}

const eventBuffer = 64

func New(cfg *config.Config, svc service.IServiceManager, log logger.ILogger) (*Bot, error) {
	pref := tele.Settings{
		Token:   cfg.AdminBotToken,
		Poller:  &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Error("telegram handler failed", logger.Error(err))
		},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	bot := newBot(b, svc, log, cfg.AdminID)
	bot.Bot = b
	bot.poller = b
	bot.registerHandlers()
	return bot, nil
}

func newBot(s sender, svc service.IServiceManager, log logger.ILogger, adminID int64) *Bot {
	return &Bot{
		Log:     log,
		Svc:     svc,
		AdminID: adminID,
		sender:  s,
		events:  make(chan service.Event, eventBuffer),
	}
}

// Serve long-polls Telegram until ctx is done. Stop is only issued to a
// poller that was started, and Serve returns once polling has ended.
func (b *Bot) Serve(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Log.Info("🤖 admin bot started...")
		b.poller.Start()
	}()

	select {
	case <-ctx.Done():
		b.poller.Stop()
		<-done
	case <-done:
	}
	b.Log.Info("admin bot stopped")
}

var messages = map[string]string{
	"welcome":      "👋 Taxi fleet admin bot.\n\n/stats - fleet counts\n/manufacturers [name] - search manufacturers\n/cars [model] - search cars\n/drivers [username] - search drivers",
	"no_entry":     "🚫 This bot is for the fleet admin only.",
	"stats":        "📊 STATISTICS\n\nDrivers: %d\nCars: %d\nManufacturers: %d",
	"no_results":   "📭 Nothing found.",
	"failed":       "⚠️ Something went wrong, try again later.",
	"search_title": "<b>%s %s</b> (%d found)",
	"more":         "…and %d more",
}

func (b *Bot) registerHandlers() {
	b.Bot.Use(b.adminOnly)

	b.Bot.Handle("/start", b.handleStart)
	b.Bot.Handle("/stats", b.handleStats)
	b.Bot.Handle("/manufacturers", b.handleManufacturers)
	b.Bot.Handle("/cars", b.handleCars)
	b.Bot.Handle("/drivers", b.handleDrivers)
}

func (b *Bot) isAdmin(sender *tele.User) bool {
	return sender != nil && b.AdminID != 0 && sender.ID == b.AdminID
}

func (b *Bot) adminOnly(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if !b.isAdmin(c.Sender()) {
			return c.Send(messages["no_entry"])
		}
		return next(c)
	}
}

func (b *Bot) handleStart(c tele.Context) error {
	return c.Send(messages["welcome"])
}

func (b *Bot) handleStats(c tele.Context) error {
	return b.reply(c, b.statsText)
}

func (b *Bot) handleManufacturers(c tele.Context) error {
	return b.reply(c, func(ctx context.Context) (string, error) {
		return b.manufacturersText(ctx, c.Message().Payload)
	})
}

func (b *Bot) handleCars(c tele.Context) error {
	return b.reply(c, func(ctx context.Context) (string, error) {
		return b.carsText(ctx, c.Message().Payload)
	})
}

func (b *Bot) handleDrivers(c tele.Context) error {
	return b.reply(c, func(ctx context.Context) (string, error) {
		return b.driversText(ctx, c.Message().Payload)
	})
}

func (b *Bot) reply(c tele.Context, build func(ctx context.Context) (string, error)) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	txt, err := build(ctx)
	if err != nil {
		b.Log.Error("bot command failed", logger.String("text", c.Text()), logger.Error(err))
		return c.Send(messages["failed"])
	}
	return c.Send(txt, tele.ModeHTML)
}
