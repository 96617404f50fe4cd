package bot

import (
	"context"
	"fmt"
	"html"

	tele "gopkg.in/telebot.v3"

	"taxifleet/pkg/logger"
	"taxifleet/service"
)

var actionIcons = map[string]string{
	service.ActionCreated: "🆕",
	service.ActionUpdated: "✏️",
	service.ActionDeleted: "🗑",
}

// Notify queues e for the admin. It never blocks the caller; when the
// queue is full the event is dropped and logged.
func (b *Bot) Notify(_ context.Context, e service.Event) {
	if b.AdminID == 0 {
		return
	}
	select {
	case b.events <- e:
	default:
		b.Log.Warning("admin notification dropped",
			logger.String("kind", e.Kind),
			logger.Int64("id", e.ID),
		)
	}
}

// Run delivers queued notifications until ctx is done.
func (b *Bot) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-b.events:
			b.deliver(e)
		}
	}
}

func (b *Bot) deliver(e service.Event) {
	_, err := b.sender.Send(&tele.User{ID: b.AdminID}, formatEvent(e), tele.ModeHTML)
	if err != nil {
		b.Log.Error("failed to notify admin", logger.String("kind", e.Kind), logger.Int64("id", e.ID), logger.Error(err))
	}
}

func formatEvent(e service.Event) string {
	icon, ok := actionIcons[e.Action]
	if !ok {
		icon = "🔔"
	}
	txt := fmt.Sprintf("%s %s %s\n🆔 #%d\n%s", icon, e.Kind, e.Action, e.ID, html.EscapeString(e.Label))
	if e.By != "" {
		txt += "\n👤 " + html.EscapeString(e.By)
	}
	return txt
}
