// Package bridge wires the notifier to whatever harness embeds it,
// owning its lifecycle from construction to teardown.
package bridge

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/pdbridge/pdbridge/internal/config"
	"github.com/pdbridge/pdbridge/internal/notifiers"
)

// Version is set at build time via ldflags: -X github.com/pdbridge/pdbridge/internal/bridge.Version=<tag>
var Version = "dev"

// ErrEmptyMessage rejects sends with no message text. This is the one
// error the notify surface returns; delivery failures stay internal.
var ErrEmptyMessage = errors.New("message must not be empty")

// Bridge is the host-side harness around a single notifier
type Bridge struct {
	notifier notifiers.Notifier
}

// New constructs the bridge and its notifier from config
func New(cfg *config.Config, log *slog.Logger) *Bridge {
	return &Bridge{
		notifier: notifiers.NewPagerDuty(cfg.PagerDuty, log),
	}
}

// Send forwards a message with an optional title to the paging service.
// Only the empty-message precondition is reported back; whether the
// event actually arrived is observable through the log alone.
func (b *Bridge) Send(ctx context.Context, message, title string) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}
	b.notifier.SendMessage(ctx, message, title)
	return nil
}

// Test sends a connectivity-test event and returns the delivery error
func (b *Bridge) Test(ctx context.Context) error {
	return b.notifier.Test(ctx)
}

// Close tears down the notifier
func (b *Bridge) Close() {
	b.notifier.Close()
}
