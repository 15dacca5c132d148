package notifiers

import "context"

// Notifier forwards human-authored messages to an external paging service
type Notifier interface {
	// Name returns the notifier identifier
	Name() string
	// SendMessage delivers a message with an optional title. Delivery
	// failures are logged, never returned: the notify contract has no
	// failure channel back to the caller.
	SendMessage(ctx context.Context, message, title string)
	// Test sends a connectivity-test event and reports the delivery error
	Test(ctx context.Context) error
	// Close releases the notifier's network client
	Close()
}
