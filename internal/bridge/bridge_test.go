package bridge

import (
	"context"
	"errors"
	"testing"

	"github.com/pdbridge/pdbridge/internal/config"
	"github.com/pdbridge/pdbridge/internal/notifiers"
)

// fakeNotifier records calls so tests can assert on the harness wiring.
type fakeNotifier struct {
	sends   []struct{ message, title string }
	tests   int
	closes  int
	testErr error
}

func (f *fakeNotifier) Name() string { return "fake" }

func (f *fakeNotifier) SendMessage(_ context.Context, message, title string) {
	f.sends = append(f.sends, struct{ message, title string }{message, title})
}

func (f *fakeNotifier) Test(context.Context) error { f.tests++; return f.testErr }

func (f *fakeNotifier) Close() { f.closes++ }

var _ notifiers.Notifier = (*fakeNotifier)(nil)

func TestNew(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.PagerDuty.RoutingKey = "R-KEY"

	b := New(cfg, nil)
	if b.notifier == nil {
		t.Fatal("notifier should be constructed")
	}
	if got := b.notifier.Name(); got != "pagerduty" {
		t.Errorf("notifier name = %q, want %q", got, "pagerduty")
	}
	b.Close()
}

func TestSend(t *testing.T) {
	f := &fakeNotifier{}
	b := &Bridge{notifier: f}

	if err := b.Send(context.Background(), "CPU at 95%", "High load"); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if len(f.sends) != 1 {
		t.Fatalf("send count = %d, want 1", len(f.sends))
	}
	if f.sends[0].message != "CPU at 95%" || f.sends[0].title != "High load" {
		t.Errorf("send = %+v", f.sends[0])
	}
}

func TestSend_EmptyMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{"empty", ""},
		{"whitespace", "   \t\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeNotifier{}
			b := &Bridge{notifier: f}

			err := b.Send(context.Background(), tt.message, "title")
			if !errors.Is(err, ErrEmptyMessage) {
				t.Errorf("Send() = %v, want ErrEmptyMessage", err)
			}
			if len(f.sends) != 0 {
				t.Error("no send should reach the notifier")
			}
		})
	}
}

func TestTest_PassesErrorThrough(t *testing.T) {
	want := errors.New("delivery failed")
	f := &fakeNotifier{testErr: want}
	b := &Bridge{notifier: f}

	if err := b.Test(context.Background()); !errors.Is(err, want) {
		t.Errorf("Test() = %v, want %v", err, want)
	}
	if f.tests != 1 {
		t.Errorf("test count = %d, want 1", f.tests)
	}
}

func TestClose(t *testing.T) {
	f := &fakeNotifier{}
	b := &Bridge{notifier: f}
	b.Close()
	if f.closes != 1 {
		t.Errorf("close count = %d, want 1", f.closes)
	}
}
