package notifiers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pdbridge/pdbridge/internal/config"
	"github.com/pdbridge/pdbridge/pkg/models"
)

// EnqueueURL is the PagerDuty Events API v2 ingestion endpoint.
const EnqueueURL = "https://events.pagerduty.com/v2/enqueue"

// requestTimeout bounds the whole connect+send+receive cycle of one event.
const requestTimeout = 10 * time.Second

// ErrClosed is returned for deliveries attempted after Close.
var ErrClosed = errors.New("pagerduty notifier is closed")

// StatusError reports a response other than 202 Accepted from the
// enqueue endpoint, carrying the status and body for diagnostics.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pagerduty returned status %d: %s", e.StatusCode, e.Body)
}

// PagerDuty sends events to PagerDuty's Events API v2
type PagerDuty struct {
	name            string
	routingKey      string
	defaultSource   string
	defaultSeverity models.Severity
	endpoint        string
	log             *slog.Logger

	mu       sync.Mutex
	client   *http.Client
	closed   bool
	inflight sync.WaitGroup
}

// NewPagerDuty builds a notifier from config. The HTTP client is not
// created here: it is materialized on the first send. log may be nil,
// in which case slog.Default() is used.
func NewPagerDuty(cfg config.PagerDutyConfig, log *slog.Logger) *PagerDuty {
	if log == nil {
		log = slog.Default()
	}
	return &PagerDuty{
		name:            cfg.Name,
		routingKey:      cfg.RoutingKey,
		defaultSource:   cfg.DefaultSource,
		defaultSeverity: models.Severity(cfg.DefaultSeverity),
		endpoint:        EnqueueURL,
		log:             log,
	}
}

func (p *PagerDuty) Name() string { return p.name }

// SendMessage triggers one event. The title, when present, becomes the
// incident summary; otherwise the message text is used. All failures
// (rejected event, transport error, timeout) are logged and swallowed.
func (p *PagerDuty) SendMessage(ctx context.Context, message, title string) {
	if err := p.send(ctx, message, title); err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			p.log.Error("pagerduty event rejected",
				"notifier", p.name, "status", se.StatusCode, "body", se.Body)
			return
		}
		p.log.Error("pagerduty send failed", "notifier", p.name, "error", err)
	}
}

// Test sends a connectivity-test event. Unlike SendMessage this is a
// diagnostic path, so the delivery error is returned to the caller.
func (p *PagerDuty) Test(ctx context.Context) error {
	return p.send(ctx, "Test event — pdbridge is connected!", "")
}

func (p *PagerDuty) send(ctx context.Context, message, title string) error {
	client, err := p.acquire()
	if err != nil {
		return err
	}
	defer p.inflight.Done()

	summary := message
	if title != "" {
		summary = title
	}

	event := models.Event{
		RoutingKey:  p.routingKey,
		EventAction: models.ActionTrigger,
		Payload: models.EventPayload{
			Summary:  summary,
			Source:   p.defaultSource,
			Severity: p.defaultSeverity,
		},
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("pagerduty send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return nil
}

// acquire returns the shared client, creating it on first use, and
// registers the call as in-flight so Close waits for it. The caller
// must release the in-flight slot when done.
func (p *PagerDuty) acquire() (*http.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	if p.client == nil {
		p.client = &http.Client{Timeout: requestTimeout}
	}
	p.inflight.Add(1)
	return p.client, nil
}

// Close releases the network client. It waits for in-flight deliveries
// first, so a request never observes a released client; deliveries
// started after Close fail with ErrClosed. Safe to call twice and safe
// without any prior send.
func (p *PagerDuty) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	client := p.client
	p.client = nil
	p.mu.Unlock()

	p.inflight.Wait()
	if client != nil {
		client.CloseIdleConnections()
	}
}
