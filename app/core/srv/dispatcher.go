package srv

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/vidalaw/intake-api/pkg/safe"
)

const (
	EVENT_LETTER_SIGNED       = "letter.signed"
	EVENT_BUNDLE_SUBMITTED    = "bundle.submitted"
	EVENT_PLAN_VIEWED         = "plan.viewed"
	EVENT_BOND_STATUS_CHANGED = "bond.status_changed"
)

type Event struct {
	Name       string      `json:"name"`
	OccurredAt int64       `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Dispatcher pushes domain events to the firm's case-management system.
// Delivery is best effort and always runs after the owning transaction has
// committed; a webhook outage can never roll back a signature.
type Dispatcher struct {
	endpoint    string
	secret      string
	maxAttempts int
	client      *http.Client

	onRetry func(event string)
}

func NewDispatcher(endpoint, secret string, maxAttempts int) *Dispatcher {
	return &Dispatcher{
		endpoint:    endpoint,
		secret:      secret,
		maxAttempts: maxAttempts,
		client:      &http.Client{Timeout: time.Second * 5},
	}
}

// OnRetry registers a counter hook, called once per failed attempt.
func (d *Dispatcher) OnRetry(f func(event string)) {
	d.onRetry = f
}

func (d *Dispatcher) Enabled() bool {
	return d != nil && d.endpoint != ""
}

// Dispatch queues the event for background delivery and returns immediately.
func (d *Dispatcher) Dispatch(event Event) {
	if !d.Enabled() {
		return
	}
	if event.OccurredAt == 0 {
		event.OccurredAt = time.Now().Unix()
	}

	go safe.Run(func() {
		d.deliver(event)
	})
}

func (d *Dispatcher) deliver(event Event) {
	raw, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to encode webhook event", slog.String("event", event.Name), slog.String("error", err.Error()))
		return
	}

	backoff := time.Second
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		if err = d.post(raw); err == nil {
			return
		}

		slog.Warn("Webhook delivery failed",
			slog.String("event", event.Name),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		if d.onRetry != nil {
			d.onRetry(event.Name)
		}

		if attempt < d.maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}

	slog.Error("Webhook delivery abandoned", slog.String("event", event.Name), slog.Int("attempts", d.maxAttempts))
}

func (d *Dispatcher) post(body []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if d.secret != "" {
		mac := hmac.New(sha256.New, []byte(d.secret))
		mac.Write(body)
		req.Header.Set("X-Intake-Signature", hex.EncodeToString(mac.Sum(nil)))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return &DeliveryError{Status: resp.StatusCode}
	}
	return nil
}

type DeliveryError struct {
	Status int
}

func (e *DeliveryError) Error() string {
	return "webhook endpoint returned " + http.StatusText(e.Status)
}
