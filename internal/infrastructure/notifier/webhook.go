package notifier

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/bistro/pos-system/internal/core/ports"
)

const (
	HeaderEvent     = "X-POS-Event"
	HeaderSignature = "X-POS-Signature"

	defaultWebhookTimeout = 5 * time.Second
	defaultMaxAttempts    = 3
	defaultRetryDelay     = 500 * time.Millisecond
)

// WebhookConfig configures delivery to the fulfillment endpoint.
type WebhookConfig struct {
	URL         string
	Secret      string
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

// Webhook posts order notifications as JSON. Bodies are signed with
// HMAC-SHA256 when a secret is configured.
type Webhook struct {
	cfg    WebhookConfig
	client *http.Client
	log    zerolog.Logger
}

func NewWebhook(cfg WebhookConfig, log zerolog.Logger) *Webhook {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultWebhookTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	return &Webhook{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

func (w *Webhook) Name() string { return "webhook" }

// Notify delivers n. Transport errors and 5xx responses are retried with a
// linearly growing delay; any other non-2xx response fails immediately.
func (w *Webhook) Notify(ctx context.Context, n ports.OrderNotification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	attempt := 0
	return retry.Do(ctx, w.backoff(), func(ctx context.Context) error {
		attempt++
		err := w.post(ctx, n.Event, body)
		if err != nil {
			w.log.Warn().Err(err).
				Str("order_number", n.OrderNumber).
				Int("attempt", attempt).
				Msg("webhook delivery attempt failed")
		}
		return err
	})
}

// backoff waits attempt x RetryDelay between attempts.
func (w *Webhook) backoff() retry.Backoff {
	var n time.Duration
	linear := retry.BackoffFunc(func() (time.Duration, bool) {
		n++
		return n * w.cfg.RetryDelay, false
	})
	return retry.WithMaxRetries(uint64(w.cfg.MaxAttempts-1), linear)
}

func (w *Webhook) post(ctx context.Context, event string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderEvent, event)
	if w.cfg.Secret != "" {
		req.Header.Set(HeaderSignature, Sign(w.cfg.Secret, body))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return retry.RetryableError(fmt.Errorf("post webhook: %w", err))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 500:
		return retry.RetryableError(fmt.Errorf("webhook responded %d", resp.StatusCode))
	default:
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	}
}

// Sign returns the X-POS-Signature value for body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
