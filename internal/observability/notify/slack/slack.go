package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fractionaljobs/landing/internal/observability/notify"
)

// Config captures the subset of Slack webhook behaviour we need.
type Config struct {
	WebhookURL string
	Channel    string
	Username   string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
	// PageURLPrefix turns a scope into a link, e.g. https://example.com.
	PageURLPrefix string
}

// Client delivers stats fallback notifications to a Slack webhook.
type Client struct {
	webhookURL    string
	channel       string
	username      string
	retryLimit    int
	pageURLPrefix string
	client        *http.Client
}

var _ notify.Sink = (*Client)(nil)

// NewClient builds a Slack webhook client.
func NewClient(cfg Config) (*Client, error) {
	webhookURL := strings.TrimSpace(cfg.WebhookURL)
	if webhookURL == "" {
		return nil, errors.New("slack webhook url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		webhookURL:    webhookURL,
		channel:       strings.TrimSpace(cfg.Channel),
		username:      fallbackString(strings.TrimSpace(cfg.Username), "landing"),
		retryLimit:    max(cfg.RetryLimit, 0),
		pageURLPrefix: strings.TrimSpace(cfg.PageURLPrefix),
		client:        hc,
	}, nil
}

// SendStatsFallback posts a formatted message to Slack, retrying with a
// linear backoff.
func (c *Client) SendStatsFallback(ctx context.Context, payload notify.StatsFallbackPayload) error {
	body, err := json.Marshal(c.formatMessage(payload))
	if err != nil {
		return fmt.Errorf("encode slack payload: %w", err)
	}

	attempts := c.retryLimit + 1
	var lastErr error
	for attempt := range attempts {
		if lastErr = c.post(ctx, body); lastErr == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * 200 * time.Millisecond)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

func (c *Client) formatMessage(payload notify.StatsFallbackPayload) map[string]any {
	timestamp := payload.OccurredAt
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	var text strings.Builder
	if payload.Recovered {
		text.WriteString("*Landing stats recovered*")
	} else {
		text.WriteString("*Landing stats fallback*")
	}
	text.WriteString(" `")
	text.WriteString(escapeSlackText(payload.Scope))
	text.WriteString("`\n")

	severity := payload.Severity
	if severity == "" {
		severity = notify.SeverityWarning
	}
	appendSlackField(&text, "Severity", severity)
	appendSlackField(&text, "Page", c.formatScope(payload.Scope))
	if !payload.Recovered {
		appendSlackField(&text, "Source", payload.Source)
		appendSlackField(&text, "Substituted", strings.Join(payload.Fields, ", "))
	}
	appendSlackField(&text, "Showing",
		fmt.Sprintf("%d roles, £%d/day, %d remote", payload.Total, payload.AvgRate, payload.RemoteCount))
	text.WriteString("• Timestamp: ")
	text.WriteString(timestamp.UTC().Format(time.RFC3339))

	msg := map[string]any{
		"text":     text.String(),
		"username": c.username,
	}
	if c.channel != "" {
		msg["channel"] = c.channel
	}
	return msg
}

// formatScope renders the scope as a Slack link when a page prefix is set.
func (c *Client) formatScope(scope string) string {
	name := escapeSlackText(strings.TrimSpace(scope))
	if name == "" || c.pageURLPrefix == "" {
		return name
	}
	u, err := url.Parse(c.pageURLPrefix)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return name
	}
	link, err := url.JoinPath(u.String(), scope)
	if err != nil {
		return name
	}
	return fmt.Sprintf("<%s|/%s>", link, name)
}

func fallbackString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func escapeSlackText(value string) string {
	if value == "" {
		return ""
	}
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	).Replace(value)
}

func appendSlackField(text *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	text.WriteString("• ")
	text.WriteString(label)
	text.WriteString(": ")
	text.WriteString(value)
	text.WriteByte('\n')
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("slack webhook %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("drain slack response body: %w", err)
	}
	return nil
}
