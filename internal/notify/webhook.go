// Package notify delivers newly discovered listings to Discord channels via
// webhooks. Gateway-level bot interaction is outside this engine; a channel
// here is just a webhook URL plus an optional role ping.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Channel is one delivery target.
type Channel struct {
	Name       string
	WebhookURL string
	Ping       string // e.g. "<@&1234567890>", sent as leading message text
}

// Message is the webhook payload shape.
type Message struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

type Embed struct {
	Title       string       `json:"title,omitempty"`
	URL         string       `json:"url,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Thumbnail   *EmbedMedia  `json:"thumbnail,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

type EmbedMedia struct {
	URL string `json:"url"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Sender posts one message to one channel.
type Sender interface {
	Send(ctx context.Context, ch Channel, msg Message) error
}

type WebhookSender struct {
	hc *http.Client
}

func NewWebhookSender() *WebhookSender {
	return &WebhookSender{hc: &http.Client{Timeout: 15 * time.Second}}
}

func (s *WebhookSender) Send(ctx context.Context, ch Channel, msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, ch.WebhookURL, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	res, err := s.hc.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		return fmt.Errorf("webhook status %d: %s", res.StatusCode, snippet)
	}
	return nil
}
