// Package mail sends transactional email through the Resend REST API.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/GaneshVarma1/Goodmoney/internal/config"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// ErrNotConfigured is returned when the mail credential is missing.
var ErrNotConfigured = errors.New("mail service credential is not configured, set RESEND_API_KEY")

// Attachment is a file attached to an outgoing message.
// Content is base64-encoded, which is how the API expects it on the wire.
type Attachment struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	ContentType string `json:"content_type,omitempty"`
}

// Message is one outgoing email.
type Message struct {
	To          string
	Subject     string
	Text        string
	Attachments []Attachment
}

// Client talks to the Resend API.
type Client struct {
	apiKey     string
	baseURL    string
	from       string
	httpClient *http.Client
}

// NewClient builds a mail client from the mail config section.
func NewClient(cfg config.MailConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.resend.com"
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		from:       cfg.From,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether a credential is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

type sendRequest struct {
	From        string       `json:"from"`
	To          []string     `json:"to"`
	Subject     string       `json:"subject"`
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Send delivers one message. Failures are returned, not retried; statement
// email is user-triggered and the caller surfaces the error directly.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	payload := sendRequest{
		From:        c.from,
		To:          []string{msg.To},
		Subject:     msg.Subject,
		Text:        msg.Text,
		Attachments: msg.Attachments,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error().Err(err).Msg("mail API connection error")
		return fmt.Errorf("mail API connection error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		logger.Error().Int("status", resp.StatusCode).Str("body", string(respBody)).Msg("mail API error")
		return fmt.Errorf("mail API error: %d - %s", resp.StatusCode, string(respBody))
	}

	return nil
}
