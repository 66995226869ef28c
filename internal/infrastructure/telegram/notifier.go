package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"coindigest/internal/ports"
)

const defaultAPIBaseURL = "https://api.telegram.org"

// Notifier sends Markdown messages to Telegram chats via the bot API.
type Notifier struct {
	botToken string
	baseURL  string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers the bot token; an empty baseURL falls back to the
// public Telegram API.
func NewNotifier(botToken, baseURL string) *Notifier {
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	return &Notifier{
		botToken: botToken,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Send posts one Markdown message to the given chat. A single attempt, no
// retries.
func (n *Notifier) Send(ctx context.Context, channel, text string) error {
	if n.botToken == "" || channel == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	form := url.Values{}
	form.Set("chat_id", channel)
	form.Set("text", text)
	form.Set("parse_mode", "Markdown")
	form.Set("disable_web_page_preview", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}
