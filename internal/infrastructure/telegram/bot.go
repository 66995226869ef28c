package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"coindigest/internal/domain"
	"coindigest/internal/ports"
)

const (
	// pollTimeoutSeconds is the long-poll window passed to getUpdates. The
	// HTTP client timeout must stay above it.
	pollTimeoutSeconds = 30
	pollRetryDelay     = 3 * time.Second

	startReply = "🚀 Coin Digest Bot is active! 🚀\n" +
		"I'll send crypto news sentiment analysis to the configured channel.\n" +
		"Use /help to see available commands."

	helpReply = "📊 Coin Digest Bot Commands 📊\n\n" +
		"/start - Start the bot\n" +
		"/help - Show this help message\n" +
		"/news - Get immediate news update\n\n" +
		"The bot also posts news updates automatically on a fixed interval."

	newsAckReply = "🔍 Fetching latest crypto news, please wait..."
)

// Bot long-polls the Telegram API and serves the manual update commands.
// Replies always go to the chat that issued the command.
type Bot struct {
	botToken string
	baseURL  string
	client   *http.Client
	notifier ports.Notifier
	trigger  ports.Trigger
	logger   *slog.Logger

	offset int64
	stop   chan struct{}
}

// NewBot wires the command bot. The notifier delivers replies; the trigger
// runs on-demand update cycles.
func NewBot(botToken, baseURL string, notifier ports.Notifier, trigger ports.Trigger, logger *slog.Logger) *Bot {
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	return &Bot{
		botToken: botToken,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		client:   &http.Client{Timeout: (pollTimeoutSeconds + 5) * time.Second},
		notifier: notifier,
		trigger:  trigger,
		logger:   logger,
	}
}

// Start launches the polling loop; it runs until ctx is done or Stop is
// called.
func (b *Bot) Start(ctx context.Context) error {
	if b.botToken == "" {
		return fmt.Errorf("telegram bot misconfigured")
	}
	if b.trigger == nil {
		return fmt.Errorf("telegram bot requires a cycle trigger")
	}
	if b.stop != nil {
		return nil
	}

	b.stop = make(chan struct{})
	go b.poll(ctx, b.stop)

	b.info("telegram bot started")
	return nil
}

// Stop terminates the polling loop.
func (b *Bot) Stop(ctx context.Context) error {
	if b.stop == nil {
		return nil
	}
	close(b.stop)
	b.stop = nil
	b.info("telegram bot stopped")
	return nil
}

func (b *Bot) poll(ctx context.Context, stop chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		default:
		}

		updates, err := b.getUpdates(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.warn("poll updates", "error", err)
			select {
			case <-time.After(pollRetryDelay):
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
			continue
		}

		for _, u := range updates {
			b.offset = u.UpdateID + 1
			b.handleUpdate(ctx, u)
		}
	}
}

func (b *Bot) getUpdates(ctx context.Context) ([]update, error) {
	endpoint := fmt.Sprintf("%s/bot%s/getUpdates", b.baseURL, b.botToken)

	query := url.Values{}
	query.Set("timeout", strconv.Itoa(pollTimeoutSeconds))
	if b.offset > 0 {
		query.Set("offset", strconv.FormatInt(b.offset, 10))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram error: %s", resp.Status)
	}

	var payload updatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	if !payload.OK {
		return nil, fmt.Errorf("telegram rejected getUpdates")
	}

	return payload.Result, nil
}

func (b *Bot) handleUpdate(ctx context.Context, u update) {
	if u.Message == nil || u.Message.Chat.ID == 0 {
		return
	}

	command := parseCommand(u.Message.Text)
	if command == "" {
		return
	}

	chat := strconv.FormatInt(u.Message.Chat.ID, 10)
	b.debug("handle command", "command", command, "chat", chat)

	switch command {
	case "/start":
		b.reply(ctx, chat, startReply)
	case "/help":
		b.reply(ctx, chat, helpReply)
	case "/news":
		b.reply(ctx, chat, newsAckReply)
		report := b.trigger.TriggerNow(ctx)
		b.reply(ctx, chat, outcomeReply(report))
	}
}

// parseCommand extracts the leading bot command, dropping any @BotName
// suffix. Non-command messages yield "".
func parseCommand(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}

	command := strings.ToLower(fields[0])
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}
	return command
}

func outcomeReply(report domain.CycleReport) string {
	switch report.Outcome {
	case domain.OutcomeSent:
		return "✅ News update sent to the channel!"
	case domain.OutcomeBelowThreshold:
		return fmt.Sprintf("📭 Only %d new stories so far, the next digest needs a few more.", report.NewArticles)
	case domain.OutcomeAlreadyRunning:
		return "⏳ An update cycle is already running, hang tight."
	case domain.OutcomeAllFetchesFailed:
		return "❌ Could not reach any news source, try again later."
	case domain.OutcomeSendFailed:
		return "❌ Fetched the news but could not post to the channel."
	default:
		return "❌ Error generating news update."
	}
}

func (b *Bot) reply(ctx context.Context, chat, text string) {
	if b.notifier == nil {
		return
	}
	if err := b.notifier.Send(ctx, chat, text); err != nil {
		b.warn("send reply", "chat", chat, "error", err)
	}
}

type updatesResponse struct {
	OK     bool     `json:"ok"`
	Result []update `json:"result"`
}

type update struct {
	UpdateID int64    `json:"update_id"`
	Message  *message `json:"message"`
}

type message struct {
	Text string `json:"text"`
	Chat chat   `json:"chat"`
}

type chat struct {
	ID int64 `json:"id"`
}

func (b *Bot) info(msg string, args ...interface{}) {
	if b.logger != nil {
		b.logger.Info(msg, args...)
	}
}

func (b *Bot) warn(msg string, args ...interface{}) {
	if b.logger != nil {
		b.logger.Warn(msg, args...)
	}
}

func (b *Bot) debug(msg string, args ...interface{}) {
	if b.logger != nil {
		b.logger.Debug(msg, args...)
	}
}
