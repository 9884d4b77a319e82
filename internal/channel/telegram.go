package channel

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"orbi/internal/domain"
	"orbi/internal/i18n"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	telegramMaxMsgLen      = 4000
	telegramMaxSendRetries = 3
)

// Telegram implements domain.Channel for a Telegram bot.
type Telegram struct {
	token     string
	allowFrom []int64 // Allowed user IDs (empty = allow all)
	parseMode string
	language  string

	bot    *tgbotapi.BotAPI
	bus    domain.MessageBus
	logger *slog.Logger
}

type TelegramConfig struct {
	Token     string
	AllowFrom []string // User IDs as strings
	ParseMode string
	Language  string
	Logger    *slog.Logger
}

func NewTelegram(cfg TelegramConfig) *Telegram {
	var allowed []int64
	for _, s := range cfg.AllowFrom {
		if id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			allowed = append(allowed, id)
		}
	}
	if cfg.ParseMode == "" {
		cfg.ParseMode = "Markdown"
	}
	return &Telegram{
		token:     cfg.Token,
		allowFrom: allowed,
		parseMode: cfg.ParseMode,
		language:  cfg.Language,
		logger:    cfg.Logger,
	}
}

func (t *Telegram) Name() string { return "telegram" }

// Start connects to Telegram and begins polling for updates.
func (t *Telegram) Start(ctx context.Context, bus domain.MessageBus) error {
	t.bus = bus

	bot, err := tgbotapi.NewBotAPI(t.token)
	if err != nil {
		return fmt.Errorf("telegram bot init: %w", err)
	}
	t.bot = bot
	t.logger.Info("telegram bot connected",
		"username", bot.Self.UserName,
		"id", bot.Self.ID,
	)

	bus.OnOutbound("telegram", func(msg domain.OutboundMessage) {
		chatID, err := strconv.ParseInt(msg.ChatID, 10, 64)
		if err != nil {
			t.logger.Error("invalid chat ID for telegram outbound", "chatID", msg.ChatID, "err", err)
			return
		}
		content := msg.Content
		if len(msg.RelatedQuestions) > 0 {
			content += "\n\n関連する質問:\n• " + strings.Join(msg.RelatedQuestions, "\n• ")
		}
		t.sendMessage(chatID, content)
	})

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := bot.GetUpdatesChan(u)

	t.logger.Info("telegram polling started")

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("telegram channel stopping")
			bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.handleUpdate(update)
		}
	}
}

// Stop is a no-op: the bot stops when Start's context is cancelled.
func (t *Telegram) Stop() error { return nil }

func (t *Telegram) Send(ctx context.Context, chatID string, content string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat ID %q: %w", chatID, err)
	}
	t.sendMessage(id, content)
	return nil
}

func (t *Telegram) handleUpdate(update tgbotapi.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	msg := update.Message

	if !t.isAllowed(msg.From.ID) {
		t.logger.Warn("message from disallowed user ignored", "user", msg.From.ID)
		return
	}

	if msg.IsCommand() {
		t.handleCommand(msg)
		return
	}

	t.bus.Publish(domain.InboundMessage{
		Channel:   "telegram",
		ChatID:    strconv.FormatInt(msg.Chat.ID, 10),
		SenderID:  strconv.FormatInt(msg.From.ID, 10),
		Content:   msg.Text,
		Language:  t.language,
		Timestamp: time.Now(),
	})
}

func (t *Telegram) handleCommand(msg *tgbotapi.Message) {
	msgs := i18n.MessagesFor(t.language)
	switch msg.Command() {
	case "start", "help":
		text := msgs.Welcome + "\n\n例:\n• " + strings.Join(msgs.SuggestedQuestions, "\n• ")
		t.sendMessage(msg.Chat.ID, text)
	default:
		t.sendMessage(msg.Chat.ID, "Unknown command. Try /help")
	}
}

func (t *Telegram) isAllowed(userID int64) bool {
	if len(t.allowFrom) == 0 {
		return true
	}
	for _, id := range t.allowFrom {
		if id == userID {
			return true
		}
	}
	return false
}

// sendMessage delivers content, splitting messages over the Telegram length
// limit and retrying transient send failures.
func (t *Telegram) sendMessage(chatID int64, content string) {
	for _, chunk := range splitMessage(content, telegramMaxMsgLen) {
		out := tgbotapi.NewMessage(chatID, chunk)
		out.ParseMode = t.parseMode

		var err error
		for attempt := 0; attempt < telegramMaxSendRetries; attempt++ {
			if _, err = t.bot.Send(out); err == nil {
				break
			}
			// Markdown parse errors are not transient; resend as plain text.
			if strings.Contains(err.Error(), "can't parse entities") {
				out.ParseMode = ""
				continue
			}
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}
		if err != nil {
			t.logger.Error("telegram send failed", "chatID", chatID, "err", err)
		}
	}
}

// splitMessage cuts content into chunks of at most maxLen bytes, preferring
// line boundaries.
func splitMessage(content string, maxLen int) []string {
	if len(content) <= maxLen {
		return []string{content}
	}

	var chunks []string
	for len(content) > maxLen {
		cut := strings.LastIndex(content[:maxLen], "\n")
		if cut <= 0 {
			cut = maxLen
			// Do not cut inside a multi-byte rune.
			for cut > 0 && (content[cut]&0xC0) == 0x80 {
				cut--
			}
			if cut == 0 {
				cut = maxLen
			}
		}
		chunks = append(chunks, content[:cut])
		content = strings.TrimPrefix(content[cut:], "\n")
	}
	if content != "" {
		chunks = append(chunks, content)
	}
	return chunks
}
