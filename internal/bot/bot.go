package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xaenox/jarvis-bot/internal/models"
	"go.uber.org/zap"
)

// Resolver answers a single user message.
type Resolver interface {
	ResolveReply(ctx context.Context, input string) models.Reply
}

type Bot struct {
	api      *tgbotapi.BotAPI
	resolver Resolver
	logger   *zap.Logger
}

func New(token string, resolver Resolver, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Authorized on Telegram", zap.String("username", api.Self.UserName))

	return &Bot{
		api:      api,
		resolver: resolver,
		logger:   logger,
	}, nil
}

// Start long-polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(message.Chat.ID, tgbotapi.ChatTyping)); err != nil {
		b.logger.Debug("Failed to send chat action",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}

	text := b.replyText(ctx, message)
	if text == "" {
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}
}

func (b *Bot) replyText(ctx context.Context, message *tgbotapi.Message) string {
	// Handle commands
	if message.IsCommand() {
		return b.handleCommand(message)
	}

	// Get content from message
	content := message.Text
	if message.Caption != "" {
		content = message.Caption
	}
	if strings.TrimSpace(content) == "" {
		return ""
	}

	reply := b.resolver.ResolveReply(ctx, content)
	b.logger.Info("Answered message",
		zap.Int64("chat_id", message.Chat.ID),
		zap.String("intent", string(reply.Intent)),
		zap.String("action", reply.Action))
	return reply.Text
}

const welcomeText = `Hello, I'm Jarvis! 🤖
Ask me anything. I can also tell you the time, share the latest news, tell a joke or work out sums like (3 + 4) * 2.

Use /help to see what I can do.`

const helpText = `Available commands:
/start - Start the bot
/help - Show this help message

You can also just type:
- "what time is it"
- "latest news"
- "tell me a joke"
- a math expression such as 12 / 4 + 1
- any question, and I'll look it up in my knowledge base`

func (b *Bot) handleCommand(message *tgbotapi.Message) string {
	switch message.Command() {
	case "start":
		return welcomeText
	case "help":
		return helpText
	default:
		return "Unknown command. Use /help to see available commands."
	}
}
