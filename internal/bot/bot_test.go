package bot

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/xaenox/jarvis-bot/internal/models"
	"go.uber.org/zap"
)

type stubResolver struct {
	inputs []string
}

func (s *stubResolver) ResolveReply(ctx context.Context, input string) models.Reply {
	s.inputs = append(s.inputs, input)
	return models.Reply{Text: "echo: " + input, Intent: models.IntentGeneric}
}

func command(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 1},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}
}

func TestReplyText_Commands(t *testing.T) {
	res := &stubResolver{}
	b := &Bot{resolver: res, logger: zap.NewNop()}

	assert.Equal(t, welcomeText, b.replyText(context.Background(), command("/start")))
	assert.Equal(t, helpText, b.replyText(context.Background(), command("/help")))
	assert.Contains(t, b.replyText(context.Background(), command("/weather")), "Unknown command")
	assert.Empty(t, res.inputs)
}

func TestReplyText_Messages(t *testing.T) {
	res := &stubResolver{}
	b := &Bot{resolver: res, logger: zap.NewNop()}

	got := b.replyText(context.Background(), &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 1}})
	assert.Equal(t, "echo: hello", got)

	got = b.replyText(context.Background(), &tgbotapi.Message{Caption: "2 + 2", Chat: &tgbotapi.Chat{ID: 1}})
	assert.Equal(t, "echo: 2 + 2", got)

	got = b.replyText(context.Background(), &tgbotapi.Message{Text: "  ", Chat: &tgbotapi.Chat{ID: 1}})
	assert.Empty(t, got)

	assert.Equal(t, []string{"hello", "2 + 2"}, res.inputs)
}
