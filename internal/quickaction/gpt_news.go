package quickaction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// NewsProvider returns a single headline for the news action.
type NewsProvider interface {
	Headline(ctx context.Context) (string, error)
}

// StaticNews picks uniformly from a fixed list of headlines.
type StaticNews struct {
	headlines []string
	rnd       Random
}

func NewStaticNews(headlines []string, rnd Random) *StaticNews {
	return &StaticNews{headlines: headlines, rnd: rnd}
}

func (n *StaticNews) Headline(ctx context.Context) (string, error) {
	if len(n.headlines) == 0 {
		return "", errors.New("no headlines configured")
	}
	return Pick(n.rnd, n.headlines), nil
}

type GPTNewsConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// GPTNews asks an OpenAI chat model for a headline and falls back to another
// provider whenever the call fails.
type GPTNews struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	fallback    NewsProvider
	logger      *zap.Logger
}

func NewGPTNews(cfg GPTNewsConfig, fallback NewsProvider, logger *zap.Logger) *GPTNews {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &GPTNews{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		fallback:    fallback,
		logger:      logger,
	}
}

const newsPrompt = `Give me one short, neutral news headline about a recent development in technology or science.
Reply with the headline only, in a single sentence, without quotes or a preamble.`

func (n *GPTNews) Headline(ctx context.Context) (string, error) {
	resp, err := n.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: n.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: newsPrompt,
				},
			},
			MaxTokens:   n.maxTokens,
			Temperature: float32(n.temperature),
		},
	)
	if err != nil {
		n.logger.Error("Failed to get GPT headline", zap.Error(err))
		return n.fallbackHeadline(ctx)
	}
	if len(resp.Choices) == 0 {
		n.logger.Error("GPT response has no choices")
		return n.fallbackHeadline(ctx)
	}

	headline := strings.Trim(strings.TrimSpace(resp.Choices[0].Message.Content), `"`)
	if headline == "" {
		n.logger.Error("GPT returned an empty headline")
		return n.fallbackHeadline(ctx)
	}
	return headline, nil
}

// Fallback to the configured provider if GPT fails
func (n *GPTNews) fallbackHeadline(ctx context.Context) (string, error) {
	if n.fallback == nil {
		return "", fmt.Errorf("news unavailable and no fallback configured")
	}
	return n.fallback.Headline(ctx)
}
