// Package ai forwards journal data to an OpenAI-compatible chat API and turns
// every service failure into a fallback reply.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/camuig/trade-quest/internal/config"
	"github.com/camuig/trade-quest/internal/logger"
	"github.com/camuig/trade-quest/internal/stats"
)

// ReviewWindow is the span WeeklyReview looks back over.
const ReviewWindow = 7 * 24 * time.Hour

var ErrEmptyChat = errors.New("chat history is empty")

type Coach struct {
	client   *openai.Client // nil when no API key is configured
	model    string
	fallback string
	timeout  time.Duration
	loc      *time.Location
	logger   *logger.Logger
}

func NewCoach(cfg *config.Config, log *logger.Logger) *Coach {
	c := &Coach{
		model:    cfg.AI.Model,
		fallback: cfg.AI.FallbackMessage,
		timeout:  cfg.AITimeout(),
		loc:      cfg.Location(),
		logger:   log,
	}
	if cfg.AIEnabled() {
		ocfg := openai.DefaultConfig(cfg.AI.APIKey)
		ocfg.BaseURL = cfg.AI.BaseURL
		c.client = openai.NewClientWithConfig(ocfg)
	}
	return c
}

// AnalyzeTrades returns free-text coaching for every trade in blob.
func (c *Coach) AnalyzeTrades(ctx context.Context, blob []byte) (Reply, error) {
	trades, err := ParseTrades(blob)
	if err != nil {
		return Reply{}, err
	}

	c.logger.Info("requesting trade analysis", "trades", len(trades))
	return c.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: analysisPrompt},
		{Role: openai.ChatMessageRoleUser, Content: BuildAnalysisPrompt(trades, c.loc)},
	}), nil
}

// WeeklyReview reviews the trades in blob from the 7 days before now.
func (c *Coach) WeeklyReview(ctx context.Context, blob []byte, now time.Time) (Reply, error) {
	trades, err := ParseTrades(blob)
	if err != nil {
		return Reply{}, err
	}

	from := now.Add(-ReviewWindow)
	week := stats.Window(trades, from, now.Add(time.Nanosecond))

	c.logger.Info("requesting weekly review", "trades", len(week), "of", len(trades))
	return c.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: weeklyPrompt},
		{Role: openai.ChatMessageRoleUser, Content: BuildWeeklyPrompt(week, from, now, c.loc)},
	}), nil
}

// Chat answers the last message of the history. An image, when given, is
// attached to the final user message.
func (c *Coach) Chat(ctx context.Context, req ChatRequest) (Reply, error) {
	if len(req.History) == 0 {
		return Reply{}, ErrEmptyChat
	}

	system := req.System
	if strings.TrimSpace(system) == "" {
		system = chatPrompt
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+1)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	for i, m := range req.History {
		role := openai.ChatMessageRoleUser
		if m.Role == openai.ChatMessageRoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}

		last := i == len(req.History)-1
		if last && req.ImageURL != "" && role == openai.ChatMessageRoleUser {
			messages = append(messages, openai.ChatCompletionMessage{
				Role: role,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: m.Content},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
						URL:    req.ImageURL,
						Detail: openai.ImageURLDetailAuto,
					}},
				},
			})
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	c.logger.Info("requesting chat reply", "messages", len(req.History), "image", req.ImageURL != "")
	return c.complete(ctx, messages), nil
}

func (c *Coach) complete(ctx context.Context, messages []openai.ChatCompletionMessage) Reply {
	if c.client == nil {
		c.logger.Debug("AI disabled, returning fallback")
		return c.fallbackReply()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		c.logger.Error("AI request failed", "error", fmt.Errorf("chat completion: %w", err))
		return c.fallbackReply()
	}
	if len(resp.Choices) == 0 {
		c.logger.Error("AI returned no choices")
		return c.fallbackReply()
	}

	raw := resp.Choices[0].Message.Content
	c.logger.Debug("AI raw response", "content", raw)

	text := StripThinkTags(raw)
	if text == "" {
		c.logger.Error("AI returned an empty reply")
		return c.fallbackReply()
	}

	c.logger.Info("received AI response", "length", len(text))
	return Reply{Text: text}
}

func (c *Coach) fallbackReply() Reply {
	return Reply{Text: c.fallback, Fallback: true}
}
