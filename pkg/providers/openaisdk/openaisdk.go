// Package openaisdk provides a Completer backed by the official openai-go SDK.
// It talks to the same OpenAI-compatible endpoint as package openai and is
// selected with `client: sdk` in the configuration.
package openaisdk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/germanamz/llm7chat/pkg/chats/chat"
	"github.com/germanamz/llm7chat/pkg/chats/content"
	"github.com/germanamz/llm7chat/pkg/chats/message"
	"github.com/germanamz/llm7chat/pkg/chats/role"
	"github.com/germanamz/llm7chat/pkg/modeladapter"
	"github.com/germanamz/llm7chat/pkg/modeladapter/usage"
	"github.com/germanamz/llm7chat/pkg/providers"
)

var (
	_ modeladapter.Completer     = (*Adapter)(nil)
	_ modeladapter.UsageReporter = (*Adapter)(nil)
)

// Adapter implements modeladapter.Completer through openai.Client.
type Adapter struct {
	Temperature float64
	MaxTokens   int

	client openai.Client
	usage  usage.Tracker
}

// New creates an Adapter for baseURL (no trailing slash, no /v1). Extra
// request options are passed to the SDK client, e.g. option.WithHTTPClient.
func New(baseURL, apiKey string, opts ...option.RequestOption) *Adapter {
	all := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(strings.TrimRight(baseURL, "/") + "/v1/"),
		option.WithMaxRetries(0),
		// ChatCompletionNewParams has no stream field; replies are never streamed.
		option.WithJSONSet("stream", false),
	}
	all = append(all, opts...)

	return &Adapter{
		Temperature: modeladapter.DefaultTemperature,
		MaxTokens:   modeladapter.DefaultMaxTokens,
		client:      openai.NewClient(all...),
	}
}

// UsageTracker returns the adapter's token usage tracker.
func (a *Adapter) UsageTracker() *usage.Tracker { return &a.usage }

// Complete sends the whole conversation for model and returns the content of
// the first choice as an assistant message. The SDK never retries.
func (a *Adapter) Complete(ctx context.Context, model string, c *chat.Chat) (message.Message, error) {
	params := openai.ChatCompletionNewParams{
		Model:       model,
		Messages:    buildMessages(c),
		MaxTokens:   openai.Int(int64(a.MaxTokens)),
		Temperature: openai.Float(a.Temperature),
	}

	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			err = &modeladapter.StatusError{StatusCode: apiErr.StatusCode, Body: apiErr.RawJSON()}
		}
		return message.Message{}, fmt.Errorf("openaisdk: %w", err)
	}

	a.usage.Add(usage.TokenCount{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
	})

	// A null or missing content decodes to "", which is not a reply.
	if len(resp.Choices) == 0 || !resp.Choices[0].Message.JSON.Content.Valid() {
		return message.Message{}, fmt.Errorf("openaisdk: %w", providers.ErrInvalidResponse)
	}

	return message.NewText(role.Assistant, resp.Choices[0].Message.Content), nil
}

// buildMessages converts history into SDK params, applying the same collapse
// rule as the hand-rolled adapter.
func buildMessages(c *chat.Chat) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, c.Len())

	c.Each(func(_ int, m message.Message) bool {
		switch m.Role {
		case role.Assistant:
			msgs = append(msgs, openai.AssistantMessage(m.TextContent()))
		case role.User:
			if m.IsTextOnly() {
				msgs = append(msgs, openai.UserMessage(m.TextContent()))
				return true
			}
			msgs = append(msgs, openai.UserMessage(buildParts(m)))
		}
		return true
	})

	return msgs
}

func buildParts(m message.Message) []openai.ChatCompletionContentPartUnionParam {
	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(m.Parts))
	for _, p := range m.Parts {
		switch v := p.(type) {
		case content.Text:
			parts = append(parts, openai.TextContentPart(v.Text))
		case content.Image:
			parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: v.URL,
			}))
		}
	}
	return parts
}
