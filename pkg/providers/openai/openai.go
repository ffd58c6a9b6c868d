// Package openai provides a Completer for OpenAI-compatible Chat Completions
// endpoints such as api.llm7.io.
package openai

import (
	"context"
	"fmt"

	"github.com/germanamz/llm7chat/pkg/chats/chat"
	"github.com/germanamz/llm7chat/pkg/chats/content"
	"github.com/germanamz/llm7chat/pkg/chats/message"
	"github.com/germanamz/llm7chat/pkg/chats/role"
	"github.com/germanamz/llm7chat/pkg/modeladapter"
	"github.com/germanamz/llm7chat/pkg/modeladapter/usage"
	"github.com/germanamz/llm7chat/pkg/providers"
)

const completionsPath = "/v1/chat/completions"

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for the Chat Completions API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New creates an Adapter for the given base URL (no trailing slash, no /v1).
// The key is sent as a bearer token; the llm7 endpoint accepts any value.
func New(baseURL, apiKey string) *Adapter {
	return &Adapter{
		ModelAdapter: modeladapter.New(baseURL, modeladapter.Auth{Key: apiKey}, nil),
	}
}

// Complete sends the whole conversation for model and returns the content of
// the first choice as an assistant message.
func (a *Adapter) Complete(ctx context.Context, model string, c *chat.Chat) (message.Message, error) {
	req := a.buildRequest(model, c)

	var resp apiResponse
	if err := a.PostJSON(ctx, completionsPath, req, &resp); err != nil {
		return message.Message{}, fmt.Errorf("openai: %w", err)
	}

	if resp.Usage != nil {
		a.Usage.Add(usage.TokenCount{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		})
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == nil {
		return message.Message{}, fmt.Errorf("openai: %w", providers.ErrInvalidResponse)
	}

	return message.NewText(role.Assistant, *resp.Choices[0].Message.Content), nil
}

// --- request types ---

type apiRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	MaxTokens   int          `json:"max_tokens"`
	Temperature float64      `json:"temperature"`
	Stream      bool         `json:"stream"`
}

// apiMessage.Content is either a string or a []apiPart.
type apiMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type apiPart struct {
	Type     string       `json:"type"`
	Text     string       `json:"text,omitempty"`
	ImageURL *apiImageURL `json:"image_url,omitempty"`
}

type apiImageURL struct {
	URL string `json:"url"`
}

// --- response types ---

type apiResponse struct {
	Choices []apiChoice `json:"choices"`
	Usage   *apiUsage   `json:"usage"`
}

type apiChoice struct {
	Message apiRespMessage `json:"message"`
}

type apiRespMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// --- conversion helpers ---

func (a *Adapter) buildRequest(model string, c *chat.Chat) apiRequest {
	req := apiRequest{
		Model:       model,
		Messages:    make([]apiMessage, 0, c.Len()),
		MaxTokens:   a.MaxTokens,
		Temperature: a.Temperature,
	}

	c.Each(func(_ int, m message.Message) bool {
		req.Messages = append(req.Messages, encodeMessage(m))
		return true
	})

	return req
}

// encodeMessage applies the collapse rule: a single text part goes out as a
// bare string, anything else as a parts array (possibly empty).
func encodeMessage(m message.Message) apiMessage {
	if m.IsTextOnly() {
		return apiMessage{Role: m.Role.String(), Content: m.TextContent()}
	}

	parts := make([]apiPart, 0, len(m.Parts))
	for _, p := range m.Parts {
		switch v := p.(type) {
		case content.Text:
			parts = append(parts, apiPart{Type: "text", Text: v.Text})
		case content.Image:
			parts = append(parts, apiPart{Type: "image_url", ImageURL: &apiImageURL{URL: v.URL}})
		}
	}

	return apiMessage{Role: m.Role.String(), Content: parts}
}
