package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/revrost/go-openrouter"
)

const DefaultOpenRouterModel = "openai/gpt-4o-mini"

const systemPrompt = "You are a translation engine. Translate the user's message from %s to %s. " +
	"Reply with the translation only, without quotes, notes or explanations."

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context,
		ccr openrouter.ChatCompletionRequest) (openrouter.ChatCompletionResponse, error)
}

// OpenRouter translates through a chat completion model.
type OpenRouter struct {
	client chatCompleter
	model  string
}

func NewOpenRouter(apiKey, model string) OpenRouter {
	if model == "" {
		model = DefaultOpenRouterModel
	}
	return OpenRouter{
		client: openrouter.NewClient(apiKey, openrouter.WithXTitle("relaybot")),
		model:  model,
	}
}

func (t OpenRouter) Translate(ctx context.Context, from, to Language, text string) (string, error) {
	source := "the detected language"
	if from != Auto {
		source = from.Name()
	}

	resp, err := t.client.CreateChatCompletion(ctx, openrouter.ChatCompletionRequest{
		Model: t.model,
		Messages: []openrouter.ChatCompletionMessage{
			{
				Role:    openrouter.ChatMessageRoleSystem,
				Content: openrouter.Content{Text: fmt.Sprintf(systemPrompt, source, to.Name())},
			},
			{
				Role:    openrouter.ChatMessageRoleUser,
				Content: openrouter.Content{Text: text},
			},
		},
	})
	if err != nil {
		return "", errors.Join(ErrTranslation, fmt.Errorf("openrouter: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", errors.Join(ErrTranslation, errors.New("openrouter: no choices returned"))
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content.Text)
	if out == "" {
		return "", errors.Join(ErrTranslation, errors.New("openrouter: empty translation"))
	}
	return out, nil
}
