package agent

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Role of a chat message.
type Role string

const (
	// RoleUser marks input from the human.
	RoleUser Role = "user"
	// RoleAssistant marks model output.
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of conversation history.
type ChatMessage struct {
	Role    Role
	Content string
}

// LLM produces a chat completion for a conversation. The backend that
// decides which tools to create or call lives behind this interface;
// the agent only consumes its text.
type LLM interface {
	Chat(ctx context.Context, messages []ChatMessage, system string) (string, error)
}

// OpenAIChat is an LLM backed by the OpenAI chat completions API.
type OpenAIChat struct {
	client *openai.Client
	model  string
}

var _ LLM = (*OpenAIChat)(nil)

// NewOpenAIChat creates an OpenAI-backed LLM. An empty model selects
// gpt-4o-mini.
func NewOpenAIChat(apiKey, model string) (*OpenAIChat, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIChat{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Chat sends the conversation and returns the model's reply text.
func (o *OpenAIChat) Chat(ctx context.Context, messages []ChatMessage, system string) (string, error) {
	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if system != "" {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: chatMessages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "No response generated", nil
	}
	return resp.Choices[0].Message.Content, nil
}
