package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alidoner/orderbot/internal/menu"
	"github.com/alidoner/orderbot/internal/models"
)

// DefaultOpenAIModel is used when no model is configured
const DefaultOpenAIModel = openai.GPT4oMini

type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIResponder answers consultation questions with a chat completion
type OpenAIResponder struct {
	client chatClient
	model  string
}

// NewOpenAIResponder creates a responder for the given API key.
// baseURL may be empty for the public OpenAI endpoint.
func NewOpenAIResponder(apiKey, model, baseURL string) (*OpenAIResponder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing OpenAI API key")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return newOpenAIResponder(openai.NewClientWithConfig(cfg), model), nil
}

func newOpenAIResponder(client chatClient, model string) *OpenAIResponder {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIResponder{client: client, model: model}
}

// Complete sends the system prompt and chat turns and returns the reply text
func (r *OpenAIResponder) Complete(ctx context.Context, systemPrompt string, turns []models.Turn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, turn := range turns {
		role := openai.ChatMessageRoleUser
		if turn.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Messages:    messages,
		Temperature: 0.4,
	})
	if err != nil {
		return "", NewUpstreamError(UpstreamAI, fmt.Errorf("chat completion: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", NewUpstreamError(UpstreamAI, errors.New("chat completion returned no choices"))
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", NewUpstreamError(UpstreamAI, errors.New("chat completion returned empty content"))
	}
	return reply, nil
}

// BuildSystemPrompt describes the cafe, the menu and the customer's current
// cart. The model is told it cannot change the order.
func BuildSystemPrompt(catalog *menu.Catalog, s *Session, deliveryFee int64) string {
	var b strings.Builder

	b.WriteString("Ты помощник кафе Ali Doner Aktau в WhatsApp.\n")
	b.WriteString("Отвечай дружелюбно и коротко, на языке клиента.\n")
	b.WriteString("Ты не можешь добавлять блюда, менять корзину, адрес или оплату: это делает система. ")
	b.WriteString("Чтобы заказать, клиент пишет название блюда и количество, например \"2 Doner Beef 30 см\". ")
	b.WriteString("Чтобы оформить заказ, клиент пишет \"оформить\".\n\n")

	b.WriteString("Меню:\n")
	for _, item := range catalog.Items() {
		fmt.Fprintf(&b, "- %s: %d₸\n", item.Name, item.Price)
	}
	fmt.Fprintf(&b, "Доставка: %d₸\n\n", deliveryFee)

	if s.Cart.IsEmpty() {
		b.WriteString("Корзина клиента пуста.\n")
	} else {
		b.WriteString("Корзина клиента:\n")
		b.WriteString(renderLines(s.Cart))
		fmt.Fprintf(&b, "\nСумма: %d₸\n", s.Cart.Total())
	}
	fmt.Fprintf(&b, "Этап заказа: %s\n", s.Stage)

	return b.String()
}
