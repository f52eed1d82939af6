package services

import (
	"context"

	"github.com/alidoner/orderbot/internal/models"
)

// AIResponder produces consultative replies. It never changes order state.
type AIResponder interface {
	Complete(ctx context.Context, systemPrompt string, turns []models.Turn) (string, error)
}

// Notifier delivers a text message and returns the provider's message id
type Notifier interface {
	Send(ctx context.Context, to, text string) (string, error)
}

// PaymentLinkGenerator returns a payable URL for an amount in tenge
type PaymentLinkGenerator interface {
	CreateLink(ctx context.Context, amount int64) (string, error)
}
