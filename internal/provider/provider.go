package provider

import (
	"context"

	"github.com/kursadbilgin/reminder-engine/internal/domain"
)

// Provider is the outbound email delivery port.
type Provider interface {
	Send(ctx context.Context, message domain.EmailMessage) (*ProviderResponse, error)
	SendBatch(ctx context.Context, messages []domain.EmailMessage) (*ProviderResponse, error)
}

// ProviderResponse stores provider call metadata for audit and logging.
type ProviderResponse struct {
	StatusCode int
	Body       string
	MessageID  string
}
