package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kursadbilgin/reminder-engine/internal/domain"
)

const (
	// DefaultBaseURL is the Resend API endpoint.
	DefaultBaseURL     = "https://api.resend.com"
	defaultSendTimeout = 30 * time.Second
)

type resendEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendSendResponse struct {
	ID string `json:"id"`
}

type resendBatchResponse struct {
	Data []resendSendResponse `json:"data"`
}

// ResendProvider delivers email through the Resend HTTP API. It supports
// single sends and batch sends of up to the API's batch limit; chunking to
// that limit is the caller's job.
type ResendProvider struct {
	client    *resty.Client
	baseURL   string
	fromEmail string
	fromName  string
}

func NewResendProvider(baseURL, apiKey, fromEmail, fromName string) (*ResendProvider, error) {
	client := resty.New()
	client.SetTimeout(defaultSendTimeout)
	client.SetRetryCount(0)

	return NewResendProviderWithClient(baseURL, apiKey, fromEmail, fromName, client)
}

func NewResendProviderWithClient(baseURL, apiKey, fromEmail, fromName string, client *resty.Client) (*ResendProvider, error) {
	trimmedBase := strings.TrimSpace(baseURL)
	if trimmedBase == "" {
		trimmedBase = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(trimmedBase); err != nil {
		return nil, fmt.Errorf("invalid resend base url: %w", err)
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if strings.TrimSpace(fromEmail) == "" {
		return nil, fmt.Errorf("sender email is required")
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(defaultSendTimeout)
	}
	client.SetRetryCount(0)
	client.SetAuthToken(strings.TrimSpace(apiKey))

	return &ResendProvider{
		client:    client,
		baseURL:   strings.TrimRight(trimmedBase, "/"),
		fromEmail: strings.TrimSpace(fromEmail),
		fromName:  strings.TrimSpace(fromName),
	}, nil
}

// From returns the sender identity in "Name <email>" form.
func (p *ResendProvider) From() string {
	if p.fromName == "" {
		return p.fromEmail
	}
	return fmt.Sprintf("%s <%s>", p.fromName, p.fromEmail)
}

func (p *ResendProvider) Send(ctx context.Context, message domain.EmailMessage) (*ProviderResponse, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("provider is not initialized")
	}
	if strings.TrimSpace(message.ToEmail) == "" {
		return nil, fmt.Errorf("%w: recipient email is required", domain.ErrValidation)
	}

	response, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(p.payloadFor(message)).
		Post(p.baseURL + "/emails")

	return p.interpret(response, err, func(body []byte) string {
		var parsed resendSendResponse
		if json.Unmarshal(body, &parsed) == nil {
			return parsed.ID
		}
		return ""
	})
}

func (p *ResendProvider) SendBatch(ctx context.Context, messages []domain.EmailMessage) (*ProviderResponse, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("provider is not initialized")
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: batch must include at least one message", domain.ErrValidation)
	}

	payload := make([]resendEmail, 0, len(messages))
	for _, message := range messages {
		if strings.TrimSpace(message.ToEmail) == "" {
			return nil, fmt.Errorf("%w: recipient email is required", domain.ErrValidation)
		}
		payload = append(payload, p.payloadFor(message))
	}

	response, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(p.baseURL + "/emails/batch")

	return p.interpret(response, err, func(body []byte) string {
		var parsed resendBatchResponse
		if json.Unmarshal(body, &parsed) == nil && len(parsed.Data) > 0 {
			return parsed.Data[0].ID
		}
		return ""
	})
}

func (p *ResendProvider) payloadFor(message domain.EmailMessage) resendEmail {
	return resendEmail{
		From:    p.From(),
		To:      []string{message.ToEmail},
		Subject: message.Subject,
		HTML:    message.HTMLBody,
	}
}

func (p *ResendProvider) interpret(response *resty.Response, err error, messageID func(body []byte) string) (*ProviderResponse, error) {
	if err != nil {
		return nil, &ProviderError{
			Message:   "provider request failed",
			Transient: !errors.Is(err, context.Canceled),
			Cause:     err,
		}
	}
	if response == nil {
		return nil, &ProviderError{
			Message:   "provider returned empty response",
			Transient: true,
		}
	}

	statusCode := response.StatusCode()
	responseBody := strings.TrimSpace(response.String())

	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		return &ProviderResponse{
			StatusCode: statusCode,
			Body:       responseBody,
			MessageID:  messageID(response.Body()),
		}, nil
	}

	return nil, &ProviderError{
		StatusCode: statusCode,
		Message:    providerErrorMessage(statusCode, responseBody),
		Transient:  isTransientHTTPStatus(statusCode),
	}
}

func isTransientHTTPStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || (statusCode >= http.StatusInternalServerError && statusCode <= 599)
}

func providerErrorMessage(statusCode int, body string) string {
	base := fmt.Sprintf("provider returned status %d", statusCode)
	if body == "" {
		return base
	}
	return fmt.Sprintf("%s: %s", base, body)
}
