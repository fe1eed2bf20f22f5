package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kursadbilgin/reminder-engine/internal/domain"
)

func TestResendProviderSendSuccess(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody resendEmail

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/emails" {
			t.Errorf("path = %s, want /emails", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"msg-1"}`))
	}))
	defer server.Close()

	p, err := NewResendProvider(server.URL, "test-key", "noreply@example.com", "Reminder System")
	if err != nil {
		t.Fatalf("NewResendProvider() error = %v", err)
	}

	message := domain.EmailMessage{
		ReminderID: 1,
		ClientID:   2,
		ToEmail:    "ann@example.com",
		ToName:     "Ann Kaur",
		Subject:    "GST filing due",
		HTMLBody:   "<p>5 days left</p>",
	}

	resp, err := p.Send(context.Background(), message)
	if err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}

	if resp.MessageID != "msg-1" {
		t.Fatalf("MessageID = %q, want msg-1", resp.MessageID)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("Authorization = %q, want Bearer test-key", gotAuth)
	}
	if gotBody.From != "Reminder System <noreply@example.com>" {
		t.Fatalf("from = %q", gotBody.From)
	}
	if len(gotBody.To) != 1 || gotBody.To[0] != "ann@example.com" {
		t.Fatalf("to = %v", gotBody.To)
	}
	if gotBody.Subject != message.Subject {
		t.Fatalf("subject = %q, want %q", gotBody.Subject, message.Subject)
	}
	if gotBody.HTML != message.HTMLBody {
		t.Fatalf("html = %q, want %q", gotBody.HTML, message.HTMLBody)
	}
}

func TestResendProviderSendBatch(t *testing.T) {
	t.Parallel()

	var gotPayload []resendEmail

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails/batch" {
			t.Errorf("path = %s, want /emails/batch", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":[{"id":"msg-1"},{"id":"msg-2"}]}`))
	}))
	defer server.Close()

	p, err := NewResendProvider(server.URL, "test-key", "noreply@example.com", "")
	if err != nil {
		t.Fatalf("NewResendProvider() error = %v", err)
	}

	messages := []domain.EmailMessage{
		{ToEmail: "a@example.com", Subject: "s1", HTMLBody: "b1"},
		{ToEmail: "b@example.com", Subject: "s2", HTMLBody: "b2"},
	}

	resp, err := p.SendBatch(context.Background(), messages)
	if err != nil {
		t.Fatalf("SendBatch() unexpected error: %v", err)
	}

	if resp.MessageID != "msg-1" {
		t.Fatalf("MessageID = %q, want msg-1", resp.MessageID)
	}
	if len(gotPayload) != 2 {
		t.Fatalf("payload length = %d, want 2", len(gotPayload))
	}
	if gotPayload[0].From != "noreply@example.com" {
		t.Fatalf("from without name = %q, want bare address", gotPayload[0].From)
	}
}

func TestResendProviderStatusClassification(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		statusCode    int
		wantTransient bool
	}{
		{name: "too many requests is transient", statusCode: http.StatusTooManyRequests, wantTransient: true},
		{name: "unprocessable is permanent", statusCode: http.StatusUnprocessableEntity, wantTransient: false},
		{name: "internal server error is transient", statusCode: http.StatusInternalServerError, wantTransient: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
				_, _ = w.Write([]byte("provider failed"))
			}))
			defer server.Close()

			p, err := NewResendProvider(server.URL, "test-key", "noreply@example.com", "")
			if err != nil {
				t.Fatalf("NewResendProvider() error = %v", err)
			}

			_, err = p.SendBatch(context.Background(), []domain.EmailMessage{
				{ToEmail: "a@example.com", Subject: "s", HTMLBody: "b"},
			})
			if err == nil {
				t.Fatal("expected error")
			}

			if got := IsTransient(err); got != tc.wantTransient {
				t.Fatalf("IsTransient() = %v, want %v", got, tc.wantTransient)
			}

			var providerErr *ProviderError
			if !errors.As(err, &providerErr) {
				t.Fatalf("expected ProviderError, got %T", err)
			}
			if providerErr.StatusCode != tc.statusCode {
				t.Fatalf("ProviderError.StatusCode = %d, want %d", providerErr.StatusCode, tc.statusCode)
			}
			if !strings.Contains(providerErr.Error(), "provider failed") {
				t.Fatalf("error %q should surface the response body", providerErr.Error())
			}
		})
	}
}

func TestResendProviderValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewResendProvider("", "", "noreply@example.com", ""); err == nil {
		t.Fatal("missing api key should fail")
	}
	if _, err := NewResendProvider("", "key", "", ""); err == nil {
		t.Fatal("missing sender email should fail")
	}
	if _, err := NewResendProvider("://bad", "key", "noreply@example.com", ""); err == nil {
		t.Fatal("invalid base url should fail")
	}

	p, err := NewResendProvider("", "key", "noreply@example.com", "")
	if err != nil {
		t.Fatalf("NewResendProvider() error = %v", err)
	}
	if p.baseURL != DefaultBaseURL {
		t.Fatalf("baseURL = %q, want %q", p.baseURL, DefaultBaseURL)
	}

	if _, err := p.Send(context.Background(), domain.EmailMessage{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty recipient should fail validation, got %v", err)
	}
	if _, err := p.SendBatch(context.Background(), nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty batch should fail validation, got %v", err)
	}
}
