package domain

import (
	"fmt"
	"strings"
	"time"
)

// DeliveryStatus is the outcome recorded for a (reminder, client) decision.
// Values are stored verbatim in the append-only reminder_status log, so they
// never change casing.
type DeliveryStatus string

const (
	StatusSent         DeliveryStatus = "sent"
	StatusError        DeliveryStatus = "error"
	StatusBlocked      DeliveryStatus = "blocked"
	StatusUnsubscribed DeliveryStatus = "unsubscribed"
)

func (s DeliveryStatus) String() string { return string(s) }

func (s DeliveryStatus) IsValid() bool {
	switch s {
	case StatusSent, StatusError, StatusBlocked, StatusUnsubscribed:
		return true
	}
	return false
}

func ParseDeliveryStatusFromString(s string) (DeliveryStatus, error) {
	st := DeliveryStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid delivery status %q", ErrValidation, s)
	}
	return st, nil
}

// DeliveryStatusRecord is one append-only log entry. Rows are inserted once
// per decision and never updated; the stage a client has reached is derived
// by counting prior "sent" rows for the (reminder, client) pair.
type DeliveryStatusRecord struct {
	RequestID    int64
	CreatedAt    time.Time
	ReminderID   int64
	ClientID     int64
	Status       DeliveryStatus
	ErrorMessage *string
}

// BlocklistEntry suppresses every reminder for a client until removed.
type BlocklistEntry struct {
	BlockID   int64
	CreatedAt time.Time
	ClientID  int64
	Reason    string
}

// UnsubscribeEntry suppresses a single reminder for a single client.
type UnsubscribeEntry struct {
	UnsubscribeID int64
	CreatedAt     time.Time
	ReminderID    int64
	ClientID      int64
	ReasonType    string
	Reason        string
}

// SuppressionOutcome is the result of running a recipient through the
// suppression checks, in check order.
type SuppressionOutcome string

const (
	OutcomeAllow        SuppressionOutcome = "allow"
	OutcomeNoEmail      SuppressionOutcome = "no_email"
	OutcomeBlocklisted  SuppressionOutcome = "blocklisted"
	OutcomeUnsubscribed SuppressionOutcome = "unsubscribed"
	OutcomeAlreadySent  SuppressionOutcome = "already_sent"
	// OutcomeInconclusive means a check itself failed. The recipient is
	// skipped silently rather than risking a duplicate send.
	OutcomeInconclusive SuppressionOutcome = "inconclusive"
)

func (o SuppressionOutcome) String() string { return string(o) }
