package domain

import (
	"fmt"
	"strings"
	"time"
)

// ReceiverType says whether a reminder targets one client or a client group.
type ReceiverType string

const (
	ReceiverIndividual ReceiverType = "individual"
	ReceiverGroup      ReceiverType = "group"
)

func (r ReceiverType) String() string { return string(r) }

func (r ReceiverType) IsValid() bool {
	switch r {
	case ReceiverIndividual, ReceiverGroup:
		return true
	}
	return false
}

func ParseReceiverTypeFromString(s string) (ReceiverType, error) {
	rt := ReceiverType(strings.ToLower(strings.TrimSpace(s)))
	if !rt.IsValid() {
		return "", fmt.Errorf("%w: invalid receiver type %q", ErrValidation, s)
	}
	return rt, nil
}

// ReminderDefinition is a configured reminder campaign: a deadline plus an
// ordered list of day offsets before the deadline at which stages fire.
// Definitions are created by configuration and are read-only to the engine.
type ReminderDefinition struct {
	ReminderID     int64
	CreatedAt      time.Time
	ReminderTypeID int64
	Deadline       time.Time
	// DaysBeforeDeadline is the stage schedule. Stage index is the position
	// in this list, in whatever order the definition stores it.
	DaysBeforeDeadline []int
	ReceiverType       ReceiverType
	ReceiverID         int64
}

func (r ReminderDefinition) Validate() error {
	if !r.ReceiverType.IsValid() {
		return fmt.Errorf("%w: invalid receiver type %q", ErrValidation, r.ReceiverType)
	}
	if r.Deadline.IsZero() {
		return fmt.Errorf("%w: deadline is required", ErrValidation)
	}
	if len(r.DaysBeforeDeadline) == 0 {
		return fmt.Errorf("%w: at least one stage offset is required", ErrValidation)
	}
	for _, offset := range r.DaysBeforeDeadline {
		if offset < 0 {
			return fmt.Errorf("%w: stage offset must be non-negative (got %d)", ErrValidation, offset)
		}
	}
	return nil
}

// DaysUntilDeadline returns whole calendar days between today and the
// deadline. Negative when the deadline has passed.
func (r ReminderDefinition) DaysUntilDeadline(today time.Time) int {
	deadline := time.Date(r.Deadline.Year(), r.Deadline.Month(), r.Deadline.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(deadline.Sub(day).Hours() / 24)
}

// ReminderType joins a reminder definition to the email template used for it.
type ReminderType struct {
	ReminderTypeID  int64
	CreatedAt       time.Time
	EmailTemplateID int64
	Name            string
}

// EmailTemplate holds the subject/body with named placeholders.
type EmailTemplate struct {
	TemplateID            int64
	CreatedAt             time.Time
	Subject               string
	Body                  string
	ExternalReferenceInfo string
	Name                  string
	DataReferences        []string
}

// DueReminder is a definition that fires today, bundled with its resolved
// receivers and template. One DueReminder per definition, not per receiver.
type DueReminder struct {
	Definition       ReminderDefinition
	ReminderTypeName string
	Template         EmailTemplate
	Receivers        []Client
}

// EmailMessage is one personalized outbound email.
type EmailMessage struct {
	ReminderID int64
	ClientID   int64
	ToEmail    string
	ToName     string
	Subject    string
	HTMLBody   string
}
