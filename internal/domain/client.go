package domain

import (
	"strings"
	"time"
)

// Client is a reminder recipient. Clients are reference data owned by the
// CRM side of the system; the engine only reads them.
type Client struct {
	ID          int64
	CreatedAt   time.Time
	FirstName   string
	LastName    string
	MiddleName  string
	CompanyName string
	CompanyType string
	Email       string
	Mobile      int64
	GSTNo       string
	Address     string
}

// HasEmail reports whether the client can receive email at all.
func (c Client) HasEmail() bool {
	return strings.TrimSpace(c.Email) != ""
}

// FullName joins the name parts, skipping empty ones.
func (c Client) FullName() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{c.FirstName, c.MiddleName, c.LastName} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, strings.TrimSpace(part))
		}
	}
	return strings.Join(parts, " ")
}

// ClientGroup is a named set of clients referenced by group reminders.
type ClientGroup struct {
	GroupID   int64
	CreatedAt time.Time
	GroupCode string
	GroupName string
	Comments  string
}

// Lead is an unconverted contact attached to a client. The engine carries the
// table for the surrounding CRM but never mails leads.
type Lead struct {
	ID               int64
	CreatedAt        time.Time
	Name             string
	IssueDescription string
	Mobile           int64
	Email            string
	ClientID         *int64
}
