// Package mailing personalizes email templates with reminder and client data
// using the Liquid template language.
package mailing

import (
	"fmt"
	"strconv"

	"github.com/kursadbilgin/reminder-engine/internal/domain"
	"github.com/osteele/liquid"
)

// Renderer renders subject/body templates against a field map. Rendering is
// lax: unknown placeholders come out empty instead of failing the send.
type Renderer struct {
	engine *liquid.Engine
}

func NewRenderer() *Renderer {
	return &Renderer{engine: liquid.NewEngine()}
}

// Render substitutes the field map into a template string. It is pure: the
// bindings map is not mutated and no state is kept between calls.
func (r *Renderer) Render(template string, fields map[string]any) (string, error) {
	if r == nil || r.engine == nil {
		return "", fmt.Errorf("renderer is not initialized")
	}

	out, err := r.engine.ParseAndRenderString(template, liquid.Bindings(fields))
	if err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	return out, nil
}

// FieldMap builds the explicit, enumerated set of template variables for one
// (reminder, client) pair: every reminder field, every client field, and the
// computed days_until_deadline as a string.
func FieldMap(due domain.DueReminder, client domain.Client, daysUntilDeadline int) map[string]any {
	return map[string]any{
		"reminder_id":          due.Definition.ReminderID,
		"reminder_type_id":     due.Definition.ReminderTypeID,
		"reminder_type_name":   due.ReminderTypeName,
		"deadline":             due.Definition.Deadline.Format("2006-01-02"),
		"days_before_deadline": due.Definition.DaysBeforeDeadline,
		"id":                   client.ID,
		"first_name":           client.FirstName,
		"last_name":            client.LastName,
		"middle_name":          client.MiddleName,
		"company_name":         client.CompanyName,
		"company_type":         client.CompanyType,
		"email":                client.Email,
		"mobile":               client.Mobile,
		"gst_no":               client.GSTNo,
		"address":              client.Address,
		"days_until_deadline":  strconv.Itoa(daysUntilDeadline),
	}
}
