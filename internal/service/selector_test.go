package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kursadbilgin/reminder-engine/internal/domain"
)

var testToday = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func testDefinition(id int64, deadline time.Time) domain.ReminderDefinition {
	return domain.ReminderDefinition{
		ReminderID:         id,
		ReminderTypeID:     4,
		Deadline:           deadline,
		DaysBeforeDeadline: []int{30, 14, 3, 0},
		ReceiverType:       domain.ReceiverIndividual,
		ReceiverID:         7,
	}
}

func testSelectorDeps() (*fakeReminderRepo, *fakeClientRepo, *fakeTemplateRepo) {
	reminders := &fakeReminderRepo{}
	clients := &fakeClientRepo{
		getByIDsFn: func(ctx context.Context, ids []int64) ([]domain.Client, error) {
			result := make([]domain.Client, 0, len(ids))
			for _, id := range ids {
				result = append(result, domain.Client{ID: id, FirstName: "Client", Email: "client@example.com"})
			}
			return result, nil
		},
	}
	templates := &fakeTemplateRepo{
		getReminderTypeFn: func(ctx context.Context, reminderTypeID int64) (*domain.ReminderType, error) {
			return &domain.ReminderType{ReminderTypeID: reminderTypeID, EmailTemplateID: 9, Name: "gst_filing"}, nil
		},
		getTemplateFn: func(ctx context.Context, templateID int64) (*domain.EmailTemplate, error) {
			return &domain.EmailTemplate{TemplateID: templateID, Subject: "s", Body: "b", Name: "gst"}, nil
		},
	}
	return reminders, clients, templates
}

func TestSelectorDueOnExactOffsetOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		daysOut int
		wantDue bool
	}{
		{name: "largest offset", daysOut: 30, wantDue: true},
		{name: "just outside largest", daysOut: 31, wantDue: false},
		{name: "middle offset", daysOut: 14, wantDue: true},
		{name: "between offsets", daysOut: 15, wantDue: false},
		{name: "deadline day", daysOut: 0, wantDue: true},
		{name: "just inside smallest", daysOut: 1, wantDue: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reminders, clients, templates := testSelectorDeps()
			reminders.listFn = func(ctx context.Context, day time.Time) ([]domain.ReminderDefinition, error) {
				return []domain.ReminderDefinition{
					testDefinition(1, testToday.AddDate(0, 0, tt.daysOut)),
				}, nil
			}

			selector, err := NewSelector(reminders, clients, templates, nil)
			if err != nil {
				t.Fatalf("NewSelector() error = %v", err)
			}

			due := selector.SelectDue(context.Background(), testToday)
			if got := len(due) == 1; got != tt.wantDue {
				t.Fatalf("due = %v, want %v (days out %d)", got, tt.wantDue, tt.daysOut)
			}
		})
	}
}

func TestSelectorExcludesPastDeadline(t *testing.T) {
	t.Parallel()

	reminders, clients, templates := testSelectorDeps()
	// A stale row slipping past the query filter must still be excluded.
	reminders.listFn = func(ctx context.Context, day time.Time) ([]domain.ReminderDefinition, error) {
		def := testDefinition(1, testToday.AddDate(0, 0, -3))
		return []domain.ReminderDefinition{def}, nil
	}

	selector, err := NewSelector(reminders, clients, templates, nil)
	if err != nil {
		t.Fatalf("NewSelector() error = %v", err)
	}

	if due := selector.SelectDue(context.Background(), testToday); len(due) != 0 {
		t.Fatalf("past-deadline definition selected: %v", due)
	}
}

func TestSelectorExpandsGroupReceivers(t *testing.T) {
	t.Parallel()

	reminders, clients, templates := testSelectorDeps()
	reminders.listFn = func(ctx context.Context, day time.Time) ([]domain.ReminderDefinition, error) {
		def := testDefinition(1, testToday.AddDate(0, 0, 14))
		def.ReceiverType = domain.ReceiverGroup
		def.ReceiverID = 42
		return []domain.ReminderDefinition{def}, nil
	}
	clients.groupMemberIDsFn = func(ctx context.Context, groupID int64) ([]int64, error) {
		if groupID != 42 {
			t.Fatalf("groupID = %d, want 42", groupID)
		}
		return []int64{101, 102, 103}, nil
	}

	selector, err := NewSelector(reminders, clients, templates, nil)
	if err != nil {
		t.Fatalf("NewSelector() error = %v", err)
	}

	due := selector.SelectDue(context.Background(), testToday)
	if len(due) != 1 {
		t.Fatalf("due count = %d, want 1", len(due))
	}
	if len(due[0].Receivers) != 3 {
		t.Fatalf("receivers = %d, want 3", len(due[0].Receivers))
	}
	if due[0].ReminderTypeName != "gst_filing" {
		t.Fatalf("type name = %q, want gst_filing", due[0].ReminderTypeName)
	}
}

func TestSelectorIndividualReceiverIsSingleton(t *testing.T) {
	t.Parallel()

	reminders, clients, templates := testSelectorDeps()
	reminders.listFn = func(ctx context.Context, day time.Time) ([]domain.ReminderDefinition, error) {
		return []domain.ReminderDefinition{testDefinition(1, testToday.AddDate(0, 0, 3))}, nil
	}

	var requestedIDs []int64
	baseGet := clients.getByIDsFn
	clients.getByIDsFn = func(ctx context.Context, ids []int64) ([]domain.Client, error) {
		requestedIDs = ids
		return baseGet(ctx, ids)
	}

	selector, err := NewSelector(reminders, clients, templates, nil)
	if err != nil {
		t.Fatalf("NewSelector() error = %v", err)
	}

	due := selector.SelectDue(context.Background(), testToday)
	if len(due) != 1 || len(due[0].Receivers) != 1 {
		t.Fatalf("due = %v, want a single reminder with one receiver", due)
	}
	if len(requestedIDs) != 1 || requestedIDs[0] != 7 {
		t.Fatalf("requested ids = %v, want [7]", requestedIDs)
	}
}

func TestSelectorDropsDefinitionOnMissingTypeOrTemplate(t *testing.T) {
	t.Parallel()

	t.Run("missing reminder type", func(t *testing.T) {
		t.Parallel()

		reminders, clients, templates := testSelectorDeps()
		reminders.listFn = func(ctx context.Context, day time.Time) ([]domain.ReminderDefinition, error) {
			return []domain.ReminderDefinition{testDefinition(1, testToday.AddDate(0, 0, 3))}, nil
		}
		templates.getReminderTypeFn = func(ctx context.Context, reminderTypeID int64) (*domain.ReminderType, error) {
			return nil, domain.ErrNotFound
		}

		selector, err := NewSelector(reminders, clients, templates, nil)
		if err != nil {
			t.Fatalf("NewSelector() error = %v", err)
		}

		if due := selector.SelectDue(context.Background(), testToday); len(due) != 0 {
			t.Fatalf("definition with missing type should be dropped, got %v", due)
		}
	})

	t.Run("missing template", func(t *testing.T) {
		t.Parallel()

		reminders, clients, templates := testSelectorDeps()
		reminders.listFn = func(ctx context.Context, day time.Time) ([]domain.ReminderDefinition, error) {
			return []domain.ReminderDefinition{testDefinition(1, testToday.AddDate(0, 0, 3))}, nil
		}
		templates.getTemplateFn = func(ctx context.Context, templateID int64) (*domain.EmailTemplate, error) {
			return nil, domain.ErrNotFound
		}

		selector, err := NewSelector(reminders, clients, templates, nil)
		if err != nil {
			t.Fatalf("NewSelector() error = %v", err)
		}

		if due := selector.SelectDue(context.Background(), testToday); len(due) != 0 {
			t.Fatalf("definition with missing template should be dropped, got %v", due)
		}
	})
}

func TestSelectorGroupExpansionFailureDegradesToEmptyReceivers(t *testing.T) {
	t.Parallel()

	reminders, clients, templates := testSelectorDeps()
	reminders.listFn = func(ctx context.Context, day time.Time) ([]domain.ReminderDefinition, error) {
		broken := testDefinition(1, testToday.AddDate(0, 0, 14))
		broken.ReceiverType = domain.ReceiverGroup
		broken.ReceiverID = 42
		healthy := testDefinition(2, testToday.AddDate(0, 0, 3))
		return []domain.ReminderDefinition{broken, healthy}, nil
	}
	clients.groupMemberIDsFn = func(ctx context.Context, groupID int64) ([]int64, error) {
		return nil, errors.New("connection reset")
	}

	selector, err := NewSelector(reminders, clients, templates, nil)
	if err != nil {
		t.Fatalf("NewSelector() error = %v", err)
	}

	due := selector.SelectDue(context.Background(), testToday)
	if len(due) != 2 {
		t.Fatalf("due count = %d, want 2", len(due))
	}
	if len(due[0].Receivers) != 0 {
		t.Fatalf("broken group should yield no receivers, got %d", len(due[0].Receivers))
	}
	if len(due[1].Receivers) != 1 {
		t.Fatalf("healthy definition should keep its receiver, got %d", len(due[1].Receivers))
	}
}

func TestSelectorCatastrophicFetchFailureReturnsEmpty(t *testing.T) {
	t.Parallel()

	reminders, clients, templates := testSelectorDeps()
	reminders.listFn = func(ctx context.Context, day time.Time) ([]domain.ReminderDefinition, error) {
		return nil, errors.New("database unavailable")
	}

	selector, err := NewSelector(reminders, clients, templates, nil)
	if err != nil {
		t.Fatalf("NewSelector() error = %v", err)
	}

	if due := selector.SelectDue(context.Background(), testToday); len(due) != 0 {
		t.Fatalf("catastrophic failure should yield empty list, got %v", due)
	}
}

type fakeReminderRepo struct {
	listFn func(ctx context.Context, day time.Time) ([]domain.ReminderDefinition, error)
}

func (f *fakeReminderRepo) ListByDeadlineOnOrAfter(ctx context.Context, day time.Time) ([]domain.ReminderDefinition, error) {
	if f.listFn != nil {
		return f.listFn(ctx, day)
	}
	return nil, nil
}

type fakeClientRepo struct {
	getByIDsFn       func(ctx context.Context, ids []int64) ([]domain.Client, error)
	groupMemberIDsFn func(ctx context.Context, groupID int64) ([]int64, error)
}

func (f *fakeClientRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Client, error) {
	if f.getByIDsFn != nil {
		return f.getByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (f *fakeClientRepo) GroupMemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	if f.groupMemberIDsFn != nil {
		return f.groupMemberIDsFn(ctx, groupID)
	}
	return nil, nil
}

type fakeTemplateRepo struct {
	getReminderTypeFn func(ctx context.Context, reminderTypeID int64) (*domain.ReminderType, error)
	getTemplateFn     func(ctx context.Context, templateID int64) (*domain.EmailTemplate, error)
}

func (f *fakeTemplateRepo) GetReminderType(ctx context.Context, reminderTypeID int64) (*domain.ReminderType, error) {
	if f.getReminderTypeFn != nil {
		return f.getReminderTypeFn(ctx, reminderTypeID)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTemplateRepo) GetTemplate(ctx context.Context, templateID int64) (*domain.EmailTemplate, error) {
	if f.getTemplateFn != nil {
		return f.getTemplateFn(ctx, templateID)
	}
	return nil, domain.ErrNotFound
}
