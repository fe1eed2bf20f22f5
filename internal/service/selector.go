package service

import (
	"context"
	"errors"
	"time"

	"github.com/kursadbilgin/reminder-engine/internal/domain"
	"github.com/kursadbilgin/reminder-engine/internal/repository"
	"go.uber.org/zap"
)

// DueSelector yields the reminders that fire on a given day.
type DueSelector interface {
	SelectDue(ctx context.Context, today time.Time) []domain.DueReminder
}

// Selector scans reminder definitions and emits one DueReminder per
// definition whose days-until-deadline exactly matches a configured stage
// offset, with receivers expanded to a flat client list and the type/template
// chain resolved.
type Selector struct {
	reminders repository.ReminderRepository
	clients   repository.ClientRepository
	templates repository.TemplateRepository
	logger    *zap.Logger
}

func NewSelector(
	reminders repository.ReminderRepository,
	clients repository.ClientRepository,
	templates repository.TemplateRepository,
	logger *zap.Logger,
) (*Selector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Selector{
		reminders: reminders,
		clients:   clients,
		templates: templates,
		logger:    logger,
	}, nil
}

// SelectDue never returns an error: a failure of the underlying definition
// query degrades to an empty list, and per-definition failures degrade to
// that definition having no receivers or being dropped.
func (s *Selector) SelectDue(ctx context.Context, today time.Time) []domain.DueReminder {
	definitions, err := s.reminders.ListByDeadlineOnOrAfter(ctx, today)
	if err != nil {
		s.logger.Error("failed to fetch reminder definitions", zap.Error(err))
		return nil
	}

	due := make([]domain.DueReminder, 0, len(definitions))
	for i := range definitions {
		definition := definitions[i]

		daysUntil := definition.DaysUntilDeadline(today)
		if daysUntil < 0 {
			// The query already excludes past deadlines; re-checked here so a
			// stale row can never fire.
			continue
		}
		if _, ok := domain.StageIndex(definition.DaysBeforeDeadline, daysUntil); !ok {
			continue
		}

		receivers := s.resolveReceivers(ctx, definition)

		reminderType, err := s.templates.GetReminderType(ctx, definition.ReminderTypeID)
		if err != nil {
			s.logDataGap(definition, "reminder type", err)
			continue
		}

		template, err := s.templates.GetTemplate(ctx, reminderType.EmailTemplateID)
		if err != nil {
			s.logDataGap(definition, "email template", err)
			continue
		}

		due = append(due, domain.DueReminder{
			Definition:       definition,
			ReminderTypeName: reminderType.Name,
			Template:         *template,
			Receivers:        receivers,
		})
	}

	return due
}

func (s *Selector) resolveReceivers(ctx context.Context, definition domain.ReminderDefinition) []domain.Client {
	var clientIDs []int64

	switch definition.ReceiverType {
	case domain.ReceiverGroup:
		ids, err := s.clients.GroupMemberIDs(ctx, definition.ReceiverID)
		if err != nil {
			s.logger.Error("failed to expand client group, treating as empty",
				zap.Int64("reminderId", definition.ReminderID),
				zap.Int64("groupId", definition.ReceiverID),
				zap.Error(err),
			)
			return nil
		}
		clientIDs = ids
	case domain.ReceiverIndividual:
		clientIDs = []int64{definition.ReceiverID}
	default:
		s.logger.Warn("unknown receiver type, treating as empty",
			zap.Int64("reminderId", definition.ReminderID),
			zap.String("receiverType", definition.ReceiverType.String()),
		)
		return nil
	}

	if len(clientIDs) == 0 {
		return nil
	}

	clients, err := s.clients.GetByIDs(ctx, clientIDs)
	if err != nil {
		s.logger.Error("failed to fetch receiver clients, treating as empty",
			zap.Int64("reminderId", definition.ReminderID),
			zap.Error(err),
		)
		return nil
	}

	return clients
}

func (s *Selector) logDataGap(definition domain.ReminderDefinition, what string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("dropping reminder with missing "+what,
			zap.Int64("reminderId", definition.ReminderID),
			zap.Int64("reminderTypeId", definition.ReminderTypeID),
		)
		return
	}
	s.logger.Error("dropping reminder, failed to resolve "+what,
		zap.Int64("reminderId", definition.ReminderID),
		zap.Error(err),
	)
}
