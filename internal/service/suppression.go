package service

import (
	"context"

	"github.com/kursadbilgin/reminder-engine/internal/domain"
	"github.com/kursadbilgin/reminder-engine/internal/repository"
	"go.uber.org/zap"
)

// OutcomeEvaluator decides whether a (client, reminder) pair may be mailed.
type OutcomeEvaluator interface {
	Evaluate(ctx context.Context, client domain.Client, due domain.DueReminder, daysUntilDeadline int) domain.SuppressionOutcome
}

// SuppressionEvaluator runs the layered suppression checks in fixed order:
// no-email, blocklist, unsubscribe, stage-already-sent. The first match wins.
// A failing check is inconclusive and fails closed: the recipient is skipped
// rather than risking a duplicate send.
type SuppressionEvaluator struct {
	suppression repository.SuppressionRepository
	statuses    repository.StatusRepository
	logger      *zap.Logger
}

func NewSuppressionEvaluator(
	suppression repository.SuppressionRepository,
	statuses repository.StatusRepository,
	logger *zap.Logger,
) (*SuppressionEvaluator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SuppressionEvaluator{
		suppression: suppression,
		statuses:    statuses,
		logger:      logger,
	}, nil
}

func (e *SuppressionEvaluator) Evaluate(ctx context.Context, client domain.Client, due domain.DueReminder, daysUntilDeadline int) domain.SuppressionOutcome {
	reminderID := due.Definition.ReminderID

	if !client.HasEmail() {
		return domain.OutcomeNoEmail
	}

	blocked, err := e.suppression.IsBlocklisted(ctx, client.ID)
	if err != nil {
		e.logger.Error("blocklist check failed, skipping recipient",
			zap.Int64("reminderId", reminderID),
			zap.Int64("clientId", client.ID),
			zap.Error(err),
		)
		return domain.OutcomeInconclusive
	}
	if blocked {
		return domain.OutcomeBlocklisted
	}

	unsubscribed, err := e.suppression.IsUnsubscribed(ctx, reminderID, client.ID)
	if err != nil {
		e.logger.Error("unsubscribe check failed, skipping recipient",
			zap.Int64("reminderId", reminderID),
			zap.Int64("clientId", client.ID),
			zap.Error(err),
		)
		return domain.OutcomeInconclusive
	}
	if unsubscribed {
		return domain.OutcomeUnsubscribed
	}

	stageIndex, ok := domain.StageIndex(due.Definition.DaysBeforeDeadline, daysUntilDeadline)
	if !ok {
		// Selection guarantees membership; reaching this means the caller
		// handed us a pair that is not due today.
		e.logger.Error("days until deadline is not a configured stage",
			zap.Int64("reminderId", reminderID),
			zap.Int64("clientId", client.ID),
			zap.Int("daysUntilDeadline", daysUntilDeadline),
		)
		return domain.OutcomeInconclusive
	}

	priorSent, err := e.statuses.CountSent(ctx, reminderID, client.ID)
	if err != nil {
		e.logger.Error("sent count check failed, skipping recipient",
			zap.Int64("reminderId", reminderID),
			zap.Int64("clientId", client.ID),
			zap.Error(err),
		)
		return domain.OutcomeInconclusive
	}
	if domain.StageSatisfied(stageIndex, priorSent) {
		return domain.OutcomeAlreadySent
	}

	return domain.OutcomeAllow
}
