package service

import (
	"context"
	"time"

	"github.com/kursadbilgin/reminder-engine/internal/domain"
	"github.com/kursadbilgin/reminder-engine/internal/observability"
	"github.com/kursadbilgin/reminder-engine/internal/provider"
	"github.com/kursadbilgin/reminder-engine/internal/ratelimit"
	"github.com/kursadbilgin/reminder-engine/internal/repository"
	"go.uber.org/zap"
)

const (
	defaultEmailBatchSize = 100
	emailChannel          = "email"

	reasonNoEmail      = "No email address"
	reasonBlocklisted  = "Client in blocklist"
	reasonUnsubscribed = "Client unsubscribed"
)

// TemplateRenderer personalizes one template string against a field map.
type TemplateRenderer interface {
	Render(template string, fields map[string]any) (string, error)
}

// FieldMapper builds the template variables for one (reminder, client) pair.
type FieldMapper func(due domain.DueReminder, client domain.Client, daysUntilDeadline int) map[string]any

// Dispatcher is the top-level driver of one run: it pulls due reminders,
// filters each receiver through suppression, renders content, submits
// fixed-size batches to the mail provider, and records per-recipient status.
//
// Counters are per recipient: a successful batch of N emails adds N to the
// success count, and a failed batch adds N to the error count.
type Dispatcher struct {
	selector  DueSelector
	evaluator OutcomeEvaluator
	statuses  repository.StatusRepository
	provider  provider.Provider
	renderer  TemplateRenderer
	fields    FieldMapper
	limiter   ratelimit.RateLimiter
	logger    *zap.Logger
	metrics   *observability.Metrics
	batchSize int
	now       func() time.Time
}

func NewDispatcher(
	selector DueSelector,
	evaluator OutcomeEvaluator,
	statuses repository.StatusRepository,
	mailProvider provider.Provider,
	renderer TemplateRenderer,
	fields FieldMapper,
	limiter ratelimit.RateLimiter,
	batchSize int,
	logger *zap.Logger,
) (*Dispatcher, error) {
	if batchSize < 1 {
		batchSize = defaultEmailBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		selector:  selector,
		evaluator: evaluator,
		statuses:  statuses,
		provider:  mailProvider,
		renderer:  renderer,
		fields:    fields,
		limiter:   limiter,
		logger:    logger,
		batchSize: batchSize,
		now:       time.Now,
	}, nil
}

func (d *Dispatcher) SetMetrics(metrics *observability.Metrics) {
	if d == nil {
		return
	}
	d.metrics = metrics
}

// ProcessReminders runs one full selection and dispatch pass for the given
// day and returns per-recipient success and error counts. It never returns
// an error: every failure below configuration level is contained, recorded
// where a recipient is implicated, and counted.
func (d *Dispatcher) ProcessReminders(ctx context.Context, today time.Time) (successCount, errorCount int) {
	if ctx == nil {
		ctx = context.Background()
	}

	dueReminders := d.selector.SelectDue(ctx, today)
	d.logger.Info("selected due reminders", zap.Int("count", len(dueReminders)))
	if d.metrics != nil {
		d.metrics.AddRemindersDue(len(dueReminders))
	}

	var pending []domain.EmailMessage
	for i := range dueReminders {
		due := dueReminders[i]
		enqueued, errored := d.collectMessages(ctx, due, today)
		pending = append(pending, enqueued...)
		errorCount += errored
	}

	for _, batch := range chunkMessages(pending, d.batchSize) {
		sent, errored := d.dispatchBatch(ctx, batch)
		successCount += sent
		errorCount += errored
	}

	d.logger.Info("reminder processing completed",
		zap.Int("successCount", successCount),
		zap.Int("errorCount", errorCount),
	)

	return successCount, errorCount
}

// collectMessages evaluates every receiver of one due reminder and returns
// the personalized messages to enqueue plus the number of recipient-level
// errors recorded along the way.
func (d *Dispatcher) collectMessages(ctx context.Context, due domain.DueReminder, today time.Time) ([]domain.EmailMessage, int) {
	reminderID := due.Definition.ReminderID
	daysUntil := due.Definition.DaysUntilDeadline(today)

	var messages []domain.EmailMessage
	var errored int

	for _, client := range due.Receivers {
		outcome := d.evaluator.Evaluate(ctx, client, due, daysUntil)

		switch outcome {
		case domain.OutcomeAllow:
			// handled below

		case domain.OutcomeNoEmail:
			d.recordStatus(ctx, reminderID, []int64{client.ID}, domain.StatusError, reasonNoEmail)
			d.countSuppressed(outcome)
			errored++
			continue

		case domain.OutcomeBlocklisted:
			d.recordStatus(ctx, reminderID, []int64{client.ID}, domain.StatusBlocked, reasonBlocklisted)
			d.countSuppressed(outcome)
			d.logger.Info("client is blocklisted, skipping",
				zap.Int64("reminderId", reminderID),
				zap.Int64("clientId", client.ID),
			)
			continue

		case domain.OutcomeUnsubscribed:
			d.recordStatus(ctx, reminderID, []int64{client.ID}, domain.StatusUnsubscribed, reasonUnsubscribed)
			d.countSuppressed(outcome)
			d.logger.Info("client unsubscribed from reminder",
				zap.Int64("reminderId", reminderID),
				zap.Int64("clientId", client.ID),
			)
			continue

		case domain.OutcomeAlreadySent:
			// Nothing changed for this recipient; no status row.
			d.countSuppressed(outcome)
			d.logger.Info("reminder stage already sent to client",
				zap.Int64("reminderId", reminderID),
				zap.Int64("clientId", client.ID),
			)
			continue

		default:
			// Inconclusive checks fail closed without a status row.
			d.countSuppressed(outcome)
			continue
		}

		fields := d.fields(due, client, daysUntil)

		subject, err := d.renderer.Render(due.Template.Subject, fields)
		if err != nil {
			d.recordStatus(ctx, reminderID, []int64{client.ID}, domain.StatusError, err.Error())
			errored++
			d.logger.Error("failed to render subject",
				zap.Int64("reminderId", reminderID),
				zap.Int64("clientId", client.ID),
				zap.Error(err),
			)
			continue
		}

		body, err := d.renderer.Render(due.Template.Body, fields)
		if err != nil {
			d.recordStatus(ctx, reminderID, []int64{client.ID}, domain.StatusError, err.Error())
			errored++
			d.logger.Error("failed to render body",
				zap.Int64("reminderId", reminderID),
				zap.Int64("clientId", client.ID),
				zap.Error(err),
			)
			continue
		}

		messages = append(messages, domain.EmailMessage{
			ReminderID: reminderID,
			ClientID:   client.ID,
			ToEmail:    client.Email,
			ToName:     client.FullName(),
			Subject:    subject,
			HTMLBody:   body,
		})
	}

	return messages, errored
}

// dispatchBatch submits one batch and records the outcome for every
// recipient in it. A send failure never aborts the run; it becomes error
// rows and an error count for exactly the recipients in the batch.
func (d *Dispatcher) dispatchBatch(ctx context.Context, batch []domain.EmailMessage) (successCount, errorCount int) {
	if len(batch) == 0 {
		return 0, 0
	}

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx, emailChannel); err != nil {
			d.logger.Warn("rate limiter wait failed, attempting send anyway", zap.Error(err))
		}
	}

	sendStart := d.now()
	_, err := d.provider.SendBatch(ctx, batch)
	if d.metrics != nil {
		d.metrics.ObserveBatchSendDuration(d.now().Sub(sendStart))
	}

	if err != nil {
		for reminderID, clientIDs := range groupByReminder(batch) {
			d.recordStatus(ctx, reminderID, clientIDs, domain.StatusError, err.Error())
		}
		if d.metrics != nil {
			d.metrics.AddEmailsFailed("send_failed", len(batch))
		}
		d.logger.Error("batch send failed",
			zap.Int("batchSize", len(batch)),
			zap.Error(err),
		)
		return 0, len(batch)
	}

	for reminderID, clientIDs := range groupByReminder(batch) {
		d.recordStatus(ctx, reminderID, clientIDs, domain.StatusSent, "")
	}
	if d.metrics != nil {
		d.metrics.AddEmailsSent(len(batch))
	}
	d.logger.Info("batch sent", zap.Int("batchSize", len(batch)))

	return len(batch), 0
}

func (d *Dispatcher) recordStatus(ctx context.Context, reminderID int64, clientIDs []int64, status domain.DeliveryStatus, message string) {
	if err := d.statuses.Record(ctx, reminderID, clientIDs, status, message); err != nil {
		d.logger.Error("failed to record delivery status",
			zap.Int64("reminderId", reminderID),
			zap.Int64s("clientIds", clientIDs),
			zap.String("status", status.String()),
			zap.Error(err),
		)
	}
}

func (d *Dispatcher) countSuppressed(outcome domain.SuppressionOutcome) {
	if d.metrics != nil {
		d.metrics.IncSuppressed(outcome.String())
	}
}

// chunkMessages splits pending messages into fixed-size batches, preserving
// order. The final batch holds the remainder.
func chunkMessages(messages []domain.EmailMessage, size int) [][]domain.EmailMessage {
	if size < 1 || len(messages) == 0 {
		return nil
	}

	chunks := make([][]domain.EmailMessage, 0, (len(messages)+size-1)/size)
	for start := 0; start < len(messages); start += size {
		end := min(start+size, len(messages))
		chunks = append(chunks, messages[start:end])
	}

	return chunks
}

func groupByReminder(batch []domain.EmailMessage) map[int64][]int64 {
	grouped := make(map[int64][]int64)
	for _, message := range batch {
		grouped[message.ReminderID] = append(grouped[message.ReminderID], message.ClientID)
	}
	return grouped
}
