package repository

import (
	"context"
	"strings"

	"github.com/kursadbilgin/reminder-engine/internal/domain"
	"gorm.io/gorm"
)

type StatusRepository interface {
	// Record appends one status row per client id. The log is append-only;
	// there is no update path.
	Record(ctx context.Context, reminderID int64, clientIDs []int64, status domain.DeliveryStatus, errorMessage string) error
	// CountSent counts prior "sent" rows for a (reminder, client) pair. Rows
	// with other statuses never count toward the stage reached.
	CountSent(ctx context.Context, reminderID, clientID int64) (int, error)
	ListByReminder(ctx context.Context, reminderID int64) ([]domain.DeliveryStatusRecord, error)
}

type GormStatusRepo struct {
	db *gorm.DB
}

func NewGormStatusRepo(db *gorm.DB) *GormStatusRepo {
	return &GormStatusRepo{db: db}
}

func (r *GormStatusRepo) Record(ctx context.Context, reminderID int64, clientIDs []int64, status domain.DeliveryStatus, errorMessage string) error {
	if len(clientIDs) == 0 {
		return nil
	}

	var message *string
	if trimmed := strings.TrimSpace(errorMessage); trimmed != "" {
		message = &errorMessage
	}

	models := make([]DeliveryStatusModel, 0, len(clientIDs))
	for _, clientID := range clientIDs {
		models = append(models, DeliveryStatusModel{
			ReminderID:   reminderID,
			ClientID:     clientID,
			Status:       status.String(),
			ErrorMessage: message,
		})
	}

	return r.db.WithContext(ctx).CreateInBatches(&models, 100).Error
}

func (r *GormStatusRepo) CountSent(ctx context.Context, reminderID, clientID int64) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&DeliveryStatusModel{}).
		Where("reminder_id = ? AND client_id = ? AND status = ?", reminderID, clientID, domain.StatusSent.String()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *GormStatusRepo) ListByReminder(ctx context.Context, reminderID int64) ([]domain.DeliveryStatusRecord, error) {
	var models []DeliveryStatusModel
	err := r.db.WithContext(ctx).
		Where("reminder_id = ?", reminderID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	records := make([]domain.DeliveryStatusRecord, 0, len(models))
	for i := range models {
		records = append(records, *statusRecordToDomain(&models[i]))
	}

	return records, nil
}
