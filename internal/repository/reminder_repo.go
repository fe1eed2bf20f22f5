package repository

import (
	"context"
	"time"

	"github.com/kursadbilgin/reminder-engine/internal/domain"
	"gorm.io/gorm"
)

type ReminderRepository interface {
	ListByDeadlineOnOrAfter(ctx context.Context, day time.Time) ([]domain.ReminderDefinition, error)
}

type GormReminderRepo struct {
	db *gorm.DB
}

func NewGormReminderRepo(db *gorm.DB) *GormReminderRepo {
	return &GormReminderRepo{db: db}
}

// ListByDeadlineOnOrAfter returns definitions whose deadline is on or after
// the given day. Stale definitions never come back; the selector re-checks
// offset membership on top of this filter.
func (r *GormReminderRepo) ListByDeadlineOnOrAfter(ctx context.Context, day time.Time) ([]domain.ReminderDefinition, error) {
	var models []ReminderModel
	err := r.db.WithContext(ctx).
		Where("deadline >= ?", day.Format("2006-01-02")).
		Order("deadline ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	definitions := make([]domain.ReminderDefinition, 0, len(models))
	for i := range models {
		definitions = append(definitions, *reminderModelToDomain(&models[i]))
	}

	return definitions, nil
}
