package repository

import (
	"context"
	"errors"

	"github.com/kursadbilgin/reminder-engine/internal/domain"
	"gorm.io/gorm"
)

type TemplateRepository interface {
	GetReminderType(ctx context.Context, reminderTypeID int64) (*domain.ReminderType, error)
	GetTemplate(ctx context.Context, templateID int64) (*domain.EmailTemplate, error)
}

type GormTemplateRepo struct {
	db *gorm.DB
}

func NewGormTemplateRepo(db *gorm.DB) *GormTemplateRepo {
	return &GormTemplateRepo{db: db}
}

func (r *GormTemplateRepo) GetReminderType(ctx context.Context, reminderTypeID int64) (*domain.ReminderType, error) {
	var model ReminderTypeModel
	err := r.db.WithContext(ctx).First(&model, "reminder_type_id = ?", reminderTypeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return reminderTypeModelToDomain(&model), nil
}

func (r *GormTemplateRepo) GetTemplate(ctx context.Context, templateID int64) (*domain.EmailTemplate, error) {
	var model EmailTemplateModel
	err := r.db.WithContext(ctx).First(&model, "template_id = ?", templateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return templateModelToDomain(&model), nil
}
