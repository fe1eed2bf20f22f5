package repository

import (
	"context"

	"gorm.io/gorm"
)

type SuppressionRepository interface {
	// IsBlocklisted reports whether any blocklist row exists for the client.
	// Blocklisting is global: it suppresses every reminder.
	IsBlocklisted(ctx context.Context, clientID int64) (bool, error)
	// IsUnsubscribed reports whether the client opted out of this exact
	// reminder.
	IsUnsubscribed(ctx context.Context, reminderID, clientID int64) (bool, error)
}

type GormSuppressionRepo struct {
	db *gorm.DB
}

func NewGormSuppressionRepo(db *gorm.DB) *GormSuppressionRepo {
	return &GormSuppressionRepo{db: db}
}

func (r *GormSuppressionRepo) IsBlocklisted(ctx context.Context, clientID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&BlocklistModel{}).
		Where("client_id = ?", clientID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormSuppressionRepo) IsUnsubscribed(ctx context.Context, reminderID, clientID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&UnsubscribeModel{}).
		Where("reminder_id = ? AND client_id = ?", reminderID, clientID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
