package repository

import (
	"context"

	"github.com/kursadbilgin/reminder-engine/internal/domain"
	"gorm.io/gorm"
)

type ClientRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Client, error)
	GroupMemberIDs(ctx context.Context, groupID int64) ([]int64, error)
}

type GormClientRepo struct {
	db *gorm.DB
}

func NewGormClientRepo(db *gorm.DB) *GormClientRepo {
	return &GormClientRepo{db: db}
}

// GetByIDs fetches clients by id set. Missing rows are simply absent from the
// result, not an error.
func (r *GormClientRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Client, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []ClientModel
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	clients := make([]domain.Client, 0, len(models))
	for i := range models {
		clients = append(clients, *clientModelToDomain(&models[i]))
	}

	return clients, nil
}

// GroupMemberIDs resolves a client group to its flat member id set. An
// unknown group resolves to an empty set.
func (r *GormClientRepo) GroupMemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&ClientGroupMapModel{}).
		Where("group_id = ?", groupID).
		Pluck("client_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}
