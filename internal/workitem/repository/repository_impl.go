package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/workitem/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, item domain.WorkItem) error {
	return r.db.WithContext(ctx).Create(&item).Error
}

func (r *repository) List(ctx context.Context, scope domain.Scope, limit, offset int) ([]domain.WorkItem, error) {
	var items []domain.WorkItem
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND product_id = ?", scope.OrgID, scope.ProductID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

func (r *repository) FindByID(ctx context.Context, scope domain.Scope, id snowflake.ID) (*domain.WorkItem, error) {
	var item domain.WorkItem
	err := r.db.WithContext(ctx).
		First(&item, "id = ? AND org_id = ? AND product_id = ?", id, scope.OrgID, scope.ProductID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) Update(ctx context.Context, item *domain.WorkItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repository) Delete(ctx context.Context, scope domain.Scope, id snowflake.ID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND org_id = ? AND product_id = ?", id, scope.OrgID, scope.ProductID).
		Delete(&domain.WorkItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
