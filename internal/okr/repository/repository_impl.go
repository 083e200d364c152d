package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/okr/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, objective domain.Objective) error {
	return r.db.WithContext(ctx).Create(&objective).Error
}

func (r *repository) List(ctx context.Context, scope domain.Scope, limit, offset int) ([]domain.Objective, error) {
	var items []domain.Objective
	err := r.db.WithContext(ctx).
		Preload("KeyResults").
		Where("org_id = ? AND product_id = ?", scope.OrgID, scope.ProductID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

func (r *repository) FindByID(ctx context.Context, scope domain.Scope, id snowflake.ID) (*domain.Objective, error) {
	var objective domain.Objective
	err := r.db.WithContext(ctx).
		Preload("KeyResults").
		First(&objective, "id = ? AND org_id = ? AND product_id = ?", id, scope.OrgID, scope.ProductID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &objective, nil
}

func (r *repository) Update(ctx context.Context, objective *domain.Objective) error {
	return r.db.WithContext(ctx).Omit("KeyResults").Save(objective).Error
}

func (r *repository) Delete(ctx context.Context, scope domain.Scope, id snowflake.ID) (bool, error) {
	return deleteScoped(r.db.WithContext(ctx), scope, id)
}

func deleteScoped(db *gorm.DB, scope domain.Scope, id snowflake.ID) (bool, error) {
	result := db.
		Where("id = ? AND org_id = ? AND product_id = ?", id, scope.OrgID, scope.ProductID).
		Delete(&domain.Objective{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	// Child rows cascade at the database level; sqlite in tests does not
	// always enforce it, so clean up explicitly.
	if err := db.Where("objective_id = ?", id).Delete(&domain.KeyResult{}).Error; err != nil {
		return false, err
	}
	return true, nil
}
