package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/issue/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, issue domain.Issue) error {
	return r.db.WithContext(ctx).Create(&issue).Error
}

func (r *repository) List(ctx context.Context, scope domain.Scope, limit, offset int) ([]domain.Issue, error) {
	var items []domain.Issue
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND product_id = ?", scope.OrgID, scope.ProductID).
		Order("CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

func (r *repository) FindByID(ctx context.Context, scope domain.Scope, id snowflake.ID) (*domain.Issue, error) {
	var issue domain.Issue
	err := r.db.WithContext(ctx).
		First(&issue, "id = ? AND org_id = ? AND product_id = ?", id, scope.OrgID, scope.ProductID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *repository) Update(ctx context.Context, issue *domain.Issue) error {
	return r.db.WithContext(ctx).Save(issue).Error
}

func (r *repository) Delete(ctx context.Context, scope domain.Scope, id snowflake.ID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND org_id = ? AND product_id = ?", id, scope.OrgID, scope.ProductID).
		Delete(&domain.Issue{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
