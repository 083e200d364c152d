package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/comment/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, comment domain.Comment) error {
	return r.db.WithContext(ctx).Create(&comment).Error
}

func (r *repository) ListByParent(ctx context.Context, orgID snowflake.ID, parentType domain.ParentType, parentID snowflake.ID, limit, offset int) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND parent_type = ? AND parent_id = ?", orgID, parentType, parentID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *repository) FindOwned(ctx context.Context, orgID, commentID, authorID snowflake.ID) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).
		Where("id = ? AND org_id = ? AND created_by = ?", commentID, orgID, authorID).
		First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *repository) Update(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *repository) DeleteOwned(ctx context.Context, orgID, commentID, authorID snowflake.ID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND org_id = ? AND created_by = ?", commentID, orgID, authorID).
		Delete(&domain.Comment{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ParentExists(ctx context.Context, orgID snowflake.ID, parentType domain.ParentType, parentID snowflake.ID) (bool, error) {
	var count int64
	var err error
	switch parentType {
	case domain.ParentKeyResult:
		// key results carry no org column; scope through their objective
		err = r.db.WithContext(ctx).
			Table("key_results").
			Joins("JOIN objectives ON objectives.id = key_results.objective_id").
			Where("key_results.id = ? AND objectives.org_id = ?", parentID, orgID).
			Count(&count).Error
	case domain.ParentIssue:
		err = r.db.WithContext(ctx).
			Table("issues").
			Where("id = ? AND org_id = ?", parentID, orgID).
			Count(&count).Error
	case domain.ParentFeatureRequest:
		err = r.db.WithContext(ctx).
			Table("feature_requests").
			Where("id = ? AND org_id = ?", parentID, orgID).
			Count(&count).Error
	default:
		return false, domain.ErrInvalidParentType
	}
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
