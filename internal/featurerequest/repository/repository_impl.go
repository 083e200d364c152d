package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/featurerequest/domain"
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

func (r *repository) Create(ctx context.Context, request domain.FeatureRequest) error {
	return r.db.WithContext(ctx).Create(&request).Error
}

func (r *repository) List(ctx context.Context, scope domain.Scope, limit, offset int) ([]domain.FeatureRequest, error) {
	var items []domain.FeatureRequest
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND product_id = ?", scope.OrgID, scope.ProductID).
		Order("votes_count DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindByID(ctx context.Context, scope domain.Scope, id snowflake.ID) (*domain.FeatureRequest, error) {
	var request domain.FeatureRequest
	err := r.db.WithContext(ctx).
		Where("id = ? AND org_id = ? AND product_id = ?", id, scope.OrgID, scope.ProductID).
		First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) FindByIDInOrg(ctx context.Context, orgID, id snowflake.ID) (*domain.FeatureRequest, error) {
	var request domain.FeatureRequest
	err := r.db.WithContext(ctx).
		Where("id = ? AND org_id = ?", id, orgID).
		First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) Update(ctx context.Context, request *domain.FeatureRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *repository) Delete(ctx context.Context, scope domain.Scope, id snowflake.ID) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.
			Where("id = ? AND org_id = ? AND product_id = ?", id, scope.OrgID, scope.ProductID).
			Delete(&domain.FeatureRequest{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		if !deleted {
			return nil
		}
		// votes have no value without their request
		return tx.
			Where("feature_request_id = ?", id).
			Delete(&domain.FeatureRequestVote{}).Error
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (r *repository) FindVote(ctx context.Context, userID, featureRequestID snowflake.ID) (*domain.FeatureRequestVote, error) {
	var vote domain.FeatureRequestVote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND feature_request_id = ?", userID, featureRequestID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

func (r *repository) CreateVote(ctx context.Context, vote domain.FeatureRequestVote) error {
	return r.db.WithContext(ctx).Create(&vote).Error
}

func (r *repository) UpdateVote(ctx context.Context, vote *domain.FeatureRequestVote) error {
	return r.db.WithContext(ctx).Save(vote).Error
}

func (r *repository) ListVotesByUser(ctx context.Context, userID, orgID snowflake.ID) ([]domain.FeatureRequestVote, error) {
	var votes []domain.FeatureRequestVote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND org_id = ?", userID, orgID).
		Order("updated_at DESC").
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}

func (r *repository) RecountVotes(ctx context.Context, featureRequestID snowflake.ID) error {
	return r.db.WithContext(ctx).
		Model(&domain.FeatureRequest{}).
		Where("id = ?", featureRequestID).
		UpdateColumn("votes_count", gorm.Expr(
			"(SELECT COALESCE(SUM(vote), 0) FROM feature_request_votes WHERE feature_request_id = ?)",
			featureRequestID,
		)).Error
}
